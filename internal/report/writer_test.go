package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xtxerr/slabwatch/internal/trend"
)

func testRecord() Record {
	return Record{
		Timestamp:  60,
		ActiveObjs: 9000,
		ObjSize:    64,
		Name:       "kmalloc-64",
		Total:      trend.Result{N: 3, S: 3, Variance: 3.667},
		Mid:        trend.Result{N: 3, S: 3, Variance: 3.667},
		Short:      trend.Result{N: 3, S: 3, Variance: 3.667},
	}
}

func TestWriter_HeaderAndRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "SLABLog.txt")

	w, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := w.WriteRecord(testRecord()); err != nil {
		t.Fatalf("WriteRecord: %v", err)
	}
	if err := w.EndCycle(); err != nil {
		t.Fatalf("EndCycle: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")

	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3 (header, record, terminator)", len(lines))
	}
	if !strings.HasPrefix(lines[0], "TIMESTAMP;ACTIVEOBJS;OBJSIZE;SLAB NAME;") {
		t.Errorf("header = %q", lines[0])
	}
	if lines[2] != "----ENDED----" {
		t.Errorf("terminator = %q", lines[2])
	}

	fields := strings.Split(lines[1], ";")
	// 4 identity fields + 7 per horizon × 3 horizons.
	if len(fields) != 25 {
		t.Fatalf("record has %d fields, want 25: %q", len(fields), lines[1])
	}
	if fields[0] != "60" {
		t.Errorf("timestamp field = %q, want 60", fields[0])
	}
	if strings.TrimSpace(fields[3]) != "kmalloc-64" {
		t.Errorf("name field = %q", fields[3])
	}
	if strings.TrimSpace(fields[10]) != "NO" {
		t.Errorf("total trend field = %q, want NO", fields[10])
	}
}

func TestWriter_TrendFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "SLABLog.txt")

	w, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	rec := testRecord()
	rec.Short = trend.Result{N: 30, S: 435, Variance: 3141.67, Z: 7.74, Increasing: true}
	if err := w.WriteRecord(rec); err != nil {
		t.Fatalf("WriteRecord: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	fields := strings.Split(lines[1], ";")

	if strings.TrimSpace(fields[24]) != "YES" {
		t.Errorf("short trend field = %q, want YES", fields[24])
	}
	if strings.TrimSpace(fields[10]) != "NO" {
		t.Errorf("total trend field = %q, want NO", fields[10])
	}
}

func TestWriter_AppendsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "SLABLog.txt")

	for i := 0; i < 2; i++ {
		w, err := Open(path)
		if err != nil {
			t.Fatalf("Open #%d: %v", i, err)
		}
		if err := w.WriteRecord(testRecord()); err != nil {
			t.Fatalf("WriteRecord #%d: %v", i, err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("Close #%d: %v", i, err)
		}
	}

	data, _ := os.ReadFile(path)
	// Each process start writes its own header; nothing is truncated.
	if got := strings.Count(string(data), "TIMESTAMP;"); got != 2 {
		t.Errorf("header count = %d, want 2", got)
	}
}

func TestWriter_ClosedWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "SLABLog.txt")

	w, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if err := w.WriteRecord(testRecord()); err == nil {
		t.Error("WriteRecord on closed writer succeeded")
	}
	if err := w.EndCycle(); err == nil {
		t.Error("EndCycle on closed writer succeeded")
	}
	// Double close is fine.
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}
