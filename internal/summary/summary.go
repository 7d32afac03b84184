// Package summary builds a per-cycle roll-up across all reported caches:
// the distribution of active bytes (DDSketch percentiles), the spread of
// total-horizon Z-scores, and per-horizon trend counts.
package summary

import (
	"github.com/DataDog/sketches-go/ddsketch"
	"gonum.org/v1/gonum/stat"

	"github.com/xtxerr/slabwatch/internal/trend"
)

// Counts tallies trend decisions for one horizon across all caches.
type Counts struct {
	Increasing int
	Decreasing int
	Flat       int
}

// Summary is one cycle's roll-up.
type Summary struct {
	Cycle  int64
	Caches int

	// Active-bytes distribution across caches.
	TotalActiveBytes float64
	P50              float64
	P90              float64
	P99              float64

	// Total-horizon Z-score spread across caches.
	MeanZ   float64
	StdDevZ float64

	// Per-horizon trend tallies, indexed by trend.Horizon.
	Trends [3]Counts
}

// Builder accumulates one cycle's per-cache results.
type Builder struct {
	sketch *ddsketch.DDSketch
	zs     []float64
	total  float64
	caches int
	trends [3]Counts
}

// NewBuilder creates a builder with the given DDSketch relative accuracy.
func NewBuilder(accuracy float64) (*Builder, error) {
	sketch, err := ddsketch.NewDefaultDDSketch(accuracy)
	if err != nil {
		return nil, err
	}
	return &Builder{sketch: sketch}, nil
}

// Add records one cache's active bytes and trend report.
func (b *Builder) Add(activeBytes float64, rep trend.Report) {
	b.caches++
	b.total += activeBytes
	b.sketch.Add(activeBytes)
	b.zs = append(b.zs, rep.Total.Z)

	for _, h := range trend.AllHorizons() {
		res := rep.Result(h)
		switch {
		case res.Increasing:
			b.trends[h].Increasing++
		case res.Decreasing:
			b.trends[h].Decreasing++
		default:
			b.trends[h].Flat++
		}
	}
}

// Build produces the cycle's summary.
func (b *Builder) Build(cycle int64) Summary {
	s := Summary{
		Cycle:            cycle,
		Caches:           b.caches,
		TotalActiveBytes: b.total,
		Trends:           b.trends,
	}

	if b.caches > 0 {
		p50, _ := b.sketch.GetValueAtQuantile(0.50)
		p90, _ := b.sketch.GetValueAtQuantile(0.90)
		p99, _ := b.sketch.GetValueAtQuantile(0.99)
		s.P50 = p50
		s.P90 = p90
		s.P99 = p99

		s.MeanZ = stat.Mean(b.zs, nil)
		if b.caches > 1 {
			s.StdDevZ = stat.StdDev(b.zs, nil)
		}
	}

	return s
}

// LogArgs returns the summary as slog key/value pairs.
func (s Summary) LogArgs() []any {
	return []any{
		"cycle", s.Cycle,
		"caches", s.Caches,
		"active_bytes", s.TotalActiveBytes,
		"p50", s.P50,
		"p90", s.P90,
		"p99", s.P99,
		"mean_z", s.MeanZ,
		"stddev_z", s.StdDevZ,
		"short_increasing", s.Trends[trend.HorizonShort].Increasing,
		"mid_increasing", s.Trends[trend.HorizonMid].Increasing,
		"total_increasing", s.Trends[trend.HorizonTotal].Increasing,
	}
}
