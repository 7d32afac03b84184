// slabwatch is an interactive inspector for the slabwatchd Parquet archive.
//
// It never touches the daemon's state: all commands are read-only DuckDB
// queries over the archived trend records.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/c-bata/go-prompt"
	"golang.org/x/term"

	appconfig "github.com/xtxerr/slabwatch/config"
	"github.com/xtxerr/slabwatch/internal/archive"
	"github.com/xtxerr/slabwatch/internal/errors"
)

const defaultLimit = 20

var commands = []prompt.Suggest{
	{Text: "top", Description: "caches with the highest short-term Z-score"},
	{Text: "history", Description: "history <cache> [n] - archived cycles for one cache"},
	{Text: "flips", Description: "recent short-term trend flag changes"},
	{Text: "help", Description: "show available commands"},
	{Text: "exit", Description: "leave the inspector"},
}

type inspector struct {
	query *archive.Query
	done  bool
}

func (in *inspector) execute(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch fields[0] {
	case "top":
		in.top(ctx, limitArg(fields, 1))
	case "history":
		if len(fields) < 2 {
			fmt.Println("usage: history <cache> [n]")
			return
		}
		in.history(ctx, fields[1], limitArg(fields, 2))
	case "flips":
		in.flips(ctx, limitArg(fields, 1))
	case "help":
		for _, c := range commands {
			fmt.Printf("  %-10s %s\n", c.Text, c.Description)
		}
	case "exit", "quit":
		in.done = true
	default:
		fmt.Printf("unknown command %q (try help)\n", fields[0])
	}
}

// limitArg parses an optional numeric argument at position i.
func limitArg(fields []string, i int) int {
	if len(fields) > i {
		if n, err := strconv.Atoi(fields[i]); err == nil && n > 0 {
			return n
		}
	}
	return defaultLimit
}

func (in *inspector) top(ctx context.Context, limit int) {
	growers, err := in.query.TopGrowers(ctx, limit)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	if len(growers) == 0 {
		fmt.Println("archive is empty")
		return
	}

	fmt.Printf("%-24s %14s %9s %9s %9s %s\n",
		"CACHE", "ACTIVE BYTES", "Z(TOTAL)", "Z(1H)", "Z(15M)", "TREND")
	for _, g := range growers {
		fmt.Printf("%-24s %14.0f %9.3f %9.3f %9.3f %s\n",
			g.Name, g.ActiveBytes, g.ZTotal, g.ZMid, g.ZShort, yesNo(g.Increasing))
	}
}

func (in *inspector) history(ctx context.Context, name string, limit int) {
	points, err := in.query.History(ctx, name, limit)
	if err != nil {
		if errors.Is(err, errors.ErrCacheNotFound) {
			fmt.Printf("no archived records for %q\n", name)
		} else {
			fmt.Printf("error: %v\n", err)
		}
		return
	}

	fmt.Printf("%-10s %14s %9s %9s %9s %s\n",
		"TIME", "ACTIVE BYTES", "Z(TOTAL)", "Z(1H)", "Z(15M)", "TREND")
	for _, p := range points {
		fmt.Printf("%-10d %14.0f %9.3f %9.3f %9.3f %s\n",
			p.Timestamp, p.ActiveBytes, p.ZTotal, p.ZMid, p.ZShort, yesNo(p.Increasing))
	}
}

func (in *inspector) flips(ctx context.Context, limit int) {
	flips, err := in.query.TrendFlips(ctx, limit)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	if len(flips) == 0 {
		fmt.Println("no trend changes archived")
		return
	}

	for _, f := range flips {
		dir := "cleared"
		if f.Now {
			dir = "raised"
		}
		fmt.Printf("t=%-8d %-24s increasing-trend flag %s\n", f.Timestamp, f.Name, dir)
	}
}

func (in *inspector) complete(d prompt.Document) []prompt.Suggest {
	if strings.Contains(d.TextBeforeCursor(), " ") {
		return nil
	}
	return prompt.FilterHasPrefix(commands, d.GetWordBeforeCursor(), true)
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}

func main() {
	dir := flag.String("archive-dir", appconfig.DefaultArchiveDir, "slabwatchd archive directory")
	flag.Parse()

	q, err := archive.OpenQuery(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer q.Close()

	// go-prompt leaves the terminal raw on some exits; restore it ourselves.
	fd := int(os.Stdin.Fd())
	state, stateErr := term.GetState(fd)
	if stateErr == nil {
		defer term.Restore(fd, state)
	}

	in := &inspector{query: q}
	fmt.Printf("slabwatch inspector (archive: %s), type help\n", *dir)

	p := prompt.New(
		in.execute,
		in.complete,
		prompt.OptionTitle("slabwatch"),
		prompt.OptionPrefix("slabwatch> "),
		prompt.OptionSetExitCheckerOnInput(func(_ string, breakline bool) bool {
			return breakline && in.done
		}),
	)
	p.Run()
}
