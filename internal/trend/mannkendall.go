package trend

import "math"

// Result holds the Mann-Kendall outcome for one horizon of one entity.
type Result struct {
	// N is the number of samples inside the horizon's window.
	N int

	// S is the concordance sum: over all in-window pairs, +1 per
	// value-increasing pair, −1 per decreasing pair, 0 per tie.
	S int64

	// FirstPartVariance is n·(n−1)·(2·n+5); zero when N < 2.
	FirstPartVariance float64

	// SecondPartVariance is the tie-correction term from the horizon's
	// histogram.
	SecondPartVariance float64

	// Variance is (FirstPartVariance − SecondPartVariance)/18; zero when
	// N < 2 (the variance is undefined and no trend can be significant).
	Variance float64

	// Z is the variance-normalized form of S used for the significance test.
	Z float64

	// Increasing reports a statistically significant monotonic increase:
	// |Z| above the critical value with Z > 0.
	Increasing bool

	// Decreasing reports a significant decrease. The report log renders both
	// Decreasing and no-trend as "NO" (the documented two-valued contract);
	// the distinction is only surfaced in the archive and the cycle summary.
	Decreasing bool
}

// Flag renders the increasing-trend decision in the report log's vocabulary.
func (r Result) Flag() string {
	if r.Increasing {
		return "YES"
	}
	return "NO"
}

// Report bundles the per-horizon results for one entity at one cycle.
type Report struct {
	Total Result
	Mid   Result
	Short Result
}

// Result returns the result for the given horizon.
func (r Report) Result(h Horizon) Result {
	switch h {
	case HorizonMid:
		return r.Mid
	case HorizonShort:
		return r.Short
	default:
		return r.Total
	}
}

// Engine computes tie-corrected Mann-Kendall statistics for an entity.
//
// The computation is stateless across cycles: S and the in-window counts are
// rebuilt from the full series every time, which keeps the retention logic
// and the statistic independent at the price of an O(n²) scan per entity.
type Engine struct {
	// CriticalValue is the Z threshold above which a trend is significant.
	CriticalValue float64
}

// NewEngine creates an engine with the given critical value.
func NewEngine(criticalValue float64) *Engine {
	return &Engine{CriticalValue: criticalValue}
}

// Compute produces the per-horizon statistics for the entity as of now
// (seconds, same clock as the sample timestamps).
//
// A single pairwise pass over the entire series accumulates all three S
// values: every pair feeds the total accumulator, and the mid/short
// accumulators when both members are inside the respective window.
func (g *Engine) Compute(e *Entity, now float64) Report {
	midCutoff := now - e.midWindow
	shortCutoff := now - e.shortWindow

	var sTotal, sMid, sShort int64
	var nTotal, nMid, nShort int

	samples := e.samples
	for i := range samples {
		a := &samples[i]
		aMid := a.Timestamp >= midCutoff
		aShort := a.Timestamp >= shortCutoff

		nTotal++
		if aMid {
			nMid++
		}
		if aShort {
			nShort++
		}

		// Pairs (a, b) with b newer than a; sign of the newer minus older.
		for j := i + 1; j < len(samples); j++ {
			b := &samples[j]

			var d int64
			switch {
			case b.Value > a.Value:
				d = 1
			case b.Value < a.Value:
				d = -1
			default:
				continue
			}

			sTotal += d
			if aMid && b.Timestamp >= midCutoff {
				sMid += d
			}
			if aShort && b.Timestamp >= shortCutoff {
				sShort += d
			}
		}
	}

	return Report{
		Total: g.result(nTotal, sTotal, e.hist[HorizonTotal]),
		Mid:   g.result(nMid, sMid, e.hist[HorizonMid]),
		Short: g.result(nShort, sShort, e.hist[HorizonShort]),
	}
}

// result assembles one horizon's Result from its count, S and histogram.
func (g *Engine) result(n int, s int64, hist *Histogram) Result {
	r := Result{
		N:                  n,
		S:                  s,
		SecondPartVariance: hist.TieCorrection(),
	}

	if n > 1 {
		nf := float64(n)
		r.FirstPartVariance = nf * (nf - 1) * (2*nf + 5)
		r.Variance = (r.FirstPartVariance - r.SecondPartVariance) / 18
	}

	// Variance 0 means every in-window value is tied, which forces S == 0;
	// the guard keeps Z finite regardless.
	if r.Variance > 0 {
		switch {
		case s > 0:
			r.Z = float64(s-1) / math.Sqrt(r.Variance)
		case s < 0:
			r.Z = float64(s+1) / math.Sqrt(r.Variance)
		}
	}

	if math.Abs(r.Z) > g.CriticalValue {
		if r.Z > 0 {
			r.Increasing = true
		} else {
			r.Decreasing = true
		}
	}

	return r
}
