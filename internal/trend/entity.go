package trend

// Entity is the trend state for one slab cache: its full sample history,
// the window boundary trackers for the two bounded horizons, and one tie
// histogram per horizon.
//
// The series is stored oldest-first in an indexable slice; midStart and
// shortStart are the indexes of the oldest sample still inside the mid-term
// and short-term windows. Samples behind those indexes have been retired from
// the bounded histograms but remain in the slice for the total horizon.
type Entity struct {
	Name string

	samples []Sample

	midStart   int
	shortStart int

	hist [numHorizons]*Histogram

	midWindow   float64 // seconds
	shortWindow float64 // seconds

	// maxHistory caps the total-horizon length; 0 means unbounded.
	maxHistory int
}

func newEntity(name string, midWindow, shortWindow float64, maxHistory int) *Entity {
	e := &Entity{
		Name:        name,
		midWindow:   midWindow,
		shortWindow: shortWindow,
		maxHistory:  maxHistory,
	}
	for h := range e.hist {
		e.hist[h] = NewHistogram()
	}
	return e
}

// Observe applies one new sample taken at the given timestamp.
//
// Order matters and matches the per-cycle contract: first retire samples that
// have aged out of the bounded horizons, then record the new sample in the
// series and all three histograms. The retirement step loops until the
// boundary sample is back inside the window, so it stays correct when more
// than one sample ages out between cycles (variable or skipped cycles).
func (e *Entity) Observe(timestamp, value float64) {
	for e.midStart < len(e.samples) && e.samples[e.midStart].Timestamp < timestamp-e.midWindow {
		e.hist[HorizonMid].Retire(e.samples[e.midStart].Value)
		e.midStart++
	}
	for e.shortStart < len(e.samples) && e.samples[e.shortStart].Timestamp < timestamp-e.shortWindow {
		e.hist[HorizonShort].Retire(e.samples[e.shortStart].Value)
		e.shortStart++
	}

	for h := range e.hist {
		e.hist[h].Observe(value)
	}
	e.samples = append(e.samples, Sample{Timestamp: timestamp, Value: value})

	e.enforceCap()
}

// enforceCap drops the oldest total-horizon samples when a history cap is
// configured. Only samples already retired from both bounded horizons are
// eligible, so the bounded-window invariants are unaffected.
func (e *Entity) enforceCap() {
	if e.maxHistory <= 0 {
		return
	}
	drop := 0
	for len(e.samples)-drop > e.maxHistory && drop < e.midStart && drop < e.shortStart {
		e.hist[HorizonTotal].Retire(e.samples[drop].Value)
		drop++
	}
	if drop == 0 {
		return
	}
	e.samples = e.samples[drop:]
	e.midStart -= drop
	e.shortStart -= drop
}

// Len returns the number of samples in the total horizon.
func (e *Entity) Len() int {
	return len(e.samples)
}

// Histogram returns the tie histogram for the given horizon.
func (e *Entity) Histogram(h Horizon) *Histogram {
	return e.hist[h]
}

// WindowLen returns the number of samples currently inside the given
// horizon's window, derived from the boundary trackers.
func (e *Entity) WindowLen(h Horizon) int {
	switch h {
	case HorizonMid:
		return len(e.samples) - e.midStart
	case HorizonShort:
		return len(e.samples) - e.shortStart
	default:
		return len(e.samples)
	}
}

// Newest returns the most recent sample. ok is false for an empty series.
func (e *Entity) Newest() (s Sample, ok bool) {
	if len(e.samples) == 0 {
		return Sample{}, false
	}
	return e.samples[len(e.samples)-1], true
}
