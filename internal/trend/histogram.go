package trend

// Histogram counts how many currently-retained samples in one horizon share
// an exact value. It feeds the tie-correction term of the Mann-Kendall
// variance.
//
// Buckets are never deleted: a bucket whose count decays to zero stays in the
// map. With count 0 or 1 it contributes nothing to the correction term.
type Histogram struct {
	buckets map[float64]int
}

// NewHistogram creates an empty histogram.
func NewHistogram() *Histogram {
	return &Histogram{buckets: make(map[float64]int)}
}

// Observe records one retained sample with the given value.
func (h *Histogram) Observe(value float64) {
	h.buckets[value]++
}

// Retire removes one retained sample with the given value. The bucket is kept
// even when its count reaches zero. Retiring a value that was never observed
// is a no-op rather than an underflow.
func (h *Histogram) Retire(value float64) {
	if _, ok := h.buckets[value]; ok {
		h.buckets[value]--
	}
}

// Tied returns the number of retained samples equal to value.
func (h *Histogram) Tied(value float64) int {
	return h.buckets[value]
}

// Count returns the total number of retained samples across all buckets.
func (h *Histogram) Count() int {
	n := 0
	for _, tied := range h.buckets {
		n += tied
	}
	return n
}

// Buckets returns the number of distinct values ever observed, including
// buckets that have decayed to zero.
func (h *Histogram) Buckets() int {
	return len(h.buckets)
}

// TieCorrection returns the tie term of the Mann-Kendall variance:
//
//	Σ over buckets g with tied_g > 1 of tied_g·(tied_g−1)·(2·tied_g+5)
func (h *Histogram) TieCorrection() float64 {
	var sum float64
	for _, tied := range h.buckets {
		if tied > 1 {
			t := float64(tied)
			sum += t * (t - 1) * (2*t + 5)
		}
	}
	return sum
}
