package trend

import "testing"

func TestHistogram_ObserveRetire(t *testing.T) {
	h := NewHistogram()

	h.Observe(100)
	h.Observe(100)
	h.Observe(200)

	if got := h.Tied(100); got != 2 {
		t.Errorf("Tied(100) = %d, want 2", got)
	}
	if got := h.Tied(200); got != 1 {
		t.Errorf("Tied(200) = %d, want 1", got)
	}
	if got := h.Count(); got != 3 {
		t.Errorf("Count() = %d, want 3", got)
	}

	h.Retire(100)
	if got := h.Tied(100); got != 1 {
		t.Errorf("Tied(100) after retire = %d, want 1", got)
	}
}

func TestHistogram_ZeroBucketKept(t *testing.T) {
	h := NewHistogram()

	h.Observe(100)
	h.Retire(100)

	if got := h.Tied(100); got != 0 {
		t.Errorf("Tied(100) = %d, want 0", got)
	}
	// The bucket stays even at zero.
	if got := h.Buckets(); got != 1 {
		t.Errorf("Buckets() = %d, want 1", got)
	}
	if got := h.Count(); got != 0 {
		t.Errorf("Count() = %d, want 0", got)
	}
}

func TestHistogram_RetireUnknownValue(t *testing.T) {
	h := NewHistogram()

	// Retiring a never-observed value must not create a negative bucket.
	h.Retire(42)

	if got := h.Tied(42); got != 0 {
		t.Errorf("Tied(42) = %d, want 0", got)
	}
	if got := h.Buckets(); got != 0 {
		t.Errorf("Buckets() = %d, want 0", got)
	}
}

func TestHistogram_TieCorrection(t *testing.T) {
	tests := []struct {
		name   string
		counts map[float64]int
		want   float64
	}{
		{
			name:   "empty",
			counts: nil,
			want:   0,
		},
		{
			name:   "no ties",
			counts: map[float64]int{1: 1, 2: 1, 3: 1},
			want:   0,
		},
		{
			// 3·2·11 = 66
			name:   "one tie group of three",
			counts: map[float64]int{5: 3},
			want:   66,
		},
		{
			// 2·1·9 + 4·3·13 = 18 + 156
			name:   "two tie groups",
			counts: map[float64]int{1: 2, 2: 4, 3: 1},
			want:   174,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHistogram()
			for v, n := range tt.counts {
				for i := 0; i < n; i++ {
					h.Observe(v)
				}
			}

			if got := h.TieCorrection(); got != tt.want {
				t.Errorf("TieCorrection() = %v, want %v", got, tt.want)
			}
		})
	}
}
