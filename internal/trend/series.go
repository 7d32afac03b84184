package trend

// Horizon identifies one of the three retention windows tracked per cache.
type Horizon int

const (
	// HorizonTotal covers the whole run. It is unbounded unless a history
	// cap is configured.
	HorizonTotal Horizon = iota
	// HorizonMid covers the last hour.
	HorizonMid
	// HorizonShort covers the last 15 minutes.
	HorizonShort

	numHorizons = 3
)

// String returns a human-readable representation of the Horizon.
func (h Horizon) String() string {
	switch h {
	case HorizonTotal:
		return "total"
	case HorizonMid:
		return "mid"
	case HorizonShort:
		return "short"
	default:
		return "unknown"
	}
}

// AllHorizons returns the horizons in report order.
func AllHorizons() []Horizon {
	return []Horizon{HorizonTotal, HorizonMid, HorizonShort}
}

// Sample is one observation of a cache's active memory consumption.
// Immutable once recorded; owned by the entity's series.
type Sample struct {
	// Timestamp in seconds since the first cycle. Cycle timestamps are
	// multiples of the configured delay, so they are strictly increasing
	// within a series.
	Timestamp float64

	// Value is active objects × object size, in bytes.
	Value float64
}
