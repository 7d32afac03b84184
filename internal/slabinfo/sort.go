package slabinfo

import "sort"

// SortKey selects the per-cycle report order of a snapshot. The order is
// purely cosmetic: entities are processed independently and no statistic
// depends on it.
type SortKey int

const (
	// SortActiveObjs orders by active object count, descending. Default.
	SortActiveObjs SortKey = iota
	// SortName orders lexicographically by cache name.
	SortName
	// SortObjSize orders by object size, descending.
	SortObjSize
)

// String returns the flag letter for the key.
func (k SortKey) String() string {
	switch k {
	case SortName:
		return "n"
	case SortObjSize:
		return "s"
	default:
		return "a"
	}
}

// ParseSortKey returns the SortKey matching the given flag value.
// An unrecognized key falls back to SortActiveObjs; that is policy, not an
// error.
func ParseSortKey(s string) SortKey {
	switch s {
	case "n":
		return SortName
	case "s":
		return SortObjSize
	default:
		return SortActiveObjs
	}
}

// Sort stably orders stats in place by the given key.
func Sort(stats []CacheStat, key SortKey) {
	switch key {
	case SortName:
		sort.SliceStable(stats, func(i, j int) bool {
			return stats[i].Name < stats[j].Name
		})
	case SortObjSize:
		sort.SliceStable(stats, func(i, j int) bool {
			return stats[i].ObjSize > stats[j].ObjSize
		})
	default:
		sort.SliceStable(stats, func(i, j int) bool {
			return stats[i].ActiveObjs > stats[j].ActiveObjs
		})
	}
}
