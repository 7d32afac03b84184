// Package slabinfo supplies per-cycle snapshots of kernel slab cache
// statistics and the cosmetic ordering applied to them.
//
// The production source reads /proc/slabinfo through prometheus/procfs,
// which requires root (the kernel hides slabinfo from other users). The
// Source interface exists so the monitor can be driven from fixtures in
// tests.
package slabinfo

import (
	"github.com/prometheus/procfs"

	"github.com/xtxerr/slabwatch/internal/errors"
)

// CacheStat is one slab cache's figures from a single snapshot.
type CacheStat struct {
	Name       string
	ObjSize    uint64
	ActiveObjs uint64
}

// ActiveBytes returns the active memory consumed by the cache: the value
// tracked by the trend engine.
func (c CacheStat) ActiveBytes() float64 {
	return float64(c.ActiveObjs) * float64(c.ObjSize)
}

// Source supplies one snapshot of all currently known slab caches per cycle.
type Source interface {
	// Snapshot returns the current per-cache statistics. A returned error
	// is fatal to the monitor run; there is no retry.
	Snapshot() ([]CacheStat, error)
}

// ProcSource reads slab statistics from procfs.
type ProcSource struct {
	fs procfs.FS
}

// NewProcSource creates a source reading from the given procfs mount point
// (normally "/proc").
func NewProcSource(mountPoint string) (*ProcSource, error) {
	fs, err := procfs.NewFS(mountPoint)
	if err != nil {
		return nil, errors.Wrapf(err, "open procfs at %s", mountPoint)
	}
	return &ProcSource{fs: fs}, nil
}

// Snapshot implements Source.
func (p *ProcSource) Snapshot() ([]CacheStat, error) {
	info, err := p.fs.SlabInfo()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCollectionFailed, "read slabinfo: %v", err)
	}

	stats := make([]CacheStat, 0, len(info.Slabs))
	for _, s := range info.Slabs {
		stats = append(stats, CacheStat{
			Name:       s.Name,
			ObjSize:    uint64(s.ObjSize),
			ActiveObjs: uint64(s.ObjActive),
		})
	}
	return stats, nil
}
