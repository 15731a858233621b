package hostenv

import (
	"context"
	"fmt"

	"golang.org/x/sys/unix"

	"gitlab.com/tinyland/lab/sysmon/monitor"
)

var _ monitor.StorageEstimator = (*StorageProbe)(nil)

// StorageProbe estimates usage and quota of the filesystem holding Path.
type StorageProbe struct {
	Path string

	statfs func(path string, buf *unix.Statfs_t) error
}

// NewStorageProbe creates a StorageProbe for path.
func NewStorageProbe(path string) *StorageProbe {
	if path == "" {
		path = "/"
	}
	return &StorageProbe{Path: path, statfs: unix.Statfs}
}

// Estimate returns used and total bytes of the filesystem.
func (p *StorageProbe) Estimate(ctx context.Context) (monitor.StorageEstimate, error) {
	if err := ctx.Err(); err != nil {
		return monitor.StorageEstimate{}, err
	}

	var st unix.Statfs_t
	if err := p.statfs(p.Path, &st); err != nil {
		return monitor.StorageEstimate{}, fmt.Errorf("hostenv: statfs %s: %w", p.Path, err)
	}

	bsize := uint64(st.Bsize)
	total := st.Blocks * bsize
	free := st.Bfree * bsize
	return monitor.StorageEstimate{Usage: total - free, Quota: total}, nil
}
