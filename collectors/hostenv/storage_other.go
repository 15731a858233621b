//go:build !linux

package hostenv

import (
	"context"

	"gitlab.com/tinyland/lab/sysmon/monitor"
)

var _ monitor.StorageEstimator = (*StorageProbe)(nil)

// StorageProbe is unavailable off Linux.
type StorageProbe struct {
	Path string
}

// NewStorageProbe creates a StorageProbe for path.
func NewStorageProbe(path string) *StorageProbe {
	return &StorageProbe{Path: path}
}

// Estimate always fails with ErrUnsupported.
func (p *StorageProbe) Estimate(context.Context) (monitor.StorageEstimate, error) {
	return monitor.StorageEstimate{}, ErrUnsupported
}
