package monitor

import (
	"context"
	"time"
)

// HeapStats is a heap usage/limit pair in bytes.
type HeapStats struct {
	Used  uint64
	Limit uint64
}

// HeapProbe reports heap usage. ok is false when the host cannot
// introspect its heap.
type HeapProbe interface {
	HeapStats() (stats HeapStats, ok bool)
}

// ConnectionInfo describes link quality. Zero fields are unknown.
type ConnectionInfo struct {
	DownlinkMbps  float64
	EffectiveType string
}

// ConnectionProbe reports link quality. ok is false when no quality signal
// is available.
type ConnectionProbe interface {
	Connection() (info ConnectionInfo, ok bool)
}

// ConnectivityProbe reports whether the host is online.
type ConnectivityProbe interface {
	Online() bool
}

// StorageEstimate is a usage/quota pair in bytes.
type StorageEstimate struct {
	Usage uint64
	Quota uint64
}

// StorageEstimator estimates storage usage. It may block and must honour
// ctx.
type StorageEstimator interface {
	Estimate(ctx context.Context) (StorageEstimate, error)
}

// Host bundles the signal sources supplied by the hosting environment. Any
// nil probe is treated as an unavailable source.
type Host struct {
	// Clock defaults to SystemClock.
	Clock Clock

	Heap         HeapProbe
	Connection   ConnectionProbe
	Connectivity ConnectivityProbe
	Storage      StorageEstimator

	// Frames, when set, carries one value per rendered frame from the
	// presentation layer. When nil the monitor paces frames itself at
	// Config.FrameInterval.
	Frames <-chan time.Time
}
