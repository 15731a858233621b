package hostenv

import "errors"

var (
	// ErrUnsupported is returned by adapters that have no implementation on
	// the current platform.
	ErrUnsupported = errors.New("hostenv: not supported on this platform")

	errMemTotalMissing = errors.New("hostenv: MemTotal not found in /proc/meminfo")
)
