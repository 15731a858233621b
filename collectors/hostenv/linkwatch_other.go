//go:build !linux

package hostenv

import "context"

// Run is unavailable off Linux.
func (w *LinkWatcher) Run(context.Context) error {
	return ErrUnsupported
}
