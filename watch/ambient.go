// Package watch turns filesystem changes into monitor notifications.
package watch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"gitlab.com/tinyland/lab/sysmon/internal/logging"
	"gitlab.com/tinyland/lab/sysmon/monitor"
)

// maxValueBytes caps how much of the value file is read.
const maxValueBytes = 256

// AmbientFile forwards the contents of a small text file to an AmbientSink
// whenever the trimmed contents change. The parent directory is watched so
// editors that replace the file by rename are still seen.
type AmbientFile struct {
	path   string
	sink   monitor.AmbientSink
	logger *slog.Logger

	last string
}

// NewAmbientFile creates a watcher for path. If logger is nil, a no-op
// logger is used.
func NewAmbientFile(path string, sink monitor.AmbientSink, logger *slog.Logger) *AmbientFile {
	if logger == nil {
		logger = logging.Discard()
	}
	return &AmbientFile{
		path:   filepath.Clean(path),
		sink:   sink,
		logger: logger,
	}
}

// Run delivers the current value, if any, then watches for changes until
// ctx is cancelled.
func (a *AmbientFile) Run(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: new watcher: %w", err)
	}
	defer w.Close()

	dir := filepath.Dir(a.path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch: add %s: %w", dir, err)
	}

	a.refresh()
	a.logger.Debug("ambient watcher started", "path", a.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != a.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				a.refresh()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("ambient watcher error", "path", a.path, "error", err)
		}
	}
}

// refresh reads the file and notifies the sink if the value changed.
func (a *AmbientFile) refresh() {
	v, err := ReadValue(a.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			a.logger.Debug("ambient value unreadable", "path", a.path, "error", err)
		}
		return
	}
	if v == "" || v == a.last {
		return
	}
	a.last = v
	a.sink.AmbientChanged(v)
}

// ReadValue returns the first line of path with surrounding whitespace
// removed.
func ReadValue(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, maxValueBytes)
	n, err := f.Read(buf)
	if err != nil && n == 0 {
		if errors.Is(err, io.EOF) {
			return "", nil
		}
		return "", err
	}

	line, _, _ := bytes.Cut(buf[:n], []byte("\n"))
	return strings.TrimSpace(string(line)), nil
}
