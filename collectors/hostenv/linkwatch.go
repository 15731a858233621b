package hostenv

import (
	"log/slog"
	"sync"
	"time"

	"gitlab.com/tinyland/lab/sysmon/internal/logging"
	"gitlab.com/tinyland/lab/sysmon/monitor"
)

// defaultRecvTimeout bounds each netlink receive so Run notices
// cancellation.
const defaultRecvTimeout = time.Second

// LinkWatcher pushes connectivity transitions to a sink. It re-evaluates
// the probe whenever the kernel reports a link or address change and
// forwards only actual online/offline transitions.
type LinkWatcher struct {
	sink   monitor.ConnectivitySink
	probe  monitor.ConnectivityProbe
	logger *slog.Logger

	recvTimeout time.Duration

	mu     sync.Mutex
	online bool
	primed bool
}

// NewLinkWatcher creates a watcher reporting to sink. If logger is nil, a
// no-op logger is used.
func NewLinkWatcher(sink monitor.ConnectivitySink, probe monitor.ConnectivityProbe, logger *slog.Logger) *LinkWatcher {
	if logger == nil {
		logger = logging.Discard()
	}
	return &LinkWatcher{
		sink:        sink,
		probe:       probe,
		logger:      logger,
		recvTimeout: defaultRecvTimeout,
	}
}

// prime records the current state without notifying.
func (w *LinkWatcher) prime() {
	online := w.probe.Online()

	w.mu.Lock()
	w.online = online
	w.primed = true
	w.mu.Unlock()
}

// check re-reads the probe and notifies the sink on a transition.
func (w *LinkWatcher) check() {
	online := w.probe.Online()

	w.mu.Lock()
	changed := !w.primed || online != w.online
	w.online = online
	w.primed = true
	w.mu.Unlock()

	if !changed {
		return
	}
	w.logger.Info("connectivity changed", "online", online)
	w.sink.ConnectivityChanged(online)
}
