// Package monitor samples coarse runtime signals on a fixed cadence,
// classifies them into display readings and keeps a bounded event log fed by
// its own samplers and by external actions.
//
// A Monitor is explicitly constructed and passed to every collaborator that
// records events; there is no package-level instance. All state changes are
// serialized, so log insertions keep call order and each sampler's
// read-then-write is atomic relative to other ticks.
package monitor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"gitlab.com/tinyland/lab/sysmon/internal/logging"
	"gitlab.com/tinyland/lab/sysmon/status"
)

// State is the monitor lifecycle state.
type State int

const (
	// StateRunning is the state after construction: samplers tick.
	StateRunning State = iota
	// StateStopped is terminal: no new ticks are initiated. Observers and
	// RecordEvent keep working.
	StateStopped
)

// String returns the state name.
func (s State) String() string {
	if s == StateStopped {
		return "stopped"
	}
	return "running"
}

// MarshalText renders the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Snapshot is a read-only copy of the monitor's display state.
type Snapshot struct {
	State      State         `json:"state"`
	StartedAt  time.Time     `json:"started_at"`
	Uptime     time.Duration `json:"uptime_ns"`
	Overall    status.Level  `json:"overall"`
	Online     bool          `json:"online"`
	Ticks      uint64        `json:"ticks"`
	Readings   []Reading     `json:"readings"`
	Logs       []LogEntry    `json:"logs"`
	CPUHistory []float64     `json:"cpu_history"`
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithLogger sets the logger used for the log echo and diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Monitor) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// Monitor owns the event log, the per-signal readings and the sampling
// cadence.
type Monitor struct {
	cfg    Config
	host   Host
	clock  Clock
	logger *slog.Logger
	eval   *status.Evaluator

	mu        sync.Mutex
	state     State
	startedAt time.Time
	log       *RingLog
	readings  map[Signal]Reading
	cpu       cpuEstimator
	frames    frameCounter
	online    bool
	ticks     uint64

	subMu   sync.Mutex
	subs    map[int]chan struct{}
	nextSub int

	tickers  []Ticker
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// New constructs a running Monitor: it records "System initialized", fixes
// the start time, samples once immediately and starts the tick, storage and
// frame loops. Cancelling ctx is equivalent to calling Stop.
func New(ctx context.Context, cfg Config, host Host, opts ...Option) (*Monitor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if host.Clock == nil {
		host.Clock = SystemClock()
	}

	m := &Monitor{
		cfg:      cfg,
		host:     host,
		clock:    host.Clock,
		logger:   logging.Discard(),
		eval:     status.NewEvaluator(cfg.Thresholds),
		readings: make(map[Signal]Reading, len(Signals)),
		subs:     make(map[int]chan struct{}),
		online:   true,
		cpu:      newCPUEstimator(cfg.CPUWindow, cfg.cpuBaseline(), cfg.CPUReference),
	}
	for _, opt := range opts {
		opt(m)
	}

	log, err := NewRingLog(cfg.LogCapacity, m.clock.Now, m.logger)
	if err != nil {
		return nil, err
	}
	m.log = log

	for _, sig := range Signals {
		m.readings[sig] = placeholderReading(sig, m.label(sig))
	}
	if v := cfg.AmbientInitial; v != "" && v != Placeholder {
		m.readings[SignalAmbient] = Reading{
			Signal: SignalAmbient,
			Label:  m.label(SignalAmbient),
			Value:  v,
			Level:  status.LevelNormal,
		}
	}

	now := m.clock.Now()
	m.startedAt = now
	m.frames.reset(now)
	m.log.Record("System initialized", SeveritySuccess)
	m.tick(now)

	ctx, m.cancel = context.WithCancel(ctx)

	tick := m.clock.NewTicker(cfg.TickInterval)
	m.tickers = append(m.tickers, tick)
	m.wg.Add(1)
	go m.runTicks(ctx, tick)

	if host.Storage != nil {
		st := m.clock.NewTicker(cfg.StorageInterval)
		m.tickers = append(m.tickers, st)
		m.wg.Add(1)
		go m.runStorage(ctx, st)
	}

	frames := host.Frames
	if frames == nil {
		ft := m.clock.NewTicker(cfg.FrameInterval)
		m.tickers = append(m.tickers, ft)
		frames = ft.C()
	}
	m.wg.Add(1)
	go m.runFrames(ctx, frames)

	go func() {
		<-ctx.Done()
		m.Stop()
	}()

	m.logger.Debug("monitor started",
		"tick_interval", cfg.TickInterval,
		"storage_interval", cfg.StorageInterval,
		"log_capacity", cfg.LogCapacity,
	)

	return m, nil
}

// Stop cancels every scheduled tick and waits for the sampling loops to
// exit. It is idempotent.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		m.mu.Lock()
		m.state = StateStopped
		m.mu.Unlock()

		m.cancel()
		for _, t := range m.tickers {
			t.Stop()
		}
		m.wg.Wait()

		m.logger.Debug("monitor stopped")
		m.notify()
	})
}

// State returns the lifecycle state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// RecordEvent appends an entry to the event log. It works in any state.
func (m *Monitor) RecordEvent(message string, sev Severity) {
	m.update(func() bool {
		m.log.Record(message, sev)
		return true
	})
}

// ClearLogs empties the event log and records "Logs cleared".
func (m *Monitor) ClearLogs() {
	m.update(func() bool {
		m.log.Clear()
		return true
	})
}

// Logs returns a copy of the event log, newest first.
func (m *Monitor) Logs() []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.log.Entries()
}

// Reading returns the latest reading for sig.
func (m *Monitor) Reading(sig Signal) (Reading, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.readings[sig]
	return r, ok
}

// Readings returns the latest reading of every signal in bar order.
func (m *Monitor) Readings() []Reading {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orderedReadings()
}

// Snapshot returns a consistent copy of readings, log and lifecycle state.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	readings := m.orderedReadings()
	components := make([]status.ComponentStatus, 0, len(readings))
	for _, r := range readings {
		components = append(components, status.ComponentStatus{
			Component: string(r.Signal),
			Level:     r.Level,
			Reason:    r.Value,
		})
	}
	now := m.clock.Now()

	return Snapshot{
		State:      m.state,
		StartedAt:  m.startedAt,
		Uptime:     now.Sub(m.startedAt),
		Overall:    m.eval.Evaluate(components, now).Overall,
		Online:     m.online,
		Ticks:      m.ticks,
		Readings:   readings,
		Logs:       m.log.Entries(),
		CPUHistory: m.cpu.window.Values(),
	}
}

// Subscribe returns a channel that receives a value whenever readings or the
// log change. Notifications coalesce: a slow reader sees one pending signal,
// not a backlog. The returned func unsubscribes and closes the channel; it
// is safe to call more than once.
func (m *Monitor) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	m.subMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = ch
	m.subMu.Unlock()

	return ch, func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()

		if _, ok := m.subs[id]; !ok {
			return
		}
		delete(m.subs, id)
		close(ch)
	}
}

// update runs fn under the state lock and notifies subscribers after the
// lock is released if fn reports a change.
func (m *Monitor) update(fn func() bool) {
	m.mu.Lock()
	changed := fn()
	m.mu.Unlock()

	if changed {
		m.notify()
	}
}

func (m *Monitor) notify() {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	for _, ch := range m.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (m *Monitor) runTicks(ctx context.Context, t Ticker) {
	defer m.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C():
			m.update(func() bool {
				if m.state != StateRunning {
					return false
				}
				m.tick(m.clock.Now())
				return true
			})
		}
	}
}

// tick runs the shared-cadence samplers. Callers hold m.mu.
func (m *Monitor) tick(now time.Time) {
	m.ticks++

	m.set(sampleUptime(m.startedAt, now))

	mem, heap := sampleMemory(m.host.Heap, m.eval, now)
	m.set(mem)
	m.set(heap)

	if avg, ok := m.cpu.sample(now); ok {
		m.set(cpuReading(avg, m.eval, now))
	}

	m.set(sampleNetwork(m.currentOnline(), m.host.Connection, now))
}

func (m *Monitor) runStorage(ctx context.Context, t Ticker) {
	defer m.wg.Done()

	m.sampleStorage(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C():
			m.sampleStorage(ctx)
		}
	}
}

// sampleStorage logs a storage estimate. Estimation runs outside the state
// lock; failures are logged at debug level and otherwise ignored.
func (m *Monitor) sampleStorage(ctx context.Context) {
	ectx, cancel := context.WithTimeout(ctx, m.cfg.StorageTimeout)
	est, err := m.host.Storage.Estimate(ectx)
	cancel()
	if err != nil {
		m.logger.Debug("storage estimate unavailable", "error", err)
		return
	}

	msg, ok := storageMessage(est)
	if !ok {
		return
	}

	m.update(func() bool {
		if m.state != StateRunning {
			return false
		}
		m.log.Record(msg, SeverityInfo)
		return true
	})
}

// runFrames counts frames until the monitor stops or the frame source
// closes.
func (m *Monitor) runFrames(ctx context.Context, frames <-chan time.Time) {
	defer m.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-frames:
			if !ok {
				return
			}
			m.update(func() bool {
				if m.state != StateRunning {
					return false
				}
				now := m.clock.Now()
				fps, ok := m.frames.frame(now)
				if !ok {
					return false
				}
				m.set(fpsReading(fps, m.eval, now))
				return true
			})
		}
	}
}

// currentOnline refreshes connectivity from the probe when there is one and
// otherwise keeps the last notified state. Callers hold m.mu.
func (m *Monitor) currentOnline() bool {
	if m.host.Connectivity != nil {
		m.online = m.host.Connectivity.Online()
	}
	return m.online
}

func (m *Monitor) set(r Reading) {
	m.readings[r.Signal] = r
}

func (m *Monitor) orderedReadings() []Reading {
	out := make([]Reading, 0, len(Signals))
	for _, sig := range Signals {
		if r, ok := m.readings[sig]; ok {
			out = append(out, r)
		}
	}
	return out
}

func (m *Monitor) label(sig Signal) string {
	if sig == SignalAmbient {
		return m.cfg.AmbientLabel
	}
	return signalLabels[sig]
}
