package monitor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gitlab.com/tinyland/lab/sysmon/status"
)

type fakeStorage struct {
	est StorageEstimate
	err error
}

func (f fakeStorage) Estimate(context.Context) (StorageEstimate, error) { return f.est, f.err }

type fakeConnectivity struct{ online bool }

func (f fakeConnectivity) Online() bool { return f.online }

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func newTestMonitor(t *testing.T, host Host) (*Monitor, *fakeClock) {
	t.Helper()
	clock := newFakeClock(fixedNow())
	host.Clock = clock

	m, err := New(context.Background(), DefaultConfig(), host)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(m.Stop)
	return m, clock
}

// advanceTick moves the clock by d and waits for the tick loop to run.
func advanceTick(t *testing.T, m *Monitor, clock *fakeClock, d time.Duration) {
	t.Helper()
	before := m.Snapshot().Ticks
	clock.Advance(d)
	waitFor(t, "tick", func() bool { return m.Snapshot().Ticks > before })
}

func TestNewRecordsInitialized(t *testing.T) {
	m, _ := newTestMonitor(t, Host{})

	if m.State() != StateRunning {
		t.Errorf("State() = %v, want running", m.State())
	}

	logs := m.Logs()
	if len(logs) != 1 {
		t.Fatalf("logs = %v, want one entry", messages(logs))
	}
	if logs[0].Message != "System initialized" || logs[0].Severity != SeveritySuccess {
		t.Errorf("first entry = %+v", logs[0])
	}

	up, _ := m.Reading(SignalUptime)
	if up.Value != "00:00:00" {
		t.Errorf("uptime = %q, want 00:00:00", up.Value)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogCapacity = 0

	_, err := New(context.Background(), cfg, Host{Clock: newFakeClock(fixedNow())})
	if !errors.Is(err, ErrInvalidCapacity) {
		t.Errorf("error = %v, want ErrInvalidCapacity", err)
	}
}

func TestReadingsOrderAndPlaceholders(t *testing.T) {
	m, _ := newTestMonitor(t, Host{})

	readings := m.Readings()
	if len(readings) != len(Signals) {
		t.Fatalf("len = %d, want %d", len(readings), len(Signals))
	}
	for i, r := range readings {
		if r.Signal != Signals[i] {
			t.Errorf("readings[%d] = %s, want %s", i, r.Signal, Signals[i])
		}
	}

	fps, _ := m.Reading(SignalFPS)
	if fps.Value != Placeholder || fps.Available() {
		t.Errorf("fps before first frame = %+v", fps)
	}
	cpu, _ := m.Reading(SignalCPU)
	if cpu.Value != Placeholder {
		t.Errorf("cpu after baseline tick = %q, want placeholder", cpu.Value)
	}
	amb, _ := m.Reading(SignalAmbient)
	if amb.Label != "Temperature" || amb.Value != Placeholder {
		t.Errorf("ambient = %+v", amb)
	}
}

func TestUnavailableMemory(t *testing.T) {
	m, _ := newTestMonitor(t, Host{})

	for _, sig := range []Signal{SignalMemory, SignalHeap} {
		r, _ := m.Reading(sig)
		if r.Value != NotApplicable || r.Level != status.LevelUnavailable {
			t.Errorf("%s = %q/%v, want N/A unavailable", sig, r.Value, r.Level)
		}
	}
}

func TestTickSamplesMemoryAndCPU(t *testing.T) {
	m, clock := newTestMonitor(t, Host{
		Heap: fakeHeap{stats: HeapStats{Used: 80 * mib, Limit: 100 * mib}, ok: true},
	})

	mem, _ := m.Reading(SignalMemory)
	if mem.Value != "80.0MB" || mem.Level != status.LevelWarning {
		t.Errorf("memory = %q/%v", mem.Value, mem.Level)
	}

	cfg := DefaultConfig()
	advanceTick(t, m, clock, cfg.TickInterval)
	cpu, _ := m.Reading(SignalCPU)
	if cpu.Value != "100.0%" || cpu.Level != status.LevelCritical {
		t.Errorf("one second tick cpu = %q/%v, want 100.0%%/critical", cpu.Value, cpu.Level)
	}
	if got := m.Snapshot().CPUHistory; len(got) != 1 || got[0] != 100 {
		t.Errorf("cpu history = %v, want [100]", got)
	}

	up, _ := m.Reading(SignalUptime)
	if !strings.HasPrefix(up.Value, "00:00:01") {
		t.Errorf("uptime = %q, want 00:00:01", up.Value)
	}
}

func TestPeriodBaselineCPU(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CPUBaseline = CPUBaselinePeriod

	clock := newFakeClock(fixedNow())
	m, err := New(context.Background(), cfg, Host{Clock: clock})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(m.Stop)

	advanceTick(t, m, clock, cfg.TickInterval)
	cpu, _ := m.Reading(SignalCPU)
	if cpu.Value != "0.0%" || cpu.Level != status.LevelNormal {
		t.Errorf("on-time cpu = %q/%v", cpu.Value, cpu.Level)
	}

	advanceTick(t, m, clock, cfg.TickInterval+cfg.CPUReference)
	cpu, _ = m.Reading(SignalCPU)
	if cpu.Value != "5.0%" {
		t.Errorf("late cpu = %q, want 5.0%%", cpu.Value)
	}
}

func TestStopCancelsScheduling(t *testing.T) {
	m, clock := newTestMonitor(t, Host{})

	advanceTick(t, m, clock, time.Second)
	m.Stop()
	m.Stop()

	if m.State() != StateStopped {
		t.Fatalf("State() = %v, want stopped", m.State())
	}
	if n := clock.liveTickers(); n != 0 {
		t.Errorf("%d tickers still live after Stop", n)
	}

	ticks := m.Snapshot().Ticks
	uptime, _ := m.Reading(SignalUptime)
	for i := 0; i < 5; i++ {
		clock.Advance(time.Second)
	}
	time.Sleep(20 * time.Millisecond)

	if got := m.Snapshot().Ticks; got != ticks {
		t.Errorf("ticks advanced after Stop: %d -> %d", ticks, got)
	}
	if got, _ := m.Reading(SignalUptime); got.Value != uptime.Value {
		t.Errorf("uptime changed after Stop: %q -> %q", uptime.Value, got.Value)
	}
}

func TestContextCancelStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m, err := New(ctx, DefaultConfig(), Host{Clock: newFakeClock(fixedNow())})
	if err != nil {
		t.Fatal(err)
	}

	cancel()
	waitFor(t, "stopped state", func() bool { return m.State() == StateStopped })
}

func TestFrameLoop(t *testing.T) {
	frames := make(chan time.Time)
	m, clock := newTestMonitor(t, Host{Frames: frames})

	clock.Advance(time.Second)
	frames <- clock.Now()
	waitFor(t, "fps reading", func() bool {
		r, _ := m.Reading(SignalFPS)
		return r.Value == "1"
	})
	if r, _ := m.Reading(SignalFPS); r.Level != status.LevelCritical {
		t.Errorf("fps level = %v, want critical", r.Level)
	}

	m.Stop()
	select {
	case frames <- clock.Now():
		t.Error("frame loop still receiving after Stop")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStorageLogged(t *testing.T) {
	m, _ := newTestMonitor(t, Host{
		Storage: fakeStorage{est: StorageEstimate{Usage: 50 * mib, Quota: 100 * mib}},
	})

	want := "Storage: 50.0MB / 100.0MB (50.0%)"
	waitFor(t, "storage entry", func() bool {
		return m.Logs()[0].Message == want
	})
	if sev := m.Logs()[0].Severity; sev != SeverityInfo {
		t.Errorf("severity = %q, want info", sev)
	}
}

func TestConnectivityTransitions(t *testing.T) {
	m, _ := newTestMonitor(t, Host{})

	m.ConnectivityChanged(false)
	logs := m.Logs()
	if logs[0].Message != "Network connection lost" || logs[0].Severity != SeverityError {
		t.Errorf("offline entry = %+v", logs[0])
	}
	net, _ := m.Reading(SignalNetwork)
	if net.Value != "Offline" || net.Level != status.LevelCritical {
		t.Errorf("network = %q/%v, want Offline/critical", net.Value, net.Level)
	}

	m.ConnectivityChanged(true)
	logs = m.Logs()
	if logs[0].Message != "Network connection restored" || logs[0].Severity != SeveritySuccess {
		t.Errorf("online entry = %+v", logs[0])
	}
	net, _ = m.Reading(SignalNetwork)
	if net.Value != "Online" || net.Level != status.LevelNormal {
		t.Errorf("network = %q/%v, want Online/normal", net.Value, net.Level)
	}
}

func TestConnectivityProbeRefreshesOnTick(t *testing.T) {
	m, _ := newTestMonitor(t, Host{Connectivity: fakeConnectivity{online: false}})

	net, _ := m.Reading(SignalNetwork)
	if net.Value != "Offline" {
		t.Errorf("network = %q, want Offline", net.Value)
	}
	if m.Snapshot().Online {
		t.Error("snapshot reports online")
	}
}

func TestAmbientChanged(t *testing.T) {
	m, _ := newTestMonitor(t, Host{})

	m.AmbientChanged("  21°C ")
	r, _ := m.Reading(SignalAmbient)
	if r.Value != "21°C" || r.Level != status.LevelNormal {
		t.Errorf("ambient = %+v", r)
	}
	if got := m.Logs()[0].Message; got != "Temperature changed to 21°C" {
		t.Errorf("entry = %q", got)
	}

	n := len(m.Logs())
	m.AmbientChanged("   ")
	if len(m.Logs()) != n {
		t.Error("blank ambient value was recorded")
	}
}

func TestModeChanged(t *testing.T) {
	m, _ := newTestMonitor(t, Host{})

	label, ok := m.ModeChanged(2)
	if !ok || label != "Night" {
		t.Errorf("ModeChanged(2) = %q, %v", label, ok)
	}
	if got := m.Logs()[0].Message; got != "Scene changed to Night" {
		t.Errorf("entry = %q", got)
	}

	n := len(m.Logs())
	for _, idx := range []int{-1, len(DefaultModes)} {
		if _, ok := m.ModeChanged(idx); ok {
			t.Errorf("ModeChanged(%d) reported ok", idx)
		}
	}
	if len(m.Logs()) != n {
		t.Error("out-of-range mode was recorded")
	}
}

func TestClearLogs(t *testing.T) {
	m, _ := newTestMonitor(t, Host{})
	m.RecordEvent("System powered OFF", SeverityWarning)
	m.RecordEvent("Temperature unit changed to °C", SeverityInfo)

	m.ClearLogs()

	logs := m.Logs()
	if len(logs) != 1 || logs[0].Message != "Logs cleared" {
		t.Errorf("logs = %v, want [Logs cleared]", messages(logs))
	}
}

func TestObserversWorkAfterStop(t *testing.T) {
	m, _ := newTestMonitor(t, Host{})
	m.Stop()

	m.RecordEvent("late", SeverityInfo)
	m.ConnectivityChanged(false)

	got := messages(m.Logs())
	if len(got) < 2 || got[0] != "Network connection lost" || got[1] != "late" {
		t.Errorf("logs = %v", got)
	}
}

func TestSubscribe(t *testing.T) {
	m, _ := newTestMonitor(t, Host{})
	ch, unsubscribe := m.Subscribe()

	m.RecordEvent("one", SeverityInfo)
	m.RecordEvent("two", SeverityInfo)

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no notification")
	}
	select {
	case <-ch:
		t.Error("notifications did not coalesce")
	default:
	}

	unsubscribe()
	unsubscribe()
	m.RecordEvent("three", SeverityInfo)
	if _, ok := <-ch; ok {
		t.Error("notified after unsubscribe")
	}
}

func TestSnapshotOverall(t *testing.T) {
	m, _ := newTestMonitor(t, Host{
		Heap: fakeHeap{stats: HeapStats{Used: 95 * mib, Limit: 100 * mib}, ok: true},
	})

	snap := m.Snapshot()
	if snap.Overall != status.LevelCritical {
		t.Errorf("overall = %v, want critical", snap.Overall)
	}
	if snap.State != StateRunning || !snap.StartedAt.Equal(fixedNow()) {
		t.Errorf("snapshot = %+v", snap)
	}
}
