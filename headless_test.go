package main

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"gitlab.com/tinyland/lab/sysmon/display/color"
	"gitlab.com/tinyland/lab/sysmon/internal/logging"
	"gitlab.com/tinyland/lab/sysmon/monitor"
)

func TestMain(m *testing.M) {
	color.ForceDisable()
	os.Exit(m.Run())
}

type fakeLogSource struct {
	mu      sync.Mutex
	entries []monitor.LogEntry
	updates chan struct{}
	base    time.Time
}

func newFakeLogSource() *fakeLogSource {
	return &fakeLogSource{
		updates: make(chan struct{}, 1),
		base:    time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (f *fakeLogSource) record(msg string) {
	f.mu.Lock()
	seq := uint64(len(f.entries) + 1)
	t := f.base.Add(time.Duration(seq) * time.Second)
	entry := monitor.LogEntry{Seq: seq, Time: t, Timestamp: t.Format("15:04:05"), Message: msg, Severity: monitor.SeverityInfo}
	f.entries = append([]monitor.LogEntry{entry}, f.entries...)
	f.mu.Unlock()

	select {
	case f.updates <- struct{}{}:
	default:
	}
}

func (f *fakeLogSource) Logs() []monitor.LogEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]monitor.LogEntry(nil), f.entries...)
}

func (f *fakeLogSource) Snapshot() monitor.Snapshot {
	return monitor.Snapshot{Logs: f.Logs()}
}

func (f *fakeLogSource) Subscribe() (<-chan struct{}, func()) {
	return f.updates, func() {}
}

// syncBuffer is a bytes.Buffer safe for a writer goroutine and a reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestHeadlessFlushOrder(t *testing.T) {
	src := newFakeLogSource()
	src.record("System initialized")
	src.record("Network connection lost")

	var out bytes.Buffer
	h := newHeadless(src, &out, filepath.Join(t.TempDir(), "sysmon.pid"), false, logging.Discard())

	h.flush()
	h.flush()
	src.record("Network connection restored")
	h.flush()

	want := "[09:00:01] System initialized\n" +
		"[09:00:02] Network connection lost\n" +
		"[09:00:03] Network connection restored\n"
	if out.String() != want {
		t.Errorf("output =\n%s\nwant\n%s", out.String(), want)
	}
}

// frozenClock never advances and its tickers never fire.
type frozenClock struct{ now time.Time }

func (c frozenClock) Now() time.Time                          { return c.now }
func (c frozenClock) NewTicker(time.Duration) monitor.Ticker { return idleTicker{} }

type idleTicker struct{}

func (idleTicker) C() <-chan time.Time { return nil }
func (idleTicker) Stop()               {}

func TestHeadlessFlushSameInstant(t *testing.T) {
	clock := frozenClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	mon, err := monitor.New(context.Background(), monitor.DefaultConfig(), monitor.Host{Clock: clock})
	if err != nil {
		t.Fatal(err)
	}
	defer mon.Stop()

	var out bytes.Buffer
	h := newHeadless(mon, &out, filepath.Join(t.TempDir(), "sysmon.pid"), false, logging.Discard())
	h.flush()

	mon.RecordEvent("Scene rotation triggered", monitor.SeverityInfo)
	mon.RecordEvent("Scene changed to Sunset", monitor.SeverityInfo)
	h.flush()

	want := "[09:00:00] System initialized\n" +
		"[09:00:00] Scene rotation triggered\n" +
		"[09:00:00] Scene changed to Sunset\n"
	if out.String() != want {
		t.Errorf("output =\n%s\nwant\n%s", out.String(), want)
	}
}

func TestHeadlessRun(t *testing.T) {
	src := newFakeLogSource()
	src.record("System initialized")

	pidFile := filepath.Join(t.TempDir(), "run", "sysmon.pid")
	var out syncBuffer
	h := newHeadless(src, &out, pidFile, false, logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(out.String(), "System initialized") {
		if time.Now().After(deadline) {
			t.Fatal("initial log not written")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if _, err := os.Stat(pidFile); err != nil {
		t.Errorf("PID file not written: %v", err)
	}

	src.record("Logs cleared")
	for !strings.Contains(out.String(), "Logs cleared") {
		if time.Now().After(deadline) {
			t.Fatal("new entry not written")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("run() = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return after cancel")
	}

	if _, err := os.Stat(pidFile); !os.IsNotExist(err) {
		t.Errorf("PID file should be removed, stat err = %v", err)
	}
}

func TestHeadlessRefusesSecondInstance(t *testing.T) {
	sleeper, err := exec.LookPath("sleep")
	if err != nil {
		t.Skip("sleep not available")
	}
	cmd := exec.Command(sleeper, "30")
	if err := cmd.Start(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		cmd.Process.Kill()
		cmd.Wait()
	})

	pidFile := filepath.Join(t.TempDir(), "sysmon.pid")
	if err := os.WriteFile(pidFile, []byte(strconv.Itoa(cmd.Process.Pid)), 0o644); err != nil {
		t.Fatal(err)
	}

	h := newHeadless(newFakeLogSource(), &bytes.Buffer{}, pidFile, false, logging.Discard())
	err = h.run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "already running") {
		t.Errorf("run() = %v, want already running", err)
	}
}

func TestHeadlessIsRunningCleansUp(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"corrupt", "not-a-pid"},
		{"own pid", strconv.Itoa(os.Getpid())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pidFile := filepath.Join(t.TempDir(), "sysmon.pid")
			if err := os.WriteFile(pidFile, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}

			h := newHeadless(newFakeLogSource(), &bytes.Buffer{}, pidFile, false, logging.Discard())
			if running, _ := h.isRunning(); running {
				t.Error("isRunning() = true")
			}
		})
	}
}
