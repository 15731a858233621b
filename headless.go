package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"gitlab.com/tinyland/lab/sysmon/display/color"
	"gitlab.com/tinyland/lab/sysmon/display/widgets"
	"gitlab.com/tinyland/lab/sysmon/internal/format"
	"gitlab.com/tinyland/lab/sysmon/monitor"
)

// logSource is the monitor surface the headless runner reads.
type logSource interface {
	Logs() []monitor.LogEntry
	Snapshot() monitor.Snapshot
	Subscribe() (<-chan struct{}, func())
}

// headless streams new log entries to a writer, oldest first, until its
// context is cancelled. A PID file keeps a second headless instance from
// starting.
type headless struct {
	src     logSource
	out     io.Writer
	logger  *slog.Logger
	pidFile string
	colored bool

	// last is the sequence number of the newest entry already written.
	last uint64
}

func newHeadless(src logSource, out io.Writer, pidFile string, colored bool, logger *slog.Logger) *headless {
	return &headless{
		src:     src,
		out:     out,
		logger:  logger,
		pidFile: pidFile,
		colored: colored,
	}
}

// defaultPIDFile returns {UserCacheDir}/sysmon/sysmon.pid.
func defaultPIDFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "sysmon", "sysmon.pid")
}

// writePIDFile writes the current process PID to the PID file.
func (h *headless) writePIDFile() error {
	if err := os.MkdirAll(filepath.Dir(h.pidFile), 0o755); err != nil {
		return fmt.Errorf("create PID file directory: %w", err)
	}
	pid := os.Getpid()
	if err := os.WriteFile(h.pidFile, []byte(strconv.Itoa(pid)), 0o644); err != nil {
		return fmt.Errorf("write PID file: %w", err)
	}
	h.logger.Debug("wrote PID file", "path", h.pidFile, "pid", pid)
	return nil
}

// removePIDFile removes the PID file on shutdown.
func (h *headless) removePIDFile() {
	if err := os.Remove(h.pidFile); err != nil && !os.IsNotExist(err) {
		h.logger.Error("failed to remove PID file", "path", h.pidFile, "error", err)
	}
}

// isRunning reports whether the PID file names a live process. Corrupt or
// stale PID files are removed.
func (h *headless) isRunning() (bool, int) {
	data, err := os.ReadFile(h.pidFile)
	if err != nil {
		return false, 0
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		h.logger.Warn("corrupt PID file, removing", "path", h.pidFile, "content", string(data))
		os.Remove(h.pidFile)
		return false, 0
	}
	if pid == os.Getpid() {
		return false, 0
	}

	process, err := os.FindProcess(pid)
	if err == nil {
		err = process.Signal(syscall.Signal(0))
	}
	if err != nil {
		h.logger.Warn("stale PID file, removing", "path", h.pidFile, "pid", pid)
		os.Remove(h.pidFile)
		return false, 0
	}

	return true, pid
}

// run writes the current log, then every new entry as it is recorded.
func (h *headless) run(ctx context.Context) error {
	if running, pid := h.isRunning(); running {
		return fmt.Errorf("headless monitor already running (PID %d)", pid)
	}
	if err := h.writePIDFile(); err != nil {
		return err
	}
	defer h.removePIDFile()

	updates, unsubscribe := h.src.Subscribe()
	defer unsubscribe()

	h.flush()
	for {
		select {
		case <-ctx.Done():
			h.flush()
			snap := h.src.Snapshot()
			h.logger.Info("headless monitor shutting down",
				"uptime", format.FormatClock(snap.Uptime),
				"ticks", snap.Ticks,
			)
			return nil
		case <-updates:
			h.flush()
		}
	}
}

// flush writes entries newer than the last one written. The log is
// newest-first, so it is walked backwards.
func (h *headless) flush() {
	entries := h.src.Logs()
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if e.Seq <= h.last {
			continue
		}
		line := widgets.RenderLogEntry(e)
		if !h.colored {
			line = color.StripANSI(line)
		}
		fmt.Fprintln(h.out, line)
		h.last = e.Seq
	}
}
