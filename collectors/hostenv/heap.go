package hostenv

import (
	"bufio"
	"io"
	"log/slog"
	"math"
	"os"
	"runtime"
	"runtime/debug"
	"strconv"
	"strings"

	"gitlab.com/tinyland/lab/sysmon/internal/logging"
	"gitlab.com/tinyland/lab/sysmon/monitor"
)

var _ monitor.HeapProbe = (*HeapProbe)(nil)

// HeapProbe reports the Go heap in use against the process memory limit.
// When no soft limit is set the limit falls back to MemTotal from
// /proc/meminfo; if neither is known the heap is unavailable.
type HeapProbe struct {
	logger *slog.Logger

	// Overridable sources for testing.
	readMemStats    func(*runtime.MemStats)
	memoryLimit     func() int64
	openProcMeminfo func() (io.ReadCloser, error)
}

// NewHeapProbe creates a HeapProbe. If logger is nil, a no-op logger is used.
func NewHeapProbe(logger *slog.Logger) *HeapProbe {
	if logger == nil {
		logger = logging.Discard()
	}
	return &HeapProbe{
		logger:       logger,
		readMemStats: runtime.ReadMemStats,
		// A negative input reads the limit without changing it.
		memoryLimit: func() int64 { return debug.SetMemoryLimit(-1) },
		openProcMeminfo: func() (io.ReadCloser, error) {
			return os.Open("/proc/meminfo")
		},
	}
}

// HeapStats returns heap bytes in use and the applicable limit.
func (p *HeapProbe) HeapStats() (monitor.HeapStats, bool) {
	var ms runtime.MemStats
	p.readMemStats(&ms)

	limit := p.memoryLimit()
	if limit > 0 && limit != math.MaxInt64 {
		return monitor.HeapStats{Used: ms.HeapInuse, Limit: uint64(limit)}, true
	}

	total, err := p.memTotal()
	if err != nil {
		p.logger.Debug("heap limit unavailable", "error", err)
		return monitor.HeapStats{}, false
	}
	return monitor.HeapStats{Used: ms.HeapInuse, Limit: total}, true
}

// memTotal returns MemTotal from /proc/meminfo in bytes.
func (p *HeapProbe) memTotal() (uint64, error) {
	f, err := p.openProcMeminfo()
	if err != nil {
		return 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || fields[0] != "MemTotal:" {
			continue
		}
		kb, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return 0, err
		}
		return kb * 1024, nil
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return 0, errMemTotalMissing
}
