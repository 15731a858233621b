package monitor

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"gitlab.com/tinyland/lab/sysmon/internal/format"
	"gitlab.com/tinyland/lab/sysmon/status"
)

// sampleUptime formats the time since start as HH:MM:SS.
func sampleUptime(start, now time.Time) Reading {
	elapsed := now.Sub(start)
	return Reading{
		Signal:    SignalUptime,
		Label:     signalLabels[SignalUptime],
		Value:     format.FormatClock(elapsed),
		Raw:       elapsed.Seconds(),
		Level:     status.LevelNormal,
		UpdatedAt: now,
	}
}

// frameCounter counts frames between checkpoints at least one second apart.
type frameCounter struct {
	last   time.Time
	frames int
}

func (f *frameCounter) reset(now time.Time) {
	f.last = now
	f.frames = 0
}

// frame registers one rendered frame. Once a second or more has passed since
// the previous checkpoint it returns the rounded rate and starts a new
// interval.
func (f *frameCounter) frame(now time.Time) (int, bool) {
	f.frames++

	elapsed := now.Sub(f.last)
	if elapsed < time.Second {
		return 0, false
	}

	fps := int(math.Round(float64(f.frames) * float64(time.Second) / float64(elapsed)))
	f.reset(now)
	return fps, true
}

func fpsReading(fps int, eval *status.Evaluator, now time.Time) Reading {
	return Reading{
		Signal:    SignalFPS,
		Label:     signalLabels[SignalFPS],
		Value:     strconv.Itoa(fps),
		Raw:       float64(fps),
		Level:     eval.FPS(float64(fps)),
		UpdatedAt: now,
	}
}

// sampleMemory returns the RAM (used MB) and Heap (used/limit %) readings.
// Without heap introspection both read N/A.
func sampleMemory(probe HeapProbe, eval *status.Evaluator, now time.Time) (Reading, Reading) {
	mem := Reading{Signal: SignalMemory, Label: signalLabels[SignalMemory], UpdatedAt: now}
	heap := Reading{Signal: SignalHeap, Label: signalLabels[SignalHeap], UpdatedAt: now}

	var stats HeapStats
	ok := false
	if probe != nil {
		stats, ok = probe.HeapStats()
	}
	if !ok || stats.Limit == 0 {
		mem.Value, mem.Level = NotApplicable, status.LevelUnavailable
		heap.Value, heap.Level = NotApplicable, status.LevelUnavailable
		return mem, heap
	}

	// Classify what the cell shows: 69.96 reads "70.0%" and is a warning.
	percent := math.Round(format.Percent(stats.Used, stats.Limit)*10) / 10
	level := eval.Memory(percent)

	mem.Value = format.FormatMB(stats.Used) + "MB"
	mem.Raw = format.MB(stats.Used)
	mem.Level = level

	heap.Value = fmt.Sprintf("%.1f%%", percent)
	heap.Raw = percent
	heap.Level = level

	return mem, heap
}

// cpuEstimator turns tick lateness into a smoothed load estimate. It is a
// heuristic: a busy process services its timers late, so late ticks read as
// load. It is not a measurement of CPU time.
type cpuEstimator struct {
	window *Window
	// baseline is the elapsed time that reads as zero load.
	baseline  time.Duration
	reference time.Duration
	last      time.Time
	primed    bool
}

func newCPUEstimator(window int, baseline, reference time.Duration) cpuEstimator {
	return cpuEstimator{
		window:    NewWindow(window),
		baseline:  baseline,
		reference: reference,
	}
}

// sample records one tick. The first call after a reset only sets the
// baseline and reports nothing.
func (c *cpuEstimator) sample(now time.Time) (float64, bool) {
	if !c.primed {
		c.last = now
		c.primed = true
		return 0, false
	}

	elapsed := now.Sub(c.last)
	c.last = now

	c.window.Push(rawCPUEstimate(elapsed, c.baseline, c.reference))
	mean, _ := c.window.Mean()
	return math.Round(mean*10) / 10, true
}

// rawCPUEstimate scales how far elapsed overran baseline against the
// reference frame duration: one reference frame over reads as 10%, clamped
// to [0, 100]. With the frame baseline a one second tick saturates at 100.
func rawCPUEstimate(elapsed, baseline, reference time.Duration) float64 {
	excess := elapsed - baseline
	est := float64(excess) / float64(reference) * 10
	return math.Min(100, math.Max(0, est))
}

func cpuReading(avg float64, eval *status.Evaluator, now time.Time) Reading {
	return Reading{
		Signal:    SignalCPU,
		Label:     signalLabels[SignalCPU],
		Value:     fmt.Sprintf("%.1f%%", avg),
		Raw:       avg,
		Level:     eval.CPU(avg),
		UpdatedAt: now,
	}
}

// sampleNetwork reports Offline as critical. Online prefers a downlink
// estimate, then the effective link type, then a plain "Online".
func sampleNetwork(online bool, probe ConnectionProbe, now time.Time) Reading {
	r := Reading{
		Signal:    SignalNetwork,
		Label:     signalLabels[SignalNetwork],
		Level:     status.LevelNormal,
		UpdatedAt: now,
	}

	if !online {
		r.Value = "Offline"
		r.Level = status.LevelCritical
		return r
	}

	r.Value = "Online"
	r.Raw = 1
	if probe == nil {
		return r
	}

	info, ok := probe.Connection()
	switch {
	case !ok:
	case info.DownlinkMbps > 0:
		r.Value = strconv.FormatFloat(info.DownlinkMbps, 'f', -1, 64) + " Mbps"
		r.Raw = info.DownlinkMbps
	case info.EffectiveType != "":
		r.Value = info.EffectiveType
	}
	return r
}

// storageMessage formats a storage estimate for the log. A zero quota
// yields no message.
func storageMessage(est StorageEstimate) (string, bool) {
	if est.Quota == 0 {
		return "", false
	}
	return fmt.Sprintf("Storage: %sMB / %sMB (%.1f%%)",
		format.FormatMB(est.Usage),
		format.FormatMB(est.Quota),
		format.Percent(est.Usage, est.Quota),
	), true
}
