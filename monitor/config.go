package monitor

import (
	"errors"
	"fmt"
	"time"

	"gitlab.com/tinyland/lab/sysmon/status"
)

// CPUBaseline selects what tick duration the CPU heuristic treats as idle.
type CPUBaseline string

const (
	// CPUBaselineFrame measures the overrun past one reference frame.
	CPUBaselineFrame CPUBaseline = "frame"
	// CPUBaselinePeriod measures the overrun past the tick interval.
	CPUBaselinePeriod CPUBaseline = "period"
)

// DefaultModes is the ordered list of scene labels.
var DefaultModes = []string{"Sun", "Sunset", "Night", "Clouds", "Storm", "Snow"}

// Config controls sampling cadence, capacities and thresholds.
type Config struct {
	// TickInterval is the shared sampling cadence.
	TickInterval time.Duration
	// StorageInterval is the slower storage estimate cadence.
	StorageInterval time.Duration
	// StorageTimeout bounds a single storage estimate.
	StorageTimeout time.Duration
	// FrameInterval paces the internal frame loop when the host supplies no
	// frame channel.
	FrameInterval time.Duration

	LogCapacity int
	CPUWindow   int
	// CPUReference is the ideal frame duration the CPU heuristic scales by.
	CPUReference time.Duration
	CPUBaseline  CPUBaseline

	Thresholds status.EvaluatorConfig

	// AmbientLabel names the externally observed value, e.g. "Temperature".
	AmbientLabel string
	// AmbientInitial seeds the ambient cell before the first change.
	AmbientInitial string

	// ModeName names the selection in log messages, e.g. "Scene".
	ModeName string
	// Modes maps selection positions to labels.
	Modes []string
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	modes := make([]string, len(DefaultModes))
	copy(modes, DefaultModes)

	return Config{
		TickInterval:    time.Second,
		StorageInterval: 10 * time.Second,
		StorageTimeout:  5 * time.Second,
		FrameInterval:   time.Second / 60,
		LogCapacity:     DefaultLogCapacity,
		CPUWindow:       DefaultWindowSize,
		CPUReference:    16670 * time.Microsecond,
		CPUBaseline:     CPUBaselineFrame,
		Thresholds:      status.DefaultEvaluatorConfig(),
		AmbientLabel:    "Temperature",
		AmbientInitial:  Placeholder,
		ModeName:        "Scene",
		Modes:           modes,
	}
}

// cpuBaseline returns the elapsed time that reads as zero load.
func (c Config) cpuBaseline() time.Duration {
	if c.CPUBaseline == CPUBaselinePeriod {
		return c.TickInterval
	}
	return c.CPUReference
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.LogCapacity < 1 {
		return ErrInvalidCapacity
	}
	if c.TickInterval <= 0 {
		return errors.New("monitor: tick interval must be positive")
	}
	if c.StorageInterval <= 0 {
		return errors.New("monitor: storage interval must be positive")
	}
	if c.FrameInterval <= 0 {
		return errors.New("monitor: frame interval must be positive")
	}
	if c.CPUWindow < 1 {
		return fmt.Errorf("monitor: cpu window must be at least 1, got %d", c.CPUWindow)
	}
	if c.CPUReference <= 0 {
		return errors.New("monitor: cpu reference must be positive")
	}
	switch c.CPUBaseline {
	case "", CPUBaselineFrame, CPUBaselinePeriod:
	default:
		return fmt.Errorf("monitor: unknown cpu baseline %q", c.CPUBaseline)
	}
	return nil
}
