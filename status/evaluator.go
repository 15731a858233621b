// Package status classifies sampled values into severity levels and rolls
// per-signal levels up into one overall level for the status bar header.
package status

import (
	"time"
)

// Level represents the severity of a single reading.
type Level int

const (
	LevelNormal      Level = iota // Within normal range
	LevelWarning                  // Something needs attention
	LevelCritical                 // Immediate attention needed
	LevelUnavailable              // Source missing or not yet sampled
)

// String returns the human-readable name for a Level.
func (l Level) String() string {
	switch l {
	case LevelNormal:
		return "normal"
	case LevelWarning:
		return "warning"
	case LevelCritical:
		return "critical"
	case LevelUnavailable:
		return "unavailable"
	default:
		return "unavailable"
	}
}

// MarshalText renders the level by name so JSON payloads stay readable.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// levelSeverity returns the sort order for levels. Higher is worse.
// Critical > Warning > Unavailable > Normal.
func levelSeverity(l Level) int {
	switch l {
	case LevelNormal:
		return 0
	case LevelUnavailable:
		return 1
	case LevelWarning:
		return 2
	case LevelCritical:
		return 3
	default:
		return 0
	}
}

// worstLevel returns whichever Level is more severe.
func worstLevel(a, b Level) Level {
	if levelSeverity(a) >= levelSeverity(b) {
		return a
	}
	return b
}

// Worst returns the most severe of the given levels. With no levels it
// returns LevelUnavailable.
func Worst(levels ...Level) Level {
	if len(levels) == 0 {
		return LevelUnavailable
	}
	overall := levels[0]
	for _, l := range levels[1:] {
		overall = worstLevel(overall, l)
	}
	return overall
}

// Thresholds holds the two cut-over points for a signal. Whether higher or
// lower values are worse depends on which classifier is used.
type Thresholds struct {
	Warning  float64 `yaml:"warning" json:"warning"`
	Critical float64 `yaml:"critical" json:"critical"`
}

// Ceiling classifies v where larger values are worse (memory, CPU).
// Boundaries belong to the worse level: v == Warning is a warning.
func (t Thresholds) Ceiling(v float64) Level {
	switch {
	case v >= t.Critical:
		return LevelCritical
	case v >= t.Warning:
		return LevelWarning
	default:
		return LevelNormal
	}
}

// Floor classifies v where smaller values are worse (frame rate).
// v == Warning is normal and v == Critical is a warning.
func (t Thresholds) Floor(v float64) Level {
	switch {
	case v < t.Critical:
		return LevelCritical
	case v < t.Warning:
		return LevelWarning
	default:
		return LevelNormal
	}
}

// ComponentStatus holds the evaluation result for a single signal.
type ComponentStatus struct {
	Component string // "memory", "cpu", "network", ...
	Level     Level
	Reason    string // Display value that produced the level
}

// SystemStatus is the aggregate evaluation result.
type SystemStatus struct {
	Overall     Level // Worst of all components
	Components  []ComponentStatus
	EvaluatedAt time.Time
}

// EvaluatorConfig holds thresholds for evaluation rules.
type EvaluatorConfig struct {
	Memory Thresholds `yaml:"memory" json:"memory"` // Default: 70 / 90 (% of heap limit)
	CPU    Thresholds `yaml:"cpu" json:"cpu"`       // Default: 60 / 80 (% estimated)
	FPS    Thresholds `yaml:"fps" json:"fps"`       // Default: 50 / 30 (frames per second, lower is worse)
}

// DefaultEvaluatorConfig returns an EvaluatorConfig with the stock thresholds.
func DefaultEvaluatorConfig() EvaluatorConfig {
	return EvaluatorConfig{
		Memory: Thresholds{Warning: 70, Critical: 90},
		CPU:    Thresholds{Warning: 60, Critical: 80},
		FPS:    Thresholds{Warning: 50, Critical: 30},
	}
}

// Evaluator classifies raw values and aggregates component levels.
type Evaluator struct {
	config EvaluatorConfig
}

// NewEvaluator creates an Evaluator with the given configuration.
func NewEvaluator(cfg EvaluatorConfig) *Evaluator {
	return &Evaluator{config: cfg}
}

// Memory classifies a used/limit heap percentage.
func (e *Evaluator) Memory(percent float64) Level {
	return e.config.Memory.Ceiling(percent)
}

// CPU classifies an averaged CPU estimate.
func (e *Evaluator) CPU(percent float64) Level {
	return e.config.CPU.Ceiling(percent)
}

// FPS classifies a frame rate.
func (e *Evaluator) FPS(fps float64) Level {
	return e.config.FPS.Floor(fps)
}

// Evaluate rolls the component levels up into a SystemStatus. Unavailable
// components only raise the overall level above normal, never above warning.
func (e *Evaluator) Evaluate(components []ComponentStatus, now time.Time) SystemStatus {
	levels := make([]Level, 0, len(components))
	for _, c := range components {
		levels = append(levels, c.Level)
	}

	out := make([]ComponentStatus, len(components))
	copy(out, components)

	return SystemStatus{
		Overall:     Worst(levels...),
		Components:  out,
		EvaluatedAt: now,
	}
}
