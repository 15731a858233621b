package monitor

import (
	"time"

	"gitlab.com/tinyland/lab/sysmon/status"
)

// Signal identifies one tracked metric.
type Signal string

const (
	SignalUptime  Signal = "uptime"
	SignalFPS     Signal = "fps"
	SignalMemory  Signal = "memory"
	SignalHeap    Signal = "heap"
	SignalCPU     Signal = "cpu"
	SignalNetwork Signal = "network"
	SignalAmbient Signal = "ambient"
)

// Signals lists every signal in status bar order.
var Signals = []Signal{
	SignalUptime,
	SignalFPS,
	SignalMemory,
	SignalHeap,
	SignalCPU,
	SignalNetwork,
	SignalAmbient,
}

// signalLabels holds the bar labels. The ambient label comes from Config.
var signalLabels = map[Signal]string{
	SignalUptime:  "Uptime",
	SignalFPS:     "FPS",
	SignalMemory:  "RAM",
	SignalHeap:    "Heap",
	SignalCPU:     "CPU",
	SignalNetwork: "Network",
}

const (
	// NotApplicable is shown when a source exists in principle but the host
	// cannot provide it. No number is ever fabricated in its place.
	NotApplicable = "N/A"

	// Placeholder is shown before a signal's first sample.
	Placeholder = "--"
)

// Reading is the latest formatted, classified value of one signal.
// Raw carries the numeric value behind Value when there is one.
type Reading struct {
	Signal    Signal       `json:"signal"`
	Label     string       `json:"label"`
	Value     string       `json:"value"`
	Raw       float64      `json:"raw"`
	Level     status.Level `json:"level"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Available reports whether the reading carries a sampled value.
func (r Reading) Available() bool {
	return r.Level != status.LevelUnavailable
}

func placeholderReading(sig Signal, label string) Reading {
	return Reading{
		Signal: sig,
		Label:  label,
		Value:  Placeholder,
		Level:  status.LevelUnavailable,
	}
}
