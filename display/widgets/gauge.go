package widgets

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/sysmon/monitor"
	"gitlab.com/tinyland/lab/sysmon/status"
)

// GaugeConfig controls a horizontal bar gauge. Color follows Level, which
// the caller takes from the classified reading.
type GaugeConfig struct {
	// Width is the total character width of the bar.
	Width int
	// Percent is the value from 0 to 100.
	Percent float64
	// Label is optional text shown to the left of the bar.
	Label string
	// Level selects the fill color.
	Level status.Level
	// ShowPercent appends "XX%".
	ShowPercent bool
}

const (
	gaugeFilled = "█"
	gaugeEmpty  = "░"
)

// RenderGauge renders a horizontal bar gauge with optional label and percentage.
// Format: [Label] [████████░░░░] [XX%]
func RenderGauge(cfg GaugeConfig) string {
	percent := math.Max(0, math.Min(100, cfg.Percent))

	width := cfg.Width
	if width <= 0 {
		width = 20
	}

	filledCount := int(math.Round(percent / 100.0 * float64(width)))
	style := lipgloss.NewStyle().Foreground(LevelColor(cfg.Level))
	bar := style.Render(strings.Repeat(gaugeFilled, filledCount)) +
		strings.Repeat(gaugeEmpty, width-filledCount)

	var sb strings.Builder
	if cfg.Label != "" {
		sb.WriteString(cfg.Label)
		sb.WriteString(" ")
	}
	sb.WriteString(bar)
	if cfg.ShowPercent {
		sb.WriteString(fmt.Sprintf(" %3.0f%%", percent))
	}
	return sb.String()
}

// RenderReadingGauge renders a percentage reading as a gauge. Unavailable
// readings render as an empty gray bar followed by their value.
func RenderReadingGauge(r monitor.Reading, width int) string {
	if !r.Available() {
		return RenderGauge(GaugeConfig{Width: width, Label: r.Label, Level: r.Level}) + " " + r.Value
	}
	return RenderGauge(GaugeConfig{
		Width:       width,
		Percent:     r.Raw,
		Label:       r.Label,
		Level:       r.Level,
		ShowPercent: true,
	})
}
