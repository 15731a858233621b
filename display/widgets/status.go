package widgets

import (
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/sysmon/monitor"
	"gitlab.com/tinyland/lab/sysmon/status"
)

// Palette shared by every widget.
const (
	ColorNormal      = lipgloss.Color("#22C55E")
	ColorWarning     = lipgloss.Color("#EAB308")
	ColorCritical    = lipgloss.Color("#EF4444")
	ColorUnavailable = lipgloss.Color("#6B7280")
	ColorInfo        = lipgloss.Color("#3B82F6")
)

// StatusConfig holds the configuration for rendering a status indicator.
type StatusConfig struct {
	// Level determines the color and icon.
	Level status.Level
	// Text is the label shown next to the indicator.
	Text string
	// ShowIcon controls whether the dot is shown.
	ShowIcon bool
}

// levelIcons maps each level to its display icon.
var levelIcons = map[status.Level]string{
	status.LevelNormal:      "●", // ● green dot
	status.LevelWarning:     "●", // ● yellow dot
	status.LevelCritical:    "●", // ● red dot
	status.LevelUnavailable: "○", // ○ gray outline
}

// levelColors maps each level to its display color.
var levelColors = map[status.Level]lipgloss.Color{
	status.LevelNormal:      ColorNormal,
	status.LevelWarning:     ColorWarning,
	status.LevelCritical:    ColorCritical,
	status.LevelUnavailable: ColorUnavailable,
}

// severityColors maps log severities to their display color.
var severityColors = map[monitor.Severity]lipgloss.Color{
	monitor.SeverityInfo:    ColorInfo,
	monitor.SeveritySuccess: ColorNormal,
	monitor.SeverityWarning: ColorWarning,
	monitor.SeverityError:   ColorCritical,
}

// LevelColor returns the display color for a level.
func LevelColor(l status.Level) lipgloss.Color {
	if c, ok := levelColors[l]; ok {
		return c
	}
	return ColorUnavailable
}

// SeverityColor returns the display color for a log severity.
func SeverityColor(s monitor.Severity) lipgloss.Color {
	if c, ok := severityColors[s]; ok {
		return c
	}
	return ColorInfo
}

// RenderStatus renders a status indicator with an optional colored icon and text.
func RenderStatus(cfg StatusConfig) string {
	style := lipgloss.NewStyle().Foreground(LevelColor(cfg.Level))

	if cfg.ShowIcon {
		icon, ok := levelIcons[cfg.Level]
		if !ok {
			icon = levelIcons[status.LevelUnavailable]
		}
		coloredIcon := style.Render(icon)
		if cfg.Text == "" {
			return coloredIcon
		}
		return coloredIcon + " " + cfg.Text
	}

	return style.Render(cfg.Text)
}

// RenderLevel renders a level by name with its icon, e.g. "● warning".
func RenderLevel(l status.Level) string {
	return RenderStatus(StatusConfig{Level: l, Text: l.String(), ShowIcon: true})
}
