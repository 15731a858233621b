package tui

import (
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/sysmon/display/widgets"
)

// Color palette for the status bar. Level colors come from widgets.
const (
	colorPrimary = lipgloss.Color("#7C3AED") // Purple
	colorAccent  = lipgloss.Color("#06B6D4") // Cyan
	colorMuted   = widgets.ColorUnavailable
)

// Styles used throughout the TUI.
var (
	styleTitle    lipgloss.Style
	styleHeader   lipgloss.Style
	styleBar      lipgloss.Style
	styleButton   lipgloss.Style
	styleToggled  lipgloss.Style
	styleLogPanel lipgloss.Style
	styleFooter   lipgloss.Style
	styleMuted    lipgloss.Style
)

func init() {
	styleTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorAccent)

	styleHeader = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(colorMuted)

	styleBar = lipgloss.NewStyle().
		Padding(0, 1)

	styleButton = lipgloss.NewStyle().
		Foreground(colorMuted).
		Padding(0, 1)

	styleToggled = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(colorPrimary).
		Padding(0, 1)

	styleLogPanel = lipgloss.NewStyle().
		Padding(0, 1)

	styleFooter = lipgloss.NewStyle().
		Foreground(colorMuted)

	styleMuted = lipgloss.NewStyle().
		Foreground(colorMuted)
}
