package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/sysmon/monitor"
)

var (
	labelStyle     = lipgloss.NewStyle().Foreground(ColorUnavailable)
	timestampStyle = lipgloss.NewStyle().Foreground(ColorUnavailable)
)

// RenderReading renders one status bar cell: "● CPU 12.3%". The value is
// colored by level; unavailable readings show a hollow dot.
func RenderReading(r monitor.Reading) string {
	value := lipgloss.NewStyle().Foreground(LevelColor(r.Level)).Render(r.Value)
	return RenderStatus(StatusConfig{Level: r.Level, ShowIcon: true}) + " " +
		labelStyle.Render(r.Label) + " " + value
}

// RenderReadings joins cells with a separator.
func RenderReadings(readings []monitor.Reading, sep string) string {
	cells := make([]string, 0, len(readings))
	for _, r := range readings {
		cells = append(cells, RenderReading(r))
	}
	return strings.Join(cells, sep)
}

// RenderLogEntry renders "[15:04:05] message" with the message colored by
// severity.
func RenderLogEntry(e monitor.LogEntry) string {
	msg := lipgloss.NewStyle().Foreground(SeverityColor(e.Severity)).Render(e.Message)
	return timestampStyle.Render("["+e.Timestamp+"]") + " " + msg
}

// RenderLogEntries renders entries one per line, newest first.
func RenderLogEntries(entries []monitor.LogEntry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, RenderLogEntry(e))
	}
	return strings.Join(lines, "\n")
}
