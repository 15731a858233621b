package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"gitlab.com/tinyland/lab/sysmon/display/widgets"
	"gitlab.com/tinyland/lab/sysmon/internal/format"
	"gitlab.com/tinyland/lab/sysmon/monitor"
)

// button is a clickable status bar control.
type button struct {
	id      string
	action  action
	caption string
	short   string
	active  bool
}

// buttons lists the controls for the current panel state. A minimized bar
// only offers the control that restores it.
func (m Model) buttons() []button {
	minimize := button{id: "minimize", action: actionMinimize, caption: "Minimize", short: "_", active: m.minimized}
	if m.minimized {
		minimize.caption, minimize.short = "Show", "+"
		return []button{minimize}
	}

	logs := button{id: "logs", action: actionToggleLogs, caption: "View Logs", short: "L", active: m.showLogs}
	if m.showLogs {
		logs.caption = "Hide Logs"
	}
	power := button{id: "power", action: actionPower, caption: "Power ON", short: "P"}
	if m.poweredOff {
		power.caption, power.active = "Power OFF", true
	}

	return []button{
		logs,
		{id: "clear", action: actionClearLogs, caption: "Clear", short: "C"},
		minimize,
		power,
		{id: "unit", action: actionUnit, caption: "°" + m.unit, short: "°" + m.unit},
		{id: "rotate", action: actionRotate, caption: "Rotate", short: "R"},
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	top, footer := m.chrome()
	parts := []string{top}

	if m.showLogs && !m.minimized {
		title := sectionTitle(fmt.Sprintf("Logs (%d)", len(m.snap.Logs)), m.width)
		parts = append(parts, styleMuted.Render(title), styleLogPanel.Render(m.logs.View()))
	}
	parts = append(parts, footer)

	return m.zones.Scan(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// chrome renders everything except the log panel: header, bar, buttons and
// help footer.
func (m Model) chrome() (top, footer string) {
	layout := LayoutForSize(DetectLayout(m.width))

	rows := []string{m.renderHeader()}
	if !m.minimized {
		rows = append(rows, styleBar.Render(widgets.RenderReadings(m.snap.Readings, layout.CellSeparator)))
		if detail := m.renderDetail(layout); detail != "" {
			rows = append(rows, styleBar.Render(detail))
		}
	}
	rows = append(rows, m.renderButtons(layout))

	return lipgloss.JoinVertical(lipgloss.Left, rows...), styleFooter.Render(m.help.View(keys))
}

// renderHeader renders the title, overall level and run metadata.
func (m Model) renderHeader() string {
	meta := fmt.Sprintf("started %s · %s ticks",
		humanize.Time(m.snap.StartedAt), humanize.Comma(int64(m.snap.Ticks)))
	if m.snap.State == monitor.StateStopped {
		meta += " · stopped"
	}
	meta = format.TruncateWithEllipsis(meta, m.width-20)

	line := styleTitle.Render("sysmon") + "  " + widgets.RenderLevel(m.snap.Overall) + "  " + styleMuted.Render(meta)
	return styleHeader.Width(m.width).Render(line)
}

// renderDetail renders the heap gauge and CPU history when the layout has
// room for them.
func (m Model) renderDetail(layout LayoutConfig) string {
	var cells []string

	if layout.GaugeWidth > 0 {
		if heap, ok := findReading(m.snap.Readings, monitor.SignalHeap); ok {
			cells = append(cells, widgets.RenderReadingGauge(heap, layout.GaugeWidth))
		}
	}
	if layout.SparkWidth > 0 && len(m.snap.CPUHistory) > 0 {
		cells = append(cells, "CPU "+widgets.RenderCPUHistory(m.snap.CPUHistory, layout.SparkWidth, m.eval))
	}

	return strings.Join(cells, "   ")
}

// renderButtons renders the clickable controls, each marked as a zone.
func (m Model) renderButtons(layout LayoutConfig) string {
	bs := m.buttons()
	rendered := make([]string, 0, len(bs))
	for _, b := range bs {
		caption := b.caption
		if !layout.ButtonLabels {
			caption = b.short
		}
		style := styleButton
		if b.active {
			style = styleToggled
		}
		rendered = append(rendered, m.zones.Mark(b.id, style.Render("["+caption+"]")))
	}
	return strings.Join(rendered, " ")
}

func findReading(readings []monitor.Reading, sig monitor.Signal) (monitor.Reading, bool) {
	for _, r := range readings {
		if r.Signal == sig {
			return r, true
		}
	}
	return monitor.Reading{}, false
}
