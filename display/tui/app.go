// Package tui renders a monitor as an interactive status bar with a
// scrollable event log.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"gitlab.com/tinyland/lab/sysmon/display/widgets"
	"gitlab.com/tinyland/lab/sysmon/monitor"
	"gitlab.com/tinyland/lab/sysmon/status"
)

// Source is the monitor surface the status bar reads and drives.
type Source interface {
	Snapshot() monitor.Snapshot
	ClearLogs()
	Subscribe() (<-chan struct{}, func())

	monitor.EventRecorder
	monitor.ModeSink
}

// Options configures labels and the initial panel state.
type Options struct {
	// AmbientLabel names the ambient value in unit change events.
	AmbientLabel string
	// ModeName names the mode in rotation events.
	ModeName string
	// ModeCount is the number of modes rotation cycles through.
	ModeCount int
	// Unit is the initial ambient unit, "C" or "F".
	Unit string
	ShowLogs  bool
	Minimized bool
	// Evaluator colors the CPU history. Nil uses the default thresholds.
	Evaluator *status.Evaluator
}

// changeMsg signals that the monitor state changed.
type changeMsg struct{}

// closedMsg signals that the subscription channel was closed.
type closedMsg struct{}

// waitForChange blocks on the subscription and reports the next change.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return closedMsg{}
		}
		return changeMsg{}
	}
}

// Model is the top-level Bubbletea model for the sysmon status bar.
type Model struct {
	src         Source
	opts        Options
	eval        *status.Evaluator
	updates     <-chan struct{}
	unsubscribe func()
	zones       *zone.Manager

	snap monitor.Snapshot
	logs viewport.Model
	help help.Model

	width  int
	height int
	ready  bool

	showLogs   bool
	minimized  bool
	poweredOff bool
	unit       string
	mode       int
}

// NewModel subscribes to src and returns a Model showing its current
// snapshot. Call Close when the program exits.
func NewModel(src Source, opts Options) Model {
	if opts.AmbientLabel == "" {
		opts.AmbientLabel = "Temperature"
	}
	if opts.ModeName == "" {
		opts.ModeName = "Scene"
	}
	if opts.Unit != "C" {
		opts.Unit = "F"
	}
	eval := opts.Evaluator
	if eval == nil {
		eval = status.NewEvaluator(status.DefaultEvaluatorConfig())
	}

	updates, unsubscribe := src.Subscribe()

	m := Model{
		src:         src,
		opts:        opts,
		eval:        eval,
		updates:     updates,
		unsubscribe: unsubscribe,
		zones:       zone.New(),
		logs:        viewport.New(0, 0),
		help:        help.New(),
		showLogs:    opts.ShowLogs,
		minimized:   opts.Minimized,
		unit:        opts.Unit,
	}
	m.refresh()
	return m
}

// Close releases the subscription and the click zone tracker.
func (m Model) Close() {
	m.unsubscribe()
	m.zones.Close()
}

// Init implements tea.Model. It starts listening for monitor changes.
func (m Model) Init() tea.Cmd {
	return waitForChange(m.updates)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		for _, b := range m.buttons() {
			if z := m.zones.Get(b.id); z != nil && z.InBounds(msg) {
				return m.press(b.action), nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.fitLogs()

	case changeMsg:
		m.refresh()
		return m, waitForChange(m.updates)

	case closedMsg:
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.fitLogs()
	case key.Matches(msg, keys.ToggleLogs):
		return m.press(actionToggleLogs), nil
	case key.Matches(msg, keys.ClearLogs):
		return m.press(actionClearLogs), nil
	case key.Matches(msg, keys.Minimize):
		return m.press(actionMinimize), nil
	case key.Matches(msg, keys.Power):
		return m.press(actionPower), nil
	case key.Matches(msg, keys.Unit):
		return m.press(actionUnit), nil
	case key.Matches(msg, keys.Rotate):
		return m.press(actionRotate), nil
	case key.Matches(msg, keys.ScrollUp):
		m.logs.SetYOffset(m.logs.YOffset - 1)
	case key.Matches(msg, keys.ScrollDown):
		m.logs.SetYOffset(m.logs.YOffset + 1)
	case key.Matches(msg, keys.PageUp):
		m.logs.SetYOffset(m.logs.YOffset - m.logs.Height)
	case key.Matches(msg, keys.PageDown):
		m.logs.SetYOffset(m.logs.YOffset + m.logs.Height)
	case key.Matches(msg, keys.GoTop):
		m.logs.GotoTop()
	case key.Matches(msg, keys.GoBottom):
		m.logs.GotoBottom()
	}
	return m, nil
}

// action is a status bar button or its key equivalent.
type action int

const (
	actionToggleLogs action = iota
	actionClearLogs
	actionMinimize
	actionPower
	actionUnit
	actionRotate
)

// press applies an action. Power, unit and rotation are reported to the
// monitor as external UI events.
func (m Model) press(a action) Model {
	switch a {
	case actionToggleLogs:
		m.showLogs = !m.showLogs
	case actionClearLogs:
		m.src.ClearLogs()
	case actionMinimize:
		m.minimized = !m.minimized
	case actionPower:
		m.poweredOff = !m.poweredOff
		state := "ON"
		if m.poweredOff {
			state = "OFF"
		}
		m.src.RecordEvent("System powered "+state, monitor.SeverityWarning)
	case actionUnit:
		if m.unit == "F" {
			m.unit = "C"
		} else {
			m.unit = "F"
		}
		m.src.RecordEvent(fmt.Sprintf("%s unit changed to °%s", m.opts.AmbientLabel, m.unit), monitor.SeverityInfo)
	case actionRotate:
		m.src.RecordEvent(m.opts.ModeName+" rotation triggered", monitor.SeverityInfo)
		if m.opts.ModeCount > 0 {
			m.mode = (m.mode + 1) % m.opts.ModeCount
			m.src.ModeChanged(m.mode)
		}
	}
	m.refresh()
	return m
}

// refresh pulls a fresh snapshot and re-renders the log panel content.
func (m *Model) refresh() {
	m.snap = m.src.Snapshot()
	m.logs.SetContent(widgets.RenderLogEntries(m.snap.Logs))
	m.fitLogs()
}

// fitLogs sizes the log viewport to the space left by the bar and footer.
func (m *Model) fitLogs() {
	if !m.ready {
		return
	}
	top, footer := m.chrome()
	h := m.height - lipgloss.Height(top) - lipgloss.Height(footer) - 1
	if h < 1 {
		h = 1
	}
	m.logs.Width = m.width
	m.logs.Height = h
}
