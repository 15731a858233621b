package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings for the status bar.
// It implements the help.KeyMap interface for bubbles/help integration.
type keyMap struct {
	Quit       key.Binding
	ToggleLogs key.Binding
	ClearLogs  key.Binding
	Minimize   key.Binding
	Power      key.Binding
	Unit       key.Binding
	Rotate     key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	GoTop      key.Binding
	GoBottom   key.Binding
	Help       key.Binding
}

// ShortHelp returns the compact set of keybindings shown by default in the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.ToggleLogs, k.ClearLogs, k.Minimize, k.Quit}
}

// FullHelp returns the expanded keybinding groups shown when help is toggled.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ToggleLogs, k.ClearLogs, k.Minimize},
		{k.Power, k.Unit, k.Rotate},
		{k.ScrollUp, k.ScrollDown, k.PageUp, k.PageDown, k.GoTop, k.GoBottom},
		{k.Help, k.Quit},
	}
}

// keys holds the default key bindings used by the application.
var keys = keyMap{
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	ToggleLogs: key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "view logs")),
	ClearLogs:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear logs")),
	Minimize:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "minimize")),
	Power:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "power")),
	Unit:       key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unit")),
	Rotate:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rotate")),
	ScrollUp:   key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/up", "scroll up")),
	ScrollDown: key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/dn", "scroll down")),
	PageUp:     key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown:   key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
	GoTop:      key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "newest")),
	GoBottom:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "oldest")),
	Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
}
