package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// KeyCategory groups keybindings by function.
type KeyCategory string

const (
	CategoryPanel   KeyCategory = "panel"
	CategoryActions KeyCategory = "actions"
	CategoryScroll  KeyCategory = "scroll"
	CategorySystem  KeyCategory = "system"
)

// categoryOrder is the print order for FormatTable.
var categoryOrder = []KeyCategory{CategoryPanel, CategoryActions, CategoryScroll, CategorySystem}

// KeyEntry is one registered keybinding with its category.
type KeyEntry struct {
	Binding  key.Binding
	Category KeyCategory
}

// KeyRegistry lists every status bar keybinding. It is built from the live
// keyMap so `sysmon -keys` never drifts from what the TUI handles.
type KeyRegistry struct {
	Entries []KeyEntry
}

// DefaultRegistry returns the registry for the default key bindings.
func DefaultRegistry() *KeyRegistry {
	return &KeyRegistry{
		Entries: []KeyEntry{
			{Binding: keys.ToggleLogs, Category: CategoryPanel},
			{Binding: keys.ClearLogs, Category: CategoryPanel},
			{Binding: keys.Minimize, Category: CategoryPanel},

			{Binding: keys.Power, Category: CategoryActions},
			{Binding: keys.Unit, Category: CategoryActions},
			{Binding: keys.Rotate, Category: CategoryActions},

			{Binding: keys.ScrollUp, Category: CategoryScroll},
			{Binding: keys.ScrollDown, Category: CategoryScroll},
			{Binding: keys.PageUp, Category: CategoryScroll},
			{Binding: keys.PageDown, Category: CategoryScroll},
			{Binding: keys.GoTop, Category: CategoryScroll},
			{Binding: keys.GoBottom, Category: CategoryScroll},

			{Binding: keys.Help, Category: CategorySystem},
			{Binding: keys.Quit, Category: CategorySystem},
		},
	}
}

// ByCategory returns all entries matching the given category.
func (r *KeyRegistry) ByCategory(cat KeyCategory) []KeyEntry {
	var result []KeyEntry
	for _, e := range r.Entries {
		if e.Category == cat {
			result = append(result, e)
		}
	}
	return result
}

// HasDuplicateKeys checks for keys bound more than once.
// Returns a list of conflicts (empty if none).
func (r *KeyRegistry) HasDuplicateKeys() []string {
	seen := make(map[string]string)
	var conflicts []string

	for _, e := range r.Entries {
		for _, k := range e.Binding.Keys() {
			if existing, ok := seen[k]; ok {
				conflicts = append(conflicts, fmt.Sprintf(
					"duplicate key %q: %s vs %s", k, existing, e.Binding.Help().Desc,
				))
				continue
			}
			seen[k] = e.Binding.Help().Desc
		}
	}

	return conflicts
}

// FormatTable returns a formatted table of all keybindings grouped by category.
func (r *KeyRegistry) FormatTable() string {
	var sb strings.Builder

	for _, cat := range categoryOrder {
		entries := r.ByCategory(cat)
		if len(entries) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("\n%s:\n", strings.ToUpper(string(cat))))
		sb.WriteString(strings.Repeat("-", 40) + "\n")

		for _, e := range entries {
			keysStr := strings.Join(e.Binding.Keys(), ", ")
			sb.WriteString(fmt.Sprintf("  %-16s  %s\n", keysStr, e.Binding.Help().Desc))
		}
	}

	return sb.String()
}

// FormatJSON returns a JSON-friendly slice of binding descriptions.
func (r *KeyRegistry) FormatJSON() []map[string]string {
	result := make([]map[string]string, 0, len(r.Entries))
	for _, e := range r.Entries {
		result = append(result, map[string]string{
			"keys":     strings.Join(e.Binding.Keys(), ", "),
			"desc":     e.Binding.Help().Desc,
			"category": string(e.Category),
		})
	}
	return result
}
