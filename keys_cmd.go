package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gitlab.com/tinyland/lab/sysmon/display/tui"
)

// runKeysCommand prints all status bar keybindings to w.
func runKeysCommand(w io.Writer, format string) error {
	reg := tui.DefaultRegistry()

	switch format {
	case "json":
		data, err := json.MarshalIndent(reg.FormatJSON(), "", "  ")
		if err != nil {
			return fmt.Errorf("marshal key bindings: %w", err)
		}
		fmt.Fprintln(w, string(data))
	case "", "table":
		fmt.Fprint(w, reg.FormatTable())
	default:
		return fmt.Errorf("unknown keys format %q (want table or json)", format)
	}
	return nil
}
