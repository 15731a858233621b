// Package color decides whether sysmon output carries ANSI color.
//
// It honors NO_COLOR (https://no-color.org/), the display.color setting and
// pipe/redirect detection. When color is off, lipgloss is switched to the
// Ascii profile so every styled render produces plain text.
package color

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Mode is the display.color setting.
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeAlways Mode = "always"
	ModeNever  Mode = "never"
)

// ParseMode converts a config string into a Mode. Empty means auto.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeAlways, ModeNever:
		return Mode(s), nil
	}
	return "", fmt.Errorf("color: unknown mode %q", s)
}

// ShouldDisableColor reports whether color must be suppressed for f:
// NO_COLOR is set (any value), or f is not a terminal.
func ShouldDisableColor(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return true
	}
	if f == nil {
		return true
	}
	fd := f.Fd()
	return !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)
}

// Enabled resolves a mode against the environment of f.
func Enabled(mode Mode, f *os.File) bool {
	switch mode {
	case ModeNever:
		return false
	case ModeAlways:
		return true
	default:
		return !ShouldDisableColor(f)
	}
}

// Apply configures the global lipgloss renderer for output written to f and
// returns whether color is enabled.
func Apply(mode Mode, f *os.File) bool {
	if !Enabled(mode, f) {
		ForceDisable()
		return false
	}
	if mode == ModeAlways && lipgloss.ColorProfile() == termenv.Ascii {
		lipgloss.SetColorProfile(termenv.ANSI256)
	}
	return true
}

// ForceDisable switches lipgloss to the Ascii profile unconditionally.
func ForceDisable() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// StripANSI removes ANSI escape sequences from s. Headless output passes log
// lines through it when color is off.
func StripANSI(s string) string {
	out := make([]byte, 0, len(s))
	inEscape := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inEscape {
			if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '~' {
				inEscape = false
			}
			continue
		}
		if c == '\x1b' {
			inEscape = true
			continue
		}
		out = append(out, c)
	}
	return string(out)
}
