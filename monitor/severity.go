package monitor

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrUnknownSeverity is returned by ParseSeverity for unrecognised names.
var ErrUnknownSeverity = errors.New("monitor: unknown severity")

// Severity classifies a log entry.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ParseSeverity maps a case-insensitive name to a Severity. An empty name is
// info.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return SeverityInfo, nil
	case "success":
		return SeveritySuccess, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSeverity, s)
	}
}

// slogLevel is the echo level for a severity: errors at Error, warnings at
// Warn, everything else at Info.
func (s Severity) slogLevel() slog.Level {
	switch s {
	case SeverityError:
		return slog.LevelError
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
