// Package format provides shared string and time formatting utilities.
package format

import (
	"fmt"
	"time"
)

// FormatClock renders a duration as zero-padded HH:MM:SS. Hours are not
// wrapped at 24, so a two-day uptime renders as "48:00:00".
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	hours := int64(d / time.Hour)
	minutes := int64(d/time.Minute) % 60
	seconds := int64(d/time.Second) % 60

	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// FormatTimestamp renders the wall-clock time used for log entries.
func FormatTimestamp(t time.Time) string {
	return t.Format("15:04:05")
}
