package format

import "fmt"

const bytesPerMB = 1048576

// MB converts a byte count to mebibytes.
func MB(bytes uint64) float64 {
	return float64(bytes) / bytesPerMB
}

// FormatMB renders a byte count as mebibytes with one decimal, e.g. "12.5".
func FormatMB(bytes uint64) string {
	return fmt.Sprintf("%.1f", MB(bytes))
}

// Percent returns part/whole*100, or 0 when whole is zero.
func Percent(part, whole uint64) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// TruncateWithEllipsis truncates a string to maxWidth characters, appending "..."
// if the string exceeds the limit. If maxWidth is less than 4, the string
// is hard-truncated without an ellipsis suffix.
func TruncateWithEllipsis(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}

	runes := []rune(s)
	if len(runes) <= maxWidth {
		return s
	}

	if maxWidth < 4 {
		return string(runes[:maxWidth])
	}

	return string(runes[:maxWidth-3]) + "..."
}
