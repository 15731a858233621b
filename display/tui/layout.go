package tui

import "strings"

// LayoutSize represents a responsive breakpoint for terminal width.
type LayoutSize int

const (
	// LayoutCompact is used for terminals narrower than 60 characters.
	LayoutCompact LayoutSize = iota
	// LayoutNormal is used for terminals between 60 and 120 characters wide.
	LayoutNormal
	// LayoutWide is used for terminals wider than 120 characters.
	LayoutWide
)

// DetectLayout returns the appropriate LayoutSize for the given terminal width.
func DetectLayout(width int) LayoutSize {
	switch {
	case width < 60:
		return LayoutCompact
	case width <= 120:
		return LayoutNormal
	default:
		return LayoutWide
	}
}

// LayoutConfig holds responsive layout values that adapt to terminal width.
type LayoutConfig struct {
	// CellSeparator joins status bar cells.
	CellSeparator string
	// GaugeWidth is the character width of the heap gauge. Zero hides it.
	GaugeWidth int
	// SparkWidth is the width of the CPU history sparkline. Zero hides it.
	SparkWidth int
	// ButtonLabels selects long or short button captions.
	ButtonLabels bool
}

// LayoutForSize returns a LayoutConfig appropriate for the given size.
func LayoutForSize(size LayoutSize) LayoutConfig {
	switch size {
	case LayoutCompact:
		return LayoutConfig{
			CellSeparator: " ",
		}
	case LayoutWide:
		return LayoutConfig{
			CellSeparator: "  │  ",
			GaugeWidth:    30,
			SparkWidth:    30,
			ButtonLabels:  true,
		}
	default: // LayoutNormal
		return LayoutConfig{
			CellSeparator: " │ ",
			GaugeWidth:    20,
			SparkWidth:    10,
			ButtonLabels:  true,
		}
	}
}

// horizontalRule returns a horizontal line of the given width using box-drawing
// characters.
func horizontalRule(width int) string {
	if width <= 0 {
		return ""
	}
	return strings.Repeat("─", width)
}

// sectionTitle renders a centered title with horizontal rules on either side.
// Format: "---- Title ----"
func sectionTitle(title string, width int) string {
	if width <= 0 {
		return title
	}

	decorLen := len([]rune(title)) + 2
	if decorLen >= width {
		return title
	}

	remaining := width - decorLen
	leftLen := remaining / 2

	return horizontalRule(leftLen) + " " + title + " " + horizontalRule(remaining-leftLen)
}
