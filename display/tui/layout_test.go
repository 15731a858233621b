package tui

import (
	"strings"
	"testing"
)

func TestDetectLayout(t *testing.T) {
	tests := []struct {
		width int
		want  LayoutSize
	}{
		{10, LayoutCompact},
		{59, LayoutCompact},
		{60, LayoutNormal},
		{120, LayoutNormal},
		{121, LayoutWide},
		{200, LayoutWide},
	}

	for _, tt := range tests {
		if got := DetectLayout(tt.width); got != tt.want {
			t.Errorf("DetectLayout(%d) = %d, want %d", tt.width, got, tt.want)
		}
	}
}

func TestLayoutForSize(t *testing.T) {
	compact := LayoutForSize(LayoutCompact)
	if compact.GaugeWidth != 0 || compact.SparkWidth != 0 {
		t.Errorf("compact layout should hide gauge and sparkline: %+v", compact)
	}
	if compact.ButtonLabels {
		t.Error("compact layout should use short button captions")
	}

	normal := LayoutForSize(LayoutNormal)
	if normal.GaugeWidth != 20 || normal.SparkWidth != 10 {
		t.Errorf("normal layout = %+v", normal)
	}

	wide := LayoutForSize(LayoutWide)
	if wide.GaugeWidth <= normal.GaugeWidth {
		t.Errorf("wide gauge %d should exceed normal %d", wide.GaugeWidth, normal.GaugeWidth)
	}
}

func TestHorizontalRule(t *testing.T) {
	got := horizontalRule(10)
	if got != strings.Repeat("─", 10) {
		t.Errorf("horizontalRule(10) = %q", got)
	}
	if got := horizontalRule(0); got != "" {
		t.Errorf("horizontalRule(0) = %q, want empty", got)
	}
}

func TestSectionTitle(t *testing.T) {
	tests := []struct {
		title string
		width int
		want  string
	}{
		{"Logs", 12, "─── Logs ───"},
		{"Logs", 13, "─── Logs ────"},
		{"Logs", 5, "Logs"},
		{"Logs", 0, "Logs"},
	}

	for _, tt := range tests {
		if got := sectionTitle(tt.title, tt.width); got != tt.want {
			t.Errorf("sectionTitle(%q, %d) = %q, want %q", tt.title, tt.width, got, tt.want)
		}
	}
}
