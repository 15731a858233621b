package widgets

import (
	"strings"
	"testing"

	"gitlab.com/tinyland/lab/sysmon/monitor"
	"gitlab.com/tinyland/lab/sysmon/status"
)

func TestRenderGauge(t *testing.T) {
	tests := []struct {
		name string
		cfg  GaugeConfig
		want string
	}{
		{"zero", GaugeConfig{Width: 4}, "░░░░"},
		{"half", GaugeConfig{Width: 4, Percent: 50}, "██░░"},
		{"full", GaugeConfig{Width: 4, Percent: 100}, "████"},
		{"over hundred clamps", GaugeConfig{Width: 4, Percent: 150}, "████"},
		{"negative clamps", GaugeConfig{Width: 4, Percent: -5}, "░░░░"},
		{"label and percent", GaugeConfig{Width: 4, Percent: 75, Label: "Heap", ShowPercent: true}, "Heap ███░  75%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderGauge(tt.cfg); got != tt.want {
				t.Errorf("RenderGauge() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderGaugeDefaultWidth(t *testing.T) {
	if got := RenderGauge(GaugeConfig{}); len([]rune(got)) != 20 {
		t.Errorf("default width = %d runes", len([]rune(got)))
	}
}

func TestRenderReadingGauge(t *testing.T) {
	r := monitor.Reading{Label: "Heap", Value: "42.0%", Raw: 42, Level: status.LevelNormal}
	if got := RenderReadingGauge(r, 10); !strings.Contains(got, " 42%") {
		t.Errorf("available gauge = %q", got)
	}

	na := monitor.Reading{Label: "Heap", Value: monitor.NotApplicable, Level: status.LevelUnavailable}
	got := RenderReadingGauge(na, 10)
	if !strings.HasSuffix(got, "N/A") || strings.Contains(got, "█") {
		t.Errorf("unavailable gauge = %q", got)
	}
}
