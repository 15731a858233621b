package monitor

import (
	"math"
	"testing"
)

func TestWindowBound(t *testing.T) {
	w := NewWindow(DefaultWindowSize)
	for i := 1; i <= 25; i++ {
		w.Push(float64(i))
	}

	if w.Len() != DefaultWindowSize {
		t.Fatalf("Len() = %d, want %d", w.Len(), DefaultWindowSize)
	}
	vals := w.Values()
	if vals[0] != 16 || vals[len(vals)-1] != 25 {
		t.Errorf("values = %v, want 16..25", vals)
	}

	mean, ok := w.Mean()
	if !ok || mean != 20.5 {
		t.Errorf("Mean() = %v, %v; want 20.5", mean, ok)
	}
}

func TestWindowMeanAfterSpike(t *testing.T) {
	w := NewWindow(10)
	for i := 0; i < 10; i++ {
		w.Push(5.0)
	}
	w.Push(50.0)

	mean, _ := w.Mean()
	if math.Abs(mean-9.5) > 1e-9 {
		t.Errorf("Mean() = %v, want 9.5", mean)
	}
}

func TestWindowEmpty(t *testing.T) {
	w := NewWindow(0)
	if w.Size() != 1 {
		t.Errorf("Size() = %d, want 1", w.Size())
	}
	if _, ok := w.Mean(); ok {
		t.Error("Mean() on empty window reported ok")
	}

	w.Push(3)
	w.Push(4)
	if got := w.Values(); len(got) != 1 || got[0] != 4 {
		t.Errorf("values = %v, want [4]", got)
	}
}

func TestAppendAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []float64
		value    float64
		max      int
		wantLen  int
		wantLast float64
	}{
		{"empty history appends one", nil, 42, 10, 1, 42},
		{"under max keeps all", []float64{1, 2, 3}, 4, 10, 4, 4},
		{"at max trims oldest", make([]float64, 10), 99, 10, 10, 99},
		{"over max trims to max", make([]float64, 15), 77, 10, 10, 77},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := appendAndTrim(tt.input, tt.value, tt.max)
			if len(result) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(result), tt.wantLen)
			}
			if result[len(result)-1] != tt.wantLast {
				t.Errorf("last = %f, want %f", result[len(result)-1], tt.wantLast)
			}
		})
	}
}
