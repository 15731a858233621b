package monitor

// DefaultWindowSize is the number of raw CPU estimates averaged per reading.
const DefaultWindowSize = 10

// Window is a bounded sliding window of raw samples. It never holds more
// than its size; pushing at capacity drops the oldest sample.
type Window struct {
	samples []float64
	size    int
}

// NewWindow creates a window holding at most size samples. Sizes below one
// are raised to one.
func NewWindow(size int) *Window {
	if size < 1 {
		size = 1
	}
	return &Window{
		samples: make([]float64, 0, size+1),
		size:    size,
	}
}

// Push appends a sample, trimming the oldest beyond the window size.
func (w *Window) Push(v float64) {
	w.samples = appendAndTrim(w.samples, v, w.size)
}

// Mean returns the arithmetic mean of the held samples. The second return
// value is false when the window is empty.
func (w *Window) Mean() (float64, bool) {
	if len(w.samples) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range w.samples {
		sum += v
	}
	return sum / float64(len(w.samples)), true
}

// Len returns the number of held samples.
func (w *Window) Len() int {
	return len(w.samples)
}

// Size returns the window capacity.
func (w *Window) Size() int {
	return w.size
}

// Values returns a copy of the held samples, oldest first.
func (w *Window) Values() []float64 {
	out := make([]float64, len(w.samples))
	copy(out, w.samples)
	return out
}

// appendAndTrim appends a value and drops the oldest entries so that at most
// max remain.
func appendAndTrim(history []float64, value float64, max int) []float64 {
	history = append(history, value)
	if len(history) > max {
		n := copy(history, history[len(history)-max:])
		history = history[:n]
	}
	return history
}
