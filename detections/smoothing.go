package detections

import "sync"

// SmoothingWindow keeps the most recent raw probabilities and exposes
// their running mean to damp frame-to-frame noise. One window is shared
// across all requests; interleaved clients influence each other's
// smoothed result. That is a known limitation, not a bug.
type SmoothingWindow struct {
	mu     sync.Mutex
	values []float32
	size   int
}

func NewSmoothingWindow(size int) *SmoothingWindow {
	if size <= 0 {
		size = SmoothingWindowSize
	}
	return &SmoothingWindow{
		values: make([]float32, 0, size),
		size:   size,
	}
}

// PushAndMean appends p, evicts the oldest entry once the window is full,
// and returns the mean of the held entries. Push and read happen under
// one lock so concurrent requests cannot tear the window.
func (w *SmoothingWindow) PushAndMean(p float32) float32 {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.values = append(w.values, p)
	if len(w.values) > w.size {
		w.values = w.values[1:]
	}

	var sum float32
	for _, v := range w.values {
		sum += v
	}
	return sum / float32(len(w.values))
}

// Len reports how many entries the window currently holds.
func (w *SmoothingWindow) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.values)
}
