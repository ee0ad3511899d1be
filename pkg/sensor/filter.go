// Package sensor provides the obstacle distance sensor boundary: a
// RangeFinder interface over the hardware, a moving-average filter for the
// noisy raw readings, and a sampling loop that feeds one into the other.
package sensor

import "sync"

// DefaultWindow is the moving-average window size used by the stock build.
const DefaultWindow = 20

// RangeFinder reads a single raw distance sample from the hardware.
type RangeFinder interface {
	// Distance returns the measured distance in millimetres.
	// It returns ErrUnconfigured if the device is not actually present;
	// the sampling loop treats that as permanent and stops.
	Distance() (float64, error)
}

// Filter smooths raw distance readings with a bounded moving average.
// Oldest samples are evicted first once the window is full.
type Filter struct {
	mu       sync.Mutex
	samples  []float64
	capacity int
}

// NewFilter returns a Filter holding at most capacity samples.
// A capacity below 1 falls back to DefaultWindow.
func NewFilter(capacity int) *Filter {
	if capacity < 1 {
		capacity = DefaultWindow
	}
	return &Filter{
		samples:  make([]float64, 0, capacity),
		capacity: capacity,
	}
}

// Add appends a raw sample, evicting the oldest one if the window is full.
func (f *Filter) Add(v float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.samples) == f.capacity {
		copy(f.samples, f.samples[1:])
		f.samples = f.samples[:f.capacity-1]
	}
	f.samples = append(f.samples, v)
}

// Average returns the arithmetic mean of the current window, or ErrNoData
// while no samples have been taken.
func (f *Filter) Average() (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.samples) == 0 {
		return 0, ErrNoData
	}
	var sum float64
	for _, v := range f.samples {
		sum += v
	}
	return sum / float64(len(f.samples)), nil
}

// Len returns the number of samples currently held.
func (f *Filter) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.samples)
}
