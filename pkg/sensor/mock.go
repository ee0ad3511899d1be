package sensor

import "sync"

// Mock is a RangeFinder fed from a fixed script of readings.
// After the script runs out it keeps returning the final reading.
type Mock struct {
	mu       sync.Mutex
	readings []float64
	idx      int
	err      error
}

// NewMock returns a Mock that replays the given readings in order.
func NewMock(readings ...float64) *Mock {
	return &Mock{readings: readings}
}

// Distance returns the next scripted reading, or the injected error.
func (m *Mock) Distance() (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	if len(m.readings) == 0 {
		return 0, ErrNoData
	}
	v := m.readings[m.idx]
	if m.idx < len(m.readings)-1 {
		m.idx++
	}
	return v, nil
}

// FailWith makes every subsequent Distance return err. Pass nil to heal.
func (m *Mock) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}
