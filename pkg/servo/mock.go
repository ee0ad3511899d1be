package servo

import "sync"

// Recorder is an Actuator test double that keeps the full angle history
// and can be made to fail on demand.
type Recorder struct {
	mu     sync.Mutex
	angles []float64
	err    error
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// SetAngle appends the angle to the history, or returns the injected error.
func (r *Recorder) SetAngle(deg float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.angles = append(r.angles, deg)
	return nil
}

// FailWith makes every subsequent SetAngle return err. Pass nil to heal.
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Angles returns a copy of the recorded angle history.
func (r *Recorder) Angles() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]float64, len(r.angles))
	copy(out, r.angles)
	return out
}

// Last returns the most recent angle, or -1 if nothing was written yet.
func (r *Recorder) Last() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.angles) == 0 {
		return -1
	}
	return r.angles[len(r.angles)-1]
}

// Count returns the number of writes so far.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.angles)
}
