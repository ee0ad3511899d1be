package servo

import (
	"errors"
	"testing"
)

func TestSimStartsCentered(t *testing.T) {
	s := NewSim(14, false)
	if got := s.Angle(); got != 90 {
		t.Errorf("initial angle: got %v, want 90", got)
	}
	if s.Pin() != 14 {
		t.Errorf("pin: got %d, want 14", s.Pin())
	}
}

func TestSimRejectsOutOfRange(t *testing.T) {
	s := NewSim(14, false)
	if err := s.SetAngle(120); err != nil {
		t.Fatalf("SetAngle(120): %v", err)
	}

	for _, deg := range []float64{-0.1, 180.1, 360} {
		if err := s.SetAngle(deg); err == nil {
			t.Errorf("SetAngle(%v) accepted", deg)
		}
	}
	// Rejected writes must not disturb the held angle
	if got := s.Angle(); got != 120 {
		t.Errorf("angle after rejected writes: got %v, want 120", got)
	}

	for _, deg := range []float64{AngleMin, AngleMax} {
		if err := s.SetAngle(deg); err != nil {
			t.Errorf("SetAngle(%v): %v", deg, err)
		}
	}
}

func TestRecorderHistory(t *testing.T) {
	r := NewRecorder()
	if got := r.Last(); got != -1 {
		t.Errorf("empty Last: got %v, want -1", got)
	}

	for _, deg := range []float64{90, 95, 100} {
		if err := r.SetAngle(deg); err != nil {
			t.Fatalf("SetAngle(%v): %v", deg, err)
		}
	}
	if got := r.Count(); got != 3 {
		t.Errorf("Count: got %d, want 3", got)
	}
	if got := r.Last(); got != 100 {
		t.Errorf("Last: got %v, want 100", got)
	}

	angles := r.Angles()
	angles[0] = 0
	if r.Angles()[0] != 90 {
		t.Error("Angles returned the internal slice, not a copy")
	}
}

func TestRecorderFailWith(t *testing.T) {
	r := NewRecorder()
	boom := errors.New("pwm dead")

	r.FailWith(boom)
	if err := r.SetAngle(90); !errors.Is(err, boom) {
		t.Errorf("got %v, want injected error", err)
	}
	if r.Count() != 0 {
		t.Errorf("failed write recorded: count %d", r.Count())
	}

	r.FailWith(nil)
	if err := r.SetAngle(90); err != nil {
		t.Errorf("SetAngle after heal: %v", err)
	}
}
