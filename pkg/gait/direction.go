package gait

import "fmt"

// Direction is a named gait: the phase-shift template the three legs run.
type Direction string

// The four supported gaits. The tokens are the ones the control surface
// speaks, unchanged from the original firmware protocol.
const (
	Forward     Direction = "fwd"
	Reverse     Direction = "rev"
	RotateRight Direction = "rotr"
	RotateLeft  Direction = "rotl"
)

// phaseTemplates maps each gait to the per-leg phase shifts (left, mid,
// right, in degrees) that produce it.
var phaseTemplates = map[Direction][3]int{
	Forward:     {0, 90, 0},
	Reverse:     {90, 0, 90},
	RotateRight: {0, 90, 180},
	RotateLeft:  {180, 90, 0},
}

// ParseDirection validates a steering token from the control surface.
func ParseDirection(s string) (Direction, error) {
	d := Direction(s)
	if _, ok := phaseTemplates[d]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
	return d, nil
}

// Rotating reports whether the gait is an on-the-spot rotation.
// Steering angles only apply to the travelling gaits.
func (d Direction) Rotating() bool {
	return d == RotateRight || d == RotateLeft
}
