// Package servo defines the actuator primitive the gait oscillators drive.
//
// Real hardware sits behind the Actuator interface. On a workstation the
// Sim implementation stands in for the PWM driver, the same way the firmware
// ships a simulator for bench work.
package servo

import (
	"fmt"
	"log/slog"
	"sync"
)

// Angle limits for a standard 180 degree hobby servo.
const (
	AngleMin = 0
	AngleMax = 180
)

// Actuator is the "set angle on this output" primitive.
type Actuator interface {
	// SetAngle commands the servo to the given angle in degrees.
	// Implementations reject angles outside [AngleMin, AngleMax].
	SetAngle(deg float64) error
}

// Sim is a simulated servo for running the daemon without hardware.
// It remembers the last commanded angle and optionally logs every write.
type Sim struct {
	pin     int
	verbose bool

	mu    sync.Mutex
	angle float64
}

// NewSim returns a simulated servo on the given (notional) pin.
func NewSim(pin int, verbose bool) *Sim {
	return &Sim{pin: pin, angle: 90, verbose: verbose}
}

// SetAngle records the commanded angle.
func (s *Sim) SetAngle(deg float64) error {
	if deg < AngleMin || deg > AngleMax {
		return fmt.Errorf("servo: angle %.1f out of range [%d, %d]", deg, AngleMin, AngleMax)
	}
	s.mu.Lock()
	s.angle = deg
	s.mu.Unlock()
	if s.verbose {
		slog.Debug("servo angle", "pin", s.pin, "deg", deg)
	}
	return nil
}

// Angle returns the last commanded angle.
func (s *Sim) Angle() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.angle
}

// Pin returns the pin this servo is attached to.
func (s *Sim) Pin() int {
	return s.pin
}
