package gait

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/fitzterra/micro-hexapod/pkg/servo"
)

// CenterAngle is the neutral servo position all oscillation happens around.
const CenterAngle = 90

// TrimMax bounds the per-leg trim calibration to a safe band either side of
// center.
const TrimMax = 10

// Oscillator turns wall-clock progress into a servo angle for one leg.
//
// The angle is a sinusoid around the trimmed center: at any instant
//
//	angle = 90 + trim + amplitude * sin(2*pi*phaseFraction + phaseShift)
//
// where phaseFraction is (elapsed mod period) / period. While paused,
// Update holds the last commanded angle; the phase origin is never reset,
// so resuming continues the waveform where wall-clock time has moved it
// (freeze-and-resume).
type Oscillator struct {
	act    servo.Actuator
	maxAmp int
	start  time.Time

	mu         sync.Mutex
	periodMS   int
	amplitude  int
	phaseShift int
	trim       int
	paused     bool
}

// NewOscillator returns a paused oscillator driving act, with amplitude
// capped at maxAmp degrees.
func NewOscillator(act servo.Actuator, maxAmp int) *Oscillator {
	return &Oscillator{
		act:    act,
		maxAmp: maxAmp,
		start:  time.Now(),
		paused: true,
	}
}

// Set updates the oscillation parameters. It performs no actuation; the next
// Update picks the new values up. Amplitude above the per-leg maximum or a
// phase shift outside [0, 359] fails with ErrInvalidParameter and leaves all
// parameters untouched.
func (o *Oscillator) Set(periodMS, amplitude, phaseShift int) error {
	if periodMS <= 0 {
		return fmt.Errorf("%w: period %dms must be positive", ErrInvalidParameter, periodMS)
	}
	if amplitude < 0 || amplitude > o.maxAmp {
		return fmt.Errorf("%w: amplitude %d outside [0, %d]", ErrInvalidParameter, amplitude, o.maxAmp)
	}
	if phaseShift < 0 || phaseShift > 359 {
		return fmt.Errorf("%w: phase shift %d outside [0, 359]", ErrInvalidParameter, phaseShift)
	}

	o.mu.Lock()
	o.periodMS = periodMS
	o.amplitude = amplitude
	o.phaseShift = phaseShift
	o.mu.Unlock()
	return nil
}

// SetTrim updates the center offset. Values outside the +-TrimMax safety
// band fail with ErrInvalidParameter without mutating state.
func (o *Oscillator) SetTrim(deg int) error {
	if deg < -TrimMax || deg > TrimMax {
		return fmt.Errorf("%w: trim %d outside [%d, %d]", ErrInvalidParameter, deg, -TrimMax, TrimMax)
	}
	o.mu.Lock()
	o.trim = deg
	o.mu.Unlock()
	return nil
}

// SetPaused freezes or resumes the waveform output.
func (o *Oscillator) SetPaused(paused bool) {
	o.mu.Lock()
	o.paused = paused
	o.mu.Unlock()
}

// Update computes the angle for now and writes it to the actuator.
// A no-op while paused. Actuator write failures are logged, not returned:
// the update task keeps running and keeps trying on future ticks.
func (o *Oscillator) Update(now time.Time) {
	o.mu.Lock()
	if o.paused || o.periodMS <= 0 {
		o.mu.Unlock()
		return
	}
	elapsed := now.Sub(o.start).Milliseconds()
	frac := float64(elapsed%int64(o.periodMS)) / float64(o.periodMS)
	shift := float64(o.phaseShift) * math.Pi / 180
	angle := float64(CenterAngle+o.trim) + float64(o.amplitude)*math.Sin(2*math.Pi*frac+shift)
	o.mu.Unlock()

	if err := o.act.SetAngle(angle); err != nil {
		slog.Error("servo write failed", "angle", angle, "err", err)
	}
}

// Center pauses the oscillator and immediately commands the center angle,
// plus trim when withTrim is set. This bypasses the waveform entirely.
func (o *Oscillator) Center(withTrim bool) error {
	o.mu.Lock()
	o.paused = true
	angle := float64(CenterAngle)
	if withTrim {
		angle += float64(o.trim)
	}
	o.mu.Unlock()

	if err := o.act.SetAngle(angle); err != nil {
		slog.Error("servo center failed", "angle", angle, "err", err)
		return err
	}
	return nil
}

// Period returns the current oscillation period in milliseconds.
func (o *Oscillator) Period() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.periodMS
}

// Amplitude returns the current amplitude in degrees.
func (o *Oscillator) Amplitude() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.amplitude
}

// PhaseShift returns the current phase shift in degrees.
func (o *Oscillator) PhaseShift() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phaseShift
}

// Trim returns the current trim in degrees.
func (o *Oscillator) Trim() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.trim
}

// Paused reports whether the oscillator output is frozen.
func (o *Oscillator) Paused() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.paused
}
