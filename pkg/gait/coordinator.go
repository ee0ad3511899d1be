// Package gait drives the three leg servos of the hexapod.
//
// Each leg has an Oscillator producing a sinusoidal angle; the Coordinator
// is the single source of truth for commanded locomotion. It translates the
// high-level controls (steer, speed, stroke, trim, pause) into consistent
// per-oscillator parameter sets, and owns trim persistence and the obstacle
// sensor readout.
package gait

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fitzterra/micro-hexapod/pkg/sensor"
	"github.com/fitzterra/micro-hexapod/pkg/servo"
)

// Leg indexes the three leg groups, always in left, mid, right order.
type Leg int

// The three legs.
const (
	Left Leg = iota
	Mid
	Right
)

// Oscillation and stroke limits, from the physical robot build.
//
// The legs cannot swing the full 0-180 range without touching the body;
// StrokeMinAngle/StrokeMaxAngle are the measured safe extremes. The swing
// splits around the 90 degree center, so half the usable range is the
// maximum amplitude for the left and right legs.
const (
	PeriodMin = 500  // ms, fastest cycle
	PeriodMax = 3000 // ms, slowest cycle

	StrokeMinAngle = 35
	StrokeMaxAngle = 145
	StrokeMax      = (StrokeMaxAngle - StrokeMinAngle) / 2

	// MidAmplitudeMax caps the middle leg lift. The mid servo tilts the
	// body rather than swinging a leg, so its safe range is much smaller.
	MidAmplitudeMax = 25
)

// UpdateInterval is how often each oscillator recomputes its angle. Well
// under PeriodMin so even the fastest gait gets smooth motion.
const UpdateInterval = 20 * time.Millisecond

// TrimStore persists the per-leg trim calibration between restarts.
type TrimStore interface {
	Load() ([3]int, error)
	Save([3]int) error
}

// Config carries the startup parameters for the coordinator.
type Config struct {
	Pins         [3]int        // servo GPIO pins, left/mid/right (reported, not driven here)
	Trim         [3]int        // default trim, overridden by the store if a valid save exists
	MidAmplitude int           // fixed mid leg lift in degrees
	Stroke       int           // initial left/right amplitude in degrees
	PeriodMS     int           // initial oscillation period
	SampleDelay  time.Duration // obstacle sampling interval
	SampleWindow int           // obstacle moving-average window
}

// SteerCommand changes direction, steering angle, or both. Nil fields are
// left unchanged.
type SteerCommand struct {
	Dir   *string
	Angle *int
}

// Params is a snapshot of the commanded locomotion state. LegAmplitudes is
// read back from the oscillators rather than coordinator intent, so it shows
// the post-clamp truth when steering has redistributed stroke.
type Params struct {
	Pins          [3]int `json:"pins"`
	Period        int    `json:"period"`
	Phase         [3]int `json:"phase"`
	Trim          [3]int `json:"trim"`
	MidAmplitude  int    `json:"mid_ampl"`
	Stroke        int    `json:"stroke"`
	LegAmplitudes [2]int `json:"legs_ampl"`
	Paused        bool   `json:"paused"`
}

// Coordinator owns the three leg oscillators and the obstacle filter.
//
// All compound state (the steering clamp spans two stroke values, the trim
// vector three) is mutated under one mutex, so readers never observe a
// half-applied command.
type Coordinator struct {
	mu  sync.Mutex
	osc [3]*Oscillator

	pins       [3]int
	periodMS   int
	phase      [3]int
	trim       [3]int
	midAmpl    int
	stroke     int
	paused     bool
	steerDir   Direction
	steerAngle int

	trims TrimStore

	finder      sensor.RangeFinder
	filter      *sensor.Filter
	sampleDelay time.Duration
	sensorGone  bool
}

// New builds the coordinator and its oscillators. Saved trim, when present
// and inside the safety band, overrides the configured defaults. The
// coordinator starts paused; call Run to start the update tasks and
// SetPaused(false) to walk.
func New(cfg Config, acts [3]servo.Actuator, trims TrimStore, finder sensor.RangeFinder) (*Coordinator, error) {
	c := &Coordinator{
		pins:        cfg.Pins,
		periodMS:    clamp(cfg.PeriodMS, PeriodMin, PeriodMax),
		trim:        cfg.Trim,
		midAmpl:     cfg.MidAmplitude,
		stroke:      clamp(cfg.Stroke, 0, StrokeMax),
		paused:      true,
		steerDir:    Forward,
		trims:       trims,
		finder:      finder,
		sampleDelay: cfg.SampleDelay,
	}
	c.loadSavedTrim()

	maxAmps := [3]int{StrokeMax, MidAmplitudeMax, StrokeMax}
	amps := [3]int{c.stroke, c.midAmpl, c.stroke}
	c.phase = phaseTemplates[Forward]
	for i := range c.osc {
		o := NewOscillator(acts[i], maxAmps[i])
		if err := o.Set(c.periodMS, amps[i], c.phase[i]); err != nil {
			return nil, err
		}
		if err := o.SetTrim(c.trim[i]); err != nil {
			return nil, err
		}
		c.osc[i] = o
	}

	if finder != nil {
		c.filter = sensor.NewFilter(cfg.SampleWindow)
	}
	return c, nil
}

// loadSavedTrim replaces the configured trim defaults with the persisted
// values, if there are any and they are all inside the safety band.
func (c *Coordinator) loadSavedTrim() {
	if c.trims == nil {
		return
	}
	saved, err := c.trims.Load()
	if err != nil {
		slog.Info("no saved trim, using configured defaults", "err", err)
		return
	}
	for _, v := range saved {
		if v < -TrimMax || v > TrimMax {
			slog.Error("saved trim outside safety band, ignoring", "trim", saved)
			return
		}
	}
	c.trim = saved
	slog.Info("restored saved trim", "trim", saved)
}

// Run starts the update task for each oscillator and, when a range finder
// is configured, the obstacle sampling task. The tasks run until ctx is
// cancelled at process exit; the only way to stop actuation before that is
// SetPaused.
func (c *Coordinator) Run(ctx context.Context) {
	for _, o := range c.osc {
		go c.updateLoop(ctx, o)
	}
	if c.finder != nil {
		go c.sampleLoop(ctx)
	}
}

func (c *Coordinator) updateLoop(ctx context.Context, o *Oscillator) {
	ticker := time.NewTicker(UpdateInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			o.Update(now)
		}
	}
}

func (c *Coordinator) sampleLoop(ctx context.Context) {
	err := sensor.Monitor(ctx, c.finder, c.filter, c.sampleDelay)
	if errors.Is(err, sensor.ErrUnconfigured) {
		c.mu.Lock()
		c.sensorGone = true
		c.mu.Unlock()
	}
}

// Params returns the full current locomotion snapshot.
func (c *Coordinator) Params() Params {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Params{
		Pins:         c.pins,
		Period:       c.periodMS,
		Phase:        c.phase,
		Trim:         c.trim,
		MidAmplitude: c.midAmpl,
		Stroke:       c.stroke,
		LegAmplitudes: [2]int{
			c.osc[Left].Amplitude(),
			c.osc[Right].Amplitude(),
		},
		Paused: c.paused,
	}
}

// Paused reports the shared pause flag.
func (c *Coordinator) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// SetPaused propagates the pause flag to every oscillator.
func (c *Coordinator) SetPaused(paused bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	slog.Info("setting pause", "paused", paused)
	c.paused = paused
	for _, o := range c.osc {
		o.SetPaused(paused)
	}
}

// Center pauses the robot and drives every servo straight to the center
// angle, with or without trim. Each oscillator pauses itself as part of
// centering, so only the shared flag needs syncing here.
func (c *Coordinator) Center(withTrim bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	slog.Info("centering servos", "with_trim", withTrim)
	c.paused = true
	var firstErr error
	for _, o := range c.osc {
		if err := o.Center(withTrim); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Trim returns the current per-leg trim.
func (c *Coordinator) Trim() [3]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.trim
}

// SetTrim updates the trim for one or more legs; nil entries leave that
// leg unchanged. Every successful call triggers exactly one persistence
// attempt. A save failure is logged but neither rolls back the in-memory
// trim nor fails the caller.
func (c *Coordinator) SetTrim(trim [3]*int) ([3]int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, t := range trim {
		if t == nil {
			continue
		}
		if *t < -TrimMax || *t > TrimMax {
			return c.trim, fmt.Errorf("%w: trim %d for leg %d outside [%d, %d]",
				ErrInvalidParameter, *t, i, -TrimMax, TrimMax)
		}
	}

	for i, t := range trim {
		if t == nil {
			continue
		}
		c.trim[i] = *t
		if err := c.osc[i].SetTrim(*t); err != nil {
			slog.Error("oscillator rejected trim", "leg", i, "err", err)
		}
	}

	if c.trims != nil {
		if err := c.trims.Save(c.trim); err != nil {
			slog.Error("saving trim failed", "err", err)
		} else {
			slog.Info("saved trim", "trim", c.trim)
		}
	}
	return c.trim, nil
}

// Steer returns the current direction and steering angle.
func (c *Coordinator) Steer() (Direction, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.steerDir, c.steerAngle
}

// SetSteer applies a steering command. Changing direction always resets the
// angle to 0; an angle is only valid for the travelling gaits. Validation
// happens up front, so a rejected command leaves the state untouched.
func (c *Coordinator) SetSteer(cmd SteerCommand) (Direction, int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	newDir := c.steerDir
	newAngle := c.steerAngle
	changed := false

	if cmd.Dir != nil {
		d, err := ParseDirection(*cmd.Dir)
		if err != nil {
			return c.steerDir, c.steerAngle, err
		}
		newDir = d
		newAngle = 0
		changed = true
	}
	if cmd.Angle != nil {
		if newDir.Rotating() {
			return c.steerDir, c.steerAngle, fmt.Errorf(
				"%w: steering angle only applies to fwd/rev travel", ErrInvalidParameter)
		}
		if *cmd.Angle < -90 || *cmd.Angle > 90 {
			return c.steerDir, c.steerAngle, fmt.Errorf(
				"%w: steering angle %d outside [-90, 90]", ErrInvalidParameter, *cmd.Angle)
		}
		newAngle = *cmd.Angle
		changed = true
	}

	if changed {
		c.steerDir, c.steerAngle = newDir, newAngle
		c.updateOscillators()
	}
	return c.steerDir, c.steerAngle, nil
}

// Speed returns the current speed as a percentage of the period range.
// The period is the inverse of speed, so this reads back slightly off the
// value originally set when integer rounding bites.
func (c *Coordinator) Speed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.speedLocked()
}

func (c *Coordinator) speedLocked() int {
	slowness := (c.periodMS - PeriodMin) * 100 / (PeriodMax - PeriodMin)
	return 100 - slowness
}

// SetSpeed maps a 0-100 percentage inversely onto the period range and
// returns the resulting (post-rounding) percentage.
func (c *Coordinator) SetSpeed(pct int) (int, error) {
	if pct < 0 || pct > 100 {
		return 0, fmt.Errorf("%w: speed %d%% outside [0, 100]", ErrInvalidParameter, pct)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	slowness := 100 - pct
	c.periodMS = slowness*(PeriodMax-PeriodMin)/100 + PeriodMin
	c.updateOscillators()
	return c.speedLocked(), nil
}

// Stroke returns the current stroke as a percentage of StrokeMax.
func (c *Coordinator) Stroke() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.strokeLocked()
}

func (c *Coordinator) strokeLocked() int {
	return c.stroke * 100 / StrokeMax
}

// SetStroke maps a 0-100 percentage onto [0, StrokeMax] and returns the
// resulting (post-rounding) percentage.
func (c *Coordinator) SetStroke(pct int) (int, error) {
	if pct < 0 || pct > 100 {
		return 0, fmt.Errorf("%w: stroke %d%% outside [0, 100]", ErrInvalidParameter, pct)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stroke = pct * StrokeMax / 100
	c.updateOscillators()
	return c.strokeLocked(), nil
}

// Obstacle returns the smoothed obstacle distance in millimetres.
// It returns sensor.ErrUnconfigured when no range finder is wired (or the
// device reported itself absent), and sensor.ErrNoData before the first
// sample lands.
func (c *Coordinator) Obstacle() (float64, error) {
	c.mu.Lock()
	gone, filter := c.sensorGone, c.filter
	c.mu.Unlock()
	if filter == nil || gone {
		return 0, sensor.ErrUnconfigured
	}
	return filter.Average()
}

// updateOscillators pushes phase, period and amplitude to all three
// oscillators from the current steering state. Callers hold c.mu, so the
// redistribution and clamp land atomically with respect to readers.
func (c *Coordinator) updateOscillators() {
	c.phase = phaseTemplates[c.steerDir]
	amps := [3]int{c.stroke, c.midAmpl, c.stroke}

	if c.steerAngle != 0 && !c.steerDir.Rotating() {
		// The angle's share of the max stroke, halved: that much moves
		// to each side. A single division chain, so the value floors
		// once, matching the original firmware arithmetic.
		adj := abs(c.steerAngle) * StrokeMax / 90 / 2

		left, right := c.stroke-adj, c.stroke+adj
		if c.steerAngle > 0 {
			left, right = c.stroke+adj, c.stroke-adj
		}

		// Two-pass clamp: shift both legs by the same excess so the
		// left/right differential survives hitting either bound.
		if hi := max(left, right); hi > StrokeMax {
			left -= hi - StrokeMax
			right -= hi - StrokeMax
		}
		if lo := min(left, right); lo < 0 {
			left -= lo
			right -= lo
		}
		amps = [3]int{left, c.midAmpl, right}
	}

	for i, o := range c.osc {
		if err := o.Set(c.periodMS, amps[i], c.phase[i]); err != nil {
			slog.Error("oscillator rejected parameters", "leg", i, "err", err)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
