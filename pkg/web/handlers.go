package web

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/fitzterra/micro-hexapod/pkg/gait"
	"github.com/fitzterra/micro-hexapod/pkg/sensor"
)

// badRequest answers with the {"errors": [...]} shape the browser app
// expects for every validation failure.
func badRequest(c *fiber.Ctx, msgs ...string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": msgs})
}

// handleGetParams returns the full locomotion snapshot.
func (s *Server) handleGetParams(c *fiber.Ctx) error {
	return c.JSON(s.hex.Params())
}

// handlePause pauses all oscillators.
func (s *Server) handlePause(c *fiber.Ctx) error {
	s.hex.SetPaused(true)
	return c.JSON(fiber.Map{"paused": true})
}

// handleRun unpauses all oscillators.
func (s *Server) handleRun(c *fiber.Ctx) error {
	s.hex.SetPaused(false)
	return c.JSON(fiber.Map{"paused": false})
}

// handleGetTrim returns the current trim vector.
func (s *Server) handleGetTrim(c *fiber.Ctx) error {
	return c.JSON(s.hex.Trim())
}

// trimRequest is the POST /trim body. Trim entries may be null to leave a
// leg unchanged; Center additionally re-centers the servos with the new
// trim applied.
type trimRequest struct {
	Trim   [3]*int `json:"trim"`
	Center bool    `json:"center"`
}

// handleSetTrim updates trim for one or more legs. The body is either the
// object form {"trim": [l, m, r], "center": bool} or, like the original
// API, a bare 3-element list.
func (s *Server) handleSetTrim(c *fiber.Ctx) error {
	var req trimRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		var bare [3]*int
		if err := json.Unmarshal(c.Body(), &bare); err != nil {
			return badRequest(c, "Expect a list of three trim values.")
		}
		req.Trim = bare
	}

	trim, err := s.hex.SetTrim(req.Trim)
	if err != nil {
		return badRequest(c, err.Error())
	}
	if req.Center {
		if err := s.hex.Center(true); err != nil {
			return badRequest(c, err.Error())
		}
	}
	return c.JSON(trim)
}

// centerRequest is the POST /center_servos body.
type centerRequest struct {
	WithTrim *bool `json:"with_trim"`
}

// handleCenter drives every servo to its center position. with_trim
// defaults to true.
func (s *Server) handleCenter(c *fiber.Ctx) error {
	withTrim := true
	if len(c.Body()) > 0 {
		var req centerRequest
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return badRequest(c, "Invalid center_servos request body.")
		}
		if req.WithTrim != nil {
			withTrim = *req.WithTrim
		}
	}
	if err := s.hex.Center(withTrim); err != nil {
		return badRequest(c, err.Error())
	}
	return c.JSON(fiber.Map{"errors": []string{}})
}

// steerState is the steering representation shared by GET and POST.
func steerState(dir gait.Direction, angle int) fiber.Map {
	return fiber.Map{"dir": dir, "angle": angle}
}

// handleGetSteer returns the current steering settings.
func (s *Server) handleGetSteer(c *fiber.Ctx) error {
	dir, angle := s.hex.Steer()
	return c.JSON(steerState(dir, angle))
}

// steerRequest is the POST /steer body. Both fields are optional, but at
// least one must be present.
type steerRequest struct {
	Dir   *string `json:"dir"`
	Angle *int    `json:"angle"`
}

// handleSetSteer updates direction and/or steering angle.
func (s *Server) handleSetSteer(c *fiber.Ctx) error {
	var req steerRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return badRequest(c, "Invalid steer request body.")
	}
	if req.Dir == nil && req.Angle == nil {
		return badRequest(c, "At least one of 'dir' or 'angle' keys required.")
	}

	dir, angle, err := s.hex.SetSteer(gait.SteerCommand{Dir: req.Dir, Angle: req.Angle})
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.JSON(steerState(dir, angle))
}

// handleGetSpeed returns the current speed percentage.
func (s *Server) handleGetSpeed(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"speed": s.hex.Speed()})
}

// handleSetSpeed sets the speed percentage. The response carries the
// post-rounding value, which may differ slightly from the request.
func (s *Server) handleSetSpeed(c *fiber.Ctx) error {
	var req struct {
		Speed *int `json:"speed"`
	}
	if err := json.Unmarshal(c.Body(), &req); err != nil || req.Speed == nil {
		return badRequest(c, "No 'speed' key in parameters.")
	}
	got, err := s.hex.SetSpeed(*req.Speed)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.JSON(fiber.Map{"speed": got})
}

// handleGetStroke returns the current stroke percentage.
func (s *Server) handleGetStroke(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"stroke": s.hex.Stroke()})
}

// handleSetStroke sets the stroke percentage, with the same rounding note
// as speed.
func (s *Server) handleSetStroke(c *fiber.Ctx) error {
	var req struct {
		Stroke *int `json:"stroke"`
	}
	if err := json.Unmarshal(c.Body(), &req); err != nil || req.Stroke == nil {
		return badRequest(c, "No 'stroke' key in parameters.")
	}
	got, err := s.hex.SetStroke(*req.Stroke)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.JSON(fiber.Map{"stroke": got})
}

// handleObstacle returns the smoothed obstacle distance: -1 when no sensor
// is configured, null while there is no reading yet.
func (s *Server) handleObstacle(c *fiber.Ctx) error {
	dist, err := s.hex.Obstacle()
	switch {
	case errors.Is(err, sensor.ErrUnconfigured):
		return c.JSON(fiber.Map{"obstacle": -1})
	case errors.Is(err, sensor.ErrNoData):
		return c.JSON(fiber.Map{"obstacle": nil})
	case err != nil:
		return badRequest(c, err.Error())
	}
	return c.JSON(fiber.Map{"obstacle": dist})
}
