package web

import (
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"strings"

	"github.com/gofiber/websocket/v2"

	"github.com/fitzterra/micro-hexapod/pkg/gait"
	"github.com/fitzterra/micro-hexapod/pkg/hub"
)

// handleWS serves one controller connection. The wire protocol is the
// original firmware's line format: "action" or "action:args", with multiple
// colon-separated argument fields.
func (s *Server) handleWS(conn *websocket.Conn) {
	client := hub.NewClient(s.hub, conn, s.handleLine)
	client.Run()
}

// handleLine dispatches one inbound protocol line. State-changing actions
// are confirmed by broadcast, so every connected controller stays in sync;
// queries and errors go back to the requester only.
func (s *Server) handleLine(c *hub.Client, line string) {
	action, args, _ := strings.Cut(line, ":")
	slog.Debug("ws action", "client", c.ID, "action", action, "args", args)

	switch action {
	case "ping":
		c.SendText("pong")

	case "pong":
		// liveness only, the read deadline was already pushed out

	case "version":
		c.SendText("version:" + Version)

	case "memory":
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		c.SendText(fmt.Sprintf("memory:%d:%d", ms.HeapAlloc, ms.Sys))

	case "run":
		s.hex.SetPaused(false)
		s.hub.BroadcastText("run")

	case "stop":
		s.hex.SetPaused(true)
		s.hub.BroadcastText("stop")

	case "fwd", "rev", "rotr", "rotl":
		dir := action
		_, angle, err := s.hex.SetSteer(gait.SteerCommand{Dir: &dir})
		if err != nil {
			c.SendText("err:" + err.Error())
			return
		}
		s.hub.BroadcastText(dir)
		// a direction change always resets the angle
		s.hub.BroadcastText(fmt.Sprintf("steer:%d", angle))

	case "steer":
		angle, err := strconv.Atoi(args)
		if err != nil {
			c.SendText(fmt.Sprintf("err:Invalid steering angle: %s", args))
			return
		}
		_, got, err := s.hex.SetSteer(gait.SteerCommand{Angle: &angle})
		if err != nil {
			c.SendText("err:" + err.Error())
			return
		}
		s.hub.BroadcastText(fmt.Sprintf("steer:%d", got))

	case "speed":
		pct, err := strconv.Atoi(args)
		if err != nil {
			c.SendText(fmt.Sprintf("err:Invalid speed percentage: %s", args))
			return
		}
		got, err := s.hex.SetSpeed(pct)
		if err != nil {
			c.SendText("err:" + err.Error())
			return
		}
		s.hub.BroadcastText(fmt.Sprintf("speed:%d", got))

	case "stroke":
		pct, err := strconv.Atoi(args)
		if err != nil {
			c.SendText(fmt.Sprintf("err:Invalid stroke percentage: %s", args))
			return
		}
		got, err := s.hex.SetStroke(pct)
		if err != nil {
			c.SendText("err:" + err.Error())
			return
		}
		s.hub.BroadcastText(fmt.Sprintf("stroke:%d", got))

	case "trim":
		s.handleTrimLine(c, args)

	case "center":
		if err := s.hex.Center(true); err != nil {
			c.SendText("err:" + err.Error())
			return
		}
		s.hub.BroadcastText("center")

	case "obst":
		// controllers only receive obstacle reports

	default:
		slog.Info("unhandled ws action", "action", action)
	}
}

// handleTrimLine queries or sets trim over the websocket. An empty args
// string is a query; otherwise args is "left:mid:right[:center]" where the
// optional center field is "true" or "false".
func (s *Server) handleTrimLine(c *hub.Client, args string) {
	if args == "" {
		c.SendText("trim:" + trimLine(s.hex.Trim()))
		return
	}

	fields := strings.Split(args, ":")
	if len(fields) != 3 && len(fields) != 4 {
		c.SendText(fmt.Sprintf("err:Invalid trim values: %s", args))
		return
	}

	center := false
	if len(fields) == 4 {
		switch fields[3] {
		case "true":
			center = true
		case "false":
		default:
			c.SendText(fmt.Sprintf("err:Invalid trim center value: %s", fields[3]))
			return
		}
		fields = fields[:3]
	}

	var trim [3]*int
	for i, field := range fields {
		v, err := strconv.Atoi(field)
		if err != nil {
			c.SendText(fmt.Sprintf("err:One or more trim values are not integers: %s", args))
			return
		}
		trim[i] = &v
	}

	got, err := s.hex.SetTrim(trim)
	if err != nil {
		c.SendText("err:" + err.Error())
		return
	}
	if center {
		if err := s.hex.Center(true); err != nil {
			c.SendText("err:" + err.Error())
			return
		}
	}
	s.hub.BroadcastText("trim:" + trimLine(got))
}

// trimLine formats a trim vector as the colon form the protocol uses.
func trimLine(trim [3]int) string {
	return fmt.Sprintf("%d:%d:%d", trim[0], trim[1], trim[2])
}
