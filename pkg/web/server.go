// Package web exposes the hexapod control surface: a small HTTP API for the
// browser app plus a websocket speaking the line-based controller protocol.
package web

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/fitzterra/micro-hexapod/pkg/gait"
	"github.com/fitzterra/micro-hexapod/pkg/hub"
	"github.com/fitzterra/micro-hexapod/pkg/sensor"
)

// Version is reported over the control websocket.
const Version = "0.5.0"

// obstacleInterval is how often connected controllers get an obstacle update.
const obstacleInterval = time.Second

// Server is the hexapod control server.
type Server struct {
	app  *fiber.App
	port string
	hex  *gait.Coordinator
	hub  *hub.Hub
}

// NewServer builds the control server around an already-constructed
// coordinator.
func NewServer(port string, hex *gait.Coordinator) *Server {
	s := &Server{
		port: port,
		hex:  hex,
		hub:  hub.New("controllers"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "micro-hexapod",
		DisableStartupMessage: true,
	})

	// The browser app may be served from anywhere during development
	app.Use(cors.New())

	app.Get("/get_params", s.handleGetParams)
	app.Post("/pause", s.handlePause)
	app.Post("/run", s.handleRun)
	app.Get("/trim", s.handleGetTrim)
	app.Post("/trim", s.handleSetTrim)
	app.Post("/center_servos", s.handleCenter)
	app.Get("/steer", s.handleGetSteer)
	app.Post("/steer", s.handleSetSteer)
	app.Get("/speed", s.handleGetSpeed)
	app.Post("/speed", s.handleSetSpeed)
	app.Get("/stroke", s.handleGetStroke)
	app.Post("/stroke", s.handleSetStroke)
	app.Get("/obstacle", s.handleObstacle)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(s.handleWS))

	s.app = app
	return s
}

// Start runs the hub, the obstacle reporter and the listener. It blocks
// until Shutdown is called.
func (s *Server) Start() error {
	go s.hub.Run()
	go s.obstacleReporter()

	slog.Info("control server listening", "port", s.port)
	return s.app.Listen(":" + s.port)
}

// StartAsync runs Start in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			slog.Error("control server failed", "err", err)
		}
	}()
}

// Shutdown gracefully stops the listener.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// obstacleReporter pushes the smoothed obstacle distance to all connected
// controllers once a second. It exits permanently when no sensor is
// configured, matching the sampling task.
func (s *Server) obstacleReporter() {
	ticker := time.NewTicker(obstacleInterval)
	defer ticker.Stop()

	hadReading := false
	for range ticker.C {
		if s.hub.ClientCount() == 0 {
			continue
		}
		dist, err := s.hex.Obstacle()
		switch {
		case errors.Is(err, sensor.ErrUnconfigured):
			slog.Info("no obstacle sensor configured, stopping reporter")
			return
		case errors.Is(err, sensor.ErrNoData):
			if hadReading {
				s.hub.BroadcastText("obst:clear")
				hadReading = false
			}
		case err == nil:
			s.hub.BroadcastText(fmt.Sprintf("obst:%.1f", dist))
			hadReading = true
		}
	}
}
