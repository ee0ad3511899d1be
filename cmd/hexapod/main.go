// Hexapod daemon: runs the gait coordinator, the obstacle sampler and the
// HTTP/WebSocket control surface.
//
// Without real hardware attached, the servos are simulated; pass -verbose
// to watch the angle stream.
package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/fitzterra/micro-hexapod/internal/config"
	"github.com/fitzterra/micro-hexapod/internal/log"
	"github.com/fitzterra/micro-hexapod/pkg/gait"
	"github.com/fitzterra/micro-hexapod/pkg/sensor"
	"github.com/fitzterra/micro-hexapod/pkg/servo"
	"github.com/fitzterra/micro-hexapod/pkg/store"
	"github.com/fitzterra/micro-hexapod/pkg/web"
)

func main() {
	var (
		port     = flag.String("port", "", "listen port (overrides HEXAPOD_PORT)")
		trimFile = flag.String("trim-file", "", "trim persistence file (overrides HEXAPOD_TRIM_FILE)")
		logLevel = flag.String("log-level", "", "debug, info, warn or error")
		withSim  = flag.Bool("sim-sensor", false, "simulate an obstacle sensor")
		verbose  = flag.Bool("verbose", false, "log every simulated servo write")
	)
	flag.Parse()

	cfg := config.FromEnv()
	if *port != "" {
		cfg.Port = *port
	}
	if *trimFile != "" {
		cfg.TrimFile = *trimFile
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	log.Init(cfg.LogLevel)

	var acts [3]servo.Actuator
	var pins [3]int
	for i, sc := range cfg.Servos {
		acts[i] = servo.NewSim(sc.Pin, *verbose)
		pins[i] = sc.Pin
	}

	var finder sensor.RangeFinder
	if *withSim {
		// A slow walk towards a wall, then clear readings again
		finder = sensor.NewMock(800, 700, 600, 500, 400, 350, 300, 400, 600, 900)
	}

	hex, err := gait.New(gait.Config{
		Pins:         pins,
		Trim:         [3]int{cfg.Servos[0].Trim, cfg.Servos[1].Trim, cfg.Servos[2].Trim},
		MidAmplitude: cfg.Servos[1].Amplitude,
		Stroke:       cfg.Servos[0].Amplitude,
		PeriodMS:     cfg.PeriodMS,
		SampleDelay:  cfg.SampleDelay,
		SampleWindow: cfg.SampleWindow,
	}, acts, store.NewFile(cfg.TrimFile), finder)
	if err != nil {
		log.Error("building coordinator failed", "err", err)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hex.Run(ctx)

	srv := web.NewServer(cfg.Port, hex)
	srv.StartAsync()

	log.Info("hexapod ready", "port", cfg.Port, "pins", pins)
	<-ctx.Done()

	log.Info("shutting down")
	if err := hex.Center(true); err != nil {
		log.Warn("centering on shutdown failed", "err", err)
	}
	if err := srv.Shutdown(); err != nil {
		log.Warn("server shutdown failed", "err", err)
	}
}
