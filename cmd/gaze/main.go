// gaze: scripted dwell pointer with a live dashboard
// Plays a YAML timeline of targets through a focus tracker and optionally
// relays its events to a gaze-collector
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/teslashibe/go-gaze/internal/log"
	"github.com/teslashibe/go-gaze/pkg/app"
)

func main() {
	cfg := parseFlags()

	level := "info"
	if cfg.Debug {
		level = "debug"
	}
	log.InitFromEnv(level)

	a, err := app.New(cfg)
	if err != nil {
		log.Error("configuration error", "error", err)
		os.Exit(1)
	}

	if err := a.Init(); err != nil {
		log.Error("initialization failed", "error", err)
		os.Exit(1)
	}
	defer a.Shutdown()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := a.Run(ctx); err != nil {
		log.Error("runtime error", "error", err)
		os.Exit(1)
	}
}

// parseFlags parses command line flags and returns configuration.
func parseFlags() app.Config {
	cfg := app.DefaultConfig()

	flag.BoolVar(&cfg.Debug, "debug", false, "Enable verbose debug logging")
	flag.StringVar(&cfg.Pointer, "pointer", cfg.Pointer, "Pointer name (overrides GAZE_POINTER)")
	flag.Float64Var(&cfg.Threshold, "threshold", cfg.Threshold, "Dwell seconds before selection (overrides GAZE_THRESHOLD)")
	flag.DurationVar(&cfg.TickInterval, "tick", cfg.TickInterval, "Frame period")
	flag.DurationVar(&cfg.StatusInterval, "status-interval", cfg.StatusInterval, "Status push period")
	flag.StringVar(&cfg.Port, "port", cfg.Port, "Dashboard port, empty to disable (overrides GAZE_PORT)")
	flag.StringVar(&cfg.CollectorURL, "collector", "", "Collector URL, e.g. ws://localhost:8091 (overrides GAZE_COLLECTOR_URL)")
	flag.StringVar(&cfg.ScriptPath, "script", "", "YAML timeline to play (default: built-in demo)")
	flag.Parse()

	cfg.Explicit = map[string]bool{}
	flag.Visit(func(f *flag.Flag) { cfg.Explicit[f.Name] = true })

	return cfg
}
