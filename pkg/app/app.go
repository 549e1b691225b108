package app

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/teslashibe/go-gaze/internal/config"
	"github.com/teslashibe/go-gaze/internal/log"
	"github.com/teslashibe/go-gaze/pkg/gaze"
	"github.com/teslashibe/go-gaze/pkg/protocol"
	"github.com/teslashibe/go-gaze/pkg/relay"
	"github.com/teslashibe/go-gaze/pkg/script"
	"github.com/teslashibe/go-gaze/pkg/web"
)

//go:embed demo.yaml
var demoScript []byte

// App is the gaze application orchestrator.
// It manages all components and their lifecycle.
type App struct {
	config Config
	logger *slog.Logger

	// Candidate source
	timeline *script.Timeline
	registry *gaze.Registry
	player   *script.Player

	// Dwell tracking
	pointer *gaze.Pointer

	// Outputs
	webServer *web.Server
	relay     *relay.Client

	wg sync.WaitGroup
}

// New creates a gaze application with the given configuration.
func New(cfg Config) (*App, error) {
	if err := cfg.LoadEnvConfig(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &App{
		config: cfg,
		logger: log.With("component", "app", "pointer", cfg.Pointer),
	}, nil
}

// Init loads the script and builds the pointer and its sinks.
// Call this after New() and before Run().
func (a *App) Init() error {
	if err := a.initScript(); err != nil {
		return fmt.Errorf("script: %w", err)
	}

	pointer, err := gaze.NewPointer(a.config.pointerConfig(), a.player)
	if err != nil {
		return fmt.Errorf("pointer: %w", err)
	}
	a.pointer = pointer

	if a.config.Port != "" {
		a.webServer = web.NewServer(a.config.Port, a.pointer)
		a.pointer.AddSink(a.webServer)
	}

	if a.config.CollectorURL != "" {
		if err := a.initRelay(); err != nil {
			return fmt.Errorf("relay: %w", err)
		}
	}

	a.logger.Info("initialized",
		"script", a.timeline.Name,
		"targets", a.registry.Len(),
		"threshold", a.config.Threshold,
		"dashboard", a.config.Port != "",
		"relay", a.relay != nil)
	return nil
}

func (a *App) initScript() error {
	var (
		tl  *script.Timeline
		err error
	)
	if a.config.ScriptPath != "" {
		tl, err = script.Load(a.config.ScriptPath)
	} else {
		tl, err = script.Parse(demoScript)
	}
	if err != nil {
		return err
	}

	a.timeline = tl
	a.registry = gaze.NewRegistry()
	a.player = script.NewPlayer(tl, a.registry)
	return nil
}

func (a *App) initRelay() error {
	client, err := relay.New(relay.DefaultConfig(a.config.CollectorURL, a.config.Pointer))
	if err != nil {
		return err
	}

	client.OnReset(func(r protocol.ResetData) {
		a.logger.Info("dwell reset requested", "source", "collector", "reason", r.Reason)
		a.pointer.Reset()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if health, err := client.Probe(ctx); err != nil {
		a.logger.Warn("collector not reachable yet, will keep retrying", "url", a.config.CollectorURL, "error", err)
	} else {
		a.logger.Info("collector reachable", "url", a.config.CollectorURL, "pointers", health.Pointers)
	}

	a.relay = client
	a.pointer.AddSink(client)
	return nil
}

// Run starts every component and blocks until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a.pointer == nil {
		return fmt.Errorf("app: Run called before Init")
	}

	a.goRun(func() { a.pointer.Run(ctx) })

	if a.webServer != nil {
		a.webServer.StartAsync()
		a.goRun(func() { a.webServer.BroadcastStatus(ctx, a.config.StatusInterval) })
		a.logger.Info("dashboard ready", "url", config.DashboardURL(a.config.Port))
	}

	if a.relay != nil {
		a.goRun(func() {
			if err := a.relay.Run(ctx); err != nil && ctx.Err() == nil {
				a.logger.Error("relay stopped", "error", err)
			}
		})
		a.goRun(func() { a.relayStatus(ctx) })
	}

	<-ctx.Done()
	a.wg.Wait()
	return nil
}

func (a *App) goRun(f func()) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		f()
	}()
}

// relayStatus pushes the pointer status to the collector while connected
func (a *App) relayStatus(ctx context.Context) {
	ticker := time.NewTicker(a.config.StatusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !a.relay.Connected() {
				continue
			}
			if err := a.relay.SendStatus(a.pointer.Snapshot()); err != nil {
				a.logger.Debug("status not relayed", "error", err)
			}
		}
	}
}

// Pointer returns the application's pointer. Nil before Init.
func (a *App) Pointer() *gaze.Pointer {
	return a.pointer
}

// Shutdown stops the dashboard and the relay.
func (a *App) Shutdown() {
	if a.relay != nil {
		a.relay.Close()
	}
	if a.webServer != nil {
		if err := a.webServer.Shutdown(); err != nil {
			a.logger.Warn("dashboard shutdown", "error", err)
		}
	}
	a.logger.Info("stopped")
}
