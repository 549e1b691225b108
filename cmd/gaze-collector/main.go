// gaze-collector: aggregates focus events relayed by gaze pointers
// Accepts WebSocket connections from pointers and exposes their state over HTTP
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/teslashibe/go-gaze/internal/config"
	"github.com/teslashibe/go-gaze/internal/log"
	"github.com/teslashibe/go-gaze/pkg/cloud"
	"github.com/teslashibe/go-gaze/pkg/protocol"
)

var (
	version = "1.0.0"
	port    = flag.String("port", config.DefaultCollectorPort, "HTTP server port")
	debug   = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Parse()

	// Override from environment
	*port = config.String("PORT", *port)

	level := "info"
	if *debug {
		level = "debug"
	}
	log.InitFromEnv(level)

	app := fiber.New(fiber.Config{
		AppName:               "gaze-collector",
		DisableStartupMessage: true,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type,Authorization",
	}))
	if *debug {
		app.Use(logger.New())
	}

	hub := cloud.NewHub()
	hub.RegisterRoutes(app)
	hub.RegisterAPIRoutes(app.Group("/api"))

	// Metrics endpoint
	app.Get("/metrics", func(c *fiber.Ctx) error {
		stats := hub.GetStats()
		return c.SendString(fmt.Sprintf(`# HELP gaze_collector_pointers Connected pointer count
# TYPE gaze_collector_pointers gauge
gaze_collector_pointers %d

# HELP gaze_collector_messages_received Total messages received
# TYPE gaze_collector_messages_received counter
gaze_collector_messages_received %d

# HELP gaze_collector_events_received Total enter, exit and focus events received
# TYPE gaze_collector_events_received counter
gaze_collector_events_received %d

# HELP gaze_collector_locks_received Total dwell selections received
# TYPE gaze_collector_locks_received counter
gaze_collector_locks_received %d
`, stats.PointerCount, stats.MessagesReceived, stats.EventsReceived, stats.LocksReceived))
	})

	hub.OnEvent(func(pointerID string, event *protocol.EventData) {
		if event.Kind == protocol.TypeFocus && event.InFocus {
			log.Info("target selected", "pointer", pointerID, "target", event.TargetID, "label", event.TargetLabel)
			return
		}
		log.Debug("focus event", "pointer", pointerID, "kind", event.Kind, "target", event.TargetID)
	})

	go func() {
		log.Info("collector listening",
			"version", version,
			"ws", "ws://localhost:"+*port+"/ws/pointer/:id",
			"api", "http://localhost:"+*port+"/api/pointers")

		if err := app.Listen(":" + *port); err != nil {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Warn("shutdown error", "error", err)
	}
}
