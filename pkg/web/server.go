// Package web provides a real-time dwell dashboard for a pointer
package web

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"github.com/teslashibe/go-gaze/internal/log"
	"github.com/teslashibe/go-gaze/pkg/hub"
	"github.com/teslashibe/go-gaze/pkg/protocol"
)

// maxEvents is the size of the recent event buffer
const maxEvents = 200

// Pointer is the part of gaze.Pointer the dashboard needs
type Pointer interface {
	Name() string
	Snapshot() protocol.StatusData
	Reset()
}

// EventEntry is a recorded focus event
type EventEntry struct {
	Time string `json:"time"`
	protocol.EventData
}

// Server is the web dashboard server
type Server struct {
	app     *fiber.App
	port    string
	pointer Pointer
	logger  *slog.Logger

	// Recent events
	events   []EventEntry
	eventsMu sync.RWMutex

	// Hub for websocket broadcast
	eventHub *hub.Hub
}

// NewServer creates a dashboard for pointer on port
func NewServer(port string, pointer Pointer) *Server {
	s := &Server{
		port:     port,
		pointer:  pointer,
		logger:   log.With("component", "web", "pointer", pointer.Name()),
		events:   make([]EventEntry, 0, maxEvents),
		eventHub: hub.New("events"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "gaze dashboard",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/events", s.handleGetEvents)
	api.Post("/reset", s.handleReset)
	api.Get("/hub", s.handleHubStats)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/events", websocket.New(s.handleEventsWS))

	s.app = app
	return s
}

// App returns the underlying fiber app
func (s *Server) App() *fiber.App {
	return s.app
}

// Start starts the hub and serves until the listener fails or Shutdown is called
func (s *Server) Start() error {
	s.logger.Info("dashboard listening", "url", "http://localhost:"+s.port)
	go s.eventHub.Run()
	return s.app.Listen(":" + s.port)
}

// StartAsync starts the web server in a goroutine
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			s.logger.Error("web server error", "error", err)
		}
	}()
}

// Shutdown stops the server and the hub
func (s *Server) Shutdown() error {
	s.eventHub.Stop()
	return s.app.Shutdown()
}

// HandleEvent records an event and broadcasts it to websocket clients.
// It implements gaze.Sink.
func (s *Server) HandleEvent(event protocol.EventData) error {
	entry := EventEntry{
		Time:      time.Now().Format("15:04:05.000"),
		EventData: event,
	}

	s.eventsMu.Lock()
	s.events = append(s.events, entry)
	if len(s.events) > maxEvents {
		s.events = s.events[1:]
	}
	s.eventsMu.Unlock()

	msg, err := protocol.NewEventMessage(event)
	if err != nil {
		return err
	}
	return s.eventHub.BroadcastProtocol(msg)
}

// BroadcastStatus pushes the pointer status to websocket clients every
// interval until ctx is cancelled
func (s *Server) BroadcastStatus(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.eventHub.ClientCount() == 0 {
				continue
			}
			msg, err := protocol.NewStatusMessage(s.pointer.Snapshot())
			if err != nil {
				s.logger.Warn("status encode failed", "error", err)
				continue
			}
			s.eventHub.BroadcastProtocol(msg)
		}
	}
}

// Events returns a copy of the recent events
func (s *Server) Events() []EventEntry {
	s.eventsMu.RLock()
	defer s.eventsMu.RUnlock()

	events := make([]EventEntry, len(s.events))
	copy(events, s.events)
	return events
}
