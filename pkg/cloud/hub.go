// Package cloud provides the collector: a WebSocket hub that pointers relay
// their focus events to.
package cloud

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/teslashibe/go-gaze/internal/log"
	"github.com/teslashibe/go-gaze/pkg/protocol"
)

// PointerConnection represents a connected pointer
type PointerConnection struct {
	ID        string
	Conn      *websocket.Conn
	Connected time.Time

	mu        sync.Mutex
	lastSeen  time.Time
	lastEvent *protocol.EventData
	status    *protocol.StatusData
	events    uint64
}

// Send sends a message to the pointer
func (p *PointerConnection) Send(msg *protocol.Message) error {
	data, err := msg.Bytes()
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Conn.WriteMessage(websocket.TextMessage, data)
}

// Info returns a copy of the pointer's tracked state
func (p *PointerConnection) Info() PointerInfo {
	p.mu.Lock()
	defer p.mu.Unlock()

	info := PointerInfo{
		ID:        p.ID,
		Connected: p.Connected,
		LastSeen:  p.lastSeen,
		Events:    p.events,
	}
	if p.lastEvent != nil {
		ev := *p.lastEvent
		info.LastEvent = &ev
	}
	if p.status != nil {
		st := *p.status
		info.Status = &st
	}
	return info
}

// Hub manages WebSocket connections from pointers
type Hub struct {
	mu       sync.RWMutex
	pointers map[string]*PointerConnection
	logger   *slog.Logger

	// Callbacks
	onEvent  func(pointerID string, event *protocol.EventData)
	onStatus func(pointerID string, status *protocol.StatusData)

	// Stats
	messagesReceived atomic.Uint64
	messagesSent     atomic.Uint64
	eventsReceived   atomic.Uint64
	locksReceived    atomic.Uint64
	started          time.Time
}

// NewHub creates a new pointer hub
func NewHub() *Hub {
	return &Hub{
		pointers: make(map[string]*PointerConnection),
		logger:   log.With("component", "collector"),
		started:  time.Now(),
	}
}

// OnEvent sets the callback for incoming enter, exit and focus events
func (h *Hub) OnEvent(callback func(pointerID string, event *protocol.EventData)) {
	h.mu.Lock()
	h.onEvent = callback
	h.mu.Unlock()
}

// OnStatus sets the callback for incoming status snapshots
func (h *Hub) OnStatus(callback func(pointerID string, status *protocol.StatusData)) {
	h.mu.Lock()
	h.onStatus = callback
	h.mu.Unlock()
}

// RegisterRoutes registers WebSocket routes on a Fiber app
func (h *Hub) RegisterRoutes(app *fiber.App) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/pointer/:id", websocket.New(h.handlePointer))
}

// handlePointer handles a pointer WebSocket connection
func (h *Hub) handlePointer(c *websocket.Conn) {
	pointerID := c.Params("id")

	now := time.Now()
	pointer := &PointerConnection{
		ID:        pointerID,
		Conn:      c,
		Connected: now,
		lastSeen:  now,
	}

	// A reconnecting pointer replaces its stale connection
	h.mu.Lock()
	h.pointers[pointerID] = pointer
	count := len(h.pointers)
	h.mu.Unlock()

	h.logger.Info("pointer connected", "pointer", pointerID, "total", count)

	defer func() {
		h.mu.Lock()
		if h.pointers[pointerID] == pointer {
			delete(h.pointers, pointerID)
		}
		count := len(h.pointers)
		h.mu.Unlock()

		h.logger.Info("pointer disconnected", "pointer", pointerID, "total", count)
	}()

	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			h.logger.Debug("pointer read error", "pointer", pointerID, "error", err)
			return
		}

		pointer.mu.Lock()
		pointer.lastSeen = time.Now()
		pointer.mu.Unlock()

		h.messagesReceived.Add(1)
		h.handleMessage(pointer, data)
	}
}

// handleMessage processes an incoming message from a pointer
func (h *Hub) handleMessage(pointer *PointerConnection, data []byte) {
	msg, err := protocol.ParseMessage(data)
	if err != nil {
		h.logger.Warn("parse error", "pointer", pointer.ID, "error", err)
		return
	}

	h.mu.RLock()
	eventCb := h.onEvent
	statusCb := h.onStatus
	h.mu.RUnlock()

	switch msg.Type {
	case protocol.TypeEnter, protocol.TypeExit, protocol.TypeFocus:
		event, err := msg.GetEventData()
		if err != nil {
			h.logger.Warn("bad event", "pointer", pointer.ID, "error", err)
			return
		}
		h.eventsReceived.Add(1)
		if event.Kind == protocol.TypeFocus && event.InFocus {
			h.locksReceived.Add(1)
		}

		pointer.mu.Lock()
		pointer.lastEvent = event
		pointer.events++
		pointer.mu.Unlock()

		if eventCb != nil {
			eventCb(pointer.ID, event)
		}

	case protocol.TypeStatus:
		status, err := msg.GetStatusData()
		if err != nil {
			return
		}
		pointer.mu.Lock()
		pointer.status = status
		pointer.mu.Unlock()

		if statusCb != nil {
			statusCb(pointer.ID, status)
		}

	case protocol.TypePing:
		ping, err := msg.GetPingData()
		if err != nil {
			return
		}
		if err := h.SendPong(pointer.ID, ping.ID, ping.Timestamp); err != nil {
			h.logger.Debug("pong failed", "pointer", pointer.ID, "error", err)
		}
	}
}

// SendReset asks a pointer to restart its dwell session
func (h *Hub) SendReset(pointerID, reason string) error {
	msg, err := protocol.NewResetMessage(pointerID, reason)
	if err != nil {
		return err
	}
	return h.sendToPointer(pointerID, msg)
}

// SendPong sends a pong response to a pointer
func (h *Hub) SendPong(pointerID, pingID string, pingTS int64) error {
	msg, err := protocol.NewPongMessage(pingID, pingTS, time.Now().UnixMilli())
	if err != nil {
		return err
	}
	return h.sendToPointer(pointerID, msg)
}

// sendToPointer sends a message to a specific pointer
func (h *Hub) sendToPointer(pointerID string, msg *protocol.Message) error {
	h.mu.RLock()
	pointer, ok := h.pointers[pointerID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%s: %w", pointerID, ErrPointerNotConnected)
	}

	h.messagesSent.Add(1)
	return pointer.Send(msg)
}

// Broadcast sends a message to all connected pointers
func (h *Hub) Broadcast(msg *protocol.Message) {
	for _, pointer := range h.GetPointers() {
		h.messagesSent.Add(1)
		if err := pointer.Send(msg); err != nil {
			h.logger.Warn("broadcast error", "pointer", pointer.ID, "error", err)
		}
	}
}

// GetPointer returns a pointer connection by ID
func (h *Hub) GetPointer(pointerID string) *PointerConnection {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.pointers[pointerID]
}

// GetPointers returns all connected pointers
func (h *Hub) GetPointers() []*PointerConnection {
	h.mu.RLock()
	defer h.mu.RUnlock()

	pointers := make([]*PointerConnection, 0, len(h.pointers))
	for _, p := range h.pointers {
		pointers = append(pointers, p)
	}
	return pointers
}

// PointerCount returns the number of connected pointers
func (h *Hub) PointerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.pointers)
}

// Stats contains hub statistics
type Stats struct {
	PointerCount     int     `json:"pointer_count"`
	MessagesReceived uint64  `json:"messages_received"`
	MessagesSent     uint64  `json:"messages_sent"`
	EventsReceived   uint64  `json:"events_received"`
	LocksReceived    uint64  `json:"locks_received"`
	UptimeSeconds    float64 `json:"uptime_seconds"`
}

// GetStats returns hub statistics
func (h *Hub) GetStats() Stats {
	return Stats{
		PointerCount:     h.PointerCount(),
		MessagesReceived: h.messagesReceived.Load(),
		MessagesSent:     h.messagesSent.Load(),
		EventsReceived:   h.eventsReceived.Load(),
		LocksReceived:    h.locksReceived.Load(),
		UptimeSeconds:    time.Since(h.started).Seconds(),
	}
}

// PointerInfo contains info about a connected pointer
type PointerInfo struct {
	ID        string               `json:"id"`
	Connected time.Time            `json:"connected"`
	LastSeen  time.Time            `json:"last_seen"`
	Events    uint64               `json:"events"`
	LastEvent *protocol.EventData  `json:"last_event,omitempty"`
	Status    *protocol.StatusData `json:"status,omitempty"`
}

// GetPointerInfos returns info about all connected pointers, sorted by ID
func (h *Hub) GetPointerInfos() []PointerInfo {
	pointers := h.GetPointers()

	infos := make([]PointerInfo, 0, len(pointers))
	for _, p := range pointers {
		infos = append(infos, p.Info())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// RegisterAPIRoutes registers API routes for pointer management
func (h *Hub) RegisterAPIRoutes(api fiber.Router) {
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"pointers": h.PointerCount(),
		})
	})

	pointers := api.Group("/pointers")

	// List connected pointers
	pointers.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"pointers": h.GetPointerInfos(),
			"count":    h.PointerCount(),
		})
	})

	// Get hub stats
	pointers.Get("/stats", func(c *fiber.Ctx) error {
		return c.JSON(h.GetStats())
	})

	// Get one pointer
	pointers.Get("/:id", func(c *fiber.Ctx) error {
		pointer := h.GetPointer(c.Params("id"))
		if pointer == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": ErrPointerNotConnected.Error()})
		}
		return c.JSON(pointer.Info())
	})

	// Restart a pointer's dwell session
	pointers.Post("/:id/reset", func(c *fiber.Ctx) error {
		var req struct {
			Reason string `json:"reason"`
		}
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			}
		}

		if err := h.SendReset(c.Params("id"), req.Reason); err != nil {
			status := fiber.StatusInternalServerError
			if errors.Is(err, ErrPointerNotConnected) {
				status = fiber.StatusNotFound
			}
			return c.Status(status).JSON(fiber.Map{"error": err.Error()})
		}

		return c.JSON(fiber.Map{"status": "sent"})
	})
}
