package hub

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/teslashibe/go-gaze/internal/log"
	"github.com/teslashibe/go-gaze/pkg/protocol"
)

// Hub maintains the set of active clients and broadcasts messages to them
type Hub struct {
	name   string
	logger *slog.Logger

	// Registered clients
	clients map[*Client]bool
	mu      sync.RWMutex

	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once

	running atomic.Bool
	sent    atomic.Uint64
	dropped atomic.Uint64
}

// Stats contains hub counters
type Stats struct {
	Name     string `json:"name"`
	Clients  int    `json:"clients"`
	Sent     uint64 `json:"sent"`
	Dropped  uint64 `json:"dropped"`
	IsActive bool   `json:"active"`
}

// New creates a new Hub
func New(name string) *Hub {
	return &Hub{
		name:       name,
		logger:     log.With("component", "hub", "hub", name),
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run owns the client set until Stop. Call it in its own goroutine.
func (h *Hub) Run() {
	h.running.Store(true)
	defer h.running.Store(false)

	for {
		select {
		case <-h.done:
			h.closeAll()
			return
		case c := <-h.register:
			h.add(c)
		case c := <-h.unregister:
			h.remove(c, "client disconnected")
		case msg := <-h.broadcast:
			h.fanout(msg)
		}
	}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("client connected", "clients", n)
}

func (h *Hub) remove(c *Client, reason string) {
	h.mu.Lock()
	if !h.clients[c] {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	close(c.send)
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Info(reason, "clients", n)
}

// fanout queues msg on every client; a client whose queue is full is dropped
func (h *Hub) fanout(msg Message) {
	var slow []*Client

	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.send <- msg:
			h.sent.Add(1)
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.dropped.Add(1)
		h.remove(c, "dropped slow client")
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

// Stop ends Run and closes every client
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Broadcast sends a message to all connected clients
func (h *Hub) Broadcast(msg Message) {
	select {
	case h.broadcast <- msg:
	default:
		h.dropped.Add(1)
		h.logger.Warn("broadcast channel full, dropping message")
	}
}

// BroadcastProtocol broadcasts a protocol message
func (h *Hub) BroadcastProtocol(msg *protocol.Message) error {
	m, err := NewProtocolMessage(msg)
	if err != nil {
		return err
	}
	h.Broadcast(m)
	return nil
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// IsRunning returns whether the hub is running
func (h *Hub) IsRunning() bool {
	return h.running.Load()
}

// Stats returns the hub counters
func (h *Hub) Stats() Stats {
	return Stats{
		Name:     h.name,
		Clients:  h.ClientCount(),
		Sent:     h.sent.Load(),
		Dropped:  h.dropped.Load(),
		IsActive: h.IsRunning(),
	}
}
