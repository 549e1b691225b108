// Package relay forwards a pointer's focus events to a collector over a
// websocket and applies reset requests sent back by the collector.
package relay

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/teslashibe/go-gaze/internal/httpc"
	"github.com/teslashibe/go-gaze/internal/log"
	"github.com/teslashibe/go-gaze/pkg/protocol"
)

// writeWait is how long a single websocket write may take
const writeWait = 5 * time.Second

// SessionHeader carries the relay session ID on the websocket handshake
const SessionHeader = "X-Gaze-Session"

// Client relays protocol messages to a collector. It implements gaze.Sink.
type Client struct {
	cfg     Config
	session uuid.UUID
	logger  *slog.Logger

	queue     chan []byte
	done      chan struct{}
	closeOnce sync.Once

	// pending is a message taken off the queue whose write failed.
	// Only the Run goroutine touches it.
	pending []byte

	mu      sync.RWMutex
	onReset func(protocol.ResetData)

	connected  atomic.Bool
	sent       atomic.Uint64
	dropped    atomic.Uint64
	reconnects atomic.Uint64
	latencyMs  atomic.Int64
}

// Stats contains relay counters
type Stats struct {
	Session    string `json:"session"`
	Connected  bool   `json:"connected"`
	Queued     int    `json:"queued"`
	Sent       uint64 `json:"sent"`
	Dropped    uint64 `json:"dropped"`
	Reconnects uint64 `json:"reconnects"`
	LatencyMs  int64  `json:"latency_ms"`
}

// Health is the collector's health response
type Health struct {
	Status   string `json:"status"`
	Pointers int    `json:"pointers"`
}

// New creates a relay client. Call Run to connect.
func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	session := uuid.New()
	return &Client{
		cfg:     cfg,
		session: session,
		logger:  log.With("component", "relay", "pointer", cfg.PointerID, "session", session.String()),
		queue:   make(chan []byte, cfg.QueueSize),
		done:    make(chan struct{}),
	}, nil
}

// SessionID returns the ID sent on every handshake of this client
func (c *Client) SessionID() string {
	return c.session.String()
}

// OnReset sets the callback for reset requests from the collector.
// It runs on the client's read goroutine.
func (c *Client) OnReset(callback func(protocol.ResetData)) {
	c.mu.Lock()
	c.onReset = callback
	c.mu.Unlock()
}

// HandleEvent queues a focus event for the collector
func (c *Client) HandleEvent(event protocol.EventData) error {
	msg, err := protocol.NewEventMessage(event)
	if err != nil {
		return err
	}
	return c.enqueue(msg)
}

// SendStatus queues a status snapshot for the collector
func (c *Client) SendStatus(status protocol.StatusData) error {
	msg, err := protocol.NewStatusMessage(status)
	if err != nil {
		return err
	}
	return c.enqueue(msg)
}

func (c *Client) enqueue(msg *protocol.Message) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	data, err := msg.Bytes()
	if err != nil {
		return err
	}

	select {
	case c.queue <- data:
		return nil
	default:
		c.dropped.Add(1)
		return ErrQueueFull
	}
}

// Connected reports whether a collector connection is currently up
func (c *Client) Connected() bool {
	return c.connected.Load()
}

// Stats returns relay counters
func (c *Client) Stats() Stats {
	return Stats{
		Session:    c.session.String(),
		Connected:  c.connected.Load(),
		Queued:     len(c.queue),
		Sent:       c.sent.Load(),
		Dropped:    c.dropped.Load(),
		Reconnects: c.reconnects.Load(),
		LatencyMs:  c.latencyMs.Load(),
	}
}

// Probe checks that the collector answers its health endpoint
func (c *Client) Probe(ctx context.Context) (Health, error) {
	var health Health
	u, err := c.cfg.healthURL()
	if err != nil {
		return health, err
	}
	err = httpc.GetJSON(ctx, u, &health)
	return health, err
}

// Close stops Run and rejects further messages
func (c *Client) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return nil
}

// Run connects to the collector and writes queued messages, reconnecting
// with capped exponential backoff. It returns nil after Close and
// ctx.Err() when ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	backoff := c.cfg.MinBackoff

	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			c.reconnects.Add(1)
		}

		wasConnected, err := c.runConn(ctx)
		select {
		case <-c.done:
			return nil
		default:
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if wasConnected {
			backoff = c.cfg.MinBackoff
		}
		c.logger.Warn("collector connection lost", "error", err, "retry_in", backoff)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-c.done:
			timer.Stop()
			return nil
		case <-timer.C:
		}
		backoff = nextBackoff(backoff, c.cfg.MaxBackoff)
	}
}

// runConn serves one connection until it fails, ctx ends or the client closes.
// The bool reports whether the dial succeeded.
func (c *Client) runConn(ctx context.Context) (bool, error) {
	u, err := c.cfg.streamURL()
	if err != nil {
		return false, err
	}

	header := http.Header{}
	header.Set(SessionHeader, c.session.String())

	conn, _, err := httpc.WebSocketDialer().DialContext(ctx, u, header)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	c.connected.Store(true)
	defer c.connected.Store(false)
	c.logger.Info("connected to collector", "url", u)

	readErr := make(chan error, 1)
	control := make(chan []byte, 4)
	go c.readLoop(conn, control, readErr)

	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	if c.pending != nil {
		if err := c.write(conn, c.pending); err != nil {
			return true, err
		}
		c.pending = nil
		c.sent.Add(1)
	}

	for {
		select {
		case <-ctx.Done():
			c.closeConn(conn)
			return true, ctx.Err()

		case <-c.done:
			c.closeConn(conn)
			return true, nil

		case err := <-readErr:
			return true, err

		case data := <-control:
			if err := c.write(conn, data); err != nil {
				return true, err
			}

		case data := <-c.queue:
			c.pending = data
			if err := c.write(conn, data); err != nil {
				return true, err
			}
			c.pending = nil
			c.sent.Add(1)

		case <-ticker.C:
			ping, err := protocol.NewPingMessage(c.session.String())
			if err != nil {
				continue
			}
			data, _ := ping.Bytes()
			if err := c.write(conn, data); err != nil {
				return true, err
			}
		}
	}
}

func (c *Client) write(conn *websocket.Conn, data []byte) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (c *Client) closeConn(conn *websocket.Conn) {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// readLoop handles collector messages. Replies go through control so that
// only runConn writes to the connection.
func (c *Client) readLoop(conn *websocket.Conn, control chan<- []byte, readErr chan<- error) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			readErr <- err
			return
		}

		msg, err := protocol.ParseMessage(data)
		if err != nil {
			c.logger.Debug("ignoring collector message", "error", err)
			continue
		}

		switch msg.Type {
		case protocol.TypePing:
			ping, err := msg.GetPingData()
			if err != nil {
				continue
			}
			pong, err := protocol.NewPongMessage(ping.ID, ping.Timestamp, time.Now().UnixMilli())
			if err != nil {
				continue
			}
			out, _ := pong.Bytes()
			select {
			case control <- out:
			default:
			}

		case protocol.TypePong:
			pong, err := msg.GetPongData()
			if err != nil {
				continue
			}
			c.latencyMs.Store(time.Now().UnixMilli() - pong.PingTS)

		case protocol.TypeReset:
			reset, err := msg.GetResetData()
			if err != nil {
				continue
			}
			c.mu.RLock()
			cb := c.onReset
			c.mu.RUnlock()
			if cb != nil {
				cb(*reset)
			}
		}
	}
}
