package hub

import (
	"time"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10 // must stay below pongWait
	maxMessageSize = 16 * 1024         // dashboard clients only send small control messages
	sendBuffer     = 64                // queued messages before a client counts as slow
)

// Client is one dashboard websocket connection. The hub queues messages on
// send; the connection is written only by writePump.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan Message

	// OnMessage receives text frames sent by the client; nil ignores them
	OnMessage func(data []byte)
}

// NewClient registers a connection with the hub.
// It returns nil if the hub has been stopped.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	c := &Client{
		hub:  hub,
		conn: conn,
		send: make(chan Message, sendBuffer),
	}
	select {
	case hub.register <- c:
		return c
	case <-hub.done:
		return nil
	}
}

// Run serves the connection and blocks until it closes
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

func (c *Client) leave() {
	select {
	case c.hub.unregister <- c:
	case <-c.hub.done:
	}
	c.conn.Close()
}

// readPump keeps the read deadline fresh on pongs, detects disconnects and
// hands text frames to OnMessage
func (c *Client) readPump() {
	defer c.leave()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if kind == websocket.TextMessage && c.OnMessage != nil {
			c.OnMessage(data)
		}
	}
}

func (c *Client) writePump() {
	keepalive := time.NewTicker(pingPeriod)
	defer func() {
		keepalive.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, open := <-c.send:
			if !open {
				// Dropped or hub stopped
				c.write(websocket.CloseMessage, nil)
				return
			}
			if err := c.write(websocket.TextMessage, msg.Data); err != nil {
				return
			}

		case <-keepalive.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) write(kind int, data []byte) error {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(kind, data)
}
