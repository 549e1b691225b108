package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/teslashibe/go-gaze/pkg/hub"
	"github.com/teslashibe/go-gaze/pkg/protocol"
)

// handleStatus returns the pointer's dwell status
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.pointer.Snapshot())
}

// handleGetEvents returns recent events, newest last.
// ?limit=N returns only the last N.
func (s *Server) handleGetEvents(c *fiber.Ctx) error {
	events := s.Events()
	if limit := c.QueryInt("limit", 0); limit > 0 && limit < len(events) {
		events = events[len(events)-limit:]
	}
	return c.JSON(fiber.Map{
		"pointer": s.pointer.Name(),
		"count":   len(events),
		"events":  events,
	})
}

// ResetRequest is the optional request body for a reset
type ResetRequest struct {
	Reason string `json:"reason"`
}

// handleReset queues a dwell session reset on the pointer loop
func (s *Server) handleReset(c *fiber.Ctx) error {
	var req ResetRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
	}

	s.pointer.Reset()
	s.logger.Info("dwell reset requested", "source", "api", "reason", req.Reason)

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"pointer": s.pointer.Name(),
		"reset":   "queued",
	})
}

// handleHubStats returns websocket hub counters
func (s *Server) handleHubStats(c *fiber.Ctx) error {
	return c.JSON(s.eventHub.Stats())
}

// handleEventsWS streams events and status; clients may send reset messages
func (s *Server) handleEventsWS(c *websocket.Conn) {
	client := hub.NewClient(s.eventHub, c)
	if client == nil {
		c.Close()
		return
	}
	client.OnMessage = s.handleClientMessage
	client.Run()
}

func (s *Server) handleClientMessage(data []byte) {
	msg, err := protocol.ParseMessage(data)
	if err != nil {
		s.logger.Debug("ignoring client message", "error", err)
		return
	}
	if msg.Type != protocol.TypeReset {
		return
	}
	reset, err := msg.GetResetData()
	if err != nil {
		return
	}
	s.pointer.Reset()
	s.logger.Info("dwell reset requested", "source", "websocket", "reason", reset.Reason)
}
