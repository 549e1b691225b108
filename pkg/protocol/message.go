// Package protocol defines the JSON message types exchanged between pointers,
// dashboards and the collector.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType identifies the type of WebSocket message
type MessageType string

const (
	// Pointer → Dashboard/Collector messages
	TypeEnter  MessageType = "enter"  // Target became current
	TypeExit   MessageType = "exit"   // Target stopped being current
	TypeFocus  MessageType = "focus"  // Focus changed or dwell threshold reached
	TypeStatus MessageType = "status" // Periodic dwell status

	// Collector → Pointer messages
	TypeReset MessageType = "reset" // Restart the dwell session

	// Bidirectional
	TypePing MessageType = "ping" // Health check
	TypePong MessageType = "pong" // Health check response
)

// Message is the base wrapper for all WebSocket messages
type Message struct {
	Type      MessageType     `json:"type"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(msgType MessageType, data interface{}) (*Message, error) {
	var rawData json.RawMessage
	if data != nil {
		var err error
		rawData, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().UnixMilli(),
		Data:      rawData,
	}, nil
}

// ParseData unmarshals the message data into the provided struct
func (m *Message) ParseData(v interface{}) error {
	if m.Data == nil {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Bytes returns the JSON-encoded message
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	if msg.Type == "" {
		return nil, fmt.Errorf("failed to parse message: missing type")
	}
	return &msg, nil
}

// IsEvent reports whether t is one of the three focus notification channels
func (t MessageType) IsEvent() bool {
	return t == TypeEnter || t == TypeExit || t == TypeFocus
}

// =============================================================================
// Pointer → Dashboard/Collector Message Types
// =============================================================================

// EventData describes one focus notification
type EventData struct {
	Pointer     string      `json:"pointer"`
	Kind        MessageType `json:"kind"`               // enter, exit, focus
	TargetID    string      `json:"target_id,omitempty"` // empty when focus was cleared
	TargetLabel string      `json:"target_label,omitempty"`
	InFocus     bool        `json:"in_focus"`
	Elapsed     float64     `json:"elapsed"`  // Seconds on the target when the event fired
	Fraction    float64     `json:"fraction"` // Elapsed / threshold, 0 when threshold is 0
}

// HasTarget reports whether the event refers to a target
func (e EventData) HasTarget() bool {
	return e.TargetID != ""
}

// StatusData is a snapshot of one pointer's dwell state
type StatusData struct {
	Pointer     string  `json:"pointer"`
	TargetID    string  `json:"target_id,omitempty"`
	TargetLabel string  `json:"target_label,omitempty"`
	HasTarget   bool    `json:"has_target"`
	Locked      bool    `json:"locked"`
	Elapsed     float64 `json:"elapsed"`
	Fraction    float64 `json:"fraction"`
	Threshold   float64 `json:"threshold"`
	Frames      uint64  `json:"frames"`
}

// =============================================================================
// Collector → Pointer Message Types
// =============================================================================

// ResetData asks a pointer to restart its dwell session
type ResetData struct {
	Pointer string `json:"pointer,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// =============================================================================
// Bidirectional Message Types
// =============================================================================

// PingData contains ping information
type PingData struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"ts"`
}

// PongData contains pong response
type PongData struct {
	ID        string `json:"id"`
	PingTS    int64  `json:"ping_ts"`
	PongTS    int64  `json:"pong_ts"`
	LatencyMs int64  `json:"latency_ms"`
}
