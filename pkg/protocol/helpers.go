package protocol

import (
	"fmt"
	"time"
)

// =============================================================================
// Helper functions for creating messages
// =============================================================================

// NewEventMessage creates an enter, exit or focus message from event data
func NewEventMessage(data EventData) (*Message, error) {
	if !data.Kind.IsEvent() {
		return nil, fmt.Errorf("not an event kind: %q", data.Kind)
	}
	return NewMessage(data.Kind, data)
}

// NewStatusMessage creates a status message
func NewStatusMessage(status StatusData) (*Message, error) {
	return NewMessage(TypeStatus, status)
}

// NewResetMessage creates a session reset request
func NewResetMessage(pointer, reason string) (*Message, error) {
	return NewMessage(TypeReset, ResetData{Pointer: pointer, Reason: reason})
}

// NewPingMessage creates a ping message
func NewPingMessage(id string) (*Message, error) {
	return NewMessage(TypePing, PingData{
		ID:        id,
		Timestamp: time.Now().UnixMilli(),
	})
}

// NewPongMessage creates a pong response
func NewPongMessage(id string, pingTS, pongTS int64) (*Message, error) {
	return NewMessage(TypePong, PongData{
		ID:        id,
		PingTS:    pingTS,
		PongTS:    pongTS,
		LatencyMs: pongTS - pingTS,
	})
}

// =============================================================================
// Helper functions for parsing messages
// =============================================================================

// GetEventData extracts event data from an enter, exit or focus message
func (m *Message) GetEventData() (*EventData, error) {
	if !m.Type.IsEvent() {
		return nil, fmt.Errorf("expected event message, got %s", m.Type)
	}
	var data EventData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetStatusData extracts status data from a message
func (m *Message) GetStatusData() (*StatusData, error) {
	if m.Type != TypeStatus {
		return nil, fmt.Errorf("expected status message, got %s", m.Type)
	}
	var data StatusData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetResetData extracts reset data from a message
func (m *Message) GetResetData() (*ResetData, error) {
	if m.Type != TypeReset {
		return nil, fmt.Errorf("expected reset message, got %s", m.Type)
	}
	var data ResetData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPingData extracts ping data from a message
func (m *Message) GetPingData() (*PingData, error) {
	if m.Type != TypePing {
		return nil, fmt.Errorf("expected ping message, got %s", m.Type)
	}
	var data PingData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPongData extracts pong data from a message
func (m *Message) GetPongData() (*PongData, error) {
	if m.Type != TypePong {
		return nil, fmt.Errorf("expected pong message, got %s", m.Type)
	}
	var data PongData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}
