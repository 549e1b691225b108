package protocol

import (
	"encoding/json"
	"testing"
)

func TestNewMessage(t *testing.T) {
	tests := []struct {
		name    string
		msgType MessageType
		data    interface{}
		wantErr bool
	}{
		{
			name:    "enter message",
			msgType: TypeEnter,
			data:    EventData{Pointer: "p", Kind: TypeEnter, TargetID: "a"},
			wantErr: false,
		},
		{
			name:    "status message",
			msgType: TypeStatus,
			data:    StatusData{Pointer: "p", Elapsed: 1.5, Threshold: 2},
			wantErr: false,
		},
		{
			name:    "nil data",
			msgType: TypePing,
			data:    nil,
			wantErr: false,
		},
		{
			name:    "unmarshalable data",
			msgType: TypeStatus,
			data:    make(chan int),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := NewMessage(tt.msgType, tt.data)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewMessage() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if msg.Type != tt.msgType {
				t.Errorf("NewMessage() type = %v, want %v", msg.Type, tt.msgType)
			}
			if msg.Timestamp == 0 {
				t.Error("NewMessage() timestamp should be set")
			}
		})
	}
}

func TestEventMessageRoundTrip(t *testing.T) {
	original := EventData{
		Pointer:     "head",
		Kind:        TypeFocus,
		TargetID:    "lamp",
		TargetLabel: "Desk lamp",
		InFocus:     true,
		Elapsed:     2.25,
		Fraction:    1.125,
	}

	msg, err := NewEventMessage(original)
	if err != nil {
		t.Fatalf("NewEventMessage() error = %v", err)
	}
	if msg.Type != TypeFocus {
		t.Errorf("Type = %s, want focus", msg.Type)
	}

	bytes, err := msg.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}

	parsed, err := ParseMessage(bytes)
	if err != nil {
		t.Fatalf("ParseMessage() error = %v", err)
	}

	got, err := parsed.GetEventData()
	if err != nil {
		t.Fatalf("GetEventData() error = %v", err)
	}
	if *got != original {
		t.Errorf("GetEventData() = %+v, want %+v", *got, original)
	}
}

func TestNewEventMessage_RejectsNonEvent(t *testing.T) {
	if _, err := NewEventMessage(EventData{Kind: TypeStatus}); err == nil {
		t.Error("Expected error for status kind")
	}
}

func TestEventData_OmitsEmptyTarget(t *testing.T) {
	data, err := json.Marshal(EventData{Pointer: "p", Kind: TypeFocus})
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	var fields map[string]interface{}
	json.Unmarshal(data, &fields)
	if _, ok := fields["target_id"]; ok {
		t.Error("target_id should be omitted when focus was cleared")
	}
	if _, ok := fields["in_focus"]; !ok {
		t.Error("in_focus should always be present")
	}
}

func TestParseMessage_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "hello"},
		{"missing type", `{"ts": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseMessage([]byte(tt.data)); err == nil {
				t.Error("ParseMessage() expected error")
			}
		})
	}
}

func TestGetters_WrongType(t *testing.T) {
	msg, _ := NewMessage(TypePing, PingData{ID: "x"})

	if _, err := msg.GetEventData(); err == nil {
		t.Error("GetEventData() should reject ping")
	}
	if _, err := msg.GetStatusData(); err == nil {
		t.Error("GetStatusData() should reject ping")
	}
	if _, err := msg.GetResetData(); err == nil {
		t.Error("GetResetData() should reject ping")
	}
	if _, err := msg.GetPongData(); err == nil {
		t.Error("GetPongData() should reject ping")
	}
	if _, err := msg.GetPingData(); err != nil {
		t.Errorf("GetPingData() error = %v", err)
	}
}

func TestPongLatency(t *testing.T) {
	msg, err := NewPongMessage("abc", 1000, 1042)
	if err != nil {
		t.Fatalf("NewPongMessage() error = %v", err)
	}

	pong, err := msg.GetPongData()
	if err != nil {
		t.Fatalf("GetPongData() error = %v", err)
	}
	if pong.LatencyMs != 42 {
		t.Errorf("LatencyMs = %d, want 42", pong.LatencyMs)
	}
}

func TestResetMessage(t *testing.T) {
	msg, err := NewResetMessage("head", "operator")
	if err != nil {
		t.Fatalf("NewResetMessage() error = %v", err)
	}

	reset, err := msg.GetResetData()
	if err != nil {
		t.Fatalf("GetResetData() error = %v", err)
	}
	if reset.Pointer != "head" || reset.Reason != "operator" {
		t.Errorf("Unexpected reset data %+v", reset)
	}
}
