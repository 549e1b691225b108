// Package hub fans protocol messages out to dashboard websocket clients.
// One goroutine owns the client set; each client has its own writer.
package hub

import (
	"github.com/teslashibe/go-gaze/pkg/protocol"
)

// Message is one queued text frame of encoded protocol JSON
type Message struct {
	Data []byte
}

// NewProtocolMessage encodes a protocol message for broadcast
func NewProtocolMessage(msg *protocol.Message) (Message, error) {
	data, err := msg.Bytes()
	if err != nil {
		return Message{}, err
	}
	return Message{Data: data}, nil
}
