package signal

import (
	"encoding/json"
	"fmt"

	"github.com/baatlink/baatlink/internal/core"
)

// Inbound frame types accepted from clients.
const (
	frameJoinCall    = "join-call"
	frameSignal      = "signal"
	frameChatMessage = "chat-message"
)

type frame struct {
	Type    string          `json:"type"`
	Room    string          `json:"room,omitempty"`
	To      string          `json:"to,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Text    string          `json:"text,omitempty"`
	// Sender is an advisory identity hint some client variants attach.
	// It is never used for attribution; the router uses the identity
	// bound at connect time.
	Sender string `json:"sender,omitempty"`
}

// decodeEvent parses one wire frame into a router event.
func decodeEvent(id core.ConnID, data []byte) (core.Event, error) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("bad frame: %w", err)
	}

	switch f.Type {
	case frameJoinCall:
		return core.Join{ID: id, Room: f.Room}, nil
	case frameSignal:
		return core.Relay{ID: id, Target: core.ConnID(f.To), Payload: f.Payload}, nil
	case frameChatMessage:
		return core.Chat{ID: id, Text: f.Text}, nil
	default:
		return nil, fmt.Errorf("unknown frame type %q", f.Type)
	}
}
