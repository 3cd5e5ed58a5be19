package core

import "encoding/json"

// Wire message types sent to clients.
const (
	TypeJoined      = "joined"
	TypeUserJoined  = "user-joined"
	TypeUserLeft    = "user-left"
	TypeSignal      = "signal"
	TypeChatMessage = "chat-message"
	TypeError       = "error"
)

// Message is the outbound wire format. Fields are populated per Type;
// everything else stays empty and is omitted from the JSON.
type Message struct {
	Type    string          `json:"type"`
	From    ConnID          `json:"from,omitempty"`
	Room    string          `json:"room,omitempty"`
	Members []ConnID        `json:"members,omitempty"`
	Count   int             `json:"count,omitempty"`
	Sender  string          `json:"sender,omitempty"`
	Text    string          `json:"text,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// JoinedAck tells the joiner which peers are already in the room.
func JoinedAck(room string, members []ConnID, count int) Message {
	return Message{Type: TypeJoined, Room: room, Members: members, Count: count}
}

// UserJoined notifies an existing member about a new peer. Count is
// the member count after the join.
func UserJoined(id ConnID, count int) Message {
	return Message{Type: TypeUserJoined, From: id, Count: count}
}

func UserLeft(id ConnID) Message {
	return Message{Type: TypeUserLeft, From: id}
}

// Signal carries an opaque negotiation payload. From is attached by
// the router from its own registry, never taken from the client.
func Signal(from ConnID, payload json.RawMessage) Message {
	return Message{Type: TypeSignal, From: from, Payload: payload}
}

func ChatMessage(text, sender string, from ConnID) Message {
	return Message{Type: TypeChatMessage, Text: text, Sender: sender, From: from}
}

func ErrorMessage(reason string) Message {
	return Message{Type: TypeError, Error: reason}
}

// Envelope is one addressed outbound event.
type Envelope struct {
	To  ConnID
	Msg Message
}

// Output is the result of dispatching one inbound event. Hangup lists
// connections the transport must close: the router has already evicted
// them from its state and expects no further events on their behalf.
type Output struct {
	Events []Envelope
	Hangup []ConnID
}

// Send appends one addressed event to the output.
func (o *Output) Send(to ConnID, msg Message) {
	o.Events = append(o.Events, Envelope{To: to, Msg: msg})
}
