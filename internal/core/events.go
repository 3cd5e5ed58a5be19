package core

import "encoding/json"

// ConnID is the opaque identifier of one transport session,
// assigned by the adapter when the connection is accepted.
type ConnID string

// Event is the inbound side of the signaling contract: a tagged union
// dispatched by the router. One value per transport event.
type Event interface {
	Conn() ConnID
}

// Connect is emitted once per accepted transport session, before any
// other event for that connection. Identity may be empty (anonymous).
type Connect struct {
	ID       ConnID
	Identity string
}

// Join asks to enter a room. Room carries the raw client-supplied
// code; the router normalizes and validates it.
type Join struct {
	ID   ConnID
	Room string
}

// Relay forwards an opaque negotiation payload (offer, answer or ICE
// candidate) to one peer in the sender's room.
type Relay struct {
	ID      ConnID
	Target  ConnID
	Payload json.RawMessage
}

// Chat is a room-scoped text message. The sender identity used for
// attribution is the one bound at connect time, never client-supplied.
type Chat struct {
	ID   ConnID
	Text string
}

// Disconnect terminates the connection's participation. It is valid in
// any state and may race with in-flight events for the same connection.
type Disconnect struct {
	ID ConnID
}

func (e Connect) Conn() ConnID    { return e.ID }
func (e Join) Conn() ConnID       { return e.ID }
func (e Relay) Conn() ConnID      { return e.ID }
func (e Chat) Conn() ConnID       { return e.ID }
func (e Disconnect) Conn() ConnID { return e.ID }
