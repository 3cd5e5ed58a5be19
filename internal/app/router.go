package app

import (
	"github.com/rs/zerolog/log"

	"github.com/baatlink/baatlink/internal/core"
	"github.com/baatlink/baatlink/internal/domain"
)

// Router owns all signaling state transitions. Dispatch interprets one
// inbound event, mutates Registry/Directory, and returns the addressed
// outbound events plus any connections that must be hung up. It is the
// only component that mutates either structure.
type Router struct {
	registry  *Registry
	directory *Directory
}

func NewRouter(registry *Registry, directory *Directory) *Router {
	return &Router{registry: registry, directory: directory}
}

// Dispatch processes one inbound event. An error in one connection's
// handling never aborts processing for any other connection: the worst
// outcome is the offending connection landing in Output.Hangup.
func (rt *Router) Dispatch(ev core.Event) core.Output {
	var out core.Output
	switch e := ev.(type) {
	case core.Connect:
		rt.onConnect(e, &out)
	case core.Join:
		rt.onJoin(e, &out)
	case core.Relay:
		rt.onRelay(e, &out)
	case core.Chat:
		rt.onChat(e, &out)
	case core.Disconnect:
		rt.onDisconnect(e, &out)
	default:
		log.Error().Str("module", "app.router").Type("event", ev).Msg("unhandled event type")
	}
	return out
}

func (rt *Router) onConnect(e core.Connect, out *core.Output) {
	if err := rt.registry.Register(e.ID, e.Identity); err != nil {
		rt.violation(e.ID, err, out)
	}
}

func (rt *Router) onJoin(e core.Join, out *core.Output) {
	if current, ok := rt.registry.Room(e.ID); ok {
		rt.rejoin(e, current, out)
		return
	}

	code, err := domain.NormalizeRoomCode(e.Room)
	if err != nil {
		log.Debug().Str("module", "app.router").Str("conn", string(e.ID)).Str("room", e.Room).Msg("join rejected")
		out.Send(e.ID, core.ErrorMessage("invalid room code"))
		return
	}

	if err := rt.registry.SetRoom(e.ID, code); err != nil {
		rt.violation(e.ID, err, out)
		return
	}
	prev := rt.directory.Join(code, e.ID)
	// Count comes from the same snapshot as the member list, so the two
	// can never disagree within one ack.
	count := len(prev) + 1

	log.Info().Str("module", "app.router").Str("conn", string(e.ID)).Str("room", string(code)).Int("count", count).Msg("joined room")

	out.Send(e.ID, core.JoinedAck(string(code), prev, count))
	for _, member := range prev {
		out.Send(member, core.UserJoined(e.ID, count))
	}
}

// rejoin handles a join from a connection that is already in a room.
// Re-joining the current room is a no-op that repeats the ack;
// switching rooms over a live connection is not part of the contract.
func (rt *Router) rejoin(e core.Join, current domain.RoomCode, out *core.Output) {
	code, err := domain.NormalizeRoomCode(e.Room)
	if err == nil && code == current {
		members := rt.directory.Members(current)
		peers := make([]core.ConnID, 0, len(members))
		for _, m := range members {
			if m != e.ID {
				peers = append(peers, m)
			}
		}
		out.Send(e.ID, core.JoinedAck(string(current), peers, len(members)))
		return
	}
	out.Send(e.ID, core.ErrorMessage("already in a room"))
}

func (rt *Router) onRelay(e core.Relay, out *core.Output) {
	room, ok := rt.registry.Room(e.ID)
	if !ok {
		log.Debug().Str("module", "app.router").Str("conn", string(e.ID)).Msg("relay from unjoined connection dropped")
		return
	}
	// A peer may have just left; dropping is a benign race, not a
	// fault, so the sender is never told.
	if !rt.directory.Contains(room, e.Target) {
		log.Debug().Str("module", "app.router").Str("conn", string(e.ID)).Str("target", string(e.Target)).Str("room", string(room)).Msg("relay to unknown target dropped")
		return
	}
	out.Send(e.Target, core.Signal(e.ID, e.Payload))
}

func (rt *Router) onChat(e core.Chat, out *core.Output) {
	room, ok := rt.registry.Room(e.ID)
	if !ok {
		log.Debug().Str("module", "app.router").Str("conn", string(e.ID)).Msg("chat from unjoined connection dropped")
		return
	}
	identity, _ := rt.registry.Identity(e.ID)
	if identity == "" {
		identity = "guest"
	}
	// The sender renders its own copy locally, so it is excluded from
	// the broadcast.
	for _, member := range rt.directory.Members(room) {
		if member == e.ID {
			continue
		}
		out.Send(member, core.ChatMessage(e.Text, identity, e.ID))
	}
}

func (rt *Router) onDisconnect(e core.Disconnect, out *core.Output) {
	room, had := rt.registry.Unregister(e.ID)
	if !had {
		return
	}
	rt.directory.Leave(room, e.ID)
	remaining := rt.directory.Members(room)
	log.Info().Str("module", "app.router").Str("conn", string(e.ID)).Str("room", string(room)).Int("count", len(remaining)).Msg("left room")
	for _, member := range remaining {
		out.Send(member, core.UserLeft(e.ID))
	}
}

// violation isolates a registry inconsistency to the one connection:
// evict whatever state it holds and hang it up. The process keeps
// serving everyone else.
func (rt *Router) violation(id core.ConnID, err error, out *core.Output) {
	log.Error().Str("module", "app.router").Str("conn", string(id)).Err(err).Msg("registry invariant violation, disconnecting")
	if room, had := rt.registry.Unregister(id); had {
		rt.directory.Leave(room, id)
		for _, member := range rt.directory.Members(room) {
			out.Send(member, core.UserLeft(id))
		}
	}
	out.Hangup = append(out.Hangup, id)
}
