package app

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/baatlink/baatlink/internal/core"
	"github.com/baatlink/baatlink/internal/domain"
)

var (
	ErrDuplicateConn = errors.New("connection already registered")
	ErrUnknownConn   = errors.New("connection not registered")
)

type connEntry struct {
	Identity string
	Room     domain.RoomCode
}

// Registry maps a connection id to the identity presented at connect
// time and to the room it currently occupies. It is owned by the
// Router; nothing else mutates it.
type Registry struct {
	mu    sync.RWMutex
	conns map[core.ConnID]*connEntry
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[core.ConnID]*connEntry)}
}

// Register creates a record with no room. The transport assigns unique
// ids, so a duplicate is an invariant violation, not a user error.
func (r *Registry) Register(id core.ConnID, identity string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conns[id]; ok {
		return ErrDuplicateConn
	}
	r.conns[id] = &connEntry{Identity: identity}
	log.Debug().Str("module", "app.registry").Str("conn", string(id)).Str("identity", identity).Msg("registered connection")
	return nil
}

// Unregister removes the record and reports the room it was in, so the
// caller can evict it from the directory. Unknown ids are a no-op:
// disconnects may race with cleanup.
func (r *Registry) Unregister(id core.ConnID) (domain.RoomCode, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.conns[id]
	if !ok {
		return "", false
	}
	delete(r.conns, id)
	log.Debug().Str("module", "app.registry").Str("conn", string(id)).Msg("unregistered connection")
	return entry.Room, entry.Room != ""
}

func (r *Registry) SetRoom(id core.ConnID, room domain.RoomCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.conns[id]
	if !ok {
		return ErrUnknownConn
	}
	entry.Room = room
	return nil
}

// Room reports the room the connection joined, if any.
func (r *Registry) Room(id core.ConnID) (domain.RoomCode, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.conns[id]
	if !ok || entry.Room == "" {
		return "", false
	}
	return entry.Room, true
}

// Identity reports the identity bound at connect time.
func (r *Registry) Identity(id core.ConnID) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.conns[id]
	if !ok {
		return "", false
	}
	return entry.Identity, true
}
