package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/baatlink/baatlink/internal/core"
	"github.com/baatlink/baatlink/internal/domain"
)

// Directory maps a room code to the set of connections currently
// joined. A room with zero members is never retained. Every method is
// atomic, which gives each room a single mutation point: two events
// touching the same room can never interleave inside one call.
type Directory struct {
	mu    sync.RWMutex
	rooms map[domain.RoomCode]map[core.ConnID]struct{}
}

func NewDirectory() *Directory {
	return &Directory{rooms: make(map[domain.RoomCode]map[core.ConnID]struct{})}
}

// Join adds the connection and returns the membership as it was before
// this join, so the caller can notify existing members and tell the
// joiner who is already here. Joining a room one is already in does
// not duplicate membership and returns the same snapshot.
func (d *Directory) Join(code domain.RoomCode, id core.ConnID) []core.ConnID {
	d.mu.Lock()
	defer d.mu.Unlock()
	members, ok := d.rooms[code]
	if !ok {
		members = make(map[core.ConnID]struct{})
		d.rooms[code] = members
		log.Debug().Str("module", "app.directory").Str("room", string(code)).Msg("room created")
	}
	prev := make([]core.ConnID, 0, len(members))
	for m := range members {
		if m == id {
			continue
		}
		prev = append(prev, m)
	}
	members[id] = struct{}{}
	return prev
}

// Leave removes the connection and deletes the room when it empties.
// No-op if the room or the member does not exist.
func (d *Directory) Leave(code domain.RoomCode, id core.ConnID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	members, ok := d.rooms[code]
	if !ok {
		return
	}
	delete(members, id)
	if len(members) == 0 {
		delete(d.rooms, code)
		log.Debug().Str("module", "app.directory").Str("room", string(code)).Msg("room deleted")
	}
}

// Members returns a snapshot of the room's membership, empty if the
// room is absent.
func (d *Directory) Members(code domain.RoomCode) []core.ConnID {
	d.mu.RLock()
	defer d.mu.RUnlock()
	members := d.rooms[code]
	out := make([]core.ConnID, 0, len(members))
	for m := range members {
		out = append(out, m)
	}
	return out
}

// Contains reports whether the connection is a member of the room.
func (d *Directory) Contains(code domain.RoomCode, id core.ConnID) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.rooms[code][id]
	return ok
}

func (d *Directory) Size(code domain.RoomCode) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.rooms[code])
}

// RoomInfo is a read-only view for the REST API.
type RoomInfo struct {
	Code        domain.RoomCode `json:"code"`
	MemberCount int             `json:"member_count"`
}

func (d *Directory) List() []RoomInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]RoomInfo, 0, len(d.rooms))
	for code, members := range d.rooms {
		out = append(out, RoomInfo{Code: code, MemberCount: len(members)})
	}
	return out
}
