package lobby

import (
	"errors"

	"gomokud/internal/protocol"
)

// RoomHandle is a stable, generation-checked reference into the room
// arena. Deleting a room bumps its slot's generation, so handles held by
// other sessions can never silently point at a recycled slot. The zero
// value never refers to a live room.
type RoomHandle struct {
	slot int
	gen  uint32
}

// IsZero reports whether the handle is the "no room" sentinel.
func (h RoomHandle) IsZero() bool {
	return h.gen == 0
}

// Room is a named pairing slot with one owner and at most one guest.
// A room with no owner cannot exist.
type Room struct {
	Name  string
	Owner ConnID
	// Guest is 0 while the room is open/joinable.
	Guest ConnID
}

type roomSlot struct {
	gen  uint32
	live bool
	room Room
}

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomFull      = errors.New("room already has a guest")
	ErrAlreadyInRoom = errors.New("session is already in a room")
)

// RoomRegistry stores rooms in a slot arena and keeps a separate ordered
// slice of handles so listings preserve insertion order. It mutates
// session state on every occupancy transition and, like the session
// registry, is only ever touched from the event loop goroutine.
type RoomRegistry struct {
	sessions *SessionRegistry

	slots []roomSlot
	order []RoomHandle
	free  []int
}

func NewRoomRegistry(sessions *SessionRegistry) *RoomRegistry {
	return &RoomRegistry{sessions: sessions}
}

// Create appends a new room owned by ownerID and stamps the owner session.
// Creating while already in a room leaves the old room first so no room is
// ever stranded without a reachable owner.
func (r *RoomRegistry) Create(name string, ownerID ConnID) RoomHandle {
	r.Leave(ownerID)

	var slot int
	if n := len(r.free); n > 0 {
		slot = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		r.slots = append(r.slots, roomSlot{})
		slot = len(r.slots) - 1
	}

	s := &r.slots[slot]
	s.gen++
	s.live = true
	s.room = Room{Name: name, Owner: ownerID}

	h := RoomHandle{slot: slot, gen: s.gen}
	r.order = append(r.order, h)

	owner := r.sessions.Get(ownerID)
	owner.Room = h
	owner.IsOwner = true
	return h
}

// Get resolves a handle, failing on stale generations and freed slots.
func (r *RoomRegistry) Get(h RoomHandle) (*Room, bool) {
	if h.IsZero() || h.slot < 0 || h.slot >= len(r.slots) {
		return nil, false
	}
	s := &r.slots[h.slot]
	if !s.live || s.gen != h.gen {
		return nil, false
	}
	return &s.room, true
}

// Join adds guestID to the room at h and wires the symmetric opponent
// references. Nothing is mutated on failure.
func (r *RoomRegistry) Join(h RoomHandle, guestID ConnID) error {
	room, ok := r.Get(h)
	if !ok {
		return ErrRoomNotFound
	}
	if room.Guest != 0 {
		return ErrRoomFull
	}
	owner, ok := r.sessions.Lookup(room.Owner)
	if !ok || owner.Room != h {
		// The owner has since left or disconnected.
		return ErrRoomNotFound
	}
	guest := r.sessions.Get(guestID)
	if !guest.Room.IsZero() {
		// Covers joining your own room as well.
		return ErrAlreadyInRoom
	}

	room.Guest = guestID
	owner.Opponent = guestID
	guest.Opponent = room.Owner
	guest.Room = h
	return nil
}

// Leave removes id from whatever room it occupies. A guest leaving
// reopens the room; an owner leaving hands the room to the guest if one
// is present and deletes it otherwise. Leaving while not in a room is a
// no-op. The leaving session is always reset to defaults.
func (r *RoomRegistry) Leave(id ConnID) {
	sess, ok := r.sessions.Lookup(id)
	if !ok || sess.Room.IsZero() {
		return
	}
	room, ok := r.Get(sess.Room)
	if !ok {
		// Stale handle; nothing to detach from.
		r.sessions.Reset(id)
		return
	}

	switch {
	case room.Guest == id:
		room.Guest = 0
		if owner, ok := r.sessions.Lookup(room.Owner); ok {
			owner.Opponent = 0
		}
	case room.Guest != 0:
		// Owner leaving with a guest present: promote the guest in place.
		// The room keeps its handle, name, and position in the listing.
		promoted := room.Guest
		if guest, ok := r.sessions.Lookup(promoted); ok {
			guest.Opponent = 0
			guest.IsOwner = true
		}
		room.Owner = promoted
		room.Guest = 0
	default:
		// Owner leaving alone: the room would have no occupants.
		r.release(sess.Room)
	}

	r.sessions.Reset(id)
}

// release frees the arena slot and drops the room from the listing order.
func (r *RoomRegistry) release(h RoomHandle) {
	s := &r.slots[h.slot]
	s.live = false
	s.room = Room{}
	r.free = append(r.free, h.slot)

	for i, other := range r.order {
		if other == h {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// ListOpen returns the joinable rooms in creation order.
func (r *RoomRegistry) ListOpen() []protocol.OpenRoom {
	var out []protocol.OpenRoom
	for _, h := range r.order {
		room, ok := r.Get(h)
		if !ok || room.Guest != 0 {
			continue
		}
		var addr string
		if owner, ok := r.sessions.Lookup(room.Owner); ok {
			addr = owner.Addr
		}
		out = append(out, protocol.OpenRoom{
			Name:      room.Name,
			OwnerAddr: addr,
			OwnerID:   room.Owner,
		})
	}
	return out
}

// Len is the total number of live rooms.
func (r *RoomRegistry) Len() int {
	return len(r.order)
}
