// Package lobby owns all matchmaking state: the session and room
// registries, the message handlers that mutate them, and the event loop
// that serializes every mutation onto a single goroutine.
package lobby

import "gomokud/internal/protocol"

// ConnID aliases the protocol's connection id type; 0 means "no opponent".
type ConnID = protocol.ConnID

// Session is the per-connection state attached to one live client.
type Session struct {
	// Opponent is the paired connection's id, 0 while unpaired.
	Opponent ConnID
	// Ready is toggled by the client and only meaningful once paired.
	Ready bool
	// IsOwner is true if this session created (or was promoted to own)
	// the room it occupies.
	IsOwner bool
	// Room refers to the occupied room; the zero handle means none.
	Room RoomHandle
	// Addr is the remote IP, captured at accept and fixed for the
	// connection's lifetime. It survives a Reset.
	Addr string
}

// SessionRegistry maps connection ids to sessions. It is owned by the
// lobby's event loop goroutine and is deliberately unsynchronized.
type SessionRegistry struct {
	sessions map[ConnID]*Session
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[ConnID]*Session)}
}

// Get returns the session for id, creating a default entry if absent.
// Every accepted connection has an entry, so handlers can call this freely.
func (r *SessionRegistry) Get(id ConnID) *Session {
	s, ok := r.sessions[id]
	if !ok {
		s = &Session{}
		r.sessions[id] = s
	}
	return s
}

// Lookup returns the session for id without creating one.
func (r *SessionRegistry) Lookup(id ConnID) (*Session, bool) {
	s, ok := r.sessions[id]
	return s, ok
}

// Reset restores the session to its defaults, used when a session leaves a
// room. The remote address is a connection property and is kept.
func (r *SessionRegistry) Reset(id ConnID) {
	if s, ok := r.sessions[id]; ok {
		*s = Session{Addr: s.Addr}
	}
}

// Remove deletes the entry on disconnect.
func (r *SessionRegistry) Remove(id ConnID) {
	delete(r.sessions, id)
}

// Len is the number of live sessions, i.e. the online count.
func (r *SessionRegistry) Len() int {
	return len(r.sessions)
}
