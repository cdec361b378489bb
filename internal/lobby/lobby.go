package lobby

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"gomokud/internal/core"
	"gomokud/internal/core/debug"
	"gomokud/internal/protocol"
)

// Conn is the write surface the lobby needs from a client connection.
// Reads happen in the frontend; the lobby only ever writes and closes.
type Conn interface {
	Write(p []byte) (int, error)
	Close() error
}

// EventKind discriminates connection lifecycle events.
type EventKind int

const (
	// EventAccept registers a new connection and creates its session.
	EventAccept EventKind = iota
	// EventData carries one inbound read chunk.
	EventData
	// EventClose reports that the peer disconnected or the read failed.
	EventClose
)

// Event is the unit of work delivered to the lobby's event loop. The
// frontend publishes events for each connection in read order, which gives
// FIFO processing per connection; no ordering holds across connections.
type Event struct {
	Kind EventKind
	ID   ConnID
	// Conn and Addr are only set for EventAccept.
	Conn Conn
	Addr string
	// Data is only set for EventData.
	Data []byte
}

const eventBufferSize = 64

// How long a cached room listing may be served before being rebuilt. The
// cache is also flushed explicitly on every registry mutation, so the TTL
// only bounds staleness if an invalidation is ever missed.
const roomListingTTL = 2 * time.Second

const openRoomsKey = "open_rooms"

type roomListing struct {
	open  int
	block []byte
}

// Lobby owns the registries and processes all events on one goroutine,
// which stands in for the original single-threaded multiplexer: handlers
// mutate shared state with no interleaving and therefore no locks.
type Lobby struct {
	Config *core.Config
	Logger *logrus.Logger

	events   chan Event
	conns    map[ConnID]Conn
	sessions *SessionRegistry
	rooms    *RoomRegistry
	listings *gocache.Cache
}

func New(cfg *core.Config, logger *logrus.Logger) *Lobby {
	sessions := NewSessionRegistry()
	return &Lobby{
		Config:   cfg,
		Logger:   logger,
		events:   make(chan Event, eventBufferSize),
		conns:    make(map[ConnID]Conn),
		sessions: sessions,
		rooms:    NewRoomRegistry(sessions),
		listings: gocache.New(roomListingTTL, 2*roomListingTTL),
	}
}

// Events returns the channel the frontend publishes connection events to.
func (l *Lobby) Events() chan<- Event {
	return l.events
}

// Run processes events until the context is cancelled. It must be the only
// goroutine touching the registries.
func (l *Lobby) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			l.closeAll()
			return
		case ev := <-l.events:
			l.handleEvent(ev)
		}
	}
}

func (l *Lobby) handleEvent(ev Event) {
	switch ev.Kind {
	case EventAccept:
		l.conns[ev.ID] = ev.Conn
		s := l.sessions.Get(ev.ID)
		s.Addr = ev.Addr

	case EventData:
		msg := protocol.Parse(ev.Data)
		if l.Config.Debugging.PacketLoggingEnabled {
			debug.PrintMessage(l.Logger, int(ev.ID), msg)
		}
		l.dispatch(ev.ID, msg)

	case EventClose:
		// Detach from any room first so pairing/ownership invariants hold
		// before the session disappears.
		l.rooms.Leave(ev.ID)
		l.sessions.Remove(ev.ID)
		if conn, ok := l.conns[ev.ID]; ok {
			_ = conn.Close()
			delete(l.conns, ev.ID)
		}
		l.invalidateRoomListing()
		l.Logger.Infof("client %d disconnected", ev.ID)
	}
}

func (l *Lobby) closeAll() {
	for id, conn := range l.conns {
		_ = conn.Close()
		delete(l.conns, id)
	}
}

// write is best-effort: a failed write means the peer is on its way out
// and the reader's close event will reap the session shortly.
func (l *Lobby) write(id ConnID, data []byte) {
	conn, ok := l.conns[id]
	if !ok {
		return
	}
	if _, err := conn.Write(data); err != nil {
		l.Logger.Debugf("write to client %d failed: %v", id, err)
	}
}

func (l *Lobby) invalidateRoomListing() {
	l.listings.Delete(openRoomsKey)
}

// openRoomListing returns the encoded open-room block, rebuilding it only
// when a registry mutation (or the TTL) has invalidated the cached copy.
func (l *Lobby) openRoomListing() roomListing {
	if v, ok := l.listings.Get(openRoomsKey); ok {
		return v.(roomListing)
	}
	open := l.rooms.ListOpen()
	listing := roomListing{open: len(open), block: protocol.EncodeOpenRooms(open)}
	l.listings.Set(openRoomsKey, listing, gocache.DefaultExpiration)
	return listing
}
