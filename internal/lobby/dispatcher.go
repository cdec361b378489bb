package lobby

import "gomokud/internal/protocol"

// dispatch routes one parsed message to its handler. Every handler is
// total: empty, malformed, and out-of-range input has defined behavior
// and nothing here can take the event loop down.
func (l *Lobby) dispatch(id ConnID, msg protocol.Message) {
	switch msg.Kind {
	case protocol.KindRefresh:
		l.handleRefresh(id)
	case protocol.KindCreateRoom:
		l.handleCreate(id, msg.Name)
	case protocol.KindExitRoom:
		l.handleExit(id)
	case protocol.KindJoinRoom:
		l.handleJoin(id, msg.OwnerID)
	case protocol.KindOpponentStatus:
		l.handleStatus(id)
	case protocol.KindToggleReady:
		l.handleReady(id)
	case protocol.KindChooseColor:
		l.handleColor(id, msg.Black)
	case protocol.KindRelay:
		l.handleRelay(id, msg.Raw)
	default:
		l.Logger.Debugf("ignoring unrecognized message from client %d", id)
	}
}

func (l *Lobby) handleRefresh(id ConnID) {
	listing := l.openRoomListing()
	reply := protocol.EncodeCounts(l.sessions.Len(), listing.open)
	reply = append(reply, listing.block...)
	l.write(id, reply)
}

// handleCreate registers a room owned by the sender. The original protocol
// sends no acknowledgement; the client observes the room via refresh.
func (l *Lobby) handleCreate(id ConnID, name string) {
	l.rooms.Create(name, id)
	l.invalidateRoomListing()
	l.Logger.Infof("client %d created room %q", id, name)
}

func (l *Lobby) handleExit(id ConnID) {
	l.rooms.Leave(id)
	l.invalidateRoomListing()
}

func (l *Lobby) handleJoin(id ConnID, ownerID ConnID) {
	owner, ok := l.sessions.Lookup(ownerID)
	if !ok || owner.Room.IsZero() {
		l.write(id, protocol.JoinErrorReply)
		return
	}
	if err := l.rooms.Join(owner.Room, id); err != nil {
		l.write(id, protocol.JoinErrorReply)
		return
	}
	l.invalidateRoomListing()
	l.write(id, protocol.JoinSuccessReply)
	l.Logger.Infof("client %d joined client %d's room", id, ownerID)
}

func (l *Lobby) handleStatus(id ConnID) {
	s := l.sessions.Get(id)
	if s.Opponent == 0 {
		l.write(id, protocol.NoOpponentStatusReply)
		return
	}
	opp := l.sessions.Get(s.Opponent)
	l.write(id, protocol.EncodeOpponentStatus(opp.Ready, opp.Addr, s.Opponent))
}

// handleReady flips the sender's readiness. The game-start notification is
// edge-triggered: it fires only at the moment the sender becomes ready
// while a ready opponent exists, so each pairing sees exactly one start.
func (l *Lobby) handleReady(id ConnID) {
	s := l.sessions.Get(id)
	s.Ready = !s.Ready
	if !s.Ready || s.Opponent == 0 {
		return
	}
	if opp := l.sessions.Get(s.Opponent); !opp.Ready {
		return
	}
	l.write(id, protocol.StartReply)
	l.write(s.Opponent, protocol.StartReply)
}

// handleColor echoes the claimed color to the sender and the complementary
// color to the opponent, if any.
func (l *Lobby) handleColor(id ConnID, black bool) {
	s := l.sessions.Get(id)
	l.write(id, protocol.ColorToken(black))
	if s.Opponent != 0 {
		l.write(s.Opponent, protocol.ColorToken(!black))
	}
}

// handleRelay forwards the raw frame to the sender's opponent. No opponent
// is not an error: the peer may have just disconnected and the sender not
// know it yet.
func (l *Lobby) handleRelay(id ConnID, raw []byte) {
	s := l.sessions.Get(id)
	if s.Opponent == 0 {
		return
	}
	l.write(s.Opponent, raw)
}
