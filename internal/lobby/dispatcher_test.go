package lobby

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gomokud/internal/core"
)

// fakeConn records every write so tests can assert on exact reply bytes.
type fakeConn struct {
	writes [][]byte
	closed bool
}

func (c *fakeConn) Write(p []byte) (int, error) {
	cp := make([]byte, len(p))
	copy(cp, p)
	c.writes = append(c.writes, cp)
	return len(p), nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

func (c *fakeConn) replies() []string {
	out := make([]string, len(c.writes))
	for i, w := range c.writes {
		out[i] = string(w)
	}
	return out
}

func newTestLobby() *Lobby {
	cfg := &core.Config{}
	logger := &logrus.Logger{
		Out:       io.Discard,
		Formatter: &logrus.TextFormatter{},
		Hooks:     make(logrus.LevelHooks),
		Level:     logrus.ErrorLevel,
	}
	return New(cfg, logger)
}

// connect registers a connection the way an accept event would.
func connect(l *Lobby, id ConnID, addr string) *fakeConn {
	conn := &fakeConn{}
	l.handleEvent(Event{Kind: EventAccept, ID: id, Conn: conn, Addr: addr})
	return conn
}

func send(l *Lobby, id ConnID, msg string) {
	l.handleEvent(Event{Kind: EventData, ID: id, Data: []byte(msg)})
}

func disconnect(l *Lobby, id ConnID) {
	l.handleEvent(Event{Kind: EventClose, ID: id})
}

func TestRefreshListsOpenRooms(t *testing.T) {
	l := newTestLobby()
	connect(l, 1, "10.0.0.1")
	send(l, 1, "C:Arena")

	b := connect(l, 2, "10.0.0.2")
	send(l, 2, "R")

	require.Equal(t, []string{"/S2/S1/NArena/I10.0.0.1/F1"}, b.replies())
}

func TestRefreshReflectsEveryMutation(t *testing.T) {
	l := newTestLobby()
	a := connect(l, 1, "10.0.0.1")

	send(l, 1, "R")
	require.Equal(t, "/S1/S0", string(a.writes[0]))

	// The listing is cached between refreshes; each mutation must
	// invalidate it or clients would chase stale rooms.
	send(l, 1, "C:Arena")
	send(l, 1, "R")
	require.Equal(t, "/S1/S1/NArena/I10.0.0.1/F1", string(a.writes[1]))

	send(l, 1, "E")
	send(l, 1, "R")
	require.Equal(t, "/S1/S0", string(a.writes[2]))
}

func TestCreateAndJoinScenario(t *testing.T) {
	l := newTestLobby()
	connect(l, 1, "10.0.0.1")
	b := connect(l, 2, "10.0.0.2")

	send(l, 1, "C:Arena")
	send(l, 2, "J1")

	require.Equal(t, []string{"/Zsuccess"}, b.replies())
	assert.Equal(t, ConnID(2), l.sessions.Get(1).Opponent)
	assert.Equal(t, ConnID(1), l.sessions.Get(2).Opponent)
}

func TestJoinFailures(t *testing.T) {
	tests := map[string]func(l *Lobby){
		"unknown_owner": func(l *Lobby) {},
		"owner_not_in_a_room": func(l *Lobby) {
			connect(l, 1, "10.0.0.1")
		},
		"room_full": func(l *Lobby) {
			connect(l, 1, "10.0.0.1")
			connect(l, 3, "10.0.0.3")
			send(l, 1, "C:Arena")
			send(l, 3, "J1")
		},
	}

	for name, setup := range tests {
		t.Run(name, func(t *testing.T) {
			l := newTestLobby()
			setup(l)

			joiner := connect(l, 2, "10.0.0.2")
			send(l, 2, "J1")

			require.Equal(t, []string{"/Zerror"}, joiner.replies())
			assert.Zero(t, l.sessions.Get(2).Opponent, "failed join must not pair the joiner")
			assert.True(t, l.sessions.Get(2).Room.IsZero())
		})
	}
}

func TestBothReadyStartsGameExactlyOnce(t *testing.T) {
	// The start notification is edge-triggered; either toggle order must
	// produce exactly one /Zstart per side.
	for _, first := range []ConnID{1, 2} {
		second := ConnID(3 - first)

		l := newTestLobby()
		a := connect(l, 1, "10.0.0.1")
		b := connect(l, 2, "10.0.0.2")
		send(l, 1, "C:Arena")
		send(l, 2, "J1")

		send(l, first, "prepare")
		send(l, second, "prepare")

		countStarts := func(c *fakeConn) int {
			n := 0
			for _, r := range c.replies() {
				if r == "/Zstart" {
					n++
				}
			}
			return n
		}
		assert.Equal(t, 1, countStarts(a), "first=%d", first)
		assert.Equal(t, 1, countStarts(b), "first=%d", first)
	}
}

func TestUnreadyThenReadyAgainStartsAgain(t *testing.T) {
	l := newTestLobby()
	connect(l, 1, "10.0.0.1")
	b := connect(l, 2, "10.0.0.2")
	send(l, 1, "C:Arena")
	send(l, 2, "J1")

	send(l, 1, "prepare")
	send(l, 2, "prepare") // start #1
	send(l, 2, "prepare") // un-ready: no notification
	send(l, 2, "prepare") // ready again: start #2

	starts := 0
	for _, r := range b.replies() {
		if r == "/Zstart" {
			starts++
		}
	}
	assert.Equal(t, 2, starts)
}

func TestReadyAloneDoesNotStart(t *testing.T) {
	l := newTestLobby()
	a := connect(l, 1, "10.0.0.1")
	send(l, 1, "C:Arena")
	send(l, 1, "prepare")

	assert.Empty(t, a.replies())
}

func TestRelayForwardsVerbatim(t *testing.T) {
	l := newTestLobby()
	a := connect(l, 1, "10.0.0.1")
	b := connect(l, 2, "10.0.0.2")
	send(l, 1, "C:Arena")
	send(l, 2, "J1")

	send(l, 1, "OMe3")
	send(l, 2, "ONnice move")

	require.Equal(t, []string{"OMe3"}, b.replies()[1:], "move must arrive unaltered")
	require.Equal(t, []string{"ONnice move"}, a.replies(), "chat must arrive unaltered")
}

func TestRelayWithoutOpponentIsDropped(t *testing.T) {
	l := newTestLobby()
	a := connect(l, 1, "10.0.0.1")

	send(l, 1, "OMe3")

	assert.Empty(t, a.replies())
}

func TestOpponentStatusQuery(t *testing.T) {
	l := newTestLobby()
	a := connect(l, 1, "10.0.0.1")
	connect(l, 2, "10.0.0.2")

	send(l, 1, "U")
	require.Equal(t, "/Z0/Z /Z /Z ", string(a.writes[0]), "no opponent uses placeholders")

	send(l, 1, "C:Arena")
	send(l, 2, "J1")
	send(l, 2, "prepare")
	send(l, 1, "U")
	require.Equal(t, "/Z1/Z1/Z10.0.0.2/Z2", string(a.writes[1]))
}

func TestColorAssignment(t *testing.T) {
	l := newTestLobby()
	a := connect(l, 1, "10.0.0.1")
	b := connect(l, 2, "10.0.0.2")
	send(l, 1, "C:Arena")
	send(l, 2, "J1")

	send(l, 1, "color1")

	require.Equal(t, []string{"c1"}, a.replies())
	require.Equal(t, []string{"/Zsuccess", "c0"}, b.replies())
}

func TestColorWithoutOpponentEchoesOnly(t *testing.T) {
	l := newTestLobby()
	a := connect(l, 1, "10.0.0.1")

	send(l, 1, "color0")

	require.Equal(t, []string{"c0"}, a.replies())
}

func TestUnknownMessagesAreIgnored(t *testing.T) {
	l := newTestLobby()
	a := connect(l, 1, "10.0.0.1")

	for _, msg := range []string{"", "garbage", "OX1", "J-1", "Jabc"} {
		send(l, 1, msg)
	}

	assert.Empty(t, a.replies())
	assert.Equal(t, 1, l.sessions.Len())
}

func TestDisconnectOfGuestResetsPairing(t *testing.T) {
	l := newTestLobby()
	a := connect(l, 1, "10.0.0.1")
	connect(l, 2, "10.0.0.2")
	send(l, 1, "C:Arena")
	send(l, 2, "J1")

	disconnect(l, 2)

	assert.Zero(t, l.sessions.Get(1).Opponent)
	assert.Equal(t, 1, l.sessions.Len())

	// The room is open again on the next refresh.
	send(l, 1, "R")
	require.Equal(t, "/S1/S1/NArena/I10.0.0.1/F1", string(a.writes[0]))
}

func TestDisconnectOfOwnerPromotesGuest(t *testing.T) {
	l := newTestLobby()
	connect(l, 1, "10.0.0.1")
	b := connect(l, 2, "10.0.0.2")
	send(l, 1, "C:Arena")
	send(l, 2, "J1")

	disconnect(l, 1)

	promoted := l.sessions.Get(2)
	assert.True(t, promoted.IsOwner)
	assert.Zero(t, promoted.Opponent)
	_, exists := l.sessions.Lookup(1)
	assert.False(t, exists, "disconnected session must be removed")

	// The survivor now owns "Arena" and it is joinable again.
	send(l, 2, "R")
	require.Equal(t, "/S1/S1/NArena/I10.0.0.2/F2", string(b.writes[len(b.writes)-1]))
}

func TestDisconnectOfLastOwnerRemovesRoom(t *testing.T) {
	l := newTestLobby()
	connect(l, 1, "10.0.0.1")
	b := connect(l, 2, "10.0.0.2")
	send(l, 1, "C:Arena")

	disconnect(l, 1)

	send(l, 2, "R")
	require.Equal(t, "/S1/S0", string(b.writes[0]))
}

func TestCloseEventClosesConnection(t *testing.T) {
	l := newTestLobby()
	a := connect(l, 1, "10.0.0.1")

	disconnect(l, 1)

	assert.True(t, a.closed)
	assert.Empty(t, l.conns)
}
