// Package protocol implements the lobby wire format: a tokenizer that
// classifies inbound client messages and encoders for the /-delimited
// replies the game clients expect.
package protocol

// ConnID identifies one live client connection. The zero value is the
// "no opponent" sentinel, so real ids start at 1.
type ConnID int

// Kind discriminates the Message union.
type Kind int

const (
	// KindUnknown marks a message no handler matches. Unknown messages are
	// ignored rather than treated as errors.
	KindUnknown Kind = iota
	// KindRefresh requests the online count and the list of open rooms.
	KindRefresh
	// KindCreateRoom creates a room named Name owned by the sender.
	KindCreateRoom
	// KindExitRoom leaves the sender's current room. Also synthesized on
	// disconnect.
	KindExitRoom
	// KindJoinRoom joins the room owned by connection OwnerID.
	KindJoinRoom
	// KindOpponentStatus queries the opponent's presence/readiness/address.
	KindOpponentStatus
	// KindToggleReady flips the sender's readiness.
	KindToggleReady
	// KindChooseColor claims black (first move) or white once paired.
	KindChooseColor
	// KindRelay carries an opaque gameplay message forwarded verbatim to
	// the sender's opponent.
	KindRelay
)

// Message is the tagged union produced by Parse. Only the fields relevant
// to Kind are set.
type Message struct {
	Kind Kind

	// Name is the room name for KindCreateRoom.
	Name string
	// OwnerID is the target room owner for KindJoinRoom.
	OwnerID ConnID
	// Black is true when KindChooseColor claims the first move.
	Black bool
	// Raw holds the entire original frame for KindRelay, including the
	// leading 'O' and tag byte, so it can be forwarded byte-for-byte.
	Raw []byte
}
