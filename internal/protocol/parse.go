package protocol

import "strconv"

// Gameplay relay tags: move, undo, chat, opponent-left, surrender.
// Other 'O'-prefixed messages are dropped like any unknown message.
var relayTags = map[byte]bool{'M': true, 'B': true, 'N': true, 'R': true, 'S': true}

// Parse classifies one inbound chunk as a Message. The protocol has no
// terminator to resynchronize on, so one read chunk is one logical message;
// clients pace their requests against our replies. Parse is total: anything
// unrecognizable comes back as KindUnknown.
func Parse(chunk []byte) Message {
	if len(chunk) == 0 {
		return Message{Kind: KindUnknown}
	}

	switch string(chunk) {
	case "prepare":
		return Message{Kind: KindToggleReady}
	case "color1":
		return Message{Kind: KindChooseColor, Black: true}
	case "color0":
		return Message{Kind: KindChooseColor}
	}

	// Everything else is identified by its first byte.
	switch chunk[0] {
	case 'O':
		if len(chunk) >= 2 && relayTags[chunk[1]] {
			return Message{Kind: KindRelay, Raw: chunk}
		}
	case 'R':
		return Message{Kind: KindRefresh}
	case 'C':
		// Wire format is C:<name>; the name starts after the separator.
		var name string
		if len(chunk) > 2 {
			name = string(chunk[2:])
		}
		return Message{Kind: KindCreateRoom, Name: name}
	case 'E':
		return Message{Kind: KindExitRoom}
	case 'J':
		id, err := strconv.Atoi(string(chunk[1:]))
		if err == nil && id > 0 {
			return Message{Kind: KindJoinRoom, OwnerID: ConnID(id)}
		}
	case 'U':
		return Message{Kind: KindOpponentStatus}
	}

	return Message{Kind: KindUnknown}
}
