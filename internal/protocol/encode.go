package protocol

import "strconv"

// Reply tokens with no variable parts.
var (
	JoinSuccessReply = []byte("/Zsuccess")
	JoinErrorReply   = []byte("/Zerror")
	StartReply       = []byte("/Zstart")

	// NoOpponentStatusReply uses single-space placeholders for the three
	// missing fields; the clients rely on exactly this layout.
	NoOpponentStatusReply = []byte("/Z0/Z /Z /Z ")
)

// OpenRoom is one joinable room as presented in a refresh reply.
type OpenRoom struct {
	Name      string
	OwnerAddr string
	OwnerID   ConnID
}

// appendField appends one /-delimited field: '/', a single tag byte, then
// the value. There is no terminator and no escaping of '/' inside values;
// a receiver scans to the next '/' or the end of the message.
func appendField(dst []byte, tag byte, value string) []byte {
	dst = append(dst, '/', tag)
	return append(dst, value...)
}

// EncodeCounts builds the header of a refresh reply: the number of
// connected clients followed by the number of open rooms.
func EncodeCounts(online, openRooms int) []byte {
	buf := appendField(nil, 'S', strconv.Itoa(online))
	return appendField(buf, 'S', strconv.Itoa(openRooms))
}

// EncodeOpenRooms builds the per-room tail of a refresh reply: for each
// open room its name, the owner's IP address, and the owner's connection
// id (which a client echoes back in a join request).
func EncodeOpenRooms(rooms []OpenRoom) []byte {
	var buf []byte
	for _, room := range rooms {
		buf = appendField(buf, 'N', room.Name)
		buf = appendField(buf, 'I', room.OwnerAddr)
		buf = appendField(buf, 'F', strconv.Itoa(int(room.OwnerID)))
	}
	return buf
}

// EncodeOpponentStatus builds the reply to an opponent status query when
// an opponent exists.
func EncodeOpponentStatus(ready bool, addr string, id ConnID) []byte {
	readyField := "0"
	if ready {
		readyField = "1"
	}
	buf := appendField(nil, 'Z', "1")
	buf = appendField(buf, 'Z', readyField)
	buf = appendField(buf, 'Z', addr)
	return appendField(buf, 'Z', strconv.Itoa(int(id)))
}

// ColorToken returns the bare two-byte color assignment. Unlike the other
// replies it is not /-framed.
func ColorToken(black bool) []byte {
	if black {
		return []byte("c1")
	}
	return []byte("c0")
}
