package frontend

import (
	"errors"
	"net"
	"os"
	"syscall"
)

// acceptGuard handles file handle exhaustion during accept. One handle is
// held in reserve; when the process runs out, the guard releases the
// reserve, accepts the pending connection just to close it, and reacquires
// the reserve. Without this the listening socket stays readable with no
// way to make progress and the accept loop busy-spins.
type acceptGuard struct {
	reserve *os.File
}

func newAcceptGuard() (*acceptGuard, error) {
	reserve, err := os.Open(os.DevNull)
	if err != nil {
		return nil, err
	}
	return &acceptGuard{reserve: reserve}, nil
}

// absorb consumes and closes the connection that made the listener ready.
func (g *acceptGuard) absorb(socket *net.TCPListener) {
	_ = g.reserve.Close()

	if conn, err := socket.Accept(); err == nil {
		_ = conn.Close()
	}

	// Reacquiring can only fail if handles were consumed elsewhere in the
	// meantime; the next exhausted accept retries it.
	g.reserve, _ = os.Open(os.DevNull)
}

func (g *acceptGuard) Close() error {
	if g.reserve == nil {
		return nil
	}
	return g.reserve.Close()
}

// isExhaustion reports whether err is the OS telling us there are no file
// handles left for a new connection.
func isExhaustion(err error) bool {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.EMFILE || errno == syscall.ENFILE
	}
	return false
}
