// Package frontend implements the TCP-facing half of the server: it owns
// the listening socket, accepts connections, and runs one reader goroutine
// per connection that publishes read chunks into the lobby's event channel.
// All protocol and state logic lives behind that channel.
package frontend

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"gomokud/internal/core"
	"gomokud/internal/lobby"
)

const readBufferSize = 1024

// Frontend accepts client connections and feeds the lobby.
type Frontend struct {
	Addr   string
	Config *core.Config
	Logger *logrus.Logger
	Lobby  *lobby.Lobby

	nextID   int64
	active   int64
	guard    *acceptGuard
	listener *net.TCPListener
}

// ListenAddr returns the bound address, useful when the configured port is
// 0 and the OS picked one. Only valid after Start.
func (f *Frontend) ListenAddr() net.Addr {
	return f.listener.Addr()
}

// Start opens the listening socket and spins off the accept loop, added to
// the WaitGroup. Context cancellation stops the server.
func (f *Frontend) Start(ctx context.Context, wg *sync.WaitGroup) error {
	socket, err := f.createSocket()
	if err != nil {
		return fmt.Errorf("error creating socket on %s: %w", f.Addr, err)
	}
	f.listener = socket

	f.guard, err = newAcceptGuard()
	if err != nil {
		return fmt.Errorf("error acquiring reserve handle: %w", err)
	}

	wg.Add(1)
	go f.startBlockingLoop(ctx, socket, wg)

	return nil
}

// createSocket opens a TCP socket to listen for client connections on the
// Address provided to the frontend.
func (f *Frontend) createSocket() (*net.TCPListener, error) {
	hostAddr, err := net.ResolveTCPAddr("tcp", f.Addr)
	if err != nil {
		return nil, fmt.Errorf("error resolving address: %w", err)
	}

	socket, err := net.ListenTCP("tcp", hostAddr)
	if err != nil {
		return nil, fmt.Errorf("error listening on socket: %w", err)
	}

	return socket, nil
}

// startBlockingLoop accepts connections until the context is cancelled.
func (f *Frontend) startBlockingLoop(ctx context.Context, socket *net.TCPListener, wg *sync.WaitGroup) {
	defer wg.Done()
	defer f.guard.Close()

	f.Logger.Infof("waiting for connections on %v", f.Addr)

	go func() {
		<-ctx.Done()
		_ = socket.Close()
	}()

	for {
		connection, err := socket.AcceptTCP()
		if err != nil {
			if ctx.Err() != nil {
				f.Logger.Info("lobby server shutting down")
				return
			}
			if isExhaustion(err) {
				f.guard.absorb(socket)
				f.Logger.Warnf("out of file handles, drained a pending connection")
				continue
			}
			f.Logger.Warnf("failed to accept connection: %s", err)
			continue
		}

		if int(atomic.LoadInt64(&f.active)) >= f.Config.MaxConnections {
			f.Logger.Warnf("connection limit reached, rejecting %s", connection.RemoteAddr())
			_ = connection.Close()
			continue
		}

		f.acceptClient(ctx, connection)
	}
}

// acceptClient assigns the connection its id, announces it to the lobby,
// and starts its reader.
func (f *Frontend) acceptClient(ctx context.Context, connection *net.TCPConn) {
	id := lobby.ConnID(atomic.AddInt64(&f.nextID, 1))
	atomic.AddInt64(&f.active, 1)

	addr := ipOf(connection)
	f.Logger.Infof("accepted connection %d from %s", id, addr)

	f.publish(ctx, lobby.Event{Kind: lobby.EventAccept, ID: id, Conn: connection, Addr: addr})
	go f.readLoop(ctx, id, connection)
}

// readLoop publishes each read chunk in order, then a single close event
// once the peer disconnects or the read errors. Publishing from one
// goroutine per connection is what gives the lobby FIFO per connection.
func (f *Frontend) readLoop(ctx context.Context, id lobby.ConnID, connection *net.TCPConn) {
	defer atomic.AddInt64(&f.active, -1)

	buffer := make([]byte, readBufferSize)
	for {
		n, err := connection.Read(buffer)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buffer[:n])
			f.publish(ctx, lobby.Event{Kind: lobby.EventData, ID: id, Data: chunk})
		}
		if err != nil {
			f.publish(ctx, lobby.Event{Kind: lobby.EventClose, ID: id})
			return
		}
	}
}

// publish delivers an event unless the server is shutting down, in which
// case the lobby is no longer draining the channel and the event is moot.
func (f *Frontend) publish(ctx context.Context, ev lobby.Event) {
	select {
	case f.Lobby.Events() <- ev:
	case <-ctx.Done():
	}
}

func ipOf(connection *net.TCPConn) string {
	host, _, err := net.SplitHostPort(connection.RemoteAddr().String())
	if err != nil {
		return connection.RemoteAddr().String()
	}
	return host
}
