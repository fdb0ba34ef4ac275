package core

import (
	"context"
	"errors"
	"fmt"
	"net"
	"runtime/debug"
	"sync"

	"github.com/google/uuid"

	"github.com/Jedsam/ComputerNetworksProject/internal/logger"
)

// Server is the generic TCP accept loop.
// It depends ONLY on the ConnectionHandler interface, never on a concrete service.
type Server struct {
	Listener          net.Listener
	ConnectionHandler ConnectionHandler
	// Readiness, when set, is marked ready while the accept loop runs.
	Readiness Readiness

	wg sync.WaitGroup
}

// Serve accepts connections one at a time and hands each to its own
// goroutine. It returns nil once the listener has been closed; in-flight
// connections keep running, see Wait.
func (s *Server) Serve() error {
	if s.Readiness != nil {
		s.Readiness.SetReady(true)
		defer s.Readiness.SetReady(false)
	}
	for {
		conn, err := s.Listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

// Close stops accepting new connections.
func (s *Server) Close() error {
	return s.Listener.Close()
}

// Wait blocks until every accepted connection has been handled or ctx is
// done. Handlers are never interrupted; on ctx expiry they are left running.
// Call it only after Serve has returned.
func (s *Server) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) handleConnection(clientConn net.Conn) {
	defer s.wg.Done()

	log := logger.With(
		"conn_id", uuid.NewString(),
		"remote_addr", clientConn.RemoteAddr().String(),
	)
	log.Info("Connection accepted")

	defer func() {
		if r := recover(); r != nil {
			log.Error("Connection handler panicked", "panic", r, "stack", string(debug.Stack()))
		}
		log.Info("Connection closed")
	}()

	// Delegate the entire lifecycle to the handler
	s.ConnectionHandler.HandleConnection(WithLogger(context.Background(), log), clientConn)
}
