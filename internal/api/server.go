package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"

	"github.com/Jedsam/ComputerNetworksProject/internal/logger"
)

// HealthServer exposes liveness and readiness for one service. Readiness
// follows the service's accept loop: core.Server calls SetReady.
type HealthServer struct {
	service  string
	server   *http.Server
	listener net.Listener
	ready    atomic.Bool
}

func NewHealthServer(addr, service string) *HealthServer {
	mux := http.NewServeMux()
	hs := &HealthServer{
		service: service,
		server: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}

	mux.HandleFunc("/health", hs.handleHealth)
	mux.HandleFunc("/ready", hs.handleReady)

	return hs
}

// Handler returns the HTTP handler serving /health and /ready.
func (s *HealthServer) Handler() http.Handler {
	return s.server.Handler
}

// Start binds the address before returning, so a port conflict surfaces as
// an error instead of a log line, then serves in the background.
func (s *HealthServer) Start() error {
	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("health server listen on %s: %w", s.server.Addr, err)
	}
	s.listener = listener

	go func() {
		logger.Info("Health server listening", "service", s.service, "addr", listener.Addr().String())
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Health server error", "service", s.service, "error", err)
		}
	}()
	return nil
}

// Addr is the bound address once Start has succeeded.
func (s *HealthServer) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *HealthServer) Stop(ctx context.Context) error {
	s.ready.Store(false)
	return s.server.Shutdown(ctx)
}

// SetReady implements core.Readiness.
func (s *HealthServer) SetReady(ready bool) {
	s.ready.Store(ready)
}

func (s *HealthServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *HealthServer) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready.Load() {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("not ready"))
	}
}
