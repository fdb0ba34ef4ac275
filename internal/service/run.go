package service

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jedsam/ComputerNetworksProject/internal/api"
	"github.com/Jedsam/ComputerNetworksProject/internal/core"
	"github.com/Jedsam/ComputerNetworksProject/internal/logger"
)

// SignalContext returns a context cancelled by the first SIGINT or SIGTERM.
// Signal delivery is released as soon as that happens, so a second signal
// gets the default disposition and terminates the process even while
// connections are still draining.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctx.Done()
		stop()
	}()
	return ctx, stop
}

// Options describes one listening service.
type Options struct {
	Name     string
	Listener net.Listener
	Handler  core.ConnectionHandler
	// Health is optional. Its readiness follows the accept loop.
	Health *api.HealthServer
	// GracePeriod bounds the drain after ctx is done. Zero waits for every
	// in-flight connection.
	GracePeriod time.Duration
}

// Run serves until ctx is done or accepting fails. On ctx it stops
// accepting, drains in-flight connections for at most GracePeriod and
// returns nil; connections still open after that are abandoned, never
// interrupted.
func Run(ctx context.Context, opts Options) error {
	server := &core.Server{
		Listener:          opts.Listener,
		ConnectionHandler: opts.Handler,
	}
	if opts.Health != nil {
		server.Readiness = opts.Health
	}

	served := make(chan error, 1)
	go func() { served <- server.Serve() }()
	logger.Info("Ready to accept connections", "service", opts.Name, "addr", opts.Listener.Addr().String())

	select {
	case err := <-served:
		// Accept failed before shutdown was requested.
		server.Close()
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down...", "service", opts.Name, "grace_period", opts.GracePeriod.String())
	server.Close()
	if err := <-served; err != nil {
		logger.Warn("Accept loop ended with error", "service", opts.Name, "error", err)
	}

	if opts.Health != nil {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := opts.Health.Stop(stopCtx); err != nil {
			logger.Warn("Health server shutdown failed", "service", opts.Name, "error", err)
		}
		cancel()
	}

	drainCtx := context.Background()
	if opts.GracePeriod > 0 {
		var cancel context.CancelFunc
		drainCtx, cancel = context.WithTimeout(drainCtx, opts.GracePeriod)
		defer cancel()
	}
	if err := server.Wait(drainCtx); err != nil {
		logger.Warn("Abandoning connections still open after grace period", "service", opts.Name, "error", err)
		return nil
	}
	logger.Info("All connections drained", "service", opts.Name)
	return nil
}
