package core

import (
	"context"
	"log/slog"
	"net"
	"strconv"

	"github.com/Jedsam/ComputerNetworksProject/internal/logger"
)

// ConnectionHandler serves exactly one accepted connection.
// It takes full ownership of the connection and must close it exactly once
// before returning, on every path.
type ConnectionHandler interface {
	HandleConnection(ctx context.Context, conn net.Conn)
}

// ConnectionHandlerFunc adapts a plain function to ConnectionHandler.
type ConnectionHandlerFunc func(ctx context.Context, conn net.Conn)

func (f ConnectionHandlerFunc) HandleConnection(ctx context.Context, conn net.Conn) {
	f(ctx, conn)
}

// Readiness receives the accept loop's state. api.HealthServer implements it.
type Readiness interface {
	SetReady(ready bool)
}

// Address is an immutable host and port pair.
type Address struct {
	Host string
	Port int
}

func (a Address) String() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

type loggerKey struct{}

// WithLogger returns a copy of ctx carrying l.
func WithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// LoggerFrom returns the connection logger stored in ctx, or the process
// logger when there is none.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return logger.With()
}
