package forward

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"

	"github.com/Jedsam/ComputerNetworksProject/internal/core"
	"github.com/Jedsam/ComputerNetworksProject/internal/wire"
)

const (
	// MaxSize is the largest size the proxy will forward. Larger sizes get 414.
	MaxSize = 9999

	// DefaultReadSize bounds the single read taken from each client.
	DefaultReadSize = 4096
)

// DialFunc opens the outbound connection to the origin.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Proxy relays each client request to a single fixed origin.
// It implements core.ConnectionHandler.
type Proxy struct {
	Origin   core.Address
	ReadSize int
	Dial     DialFunc
}

// NewProxy returns a Proxy forwarding to origin.
func NewProxy(origin core.Address) *Proxy {
	var d net.Dialer
	return &Proxy{
		Origin:   origin,
		ReadSize: DefaultReadSize,
		Dial:     d.DialContext,
	}
}

func (p *Proxy) sendError(log *slog.Logger, conn net.Conn, status wire.Status) {
	if _, err := wire.ErrorResponse(status).WriteTo(conn); err != nil {
		log.Error("Error sending error response", "status", status.Code, "error", err)
		return
	}
	log.Info("Sent error response", "status", status.Code)
}

// HandleConnection implements core.ConnectionHandler.
// It takes full ownership of the connection lifecycle.
func (p *Proxy) HandleConnection(ctx context.Context, clientConn net.Conn) {
	defer clientConn.Close()
	log := core.LoggerFrom(ctx)

	// 1. Read & parse the request
	size := p.ReadSize
	if size <= 0 {
		size = DefaultReadSize
	}
	buf := make([]byte, size)
	n, err := clientConn.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		log.Warn("Failed to read request", "error", err)
		return
	}
	log.Debug("Received request from client", "request", string(buf[:n]))

	req, err := wire.ParseRequest(buf[:n])
	if errors.Is(err, wire.ErrEmptyRequest) {
		log.Debug("Empty request, closing without response")
		return
	}
	if err != nil {
		log.Info("Rejected request", "error", err)
		p.sendError(log, clientConn, wire.StatusBadRequest)
		return
	}

	// 2. Resolve target & check size
	target := ResolveTarget(req.Line.Target, p.Origin)
	requested, err := wire.ParseSize(target.Path)
	if err != nil {
		log.Info("Rejected target", "target", req.Line.Target, "error", err)
		p.sendError(log, clientConn, wire.StatusBadRequest)
		return
	}
	if requested > MaxSize {
		log.Info("Rejected size over limit", "size", requested, "max", MaxSize)
		p.sendError(log, clientConn, wire.StatusURITooLong)
		return
	}

	// 3. Dial origin
	originAddr := target.Origin.String()
	originConn, err := p.Dial(ctx, "tcp", originAddr)
	if err != nil {
		level, msg := dialFailure(err)
		log.Log(ctx, level, msg, "origin_addr", originAddr, "error", err)
		p.sendError(log, clientConn, wire.StatusNotFound)
		return
	}
	defer originConn.Close()

	// 4. Forward translated request
	outbound := BuildRequest(req.Line, target, req.HeaderLines())
	log.Debug("Forwarding request to origin",
		"origin_addr", originAddr,
		"requested_authority", target.Authority,
		"request", string(outbound))
	if _, err := originConn.Write(outbound); err != nil {
		log.Error("Failed to forward request", "origin_addr", originAddr, "error", err)
		p.sendError(log, clientConn, wire.StatusNotFound)
		return
	}

	// 5. Relay response
	relayed, err := io.Copy(clientConn, originConn)
	if err != nil {
		level, msg := relayFailure(err)
		log.Log(ctx, level, msg, "bytes", relayed, "error", err)
		return
	}
	log.Info("Response forwarded to client", "bytes", relayed)
}
