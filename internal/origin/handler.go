package origin

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"strconv"

	"github.com/Jedsam/ComputerNetworksProject/internal/core"
	"github.com/Jedsam/ComputerNetworksProject/internal/wire"
)

const (
	MinSize = 100
	MaxSize = 20000

	// DefaultReadSize bounds the single read taken from each client.
	DefaultReadSize = 1024
)

// knownMethods are recognized but not served; they get 501 instead of 400.
var knownMethods = map[string]bool{
	"POST":    true,
	"PUT":     true,
	"DELETE":  true,
	"HEAD":    true,
	"OPTIONS": true,
	"TRACE":   true,
	"CONNECT": true,
}

// Handler serves generated documents. It implements core.ConnectionHandler.
type Handler struct {
	ReadSize int
}

// NewHandler returns a Handler using DefaultReadSize.
func NewHandler() *Handler {
	return &Handler{ReadSize: DefaultReadSize}
}

// HandleConnection implements core.ConnectionHandler.
func (h *Handler) HandleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	log := core.LoggerFrom(ctx)

	size := h.ReadSize
	if size <= 0 {
		size = DefaultReadSize
	}
	buf := make([]byte, size)
	n, err := conn.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		log.Warn("Failed to read request", "error", err)
		return
	}
	log.Debug("Received request", "request", string(buf[:n]))

	resp := h.respond(log, buf[:n])
	if resp == nil {
		return
	}
	if _, err := resp.WriteTo(conn); err != nil {
		log.Error("Failed to write response", "status", resp.Status.Code, "error", err)
		return
	}
	log.Info("Sent response", "status", resp.Status.Code, "content_length", len(resp.Body))
}

// respond maps one raw request to its response. A nil response means the
// connection is dropped silently.
func (h *Handler) respond(log *slog.Logger, raw []byte) *wire.Response {
	req, err := wire.ParseRequest(raw)
	switch {
	case errors.Is(err, wire.ErrEmptyRequest):
		log.Debug("Empty request, closing without response")
		return nil
	case err != nil:
		log.Info("Rejected request", "error", err)
		return wire.ErrorResponse(wire.StatusBadRequest)
	}

	if method := req.Line.Method; method != "GET" {
		log.Info("Rejected method", "method", method)
		if knownMethods[method] {
			return wire.ErrorResponse(wire.StatusNotImplemented)
		}
		return wire.ErrorResponse(wire.StatusBadRequest)
	}

	size, err := wire.ParseSize(req.Line.Target)
	if err != nil {
		log.Info("Rejected target", "error", err)
		return wire.ErrorResponse(wire.StatusBadRequest)
	}
	if size < MinSize || size > MaxSize {
		log.Info("Rejected size out of range", "size", size, "min", MinSize, "max", MaxSize)
		return wire.ErrorResponse(wire.StatusBadRequest)
	}

	doc, err := GenerateDocument(size)
	if err != nil {
		log.Info("Rejected size", "error", err)
		return wire.ErrorResponse(wire.StatusBadRequest)
	}

	return &wire.Response{
		Status: wire.StatusOK,
		Header: []wire.Field{
			{Name: "Content-Type", Value: "text/html"},
			{Name: "Content-Length", Value: strconv.Itoa(len(doc))},
		},
		Body: doc,
	}
}
