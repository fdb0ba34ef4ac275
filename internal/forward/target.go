package forward

import (
	"bytes"
	"strings"

	"github.com/Jedsam/ComputerNetworksProject/internal/core"
	"github.com/Jedsam/ComputerNetworksProject/internal/wire"
)

const absolutePrefix = "http://"

// Target is where a client request is sent after translation.
type Target struct {
	// Authority is what the client named in an absolute URI. It is kept for
	// logging only and never dialed.
	Authority string
	Path      string
	Origin    core.Address
}

// ResolveTarget extracts the path from an absolute or relative request target.
// The result always points at origin, whatever authority the client named.
func ResolveTarget(target string, origin core.Address) Target {
	if !strings.HasPrefix(target, absolutePrefix) {
		return Target{Path: target, Origin: origin}
	}

	authority, rest, found := strings.Cut(strings.TrimPrefix(target, absolutePrefix), "/")
	path := "/"
	if found {
		path = "/" + rest
	}
	return Target{Authority: authority, Path: path, Origin: origin}
}

// BuildRequest serializes the translated request: the request line with the
// resolved path, a Host header naming the origin, then the client's own
// header lines verbatim minus any Host header, then the blank line.
func BuildRequest(line wire.RequestLine, t Target, headers []string) []byte {
	var b bytes.Buffer
	b.WriteString(line.Method)
	b.WriteByte(' ')
	b.WriteString(t.Path)
	b.WriteByte(' ')
	b.WriteString(line.Version)
	b.WriteString("\r\n")

	b.WriteString("Host: ")
	b.WriteString(t.Origin.String())
	b.WriteString("\r\n")

	for _, h := range headers {
		if isHostHeader(h) {
			continue
		}
		b.WriteString(h)
		b.WriteString("\r\n")
	}
	b.WriteString("\r\n")
	return b.Bytes()
}

func isHostHeader(line string) bool {
	name, _, ok := strings.Cut(line, ":")
	return ok && strings.EqualFold(strings.TrimSpace(name), "Host")
}
