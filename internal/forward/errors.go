package forward

import (
	"log/slog"

	utilnet "k8s.io/apimachinery/pkg/util/net"
)

// dialFailure picks the level and message for an origin dial error. A refused
// connection is the routine "origin not running" case.
func dialFailure(err error) (slog.Level, string) {
	if utilnet.IsConnectionRefused(err) {
		return slog.LevelWarn, "Origin refused connection"
	}
	return slog.LevelError, "Dial failed"
}

// relayFailure picks the level and message for an error while relaying. A
// peer hanging up early is routine; anything else is not.
func relayFailure(err error) (slog.Level, string) {
	if utilnet.IsConnectionReset(err) || utilnet.IsProbableEOF(err) {
		return slog.LevelInfo, "Peer closed during relay"
	}
	return slog.LevelWarn, "Relay interrupted"
}
