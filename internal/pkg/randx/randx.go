/*
Package randx generates the unique identifiers used by the relay: connection ids assigned
by the transport layer and message ids stamped on outgoing payloads.
*/
package randx

import (
	"github.com/google/uuid"
)

// ConnectionIDPrefix marks ids minted for websocket connections.
const ConnectionIDPrefix = "conn_"

// ConnectionID returns a new opaque connection identifier.
func ConnectionID() string {
	return ConnectionIDPrefix + uuid.NewString()
}

// MessageID generates a standard UUID v4 string to serve as a unique identifier for a message.
func MessageID() string {
	return uuid.New().String()
}
