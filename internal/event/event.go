package event

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/dshills/mudlark/internal/event/topic"
)

// Meta carries audit information attached to an emit. The Source tag names
// the capture collaborator that produced the underlying text; it is never
// used for routing.
type Meta struct {
	// ID is a unique identifier for this event instance.
	ID string

	// Timestamp is when the event was emitted.
	Timestamp time.Time

	// Source identifies the component or capture that produced the event.
	Source string
}

// Envelope is the value handed to every handler. Payloads are value
// snapshots; handlers must not retain them expecting further mutation.
type Envelope struct {
	// Topic is the registered event name.
	Topic topic.Topic

	// Payload is the event-specific data.
	Payload any

	// Meta is the audit metadata for this emit.
	Meta Meta
}

// Token is an opaque subscription handle. Removal by an unknown or stale
// token is a no-op, never an error.
type Token string

// generateToken generates a unique subscription token.
func generateToken() Token {
	b := make([]byte, 16)
	_, err := rand.Read(b)
	if err != nil {
		// Fallback to timestamp-based token if crypto/rand fails
		return Token(hex.EncodeToString([]byte(time.Now().String())))
	}
	return Token(hex.EncodeToString(b))
}
