package event

import "errors"

// Sentinel errors for the event bus and registry.
var (
	// ErrInvalidName is returned when an event name is structurally invalid
	// or outside the required namespace.
	ErrInvalidName = errors.New("invalid event name")

	// ErrNotRegistered is returned when an event name is used at emit or
	// subscribe time without a registry entry. The operation fails closed:
	// nothing is delivered.
	ErrNotRegistered = errors.New("event name not registered")

	// ErrDefinitionConflict is returned when a name is re-registered with a
	// definition that differs from the existing one.
	ErrDefinitionConflict = errors.New("conflicting event definition")

	// ErrDefinitionNotFound is returned when looking up an unknown definition.
	ErrDefinitionNotFound = errors.New("event definition not found")

	// ErrNilHandler is returned when a nil handler is provided.
	ErrNilHandler = errors.New("handler cannot be nil")
)

// HandlerError wraps an error from a subscriber handler with the
// subscription it came from. The bus collects these per emit; they are
// never propagated to the emitter as a failure of the emit itself.
type HandlerError struct {
	// Token identifies the subscription whose handler failed.
	Token Token

	// Topic is the event name the handler was subscribed to. Empty for
	// tap subscriptions.
	Topic string

	// Err is the underlying error or a panic wrapped as an error.
	Err error
}

// Error implements the error interface.
func (e *HandlerError) Error() string {
	if e.Topic == "" {
		return "tap handler " + string(e.Token) + ": " + e.Err.Error()
	}
	return "handler " + string(e.Token) + " on " + e.Topic + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *HandlerError) Unwrap() error {
	return e.Err
}
