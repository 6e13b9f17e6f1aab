package dispatch

import (
	"context"
	"time"
)

// Handler is the function contract executed by the dispatcher.
type Handler interface {
	Handle(ctx context.Context, event any) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ctx context.Context, event any) error

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(ctx context.Context, event any) error {
	return f(ctx, event)
}

// PanicHandler is invoked when a handler panics. It receives the event,
// the recovered value, and the stack at the time of the panic.
type PanicHandler func(event any, panicValue any, stack []byte)

// Result describes the outcome of a single handler invocation.
type Result struct {
	// Success is true if the handler completed without error or panic.
	Success bool

	// Error is the error returned by the handler, if any.
	Error error

	// Panicked is true if the handler panicked.
	Panicked bool

	// PanicValue is the value passed to panic(), if Panicked.
	PanicValue any

	// PanicStack is the stack trace captured at panic time.
	PanicStack []byte

	// Skipped is true if the handler was not run (context cancelled).
	Skipped bool

	// Duration is how long the handler ran.
	Duration time.Duration
}

// IsSuccess returns true if the invocation completed cleanly.
func (r Result) IsSuccess() bool {
	return r.Success && !r.Panicked && r.Error == nil
}
