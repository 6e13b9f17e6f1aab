package dispatch

import (
	"context"
	"runtime/debug"
	"time"
)

// Executor runs event handlers with panic recovery and timing. All
// execution is synchronous on the caller's goroutine; a faulting handler
// never takes down the emitter or the handlers after it.
type Executor struct {
	panicHandler PanicHandler
}

// NewExecutor creates a new executor with the given options.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithPanicHandler sets the panic handler for the executor.
func WithPanicHandler(h PanicHandler) ExecutorOption {
	return func(e *Executor) {
		e.panicHandler = h
	}
}

// Execute runs a handler with the given event and returns the result.
// It recovers from panics and captures timing information.
func (e *Executor) Execute(ctx context.Context, event any, handler Handler) (result Result) {
	select {
	case <-ctx.Done():
		return Result{
			Success: false,
			Error:   ctx.Err(),
			Skipped: true,
		}
	default:
	}

	start := time.Now()

	defer func() {
		result.Duration = time.Since(start)

		if r := recover(); r != nil {
			stack := debug.Stack()

			result.Success = false
			result.Panicked = true
			result.PanicValue = r
			result.PanicStack = stack

			// The panic handler itself must not crash the process.
			if e.panicHandler != nil {
				func() {
					defer func() {
						_ = recover()
					}()
					e.panicHandler(event, r, stack)
				}()
			}
		}
	}()

	err := handler.Handle(ctx, event)

	if err != nil {
		result.Success = false
		result.Error = err
	} else {
		result.Success = true
	}

	return result
}

// ExecuteAll runs multiple handlers sequentially and returns all results.
// A failure in one handler does not stop the rest; only context
// cancellation short-circuits, marking the remainder as skipped.
func (e *Executor) ExecuteAll(ctx context.Context, event any, handlers []Handler) []Result {
	results := make([]Result, len(handlers))

	for i, handler := range handlers {
		select {
		case <-ctx.Done():
			for j := i; j < len(handlers); j++ {
				results[j] = Result{
					Success: false,
					Error:   ctx.Err(),
					Skipped: true,
				}
			}
			return results
		default:
		}

		results[i] = e.Execute(ctx, event, handler)
	}

	return results
}
