// Package dispatch provides isolated handler execution for the event bus.
//
// The Executor wraps every handler invocation with panic recovery so that
// one faulting subscriber cannot prevent delivery to the subscribers after
// it, and cannot propagate a failure back to the emitter. Results carry
// success/error/panic state plus timing for the bus statistics.
package dispatch
