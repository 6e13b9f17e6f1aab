// Package event provides the registry-gated in-process event bus at the
// heart of the automation core.
//
// # Architecture
//
// Two pieces cooperate:
//
//   - Registry: the canonical catalog of emittable event names and their
//     payload contracts. Definitions are registered once at startup and
//     never mutated. Every name must live under the "mudlark." namespace.
//   - Bus: a synchronous dispatcher that refuses to emit or subscribe to
//     any name absent from the registry ("fail closed").
//
// # Delivery model
//
// Emit runs entirely on the caller's goroutine. Normal subscribers for the
// name fire in FIFO subscription order, then tap subscribers fire in their
// own FIFO order. Each handler invocation is isolated: an error or panic
// inside one handler is caught, counted, and does not stop delivery to the
// rest. Producers update their state before emitting, so a handler that
// calls back into a producer's getter observes the new state.
//
// # Subscriptions
//
// On returns an opaque Token; Off with an unknown or stale token is a
// silent no-op. TapOn/TapOff mirror this for taps, which observe all bus
// traffic regardless of name and exist for diagnostics only.
//
// # Usage
//
//	reg := event.NewRegistry()
//	_ = reg.Register(event.Definition{
//	    Name:        events.TopicWhoUpdated,
//	    Description: "full who-listing snapshot replaced",
//	    Producer:    "who.Store",
//	})
//
//	bus := event.NewBus(reg)
//	tok, _ := bus.OnFunc(events.TopicWhoUpdated, func(ctx context.Context, env event.Envelope) error {
//	    upd := env.Payload.(who.Updated)
//	    _ = upd
//	    return nil
//	})
//	defer bus.Off(tok)
//
//	_, _ = bus.Emit(ctx, events.TopicWhoUpdated, payload, event.Meta{Source: "capture"})
package event
