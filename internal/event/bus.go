package event

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/mudlark/internal/event/dispatch"
	"github.com/dshills/mudlark/internal/event/topic"
)

// Handler is the interface for event handlers. Handlers receive an
// Envelope and should type-assert the payload.
type Handler interface {
	Handle(ctx context.Context, env Envelope) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ctx context.Context, env Envelope) error

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(ctx context.Context, env Envelope) error {
	return f(ctx, env)
}

// EmitResult reports the outcome of a single Emit call.
type EmitResult struct {
	// Delivered is the number of normal subscribers the event was handed
	// to, faulting or not. Taps are not counted here.
	Delivered int

	// Errors collects handler faults from this emit. Faults never abort
	// delivery to the remaining handlers.
	Errors []error
}

// Stats contains event bus counters. All counters are monotonic for the
// life of the process; Subscribers and TapSubscribers count subscriptions
// ever created, the Active gauges count live ones.
type Stats struct {
	Emitted        uint64
	Delivered      uint64
	Subscribers    uint64
	TapSubscribers uint64
	HandlerErrors  uint64
	TapErrors      uint64
	ActiveSubs     int
	ActiveTaps     int
}

// subscription binds a handler to an event name under an opaque token.
type subscription struct {
	token   Token
	name    topic.Topic
	handler Handler
}

// tapSubscription receives every emitted event regardless of name.
// Diagnostic-only; tap outcomes never affect normal delivery.
type tapSubscription struct {
	token   Token
	handler Handler
}

// Bus is the in-process publish/subscribe dispatcher. Every emit is
// validated against the definition registry and delivered synchronously on
// the caller's goroutine: normal subscribers in FIFO subscription order,
// then taps in their own FIFO order. Handler faults are isolated and
// counted, never propagated.
type Bus struct {
	registry *Registry
	executor *dispatch.Executor

	mu      sync.RWMutex
	subs    map[topic.Topic][]*subscription
	byToken map[Token]*subscription
	taps    []*tapSubscription
	tapByTk map[Token]*tapSubscription

	emitted       atomic.Uint64
	delivered     atomic.Uint64
	subsCreated   atomic.Uint64
	tapsCreated   atomic.Uint64
	handlerErrors atomic.Uint64
	tapErrors     atomic.Uint64
}

// NewBus creates a bus gated by the given definition registry.
func NewBus(registry *Registry) *Bus {
	return &Bus{
		registry: registry,
		executor: dispatch.NewExecutor(),
		subs:     make(map[topic.Topic][]*subscription),
		byToken:  make(map[Token]*subscription),
		tapByTk:  make(map[Token]*tapSubscription),
	}
}

// Registry returns the definition registry gating this bus.
func (b *Bus) Registry() *Registry {
	return b.registry
}

// Emit delivers an event to the current subscribers for name, then to all
// taps. Emitting an unregistered name fails closed with ErrNotRegistered
// and zero delivery. The call returns after every handler has completed;
// state read from inside a handler reflects the producer's finished update.
func (b *Bus) Emit(ctx context.Context, name topic.Topic, payload any, meta Meta) (EmitResult, error) {
	if !b.registry.Has(name) {
		return EmitResult{}, fmt.Errorf("%w: %q", ErrNotRegistered, name)
	}

	if meta.ID == "" {
		meta.ID = string(generateToken())
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}

	env := Envelope{Topic: name, Payload: payload, Meta: meta}

	// Snapshot both lists before dispatching so handlers can subscribe,
	// unsubscribe, or re-enter Emit without deadlocking the bus.
	b.mu.RLock()
	subs := make([]*subscription, len(b.subs[name]))
	copy(subs, b.subs[name])
	taps := make([]*tapSubscription, len(b.taps))
	copy(taps, b.taps)
	b.mu.RUnlock()

	b.emitted.Add(1)

	var result EmitResult
	for _, sub := range subs {
		res := b.executor.Execute(ctx, env, b.wrap(sub.handler))
		result.Delivered++
		b.delivered.Add(1)

		if fault := faultOf(res); fault != nil {
			b.handlerErrors.Add(1)
			result.Errors = append(result.Errors, &HandlerError{
				Token: sub.token,
				Topic: string(name),
				Err:   fault,
			})
		}
	}

	for _, tap := range taps {
		res := b.executor.Execute(ctx, env, b.wrap(tap.handler))
		if fault := faultOf(res); fault != nil {
			b.tapErrors.Add(1)
			result.Errors = append(result.Errors, &HandlerError{
				Token: tap.token,
				Err:   fault,
			})
		}
	}

	return result, nil
}

// faultOf reduces a dispatch result to a single error, or nil on success.
func faultOf(res dispatch.Result) error {
	switch {
	case res.Panicked:
		return fmt.Errorf("panic: %v", res.PanicValue)
	case res.Error != nil:
		return res.Error
	default:
		return nil
	}
}

// wrap adapts a bus Handler to the dispatch Handler contract.
func (b *Bus) wrap(h Handler) dispatch.Handler {
	return dispatch.HandlerFunc(func(ctx context.Context, event any) error {
		return h.Handle(ctx, event.(Envelope))
	})
}

// On subscribes a handler to a registered event name and returns its
// token. Subscribing to an unregistered name fails closed.
func (b *Bus) On(name topic.Topic, handler Handler) (Token, error) {
	if handler == nil {
		return "", ErrNilHandler
	}
	if !b.registry.Has(name) {
		return "", fmt.Errorf("%w: %q", ErrNotRegistered, name)
	}

	sub := &subscription{
		token:   generateToken(),
		name:    name,
		handler: handler,
	}

	b.mu.Lock()
	b.subs[name] = append(b.subs[name], sub)
	b.byToken[sub.token] = sub
	b.mu.Unlock()

	b.subsCreated.Add(1)
	return sub.token, nil
}

// OnFunc is a convenience method for subscribing with a function handler.
func (b *Bus) OnFunc(name topic.Topic, fn HandlerFunc) (Token, error) {
	return b.On(name, fn)
}

// Off cancels a subscription by token. Unknown or stale tokens are a
// silent no-op.
func (b *Bus) Off(token Token) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub, ok := b.byToken[token]
	if !ok {
		return
	}

	subs := b.subs[sub.name]
	for i, s := range subs {
		if s.token == token {
			b.subs[sub.name] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	if len(b.subs[sub.name]) == 0 {
		delete(b.subs, sub.name)
	}
	delete(b.byToken, token)
}

// TapOn subscribes a handler to every emitted event regardless of name.
func (b *Bus) TapOn(handler Handler) (Token, error) {
	if handler == nil {
		return "", ErrNilHandler
	}

	tap := &tapSubscription{
		token:   generateToken(),
		handler: handler,
	}

	b.mu.Lock()
	b.taps = append(b.taps, tap)
	b.tapByTk[tap.token] = tap
	b.mu.Unlock()

	b.tapsCreated.Add(1)
	return tap.token, nil
}

// TapOff cancels a tap subscription. Unknown tokens are a silent no-op.
func (b *Bus) TapOff(token Token) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.tapByTk[token]; !ok {
		return
	}

	for i, tap := range b.taps {
		if tap.token == token {
			b.taps = append(b.taps[:i], b.taps[i+1:]...)
			break
		}
	}
	delete(b.tapByTk, token)
}

// SubscriberCount returns the number of live subscriptions for a name.
func (b *Bus) SubscriberCount(name topic.Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subs[name])
}

// Stats returns current bus counters.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	activeSubs := len(b.byToken)
	activeTaps := len(b.taps)
	b.mu.RUnlock()

	return Stats{
		Emitted:        b.emitted.Load(),
		Delivered:      b.delivered.Load(),
		Subscribers:    b.subsCreated.Load(),
		TapSubscribers: b.tapsCreated.Load(),
		HandlerErrors:  b.handlerErrors.Load(),
		TapErrors:      b.tapErrors.Load(),
		ActiveSubs:     activeSubs,
		ActiveTaps:     activeTaps,
	}
}
