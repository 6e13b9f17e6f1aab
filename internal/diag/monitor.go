package diag

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dshills/mudlark/internal/event"
	"github.com/dshills/mudlark/internal/event/topic"
	"github.com/dshills/mudlark/internal/logging"
)

// ErrNilBus is returned when constructing a monitor without a bus.
var ErrNilBus = errors.New("diag: event bus is required")

// AllSubscriptions is the pseudo-name accepted by SubOff to drop every
// tracked subscription in one pass.
const AllSubscriptions topic.Topic = "all"

// Monitor observes bus traffic for troubleshooting. It owns at most one
// tap plus a map of per-name subscriptions, and records every observed
// delivery into a bounded ring. Nothing in the core reads the ring back,
// so diagnostics can never become a hidden production dependency.
type Monitor struct {
	bus *event.Bus
	log *logging.Logger

	mu     sync.Mutex
	ring   *Ring
	tapTok event.Token
	subs   map[topic.Topic]event.Token
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithCapacity sets the ring buffer capacity.
func WithCapacity(capacity int) Option {
	return func(m *Monitor) {
		m.ring = NewRing(capacity)
	}
}

// WithLogger sets the monitor's logger.
func WithLogger(log *logging.Logger) Option {
	return func(m *Monitor) {
		m.log = log
	}
}

// NewMonitor creates a diagnostics monitor for the given bus.
func NewMonitor(bus *event.Bus, opts ...Option) (*Monitor, error) {
	if bus == nil {
		return nil, ErrNilBus
	}
	m := &Monitor{
		bus:  bus,
		log:  logging.Null,
		subs: make(map[topic.Topic]event.Token),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.ring == nil {
		m.ring = NewRing(DefaultRingCapacity)
	}
	m.log = m.log.WithComponent("diag")
	return m, nil
}

// TapOn enables the all-traffic tap. Idempotent: when the tap is already
// on, the existing token is returned and no second tap is created.
func (m *Monitor) TapOn() (event.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tapTok != "" {
		return m.tapTok, nil
	}

	tok, err := m.bus.TapOn(event.HandlerFunc(func(ctx context.Context, env event.Envelope) error {
		m.record(KindTap, env)
		return nil
	}))
	if err != nil {
		return "", err
	}
	m.tapTok = tok
	m.log.Debug("tap enabled")
	return tok, nil
}

// TapOff disables the tap. A no-op when the tap is already off.
func (m *Monitor) TapOff() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tapTok == "" {
		return
	}
	m.bus.TapOff(m.tapTok)
	m.tapTok = ""
	m.log.Debug("tap disabled")
}

// TapActive reports whether the tap is on.
func (m *Monitor) TapActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tapTok != ""
}

// SubOn tracks a per-name subscription. Subscribing twice to the same
// name keeps the original subscription. Unregistered names fail closed
// with the bus's registration error.
func (m *Monitor) SubOn(name topic.Topic) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.subs[name]; ok {
		return nil
	}

	tok, err := m.bus.OnFunc(name, func(ctx context.Context, env event.Envelope) error {
		m.record(KindSub, env)
		return nil
	})
	if err != nil {
		return err
	}
	m.subs[name] = tok
	return nil
}

// SubOff drops a tracked subscription, or every tracked subscription when
// given AllSubscriptions. The map is always cleared for the names
// processed: a stale token cannot block cleanup of the rest.
func (m *Monitor) SubOff(name topic.Topic) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if name == AllSubscriptions {
		for n, tok := range m.subs {
			m.bus.Off(tok)
			delete(m.subs, n)
		}
		return
	}

	if tok, ok := m.subs[name]; ok {
		m.bus.Off(tok)
		delete(m.subs, name)
	}
}

// Subscriptions returns the number of tracked per-name subscriptions.
func (m *Monitor) Subscriptions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

// Records returns the buffered records oldest-first.
func (m *Monitor) Records() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ring.Records()
}

// ClearLog discards the buffered records.
func (m *Monitor) ClearLog() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ring.Clear()
}

// record appends an observed delivery to the ring.
func (m *Monitor) record(kind Kind, env event.Envelope) {
	rec := Record{
		TS:      env.Meta.Timestamp,
		Kind:    kind,
		Topic:   env.Topic,
		Source:  env.Meta.Source,
		Payload: env.Payload,
	}
	if rec.TS.IsZero() {
		rec.TS = time.Now()
	}

	m.mu.Lock()
	m.ring.Push(rec)
	m.mu.Unlock()
}
