package room

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dshills/mudlark/internal/event"
	"github.com/dshills/mudlark/internal/event/events"
	"github.com/dshills/mudlark/internal/event/topic"
	"github.com/dshills/mudlark/internal/logging"
)

// Sentinel errors for the room service.
var (
	// ErrEmptyInput is returned when a look ingest carries no text.
	ErrEmptyInput = errors.New("room: no input text")

	// ErrNilBus is returned when constructing a service without a bus.
	ErrNilBus = errors.New("room: event bus is required")

	// ErrBucketOverlap is returned when an injected state holds the same
	// identity in more than one bucket.
	ErrBucketOverlap = errors.New("room: identity present in multiple buckets")

	// ErrNoNameIndex is returned when reclassification runs without a
	// name index to consult.
	ErrNoNameIndex = errors.New("room: no name index configured")
)

// NameIndex is the read-only view of the who store that reclassification
// consults. Keeping it an interface keeps the reaction chain one-way: the
// room service can look names up but can never mutate who state.
type NameIndex interface {
	Has(name string) bool
}

// Service owns the four room occupant buckets. No other component writes
// them; all mutation goes through its methods, each of which emits at most
// one update event after its internal state is fully settled.
type Service struct {
	bus   *event.Bus
	index NameIndex
	log   *logging.Logger

	mu       sync.Mutex
	state    State
	source   string
	watchTok event.Token
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service's logger.
func WithLogger(log *logging.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

// WithNameIndex sets the who-store name index used by reclassification.
func WithNameIndex(index NameIndex) Option {
	return func(s *Service) {
		s.index = index
	}
}

// WithSource sets the default audit source tag.
func WithSource(source string) Option {
	return func(s *Service) {
		s.source = source
	}
}

// NewService creates a room entities service publishing on the given bus.
func NewService(bus *event.Bus, opts ...Option) (*Service, error) {
	if bus == nil {
		return nil, ErrNilBus
	}
	s := &Service{
		bus:   bus,
		log:   logging.Null,
		state: NewState(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithComponent("room")
	return s, nil
}

// UpdatedTopic returns the event name emitted on every state change, so
// callers can subscribe or verify without re-deriving the string.
func (s *Service) UpdatedTopic() topic.Topic {
	return events.TopicRoomUpdated
}

// State returns a deep copy of the current occupant state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// SetStateOptions controls direct state injection.
type SetStateOptions struct {
	// ForceEmit emits an update even when the new state equals the old.
	ForceEmit bool
}

// SetState replaces the occupant state. States holding an identity in
// more than one bucket are rejected before any mutation. An update is
// emitted only when the state actually changed, unless ForceEmit is set.
func (s *Service) SetState(ctx context.Context, state State, meta event.Meta, opts SetStateOptions) error {
	if identity, dup := state.overlap(); dup {
		return fmt.Errorf("%w: %q", ErrBucketOverlap, identity)
	}

	clone := state.Clone()

	s.mu.Lock()
	changed := !s.state.Equal(clone)
	s.state = clone
	s.mu.Unlock()

	if !changed && !opts.ForceEmit {
		return nil
	}
	return s.emitUpdated(ctx, meta)
}

// Clear empties every bucket and emits an update.
func (s *Service) Clear(ctx context.Context, meta event.Meta) error {
	s.mu.Lock()
	s.state = NewState()
	s.mu.Unlock()

	return s.emitUpdated(ctx, meta)
}

// IngestLook parses a free-text room description into the buckets,
// replacing the previous occupant state, and emits one update.
func (s *Service) IngestLook(ctx context.Context, text string, opts LookOptions) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyInput
	}

	state := parseLook(text, opts)
	if identity, dup := state.overlap(); dup {
		return fmt.Errorf("%w: %q", ErrBucketOverlap, identity)
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	s.log.Debug("look ingest: %d players, %d mobs, %d items, %d unknown",
		len(state.Players), len(state.Mobs), len(state.Items), len(state.Unknown))

	return s.emitUpdated(ctx, event.Meta{Source: opts.Source})
}

// ReclassifyOptions controls a reclassification pass.
type ReclassifyOptions struct {
	// Source is the audit tag for the update emitted when the pass moved
	// at least one identity.
	Source string
}

// ReclassifyFromWho checks every identity in the unknown bucket against
// the who-store name index. The candidate name is the identity's first
// whitespace token; on an exact match the identity leaves unknown and the
// canonical name enters players, atomically within the pass and before
// any event is emitted. Matching is exact-name only; the advisory fuzzy
// title machinery is never consulted here.
//
// The pass is read-only toward the who store, so a reclassification
// triggered by a who update terminates in exactly one hop. Running it
// twice against an unchanged index yields an identical state.
func (s *Service) ReclassifyFromWho(ctx context.Context, opts ReclassifyOptions) (int, error) {
	if s.index == nil {
		return 0, ErrNoNameIndex
	}

	s.mu.Lock()
	moved := 0
	for identity := range s.state.Unknown {
		candidate := candidateName(identity)
		if candidate == "" || !s.index.Has(candidate) {
			continue
		}
		delete(s.state.Unknown, identity)
		// The who list is authoritative for the candidate: a prior mob or
		// item classification is superseded, keeping the identity in
		// exactly one bucket.
		delete(s.state.Mobs, candidate)
		delete(s.state.Items, candidate)
		s.state.Players[candidate] = struct{}{}
		moved++
	}
	s.mu.Unlock()

	if moved == 0 {
		return 0, nil
	}

	s.log.Debug("reclassified %d unknown occupants as players", moved)
	return moved, s.emitUpdated(ctx, event.Meta{Source: opts.Source})
}

// candidateName extracts the exact-match candidate from an unknown
// identity: its first whitespace token, stripped of trailing punctuation.
func candidateName(identity string) string {
	fields := strings.Fields(identity)
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimRight(fields[0], ".,!?;:")
}

// Watch subscribes the service to who-store updates: every delivery runs
// one reclassification pass. Returns the subscription token; Unwatch
// cancels it.
func (s *Service) Watch() (event.Token, error) {
	tok, err := s.bus.OnFunc(events.TopicWhoUpdated, func(ctx context.Context, env event.Envelope) error {
		_, err := s.ReclassifyFromWho(ctx, ReclassifyOptions{Source: env.Meta.Source})
		return err
	})
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.watchTok = tok
	s.mu.Unlock()
	return tok, nil
}

// Unwatch cancels the who-update subscription. A no-op when not watching.
func (s *Service) Unwatch() {
	s.mu.Lock()
	tok := s.watchTok
	s.watchTok = ""
	s.mu.Unlock()

	if tok != "" {
		s.bus.Off(tok)
	}
}

// EmitUpdated emits the update event unconditionally, for callers that
// need to force or verify the notification contract.
func (s *Service) EmitUpdated(ctx context.Context, meta event.Meta) error {
	return s.emitUpdated(ctx, meta)
}

// emitUpdated publishes the current state. The state is cloned after all
// mutation has settled, so handlers never observe a partial pass.
func (s *Service) emitUpdated(ctx context.Context, meta event.Meta) error {
	s.mu.Lock()
	state := s.state.Clone()
	s.mu.Unlock()

	if meta.Source == "" {
		meta.Source = s.source
	}
	ts := meta.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	payload := Updated{TS: ts, State: state, Source: meta.Source}

	result, err := s.bus.Emit(ctx, events.TopicRoomUpdated, payload, meta)
	if err != nil {
		return err
	}
	for _, herr := range result.Errors {
		s.log.Warn("room update handler fault: %v", herr)
	}
	return nil
}
