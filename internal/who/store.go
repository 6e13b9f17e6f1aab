package who

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dshills/mudlark/internal/event"
	"github.com/dshills/mudlark/internal/event/events"
	"github.com/dshills/mudlark/internal/event/topic"
	"github.com/dshills/mudlark/internal/logging"
)

// Sentinel errors for the who store.
var (
	// ErrEmptyInput is returned when an ingest call carries no text.
	ErrEmptyInput = errors.New("who: no input text")

	// ErrNilBus is returned when constructing a store without a bus.
	ErrNilBus = errors.New("who: event bus is required")
)

// Store owns the current who-listing snapshot. It parses raw capture text
// handed in by an external collaborator, replaces its snapshot wholesale,
// and emits exactly one update event per successful ingest. It never
// initiates fetches of its own.
type Store struct {
	bus *event.Bus
	log *logging.Logger

	mu     sync.RWMutex
	snap   Snapshot
	source string
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger.
func WithLogger(log *logging.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// WithSource sets the default audit source tag used when ingest metadata
// carries none.
func WithSource(source string) Option {
	return func(s *Store) {
		s.source = source
	}
}

// NewStore creates a who store publishing on the given bus.
func NewStore(bus *event.Bus, opts ...Option) (*Store, error) {
	if bus == nil {
		return nil, ErrNilBus
	}
	s := &Store{
		bus: bus,
		log: logging.Null,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithComponent("who")
	return s, nil
}

// UpdatedTopic returns the event name emitted after every successful
// ingest, so callers can subscribe without re-deriving the string.
func (s *Store) UpdatedTopic() topic.Topic {
	return events.TopicWhoUpdated
}

// IngestText parses a raw multi-line who listing and replaces the
// snapshot. Empty text is rejected before any state changes.
func (s *Store) IngestText(ctx context.Context, text string, meta event.Meta) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyInput
	}
	return s.IngestLines(ctx, strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n"), meta)
}

// IngestLines parses a who listing given as individual lines. Lines that
// do not match the minimal bracket+name shape are skips, not failures:
// their raw text is retained for audit and parsing continues.
func (s *Store) IngestLines(ctx context.Context, lines []string, meta event.Meta) error {
	if len(lines) == 0 {
		return ErrEmptyInput
	}

	entries, skipped := ParseLines(lines)

	ts := meta.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	source := meta.Source
	if source == "" {
		source = s.source
	}

	raw := make([]string, len(lines))
	copy(raw, lines)

	snap := newSnapshot(ts, source, raw, entries)

	s.log.Debug("ingested who listing: %d entries, %d skipped", len(entries), skipped)
	return s.replace(ctx, snap, meta)
}

// SetSnapshot replaces the snapshot directly, for injection by tests or
// the command layer. ByName is always rebuilt from Entries so the index
// invariant cannot be violated by the caller.
func (s *Store) SetSnapshot(ctx context.Context, snap Snapshot, meta event.Meta) error {
	clone := snap.Clone()
	if clone.TS.IsZero() {
		clone.TS = time.Now()
	}
	clone.ByName = make(map[string]Entry, len(clone.Entries))
	for _, e := range clone.Entries {
		clone.ByName[e.Name] = e
	}
	return s.replace(ctx, clone, meta)
}

// replace installs the new snapshot, then notifies. Update-then-notify:
// a handler calling back into a getter sees the new state.
func (s *Store) replace(ctx context.Context, snap Snapshot, meta event.Meta) error {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	payload := Updated{
		TS:       snap.TS,
		Snapshot: snap.Clone(),
		Source:   snap.Source,
	}
	if meta.Source == "" {
		meta.Source = snap.Source
	}

	result, err := s.bus.Emit(ctx, events.TopicWhoUpdated, payload, meta)
	if err != nil {
		return err
	}
	for _, herr := range result.Errors {
		s.log.Warn("who update handler fault: %v", herr)
	}
	return nil
}

// Snapshot returns a defensive copy of the current snapshot. Callers can
// never mutate internal state through it.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone()
}

// Entry returns a copy of the entry for an exact name.
func (s *Store) Entry(name string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.snap.ByName[name]
	if !ok {
		return Entry{}, false
	}
	return e.clone(), true
}

// Has returns true if an entry exists for the exact name.
func (s *Store) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.snap.ByName[name]
	return ok
}

// Names returns all entry names in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.snap.ByName))
	for name := range s.snap.ByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
