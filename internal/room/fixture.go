package room

import (
	"context"

	"github.com/dshills/mudlark/internal/event"
)

// FixtureOptions seeds deterministic occupant data, primarily for tests
// and interactive troubleshooting of the reclassification pipeline.
type FixtureOptions struct {
	Players []string
	Mobs    []string
	Items   []string
	Unknown []string

	// Source is the audit tag for the resulting update.
	Source string
}

// defaultFixture is used when no identities are supplied at all.
var defaultFixture = FixtureOptions{
	Mobs:    []string{"a town crier", "the baker"},
	Items:   []string{"a rusty lantern"},
	Unknown: []string{"Borai hates bugs", "Vzae the adventurer"},
}

// IngestFixture replaces the occupant state with deterministic seed data.
// With no identities supplied, a built-in fixture is used.
func (s *Service) IngestFixture(ctx context.Context, opts FixtureOptions) error {
	if len(opts.Players)+len(opts.Mobs)+len(opts.Items)+len(opts.Unknown) == 0 {
		source := opts.Source
		opts = defaultFixture
		opts.Source = source
	}

	state := NewState()
	for _, id := range opts.Players {
		state.Players[id] = struct{}{}
	}
	for _, id := range opts.Mobs {
		state.Mobs[id] = struct{}{}
	}
	for _, id := range opts.Items {
		state.Items[id] = struct{}{}
	}
	for _, id := range opts.Unknown {
		state.Unknown[id] = struct{}{}
	}

	return s.SetState(ctx, state, event.Meta{Source: opts.Source}, SetStateOptions{ForceEmit: true})
}
