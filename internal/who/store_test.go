package who

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/dshills/mudlark/internal/event"
	"github.com/dshills/mudlark/internal/event/events"
)

func newTestStore(t *testing.T) (*Store, *event.Bus) {
	t.Helper()

	reg := event.NewRegistry()
	if err := reg.Register(event.Definition{
		Name:           events.TopicWhoUpdated,
		Description:    "who snapshot replaced",
		Producer:       "who.Store",
		PayloadVersion: 1,
	}); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	bus := event.NewBus(reg)

	store, err := NewStore(bus)
	if err != nil {
		t.Fatalf("NewStore() failed: %v", err)
	}
	return store, bus
}

const testListing = `Players online: 3
--------------------
[48 War] Vzae the adventurer (AFK)
[31 Mag] Thessaly the stormcaller (idle 12m)
[IMPL] Root`

func TestStore_IngestText(t *testing.T) {
	store, _ := newTestStore(t)

	if err := store.IngestText(context.Background(), testListing, event.Meta{Source: "capture"}); err != nil {
		t.Fatalf("IngestText() failed: %v", err)
	}

	snap := store.Snapshot()
	if snap.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", snap.Len())
	}
	if len(snap.RawLines) != 5 {
		t.Errorf("len(RawLines) = %d, want 5 (skipped lines retained)", len(snap.RawLines))
	}
	if snap.Source != "capture" {
		t.Errorf("Source = %q, want capture", snap.Source)
	}

	entry, ok := store.Entry("Vzae")
	if !ok {
		t.Fatal("expected entry for Vzae")
	}
	if entry.Level != 48 || entry.Class != "War" {
		t.Errorf("Vzae = level %d class %q, want 48 War", entry.Level, entry.Class)
	}
}

func TestStore_IngestEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	if err := store.IngestText(context.Background(), "   \n  ", event.Meta{}); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
	if err := store.IngestLines(context.Background(), nil, event.Meta{}); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput for nil lines, got %v", err)
	}
}

func TestStore_Ingest_FullReplace(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.IngestLines(ctx, []string{"[48 War] Vzae the adventurer"}, event.Meta{}); err != nil {
		t.Fatalf("first ingest failed: %v", err)
	}
	if err := store.IngestLines(ctx, []string{"[31 Mag] Thessaly the stormcaller"}, event.Meta{}); err != nil {
		t.Fatalf("second ingest failed: %v", err)
	}

	if store.Has("Vzae") {
		t.Error("Vzae survived a full replace")
	}
	if !store.Has("Thessaly") {
		t.Error("expected Thessaly after second ingest")
	}
}

func TestStore_Ingest_Idempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.IngestText(ctx, testListing, event.Meta{}); err != nil {
		t.Fatalf("first ingest failed: %v", err)
	}
	first := store.Snapshot()

	if err := store.IngestText(ctx, testListing, event.Meta{}); err != nil {
		t.Fatalf("second ingest failed: %v", err)
	}
	second := store.Snapshot()

	if !reflect.DeepEqual(first.Entries, second.Entries) {
		t.Error("repeating an identical ingest changed Entries")
	}
	if !reflect.DeepEqual(first.ByName, second.ByName) {
		t.Error("repeating an identical ingest changed ByName")
	}
}

func TestStore_EmitsOneUpdatePerIngest(t *testing.T) {
	store, bus := newTestStore(t)

	var payloads []Updated
	if _, err := bus.OnFunc(events.TopicWhoUpdated, func(ctx context.Context, env event.Envelope) error {
		payloads = append(payloads, env.Payload.(Updated))
		return nil
	}); err != nil {
		t.Fatalf("OnFunc() failed: %v", err)
	}

	if err := store.IngestText(context.Background(), testListing, event.Meta{Source: "capture"}); err != nil {
		t.Fatalf("IngestText() failed: %v", err)
	}

	if len(payloads) != 1 {
		t.Fatalf("got %d update events, want exactly 1", len(payloads))
	}
	if payloads[0].Snapshot.Len() != 3 {
		t.Errorf("payload snapshot Len() = %d, want 3 (full snapshot, not a diff)", payloads[0].Snapshot.Len())
	}
	if payloads[0].Source != "capture" {
		t.Errorf("payload Source = %q, want capture", payloads[0].Source)
	}
}

func TestStore_HandlerSeesNewState(t *testing.T) {
	store, bus := newTestStore(t)

	var sawVzae bool
	bus.OnFunc(events.TopicWhoUpdated, func(ctx context.Context, env event.Envelope) error {
		// Update-then-notify: the getter must reflect the new snapshot.
		sawVzae = store.Has("Vzae")
		return nil
	})

	if err := store.IngestLines(context.Background(), []string{"[48 War] Vzae the adventurer"}, event.Meta{}); err != nil {
		t.Fatalf("IngestLines() failed: %v", err)
	}
	if !sawVzae {
		t.Error("handler observed stale state during notification")
	}
}

func TestStore_SnapshotIsDefensiveCopy(t *testing.T) {
	store, _ := newTestStore(t)

	if err := store.IngestLines(context.Background(), []string{"[48 War] Vzae the adventurer"}, event.Meta{}); err != nil {
		t.Fatalf("IngestLines() failed: %v", err)
	}

	snap := store.Snapshot()
	snap.Entries[0].Name = "Mallory"
	delete(snap.ByName, "Vzae")

	if !store.Has("Vzae") {
		t.Error("mutating a returned snapshot leaked into the store")
	}
}

func TestStore_SetSnapshot_RebuildsByName(t *testing.T) {
	store, _ := newTestStore(t)

	snap := Snapshot{
		Entries: []Entry{
			{Name: "Vzae", Level: 48, Class: "War"},
			{Name: "Vzae", Level: 50, Class: "War"}, // duplicate: last wins
		},
		// Deliberately inconsistent index; SetSnapshot must rebuild it.
		ByName: map[string]Entry{"Ghost": {Name: "Ghost"}},
	}

	if err := store.SetSnapshot(context.Background(), snap, event.Meta{}); err != nil {
		t.Fatalf("SetSnapshot() failed: %v", err)
	}

	if store.Has("Ghost") {
		t.Error("stale index entry survived SetSnapshot")
	}
	entry, ok := store.Entry("Vzae")
	if !ok {
		t.Fatal("expected Vzae entry")
	}
	if entry.Level != 50 {
		t.Errorf("Level = %d, want 50 (last parsed wins)", entry.Level)
	}
}

func TestStore_Names_Sorted(t *testing.T) {
	store, _ := newTestStore(t)

	err := store.IngestLines(context.Background(), []string{
		"[10 Thi] Zoe the quick",
		"[20 Cle] Abel the kind",
		"[30 War] Mara the bold",
	}, event.Meta{})
	if err != nil {
		t.Fatalf("IngestLines() failed: %v", err)
	}

	names := store.Names()
	want := []string{"Abel", "Mara", "Zoe"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("Names() = %v, want %v", names, want)
	}
}

func TestStore_TitleUpdatesAcrossSnapshots(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	store.IngestLines(ctx, []string{"[48 War] Vzae the adventurer"}, event.Meta{})
	store.IngestLines(ctx, []string{"[48 War] Vzae the conqueror"}, event.Meta{})

	entry, _ := store.Entry("Vzae")
	if entry.Title != "the conqueror" {
		t.Errorf("Title = %q, want the conqueror (legitimate update, not a conflict)", entry.Title)
	}
}
