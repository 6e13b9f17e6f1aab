package script

import (
	"context"
	"errors"
	"testing"

	"github.com/dshills/mudlark/internal/event"
	"github.com/dshills/mudlark/internal/event/events"
	"github.com/dshills/mudlark/internal/room"
	"github.com/dshills/mudlark/internal/who"
)

func newTestHost(t *testing.T) (*Host, *who.Store, *room.Service, *event.Bus) {
	t.Helper()

	reg := event.NewRegistry()
	for _, def := range []event.Definition{
		{Name: events.TopicWhoUpdated, Description: "who snapshot replaced", Producer: "who.Store", PayloadVersion: 1},
		{Name: events.TopicRoomUpdated, Description: "room occupants changed", Producer: "room.Service", PayloadVersion: 1},
		{Name: events.TopicScriptError, Description: "automation script failed", Producer: "script.Host", PayloadVersion: 1},
	} {
		if err := reg.Register(def); err != nil {
			t.Fatalf("Register() failed: %v", err)
		}
	}
	bus := event.NewBus(reg)

	store, err := who.NewStore(bus)
	if err != nil {
		t.Fatalf("who.NewStore() failed: %v", err)
	}
	svc, err := room.NewService(bus, room.WithNameIndex(store))
	if err != nil {
		t.Fatalf("room.NewService() failed: %v", err)
	}

	host, err := NewHost(bus, WithWhoStore(store), WithRoomService(svc))
	if err != nil {
		t.Fatalf("NewHost() failed: %v", err)
	}
	t.Cleanup(func() { host.Close() })
	return host, store, svc, bus
}

func TestHost_RequiresBus(t *testing.T) {
	if _, err := NewHost(nil); !errors.Is(err, ErrNilBus) {
		t.Errorf("expected ErrNilBus, got %v", err)
	}
}

func TestHost_RunAndCall(t *testing.T) {
	host, _, _, _ := newTestHost(t)

	err := host.RunString("greet", `
		function greet(name)
			return "hello " .. name, 42
		end
	`)
	if err != nil {
		t.Fatalf("RunString() failed: %v", err)
	}
	if !host.HasFunction("greet") {
		t.Fatal("greet not defined after RunString")
	}

	out, err := host.Call("greet", "Borai")
	if err != nil {
		t.Fatalf("Call() failed: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("results = %d, want 2", len(out))
	}
	if out[0] != "hello Borai" {
		t.Errorf("out[0] = %v, want %q", out[0], "hello Borai")
	}
	if out[1] != int64(42) {
		t.Errorf("out[1] = %v, want 42", out[1])
	}
}

func TestHost_CallMissingFunction(t *testing.T) {
	host, _, _, _ := newTestHost(t)

	if _, err := host.Call("nope"); !errors.Is(err, ErrFunctionNotFound) {
		t.Errorf("expected ErrFunctionNotFound, got %v", err)
	}
}

func TestHost_SandboxBlocksLoaders(t *testing.T) {
	host, _, _, _ := newTestHost(t)

	for _, chunk := range []string{
		`dofile("x.lua")`,
		`loadfile("x.lua")`,
		`load("return 1")`,
	} {
		if err := host.RunString("loader", chunk); err == nil {
			t.Errorf("chunk %q ran in the sandbox", chunk)
		}
	}
}

func TestHost_ScriptErrorEvent(t *testing.T) {
	host, _, _, bus := newTestHost(t)

	var got events.ScriptError
	reports := 0
	bus.OnFunc(events.TopicScriptError, func(ctx context.Context, env event.Envelope) error {
		got = env.Payload.(events.ScriptError)
		reports++
		return nil
	})

	if err := host.RunString("broken", `error("boom")`); err == nil {
		t.Fatal("expected an error from the failing chunk")
	}
	if reports != 1 {
		t.Fatalf("reports = %d, want 1", reports)
	}
	if got.Script != "broken" || got.Err == "" {
		t.Errorf("payload = %+v, want script name and error text", got)
	}
}

func TestHost_EventsOnEmitRoundTrip(t *testing.T) {
	host, _, _, _ := newTestHost(t)

	err := host.RunString("wire", `
		seen = {}
		events.on("mudlark.room.updated", function(payload, name)
			seen[#seen + 1] = name .. ":" .. payload.note
		end)
		delivered = events.emit("mudlark.room.updated", { note = "from lua" })

		function result()
			return delivered, seen[1]
		end
	`)
	if err != nil {
		t.Fatalf("RunString() failed: %v", err)
	}
	if host.Subscriptions() != 1 {
		t.Errorf("Subscriptions() = %d, want 1", host.Subscriptions())
	}

	out, err := host.Call("result")
	if err != nil {
		t.Fatalf("Call() failed: %v", err)
	}
	if out[0] != int64(1) {
		t.Errorf("delivered = %v, want 1", out[0])
	}
	if out[1] != "mudlark.room.updated:from lua" {
		t.Errorf("seen[1] = %v, want the topic and payload note", out[1])
	}
}

func TestHost_EmitUnregisteredRaises(t *testing.T) {
	host, _, _, _ := newTestHost(t)

	if err := host.RunString("bad", `events.emit("mudlark.bogus")`); err == nil {
		t.Fatal("emit of an unregistered name must fail")
	}
}

func TestHost_WhoModule(t *testing.T) {
	host, store, _, _ := newTestHost(t)
	ctx := context.Background()

	if err := store.IngestLines(ctx, []string{"[48 War] Vzae the adventurer (AFK)"}, event.Meta{}); err != nil {
		t.Fatalf("IngestLines() failed: %v", err)
	}

	err := host.RunString("inspect", `
		function check()
			local e = who.entry("Vzae")
			return who.has("Vzae"), e.level, e.class, e.flags[1], who.count()
		end
	`)
	if err != nil {
		t.Fatalf("RunString() failed: %v", err)
	}

	out, err := host.Call("check")
	if err != nil {
		t.Fatalf("Call() failed: %v", err)
	}
	want := []any{true, int64(48), "War", "AFK", int64(1)}
	for i, w := range want {
		if out[i] != w {
			t.Errorf("out[%d] = %v, want %v", i, out[i], w)
		}
	}
}

func TestHost_RoomModule(t *testing.T) {
	host, store, svc, _ := newTestHost(t)
	ctx := context.Background()

	if err := svc.IngestFixture(ctx, room.FixtureOptions{Unknown: []string{"Borai hates bugs"}}); err != nil {
		t.Fatalf("IngestFixture() failed: %v", err)
	}
	if err := store.IngestLines(ctx, []string{"[48 War] Borai the bug hunter"}, event.Meta{}); err != nil {
		t.Fatalf("IngestLines() failed: %v", err)
	}

	err := host.RunString("promote", `
		moved = room.reclassify()
		function result()
			return moved, room.players()[1], #room.unknown()
		end
	`)
	if err != nil {
		t.Fatalf("RunString() failed: %v", err)
	}

	out, err := host.Call("result")
	if err != nil {
		t.Fatalf("Call() failed: %v", err)
	}
	if out[0] != int64(1) {
		t.Errorf("moved = %v, want 1", out[0])
	}
	if out[1] != "Borai" {
		t.Errorf("players[1] = %v, want Borai", out[1])
	}
	if out[2] != int64(0) {
		t.Errorf("unknown size = %v, want 0", out[2])
	}
}

func TestHost_CloseDropsSubscriptions(t *testing.T) {
	host, _, _, bus := newTestHost(t)

	if err := host.RunString("sub", `events.on("mudlark.who.updated", function() end)`); err != nil {
		t.Fatalf("RunString() failed: %v", err)
	}
	if bus.SubscriberCount(events.TopicWhoUpdated) != 1 {
		t.Fatal("expected one live subscription before Close")
	}

	if err := host.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if bus.SubscriberCount(events.TopicWhoUpdated) != 0 {
		t.Error("subscription survived Close")
	}
	if !host.state.IsClosed() {
		t.Error("state still open after Close")
	}
}
