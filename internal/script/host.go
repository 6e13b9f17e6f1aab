package script

import (
	"context"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/mudlark/internal/event"
	"github.com/dshills/mudlark/internal/event/events"
	"github.com/dshills/mudlark/internal/event/topic"
	"github.com/dshills/mudlark/internal/logging"
	"github.com/dshills/mudlark/internal/room"
	"github.com/dshills/mudlark/internal/who"
)

// Host runs automation scripts against the event core. Scripts see four
// global modules: log, events, and, when the services are attached, who
// and room. A script that fails is reported on the script error topic so
// the rest of the session keeps running.
//
// The Host inherits gopher-lua's threading model: drive it from one
// goroutine.
type Host struct {
	state *State
	bus   *event.Bus
	who   *who.Store
	room  *room.Service
	log   *logging.Logger

	handlers map[event.Token]topic.Topic
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithLogger sets the host's logger.
func WithLogger(log *logging.Logger) HostOption {
	return func(h *Host) {
		h.log = log
	}
}

// WithWhoStore attaches the who store, enabling the who module.
func WithWhoStore(store *who.Store) HostOption {
	return func(h *Host) {
		h.who = store
	}
}

// WithRoomService attaches the room service, enabling the room module.
func WithRoomService(svc *room.Service) HostOption {
	return func(h *Host) {
		h.room = svc
	}
}

// NewHost creates a script host bound to the given bus.
func NewHost(bus *event.Bus, opts ...HostOption) (*Host, error) {
	if bus == nil {
		return nil, ErrNilBus
	}

	h := &Host{
		bus:      bus,
		log:      logging.Null,
		handlers: make(map[event.Token]topic.Topic),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.log = h.log.WithComponent("script")
	h.state = NewState()

	h.registerLogModule()
	h.registerEventsModule()
	if h.who != nil {
		h.registerWhoModule()
	}
	if h.room != nil {
		h.registerRoomModule()
	}
	return h, nil
}

// RunFile executes a Lua script file. Failures are reported on the
// script error topic and returned.
func (h *Host) RunFile(path string) error {
	err := h.state.DoFile(path)
	h.reportError(path, err)
	return err
}

// RunString executes a Lua chunk. The name labels the chunk in error
// reports.
func (h *Host) RunString(name, code string) error {
	err := h.state.DoString(code)
	h.reportError(name, err)
	return err
}

// Call invokes a global Lua function with Go arguments and returns the
// results converted back to Go values.
func (h *Host) Call(fn string, args ...any) ([]any, error) {
	largs := make([]lua.LValue, len(args))
	for i, arg := range args {
		largs[i] = toLua(h.state.L, arg)
	}

	vals, err := h.state.Call(fn, largs...)
	if err != nil {
		h.reportError(fn, err)
		return nil, err
	}

	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = toGo(v)
	}
	return out, nil
}

// HasFunction reports whether the script defined a global of that name.
func (h *Host) HasFunction(name string) bool {
	return h.state.HasGlobal(name)
}

// Subscriptions returns the number of live script subscriptions.
func (h *Host) Subscriptions() int {
	return len(h.handlers)
}

// Close drops the script's bus subscriptions and releases the runtime.
func (h *Host) Close() error {
	for tok := range h.handlers {
		h.bus.Off(tok)
		delete(h.handlers, tok)
	}
	return h.state.Close()
}

// reportError logs a script failure and publishes it on the script error
// topic. Publish failures are swallowed: error reporting must never take
// the session down.
func (h *Host) reportError(script string, err error) {
	if err == nil {
		return
	}
	h.log.WithField("script", script).Error("script failed: %v", err)

	payload := events.ScriptError{Script: script, Err: err.Error()}
	if _, emitErr := h.bus.Emit(context.Background(), events.TopicScriptError, payload, event.Meta{Source: "script"}); emitErr != nil {
		h.log.Debug("script error event not published: %v", emitErr)
	}
}

// registerLogModule exposes the host logger as the log global.
func (h *Host) registerLogModule() {
	h.state.RegisterModule("log", map[string]lua.LGFunction{
		"debug": h.logAt((*logging.Logger).Debug),
		"info":  h.logAt((*logging.Logger).Info),
		"warn":  h.logAt((*logging.Logger).Warn),
		"error": h.logAt((*logging.Logger).Error),
	})
}

func (h *Host) logAt(emit func(*logging.Logger, string, ...any)) lua.LGFunction {
	return func(L *lua.LState) int {
		emit(h.log, "%s", L.CheckString(1))
		return 0
	}
}

// registerEventsModule exposes emit, on and off to scripts.
func (h *Host) registerEventsModule() {
	h.state.RegisterModule("events", map[string]lua.LGFunction{
		"emit": func(L *lua.LState) int {
			name := topic.Topic(L.CheckString(1))
			var payload any
			if L.GetTop() >= 2 {
				payload = toGo(L.Get(2))
			}

			res, err := h.bus.Emit(context.Background(), name, payload, event.Meta{Source: "script"})
			if err != nil {
				L.RaiseError("%s", err.Error())
				return 0
			}
			L.Push(lua.LNumber(res.Delivered))
			return 1
		},

		"on": func(L *lua.LState) int {
			name := topic.Topic(L.CheckString(1))
			fn := L.CheckFunction(2)

			tok, err := h.bus.OnFunc(name, func(ctx context.Context, env event.Envelope) error {
				return h.state.pcall(fn, toLua(h.state.L, env.Payload), lua.LString(env.Topic))
			})
			if err != nil {
				L.RaiseError("%s", err.Error())
				return 0
			}
			h.handlers[tok] = name
			L.Push(lua.LString(tok))
			return 1
		},

		"off": func(L *lua.LState) int {
			tok := event.Token(L.CheckString(1))
			if _, ok := h.handlers[tok]; ok {
				h.bus.Off(tok)
				delete(h.handlers, tok)
			}
			return 0
		},
	})
}

// registerWhoModule exposes read access to the who snapshot.
func (h *Host) registerWhoModule() {
	h.state.RegisterModule("who", map[string]lua.LGFunction{
		"names": func(L *lua.LState) int {
			L.Push(toLua(L, h.who.Names()))
			return 1
		},

		"has": func(L *lua.LState) int {
			L.Push(lua.LBool(h.who.Has(L.CheckString(1))))
			return 1
		},

		"count": func(L *lua.LState) int {
			L.Push(lua.LNumber(h.who.Snapshot().Len()))
			return 1
		},

		"entry": func(L *lua.LState) int {
			entry, ok := h.who.Entry(L.CheckString(1))
			if !ok {
				L.Push(lua.LNil)
				return 1
			}
			t := L.NewTable()
			t.RawSetString("name", lua.LString(entry.Name))
			t.RawSetString("rank", lua.LString(entry.RankTag))
			t.RawSetString("level", lua.LNumber(entry.Level))
			t.RawSetString("class", lua.LString(entry.Class))
			t.RawSetString("title", lua.LString(entry.Title))
			t.RawSetString("idle_minutes", lua.LNumber(entry.IdleMinutes))
			t.RawSetString("flags", toLua(L, entry.Flags))
			L.Push(t)
			return 1
		},

		"suggest": func(L *lua.LState) int {
			identity := L.CheckString(1)
			limit := L.OptInt(2, 5)

			t := L.NewTable()
			for i, sug := range h.who.Suggest(identity, limit) {
				row := L.NewTable()
				row.RawSetString("name", lua.LString(sug.Name))
				row.RawSetString("score", lua.LNumber(sug.Score))
				row.RawSetString("matched_on", lua.LString(sug.MatchedOn))
				t.RawSetInt(i+1, row)
			}
			L.Push(t)
			return 1
		},
	})
}

// registerRoomModule exposes the room buckets and the reclassify pass.
func (h *Host) registerRoomModule() {
	bucketFn := func(b room.Bucket) lua.LGFunction {
		return func(L *lua.LState) int {
			L.Push(toLua(L, h.room.State().Sorted(b)))
			return 1
		}
	}

	h.state.RegisterModule("room", map[string]lua.LGFunction{
		"players": bucketFn(room.BucketPlayers),
		"mobs":    bucketFn(room.BucketMobs),
		"items":   bucketFn(room.BucketItems),
		"unknown": bucketFn(room.BucketUnknown),

		"reclassify": func(L *lua.LState) int {
			moved, err := h.room.ReclassifyFromWho(context.Background(), room.ReclassifyOptions{Source: "script"})
			if err != nil {
				L.RaiseError("%s", err.Error())
				return 0
			}
			L.Push(lua.LNumber(moved))
			return 1
		},
	})
}
