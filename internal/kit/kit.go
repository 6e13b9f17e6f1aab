// Package kit wires the automation core together: registry, bus, stores,
// diagnostics and the script host, built in dependency order.
package kit

import (
	"io"

	"github.com/dshills/mudlark/internal/config"
	"github.com/dshills/mudlark/internal/diag"
	"github.com/dshills/mudlark/internal/event"
	"github.com/dshills/mudlark/internal/logging"
	"github.com/dshills/mudlark/internal/room"
	"github.com/dshills/mudlark/internal/script"
	"github.com/dshills/mudlark/internal/who"
)

// Kit is the assembled automation core. All components share one bus and
// one logger; the room service reacts to who updates through the bus, the
// same path a script subscription uses.
type Kit struct {
	cfg config.Config
	log *logging.Logger

	registry *event.Registry
	bus      *event.Bus
	who      *who.Store
	room     *room.Service
	diag     *diag.Monitor
	scripts  *script.Host
}

// Options configures the Kit.
type Options struct {
	// Config holds the session settings. The zero value means defaults.
	Config config.Config

	// LogOutput overrides the log destination. Defaults to stderr.
	LogOutput io.Writer
}

// New builds the automation core in dependency order.
func New(opts Options) (*Kit, error) {
	cfg := opts.Config
	if cfg == (config.Config{}) {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(cfg.LogLevel)
	if opts.LogOutput != nil {
		logCfg.Output = opts.LogOutput
	}
	log := logging.New(logCfg)

	k := &Kit{cfg: cfg, log: log}

	k.registry = event.NewRegistry()
	if err := registerDefinitions(k.registry); err != nil {
		return nil, err
	}
	k.bus = event.NewBus(k.registry)

	store, err := who.NewStore(k.bus,
		who.WithLogger(log),
		who.WithSource(cfg.Source),
	)
	if err != nil {
		return nil, err
	}
	k.who = store

	svc, err := room.NewService(k.bus,
		room.WithLogger(log),
		room.WithNameIndex(store),
		room.WithSource(cfg.Source),
	)
	if err != nil {
		return nil, err
	}
	k.room = svc
	if _, err := svc.Watch(); err != nil {
		return nil, err
	}

	mon, err := diag.NewMonitor(k.bus,
		diag.WithLogger(log),
		diag.WithCapacity(cfg.EventLogCapacity),
	)
	if err != nil {
		return nil, err
	}
	k.diag = mon

	host, err := script.NewHost(k.bus,
		script.WithLogger(log),
		script.WithWhoStore(store),
		script.WithRoomService(svc),
	)
	if err != nil {
		return nil, err
	}
	k.scripts = host

	log.Debug("automation core assembled")
	return k, nil
}

// Config returns the active settings.
func (k *Kit) Config() config.Config { return k.cfg }

// Logger returns the shared logger.
func (k *Kit) Logger() *logging.Logger { return k.log }

// Registry returns the event definition registry.
func (k *Kit) Registry() *event.Registry { return k.registry }

// Bus returns the event bus.
func (k *Kit) Bus() *event.Bus { return k.bus }

// Who returns the who-list store.
func (k *Kit) Who() *who.Store { return k.who }

// Room returns the room occupant service.
func (k *Kit) Room() *room.Service { return k.room }

// Diag returns the diagnostics monitor.
func (k *Kit) Diag() *diag.Monitor { return k.diag }

// Scripts returns the Lua script host.
func (k *Kit) Scripts() *script.Host { return k.scripts }

// Close tears the core down: the room service stops reacting to who
// updates, diagnostics release their subscriptions and the script runtime
// is closed.
func (k *Kit) Close() error {
	k.room.Unwatch()
	k.diag.TapOff()
	k.diag.SubOff(diag.AllSubscriptions)
	return k.scripts.Close()
}
