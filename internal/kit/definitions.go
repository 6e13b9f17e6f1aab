package kit

import (
	"github.com/dshills/mudlark/internal/event"
	"github.com/dshills/mudlark/internal/event/events"
)

// registerDefinitions declares the event catalog. Every name the core can
// emit is registered here before the bus exists, so an unregistered emit
// anywhere is a wiring bug, not a race.
func registerDefinitions(reg *event.Registry) error {
	defs := []event.Definition{
		{
			Name:           events.TopicWhoUpdated,
			Description:    "The who-list snapshot was replaced by a fresh capture.",
			Producer:       "who.Store",
			Consumers:      []string{"room.Service", "scripts"},
			PayloadVersion: 1,
		},
		{
			Name:           events.TopicRoomUpdated,
			Description:    "The room occupant buckets changed.",
			Producer:       "room.Service",
			Consumers:      []string{"scripts"},
			PayloadVersion: 1,
		},
		{
			Name:           events.TopicScriptError,
			Description:    "An automation script failed; the session keeps running.",
			Producer:       "script.Host",
			PayloadVersion: 1,
		},
	}

	for _, def := range defs {
		if err := reg.Register(def); err != nil {
			return err
		}
	}
	return nil
}
