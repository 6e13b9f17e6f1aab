package events

import "github.com/dshills/mudlark/internal/event/topic"

// Who store event topics.
const (
	// TopicWhoUpdated is published after every successful who-listing
	// ingest. The payload is who.Updated carrying the complete new
	// snapshot; partial or diff events are never emitted.
	TopicWhoUpdated topic.Topic = "mudlark.who.updated"
)

// Room entities event topics.
const (
	// TopicRoomUpdated is published when the room occupant buckets change:
	// a look ingest, a state replacement, a clear, or a reclassification
	// that moved at least one identity. The payload is room.Updated with
	// the complete new state.
	TopicRoomUpdated topic.Topic = "mudlark.room.updated"
)

// Script host event topics.
const (
	// TopicScriptError is published when an automation script fails.
	TopicScriptError topic.Topic = "mudlark.script.error"
)

// ScriptError is the payload for TopicScriptError.
type ScriptError struct {
	// Script is the path or label of the failing script.
	Script string

	// Err is the rendered error message.
	Err string
}
