// Package topic provides the hierarchical event name type used by the
// event bus and registry.
//
// Topics use dot notation with a required leading namespace segment:
//
//	mudlark.who.updated
//	mudlark.room.updated
//
// The bus delivers by exact name; there is no wildcard matching. Tap
// subscriptions observe all traffic without naming a topic at all.
package topic
