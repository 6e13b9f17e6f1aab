// Package events defines the topic constants shared by producers and
// consumers of the mudlark event bus.
//
// Payload structs live next to their producing service (who.Updated,
// room.Updated) so the snapshot types are defined exactly once; this
// package only names the contracts so that subscribers never re-derive an
// event name string by hand.
//
// Topics follow the hierarchical dot-notation required by the registry:
//
//	mudlark.<service>.<action>
package events
