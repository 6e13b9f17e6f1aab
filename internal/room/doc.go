// Package room owns the room occupant buckets and the reclassification
// state machine that promotes unknown occupants to players.
//
// # Buckets
//
// Occupants live in exactly one of four buckets: players, mobs, items or
// unknown. Free-text room descriptions are classified with fixed-pattern
// heuristics (exit lines, "is/are standing here" phrases, item phrases);
// anything unmatched lands in unknown unless the caller explicitly asks
// for capitalized tokens to be treated as players.
//
// # Reclassification
//
// ReclassifyFromWho moves unknown identities whose leading token exactly
// matches a who-store name into players, atomically within the pass. The
// service subscribes to who updates (Watch) so reclassification runs on
// every new who snapshot; the pass only reads the who store through a
// narrow NameIndex interface, which keeps the reaction chain to a single
// hop and makes repeated passes against an unchanged snapshot idempotent.
package room
