// Package who parses online-players listings into structured entries and
// owns the current listing snapshot.
//
// # Parsing
//
// Each line is matched against the minimal shape "[rank tag] Name ...".
// Inside the tag, the first numeric token is the level and the next
// alphabetic token is the class; tags with neither (administrative ranks)
// parse with no level at all. The free text after the name is scanned for
// a small fixed set of flag markers — AFK, idle-with-minutes, NOHASSLE and
// DOWN — which are collected without consuming the text. The advisory
// Title is that text with only the recognized markers stripped.
//
// Lines that do not match the shape are skips, not failures: their raw
// text is retained in the snapshot for audit.
//
// # Update model
//
// Every successful ingest is a full snapshot replacement, never a merge.
// The store emits exactly one mudlark.who.updated event per ingest,
// carrying the complete new snapshot, after its internal state is already
// replaced. Consumers must not cache derived fields such as Title across
// snapshot cycles.
package who
