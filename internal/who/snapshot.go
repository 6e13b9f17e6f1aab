package who

import "time"

// Snapshot is a complete, self-contained capture of the online-players
// listing. Each successful ingest builds a new Snapshot that wholly
// replaces the prior one; snapshots are never merged.
type Snapshot struct {
	// TS is when the snapshot was taken.
	TS time.Time

	// Source is the audit tag of the capture that produced it.
	Source string

	// RawLines holds every input line, parsed or skipped.
	RawLines []string

	// Entries holds the parsed entries in listing order.
	Entries []Entry

	// ByName indexes entries by name. Always re-derivable from Entries;
	// on duplicate names the last parsed entry wins.
	ByName map[string]Entry
}

// newSnapshot builds a snapshot from parsed entries, deriving ByName.
func newSnapshot(ts time.Time, source string, rawLines []string, entries []Entry) Snapshot {
	snap := Snapshot{
		TS:       ts,
		Source:   source,
		RawLines: rawLines,
		Entries:  entries,
		ByName:   make(map[string]Entry, len(entries)),
	}
	for _, e := range entries {
		snap.ByName[e.Name] = e
	}
	return snap
}

// Clone returns a deep copy. Mutating the copy never affects the original.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		TS:     s.TS,
		Source: s.Source,
	}
	if s.RawLines != nil {
		out.RawLines = make([]string, len(s.RawLines))
		copy(out.RawLines, s.RawLines)
	}
	if s.Entries != nil {
		out.Entries = make([]Entry, 0, len(s.Entries))
		for _, e := range s.Entries {
			out.Entries = append(out.Entries, e.clone())
		}
	}
	if s.ByName != nil {
		out.ByName = make(map[string]Entry, len(s.ByName))
		for name, e := range s.ByName {
			out.ByName[name] = e.clone()
		}
	}
	return out
}

// Len returns the number of parsed entries.
func (s Snapshot) Len() int {
	return len(s.Entries)
}

// Updated is the payload of the mudlark.who.updated event. It carries the
// complete new snapshot; consumers must treat it as a value and never
// retain it expecting live mutation.
type Updated struct {
	// TS mirrors the snapshot timestamp.
	TS time.Time

	// Snapshot is the full replacement state.
	Snapshot Snapshot

	// Source is the audit tag of the capture, if any.
	Source string
}
