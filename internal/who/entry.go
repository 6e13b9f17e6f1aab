package who

// Entry is one parsed line of the online-players listing.
//
// Level, Class, Title and Flags are derived by the parser from RankTag and
// Extra on every ingest; they are never edited independently. A zero Level
// means the rank tag carried no level (administrative ranks) and callers
// must not infer player status from rank presence.
type Entry struct {
	// Name is the unique key: the first whitespace token after the
	// bracket tag.
	Name string

	// RankTag is the raw text inside the leading brackets.
	RankTag string

	// Level is the numeric level from the rank tag, 0 if absent.
	Level int

	// Class is the class abbreviation from the rank tag, "" if absent.
	Class string

	// Flags holds the recognized flag markers, deduplicated.
	Flags []string

	// IdleMinutes is the minute count from an idle flag, 0 if absent.
	IdleMinutes int

	// Extra is everything after the name, unmodified.
	Extra string

	// Title is Extra with recognized flag markers stripped and whitespace
	// normalized, "" if nothing remains. Advisory only: used for fuzzy
	// human cross-reference, never as a lookup key.
	Title string

	// Raw is the original unparsed line.
	Raw string
}

// Recognized flag markers.
const (
	FlagAFK      = "AFK"
	FlagIdle     = "IDLE"
	FlagNoHassle = "NOHASSLE"
	FlagDown     = "DOWN"
)

// HasFlag returns true if the entry carries the given flag.
func (e Entry) HasFlag(flag string) bool {
	for _, f := range e.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// clone returns a copy of the entry with its own flag slice.
func (e Entry) clone() Entry {
	out := e
	if e.Flags != nil {
		out.Flags = make([]string, len(e.Flags))
		copy(out.Flags, e.Flags)
	}
	return out
}
