package who

import (
	"regexp"
	"strconv"
	"strings"
)

// Line shape: a leading bracketed rank tag, then the name, then free text.
//
//	[48 War] Vzae the adventurer (AFK)
//	[IMPL] Root
var lineRe = regexp.MustCompile(`^\s*\[([^\]]*)\]\s+(\S+)\s*(.*?)\s*$`)

// Flag markers scanned out of the free text. Matching is case-insensitive;
// the matched text is not removed from Extra, only from the derived Title.
var (
	afkRe      = regexp.MustCompile(`(?i)\(AFK\)`)
	idleRe     = regexp.MustCompile(`(?i)\(idle[: ]+(\d+)m?\)`)
	noHassleRe = regexp.MustCompile(`(?i)\(NOHASSLE\)`)
	downRe     = regexp.MustCompile(`(?i)\(DOWN\)`)
)

var numericRe = regexp.MustCompile(`^\d+$`)
var alphaRe = regexp.MustCompile(`^[A-Za-z]+$`)

// ParseLine parses a single who-listing line. The second return value is
// false for a skip: a line without the minimal bracket+name shape produces
// no entry, but the caller keeps its raw text for audit.
func ParseLine(line string) (Entry, bool) {
	m := lineRe.FindStringSubmatch(line)
	if m == nil {
		return Entry{}, false
	}

	entry := Entry{
		RankTag: strings.TrimSpace(m[1]),
		Name:    m[2],
		Extra:   m[3],
		Raw:     line,
	}

	entry.Level, entry.Class = parseRankTag(entry.RankTag)
	entry.Flags, entry.IdleMinutes = parseFlags(entry.Extra)
	entry.Title = deriveTitle(entry.Extra)

	return entry, true
}

// ParseLines parses a full listing. Skipped lines produce no entry; the
// returned count reports how many lines were skipped.
func ParseLines(lines []string) (entries []Entry, skipped int) {
	for _, line := range lines {
		entry, ok := ParseLine(line)
		if !ok {
			skipped++
			continue
		}
		entries = append(entries, entry)
	}
	return entries, skipped
}

// parseRankTag extracts level and class from the bracket contents. The
// first numeric token is the level; the first alphabetic token after it is
// the class. Tags with no numeric token (administrative ranks) yield
// neither.
func parseRankTag(tag string) (level int, class string) {
	fields := strings.Fields(tag)

	levelIdx := -1
	for i, f := range fields {
		if numericRe.MatchString(f) {
			n, err := strconv.Atoi(f)
			if err != nil {
				break
			}
			level = n
			levelIdx = i
			break
		}
	}
	if levelIdx < 0 {
		return 0, ""
	}

	for _, f := range fields[levelIdx+1:] {
		if alphaRe.MatchString(f) {
			return level, f
		}
	}
	return level, ""
}

// parseFlags scans the free text for recognized markers. Markers are
// deduplicated; the text itself is left untouched.
func parseFlags(extra string) (flags []string, idleMinutes int) {
	if afkRe.MatchString(extra) {
		flags = append(flags, FlagAFK)
	}
	if m := idleRe.FindStringSubmatch(extra); m != nil {
		flags = append(flags, FlagIdle)
		if n, err := strconv.Atoi(m[1]); err == nil {
			idleMinutes = n
		}
	}
	if noHassleRe.MatchString(extra) {
		flags = append(flags, FlagNoHassle)
	}
	if downRe.MatchString(extra) {
		flags = append(flags, FlagDown)
	}
	return flags, idleMinutes
}

// deriveTitle strips only the recognized flag markers from the free text
// and normalizes whitespace. An empty result stays empty rather than
// becoming a lone space.
func deriveTitle(extra string) string {
	s := afkRe.ReplaceAllString(extra, " ")
	s = idleRe.ReplaceAllString(s, " ")
	s = noHassleRe.ReplaceAllString(s, " ")
	s = downRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}
