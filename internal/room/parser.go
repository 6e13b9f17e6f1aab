package room

import (
	"regexp"
	"strings"
	"unicode"
)

// LookOptions controls how free-text room descriptions are classified.
type LookOptions struct {
	// CapitalizedArePlayers treats an otherwise unmatched line whose first
	// token is capitalized as a player. Off by default: the caller must
	// ask for the inference explicitly, it is never applied silently.
	CapitalizedArePlayers bool

	// Source is the audit tag for the resulting update.
	Source string
}

// Fixed-pattern heuristics for room description lines.
var (
	exitLineRe = regexp.MustCompile(`(?i)^\s*\[?\s*(obvious\s+)?exits?\s*[:\]]`)
	standRe    = regexp.MustCompile(`(?i)^(.+?)\s+(?:is|are)\s+(?:standing\s+)?here[.!]?$`)
	itemRe     = regexp.MustCompile(`(?i)^(.+?)\s+(?:lies|is\s+lying|has\s+been\s+left|rests)\s+here[.!]?$`)
)

// mob-style leading articles. A subject led by one of these is scenery or
// a creature, never a named player.
var mobArticles = []string{"a ", "an ", "the ", "some "}

// parseLook classifies a room description into occupant buckets. Lines
// that match no heuristic become unknown identities (or players, with the
// explicit capitalized-token toggle); blank lines and exit lines carry no
// occupants at all.
func parseLook(text string, opts LookOptions) State {
	state := NewState()

	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || exitLineRe.MatchString(line) {
			continue
		}

		if m := itemRe.FindStringSubmatch(line); m != nil {
			place(state, BucketItems, strings.TrimSpace(m[1]))
			continue
		}

		if m := standRe.FindStringSubmatch(line); m != nil {
			subject := strings.TrimSpace(m[1])
			if hasMobArticle(subject) {
				place(state, BucketMobs, subject)
			} else if startsUpper(subject) {
				place(state, BucketPlayers, subject)
			} else {
				place(state, BucketMobs, subject)
			}
			continue
		}

		identity := strings.TrimRight(line, ".!")
		if opts.CapitalizedArePlayers && startsUpper(identity) && !hasMobArticle(identity) {
			place(state, BucketPlayers, identity)
		} else {
			place(state, BucketUnknown, identity)
		}
	}

	return state
}

// place files an identity into a bucket while keeping it in exactly one.
// A pattern-matched classification supersedes an earlier unknown
// fallback; between two pattern matches the first line wins.
func place(state State, b Bucket, identity string) {
	cur, ok := state.Has(identity)
	if !ok {
		state.bucket(b)[identity] = struct{}{}
		return
	}
	if cur == BucketUnknown && b != BucketUnknown {
		delete(state.Unknown, identity)
		state.bucket(b)[identity] = struct{}{}
	}
}

// hasMobArticle returns true if the subject begins with an article
// typical of mob and scenery descriptions. The trailing space in each
// article keeps names like "Theo" from matching "the ".
func hasMobArticle(subject string) bool {
	lower := strings.ToLower(subject)
	for _, article := range mobArticles {
		if strings.HasPrefix(lower, article) {
			return true
		}
	}
	return false
}

// startsUpper returns true if the first rune is an uppercase letter.
func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}
