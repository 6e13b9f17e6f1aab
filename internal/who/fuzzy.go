package who

import (
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
)

// Suggestion is an advisory fuzzy match between a free-text identity and a
// who entry. Suggestions exist for human cross-reference only: automated
// reclassification stays exact-name and never consumes them.
type Suggestion struct {
	// Name is the entry name the identity resembles.
	Name string

	// Score is the Jaro-Winkler similarity in [0, 1].
	Score float64

	// MatchedOn is "name" or "title" depending on which field scored.
	MatchedOn string
}

// suggestionFloor is the minimum similarity worth reporting.
const suggestionFloor = 0.80

// Suggest ranks entries whose name or title resembles the given identity.
// Results are sorted by descending score, capped at limit (0 = no cap).
func (s *Store) Suggest(identity string, limit int) []Suggestion {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return nil
	}

	snap := s.Snapshot()

	var out []Suggestion
	for _, e := range snap.Entries {
		best := Suggestion{Name: e.Name}

		if score := matchr.JaroWinkler(strings.ToLower(identity), strings.ToLower(e.Name), false); score > best.Score {
			best.Score = score
			best.MatchedOn = "name"
		}
		if e.Title != "" {
			if score := matchr.JaroWinkler(strings.ToLower(identity), strings.ToLower(e.Title), false); score > best.Score {
				best.Score = score
				best.MatchedOn = "title"
			}
		}

		if best.Score >= suggestionFloor {
			out = append(out, best)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
