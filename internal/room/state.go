package room

import (
	"sort"
	"time"
)

// Bucket names a classification for a room occupant.
type Bucket string

// The four occupant buckets. An identity lives in exactly one bucket at a
// time; moving between buckets is a single atomic delete-and-insert.
const (
	BucketPlayers Bucket = "players"
	BucketMobs    Bucket = "mobs"
	BucketItems   Bucket = "items"
	BucketUnknown Bucket = "unknown"
)

// State holds the current room occupants as identity sets, one per bucket.
type State struct {
	Players map[string]struct{}
	Mobs    map[string]struct{}
	Items   map[string]struct{}
	Unknown map[string]struct{}
}

// NewState returns an empty state with all buckets initialized.
func NewState() State {
	return State{
		Players: make(map[string]struct{}),
		Mobs:    make(map[string]struct{}),
		Items:   make(map[string]struct{}),
		Unknown: make(map[string]struct{}),
	}
}

// bucket returns the set for a bucket name, or nil for an unknown name.
func (s State) bucket(b Bucket) map[string]struct{} {
	switch b {
	case BucketPlayers:
		return s.Players
	case BucketMobs:
		return s.Mobs
	case BucketItems:
		return s.Items
	case BucketUnknown:
		return s.Unknown
	default:
		return nil
	}
}

// Has reports which bucket holds the identity, if any.
func (s State) Has(identity string) (Bucket, bool) {
	for _, b := range []Bucket{BucketPlayers, BucketMobs, BucketItems, BucketUnknown} {
		if _, ok := s.bucket(b)[identity]; ok {
			return b, true
		}
	}
	return "", false
}

// In reports whether the identity is in the given bucket.
func (s State) In(b Bucket, identity string) bool {
	_, ok := s.bucket(b)[identity]
	return ok
}

// Sorted returns the identities in a bucket in sorted order.
func (s State) Sorted(b Bucket) []string {
	set := s.bucket(b)
	out := make([]string, 0, len(set))
	for identity := range set {
		out = append(out, identity)
	}
	sort.Strings(out)
	return out
}

// Len returns the total occupant count across all buckets.
func (s State) Len() int {
	return len(s.Players) + len(s.Mobs) + len(s.Items) + len(s.Unknown)
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := NewState()
	for _, b := range []Bucket{BucketPlayers, BucketMobs, BucketItems, BucketUnknown} {
		dst := out.bucket(b)
		for identity := range s.bucket(b) {
			dst[identity] = struct{}{}
		}
	}
	return out
}

// Equal reports whether two states hold the same identities per bucket.
func (s State) Equal(other State) bool {
	for _, b := range []Bucket{BucketPlayers, BucketMobs, BucketItems, BucketUnknown} {
		a, o := s.bucket(b), other.bucket(b)
		if len(a) != len(o) {
			return false
		}
		for identity := range a {
			if _, ok := o[identity]; !ok {
				return false
			}
		}
	}
	return true
}

// overlap returns an identity present in more than one bucket, if any.
func (s State) overlap() (string, bool) {
	seen := make(map[string]struct{})
	for _, b := range []Bucket{BucketPlayers, BucketMobs, BucketItems, BucketUnknown} {
		for identity := range s.bucket(b) {
			if _, dup := seen[identity]; dup {
				return identity, true
			}
			seen[identity] = struct{}{}
		}
	}
	return "", false
}

// Updated is the payload of the mudlark.room.updated event, carrying the
// complete new state. Consumers must treat it as a value snapshot.
type Updated struct {
	// TS is when the state changed.
	TS time.Time

	// State is the full replacement occupant state.
	State State

	// Source is the audit tag of the change, if any.
	Source string
}
