package topic

import "strings"

// Topic represents a hierarchical event name using dot notation.
// Examples: "mudlark.who.updated", "mudlark.room.updated"
type Topic string

const (
	// Separator is the character used to separate topic segments.
	Separator = "."

	// Namespace is the required leading segment for every registrable topic.
	// All event names produced by this module live under it; names outside
	// the namespace are rejected at registration time to keep independently
	// developed automation scripts from flooding the bus with ad-hoc names.
	Namespace = "mudlark"
)

// String returns the topic as a string.
func (t Topic) String() string {
	return string(t)
}

// Segments returns the topic split by the separator.
func (t Topic) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), Separator)
}

// Parent returns the parent topic by removing the last segment.
// Returns an empty topic if there is no parent.
//
// Example: "mudlark.who.updated" -> "mudlark.who"
func (t Topic) Parent() Topic {
	s := string(t)
	idx := strings.LastIndex(s, Separator)
	if idx < 0 {
		return ""
	}
	return Topic(s[:idx])
}

// Child returns a child topic by appending a segment.
//
// Example: "mudlark.who".Child("updated") -> "mudlark.who.updated"
func (t Topic) Child(segment string) Topic {
	if t == "" {
		return Topic(segment)
	}
	return Topic(string(t) + Separator + segment)
}

// Base returns the last segment of the topic.
//
// Example: "mudlark.who.updated" -> "updated"
func (t Topic) Base() string {
	s := string(t)
	idx := strings.LastIndex(s, Separator)
	if idx < 0 {
		return s
	}
	return s[idx+1:]
}

// HasPrefix returns true if the topic starts with the given prefix,
// matching complete segments only.
func (t Topic) HasPrefix(prefix Topic) bool {
	if prefix == "" {
		return true
	}
	s := string(t)
	p := string(prefix)
	if !strings.HasPrefix(s, p) {
		return false
	}
	if len(s) == len(p) {
		return true
	}
	return s[len(p)] == '.'
}

// IsValid returns true if the topic is structurally valid.
// A valid topic:
//   - Is not empty
//   - Does not start or end with a separator
//   - Does not contain consecutive separators or empty segments
func (t Topic) IsValid() bool {
	s := string(t)
	if s == "" {
		return false
	}
	if strings.HasPrefix(s, Separator) || strings.HasSuffix(s, Separator) {
		return false
	}
	if strings.Contains(s, Separator+Separator) {
		return false
	}
	for _, seg := range t.Segments() {
		if seg == "" {
			return false
		}
	}
	return true
}

// InNamespace returns true if the topic is valid and lives under the
// required namespace segment.
func (t Topic) InNamespace() bool {
	return t.IsValid() && t.HasPrefix(Topic(Namespace)) && t != Topic(Namespace)
}

// Join joins multiple segments into a topic.
func Join(segments ...string) Topic {
	return Topic(strings.Join(segments, Separator))
}
