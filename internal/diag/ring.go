package diag

import (
	"time"

	"github.com/dshills/mudlark/internal/event/topic"
)

// Kind distinguishes how a record was observed.
type Kind string

const (
	// KindTap marks a record captured by the all-traffic tap.
	KindTap Kind = "tap"

	// KindSub marks a record captured by a per-name subscription.
	KindSub Kind = "sub"
)

// Record is one observed bus delivery. Records are purely observational;
// no core component reads them back as state.
type Record struct {
	// TS is when the delivery was observed.
	TS time.Time

	// Kind is how it was observed.
	Kind Kind

	// Topic is the event name.
	Topic topic.Topic

	// Source is the emit's audit tag, if any.
	Source string

	// Payload is the delivered payload value.
	Payload any
}

// DefaultRingCapacity is used when no capacity is configured.
const DefaultRingCapacity = 128

// Ring is a fixed-capacity circular buffer of records. Push is O(1);
// when full, the oldest record is evicted first.
type Ring struct {
	buf   []Record
	start int
	size  int
}

// NewRing creates a ring with the given capacity. Non-positive capacities
// fall back to DefaultRingCapacity.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultRingCapacity
	}
	return &Ring{buf: make([]Record, capacity)}
}

// Push appends a record, evicting the oldest when full.
func (r *Ring) Push(rec Record) {
	if r.size < len(r.buf) {
		r.buf[(r.start+r.size)%len(r.buf)] = rec
		r.size++
		return
	}
	r.buf[r.start] = rec
	r.start = (r.start + 1) % len(r.buf)
}

// Records returns the buffered records oldest-first, as a copy.
func (r *Ring) Records() []Record {
	out := make([]Record, 0, r.size)
	for i := 0; i < r.size; i++ {
		out = append(out, r.buf[(r.start+i)%len(r.buf)])
	}
	return out
}

// Len returns the number of buffered records.
func (r *Ring) Len() int {
	return r.size
}

// Cap returns the ring capacity.
func (r *Ring) Cap() int {
	return len(r.buf)
}

// Clear discards all buffered records.
func (r *Ring) Clear() {
	r.start = 0
	r.size = 0
}
