package event

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dshills/mudlark/internal/event/topic"
)

// Definition describes an emittable event: its name, payload contract and
// the services on each side of it. Definitions are immutable once
// registered; the registry is the single source of truth the bus consults
// before any delivery.
type Definition struct {
	// Name is the namespaced event name.
	Name topic.Topic

	// Description is a one-line human summary of the event.
	Description string

	// Producer names the service that emits this event.
	Producer string

	// Consumers names the services expected to subscribe.
	Consumers []string

	// PayloadVersion is the schema version of the payload struct.
	PayloadVersion int
}

// equal reports whether two definitions are identical field for field.
func (d Definition) equal(other Definition) bool {
	if d.Name != other.Name ||
		d.Description != other.Description ||
		d.Producer != other.Producer ||
		d.PayloadVersion != other.PayloadVersion {
		return false
	}
	if len(d.Consumers) != len(other.Consumers) {
		return false
	}
	for i := range d.Consumers {
		if d.Consumers[i] != other.Consumers[i] {
			return false
		}
	}
	return true
}

// Registry is the canonical catalog of emittable event names. The bus
// refuses to emit or subscribe to names absent from it.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	defs  map[topic.Topic]Definition
	order []topic.Topic
}

// NewRegistry creates an empty event definition registry.
func NewRegistry() *Registry {
	return &Registry{
		defs: make(map[topic.Topic]Definition),
	}
}

// Register adds a definition to the catalog. Registering the identical
// definition again is a no-op; registering a different definition under an
// existing name is ErrDefinitionConflict. Names outside the required
// namespace are rejected with ErrInvalidName before any state changes.
func (r *Registry) Register(def Definition) error {
	if !def.Name.InNamespace() {
		return fmt.Errorf("%w: %q must live under %q", ErrInvalidName, def.Name, topic.Namespace)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.defs[def.Name]; ok {
		if existing.equal(def) {
			return nil
		}
		return fmt.Errorf("%w: %q already registered with different contract", ErrDefinitionConflict, def.Name)
	}

	r.defs[def.Name] = def
	r.order = append(r.order, def.Name)
	return nil
}

// Has returns true if the name is in the catalog.
func (r *Registry) Has(name topic.Topic) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.defs[name]
	return ok
}

// Help returns the full definition for a name.
func (r *Registry) Help(name topic.Topic) (Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.defs[name]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrDefinitionNotFound, name)
	}
	return def, nil
}

// All returns every definition in registration order.
func (r *Registry) All() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.defs[name])
	}
	return result
}

// Count returns the number of registered definitions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.defs)
}

// Markdown renders the catalog as a stable per-entry textual dump in
// registration order, used by the docs/runtime parity check.
func (r *Registry) Markdown() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var b strings.Builder
	b.WriteString("# Event Catalog\n")

	for _, name := range r.order {
		def := r.defs[name]
		b.WriteString("\n## ")
		b.WriteString(string(def.Name))
		b.WriteString("\n\n")
		b.WriteString(def.Description)
		b.WriteString("\n\n- Producer: ")
		b.WriteString(def.Producer)
		b.WriteString("\n- Consumers: ")
		if len(def.Consumers) == 0 {
			b.WriteString("(none declared)")
		} else {
			b.WriteString(strings.Join(def.Consumers, ", "))
		}
		fmt.Fprintf(&b, "\n- Payload version: %d\n", def.PayloadVersion)
	}

	return b.String()
}
