package diag

import (
	"fmt"
	"io"
	"time"

	"github.com/tidwall/sjson"

	"github.com/dshills/mudlark/internal/event"
)

// Status is a point-in-time summary of the diagnostic state.
type Status struct {
	// TapActive reports whether the all-traffic tap is on.
	TapActive bool

	// Subscriptions is the number of tracked per-name subscriptions.
	Subscriptions int

	// LogSize and LogCapacity describe the record ring.
	LogSize     int
	LogCapacity int

	// Bus holds the bus counters.
	Bus event.Stats
}

// Status returns the current diagnostic summary.
func (m *Monitor) Status() Status {
	m.mu.Lock()
	tapActive := m.tapTok != ""
	subCount := len(m.subs)
	logSize := m.ring.Len()
	logCap := m.ring.Cap()
	m.mu.Unlock()

	return Status{
		TapActive:     tapActive,
		Subscriptions: subCount,
		LogSize:       logSize,
		LogCapacity:   logCap,
		Bus:           m.bus.Stats(),
	}
}

// WriteStatus renders the status for human inspection.
func (m *Monitor) WriteStatus(w io.Writer) error {
	s := m.Status()

	tap := "off"
	if s.TapActive {
		tap = "on"
	}

	_, err := fmt.Fprintf(w,
		"tap: %s\nsubscriptions: %d\nevent log: %d/%d records\n"+
			"bus: emitted=%d delivered=%d subscribers=%d taps=%d handlerErrors=%d tapErrors=%d\n",
		tap, s.Subscriptions, s.LogSize, s.LogCapacity,
		s.Bus.Emitted, s.Bus.Delivered, s.Bus.Subscribers, s.Bus.TapSubscribers,
		s.Bus.HandlerErrors, s.Bus.TapErrors)
	return err
}

// ExportJSON renders the buffered records as a JSON document for offline
// inspection. Payloads that cannot be serialized are replaced by their
// rendered string form rather than failing the export.
func (m *Monitor) ExportJSON() (string, error) {
	records := m.Records()

	doc := `{"records":[]}`
	var err error
	for i, rec := range records {
		prefix := fmt.Sprintf("records.%d.", i)

		doc, err = sjson.Set(doc, prefix+"ts", rec.TS.Format(time.RFC3339Nano))
		if err != nil {
			return "", fmt.Errorf("diag: export: %w", err)
		}
		doc, err = sjson.Set(doc, prefix+"kind", string(rec.Kind))
		if err != nil {
			return "", fmt.Errorf("diag: export: %w", err)
		}
		doc, err = sjson.Set(doc, prefix+"topic", string(rec.Topic))
		if err != nil {
			return "", fmt.Errorf("diag: export: %w", err)
		}
		if rec.Source != "" {
			doc, err = sjson.Set(doc, prefix+"source", rec.Source)
			if err != nil {
				return "", fmt.Errorf("diag: export: %w", err)
			}
		}

		if with, perr := sjson.Set(doc, prefix+"payload", rec.Payload); perr == nil {
			doc = with
		} else {
			doc, err = sjson.Set(doc, prefix+"payload", fmt.Sprintf("%v", rec.Payload))
			if err != nil {
				return "", fmt.Errorf("diag: export: %w", err)
			}
		}
	}

	return doc, nil
}
