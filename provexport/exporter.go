// Package provexport mirrors committed provenance entries to external sinks.
// Export happens after the ledger commit; a failed export never unwinds the
// operation that produced the entry.
package provexport

import (
	"context"
	"encoding/json"

	"github.com/aerotrace-labs/aerotrace-go/domain"
)

// Entry is a committed provenance event plus its correlation id.
type Entry struct {
	Event     domain.ProvenanceEvent
	RequestID string
}

// Exporter sends provenance entries to external systems.
type Exporter interface {
	Export(ctx context.Context, entry Entry) error
}

// NoopExporter drops every entry.
type NoopExporter struct{}

func (NoopExporter) Export(ctx context.Context, entry Entry) error {
	return nil
}

type exportRecord struct {
	ComponentID uint64          `json:"component_id"`
	EventID     uint64          `json:"event_id"`
	EventType   string          `json:"event_type"`
	Initiator   string          `json:"initiator"`
	Timestamp   uint64          `json:"timestamp"`
	Details     json.RawMessage `json:"details"`
	RequestID   string          `json:"request_id,omitempty"`
}

func recordFromEntry(entry Entry) (exportRecord, error) {
	details, err := domain.MarshalDetails(entry.Event.Details)
	if err != nil {
		return exportRecord{}, err
	}
	return exportRecord{
		ComponentID: uint64(entry.Event.ComponentID),
		EventID:     entry.Event.EventID,
		EventType:   string(entry.Event.EventType),
		Initiator:   string(entry.Event.Initiator),
		Timestamp:   uint64(entry.Event.Timestamp),
		Details:     details,
		RequestID:   entry.RequestID,
	}, nil
}
