package registry

import (
	"context"
	"fmt"

	"github.com/aerotrace-labs/aerotrace-go/domain"
	"github.com/aerotrace-labs/aerotrace-go/provexport"
)

// Provenance returns one entry of a component's history. Both an unknown
// component and an out-of-range event id reject with NotRegistered.
func (s *Service) Provenance(ctx context.Context, id domain.ComponentID, eventID uint64) (domain.ProvenanceEvent, error) {
	if s == nil || s.store == nil {
		return domain.ProvenanceEvent{}, fmt.Errorf("registry not initialized")
	}
	return s.store.GetEvent(ctx, id, eventID)
}

// EventCount returns the number of recorded provenance entries for a
// component. Absence is zero: a component with no events, including one that
// was never registered, reports 0 rather than a not-found error.
func (s *Service) EventCount(ctx context.Context, id domain.ComponentID) (uint64, error) {
	if s == nil || s.store == nil {
		return 0, fmt.Errorf("registry not initialized")
	}
	return s.store.EventCount(ctx, id)
}

// nextEvent allocates the component's next contiguous event id and builds the
// entry for the in-flight mutation.
func (s *Service) nextEvent(ctx context.Context, op Op, id domain.ComponentID, details domain.EventDetails) (domain.ProvenanceEvent, error) {
	count, err := s.store.EventCount(ctx, id)
	if err != nil {
		return domain.ProvenanceEvent{}, fmt.Errorf("read event count for component %d: %w", id, err)
	}
	return domain.ProvenanceEvent{
		ComponentID: id,
		EventID:     count + 1,
		EventType:   details.EventType(),
		Initiator:   op.Caller,
		Timestamp:   op.Clock,
		Details:     details,
	}, nil
}

// export mirrors a committed entry to the configured exporter. The commit
// already happened, so failures are logged and never fail the operation.
func (s *Service) export(ctx context.Context, op Op, event domain.ProvenanceEvent) {
	requestID := op.RequestID
	if requestID == "" {
		requestID = s.newRequestID()
	}
	entry := provexport.Entry{Event: event, RequestID: requestID}
	if err := s.exporter.Export(ctx, entry); err != nil {
		s.logger.Warn("provenance export failed",
			"component_id", uint64(event.ComponentID),
			"event_id", event.EventID,
			"request_id", requestID,
			"error", err,
		)
	}
}
