package registry

import (
	"context"

	"github.com/aerotrace-labs/aerotrace-go/domain"
)

// Store is the host-environment ledger the registry reads and mutates. The
// two composite writes must be atomic: either the record, its provenance
// entry and the counter bookkeeping all commit, or none of it does, so no
// operation can observe the component table and the provenance log diverged.
//
// Lookups return domain.ErrNotRegistered (possibly wrapped) for absent
// components and events. EventCount returns 0 for components with no recorded
// events, including components that do not exist.
type Store interface {
	Administrator(ctx context.Context) (domain.Identity, error)
	SetAdministrator(ctx context.Context, admin domain.Identity) error

	Paused(ctx context.Context) (bool, error)
	SetPaused(ctx context.Context, paused bool) error

	TotalComponents(ctx context.Context) (uint64, error)
	GetComponent(ctx context.Context, id domain.ComponentID) (domain.ComponentRecord, error)
	HasComponent(ctx context.Context, id domain.ComponentID) (bool, error)

	EventCount(ctx context.Context, id domain.ComponentID) (uint64, error)
	GetEvent(ctx context.Context, id domain.ComponentID, eventID uint64) (domain.ProvenanceEvent, error)

	// CreateComponent commits a new record together with its registration
	// event, seeds the component's event counter from the event id and
	// advances the total-components counter to the record's id.
	CreateComponent(ctx context.Context, record domain.ComponentRecord, event domain.ProvenanceEvent) error

	// UpdateComponent commits a mutated record together with its next
	// provenance entry and persists the bumped event counter. The event id
	// must be exactly one past the component's current counter.
	UpdateComponent(ctx context.Context, record domain.ComponentRecord, event domain.ProvenanceEvent) error
}
