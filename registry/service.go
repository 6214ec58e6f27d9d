package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/aerotrace-labs/aerotrace-go/domain"
)

// Each mutating operation evaluates its checks in a fixed order (pause, then
// role/ownership or input per its contract, then existence) and the first
// failure rejects the whole call. Writes happen only after every check has
// passed, as one composite store commit, so a rejected call is a strict no-op.

// Register creates a component record owned by the caller and appends its
// registration event. Administrator only. Returns the assigned id, which is
// always one past the previous total.
func (s *Service) Register(ctx context.Context, op Op, serialNumber, partNumber string, manufacturer domain.Identity, metadata string) (domain.ComponentID, error) {
	if s == nil || s.store == nil {
		return 0, fmt.Errorf("registry not initialized")
	}
	if err := s.ensureActive(ctx); err != nil {
		return 0, err
	}
	if err := s.requireAdministrator(ctx, op.Caller); err != nil {
		return 0, err
	}
	if err := domain.ValidateMetadata(metadata); err != nil {
		return 0, err
	}

	total, err := s.store.TotalComponents(ctx)
	if err != nil {
		return 0, fmt.Errorf("read total components: %w", err)
	}
	id := domain.ComponentID(total + 1)

	// Unreachable while ids are allocated strictly from the counter; guards
	// against a future change to the allocation scheme.
	exists, err := s.store.HasComponent(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("check component %d: %w", id, err)
	}
	if exists {
		s.logger.Error("component id collision on allocation", "component_id", uint64(id))
		return 0, domain.ErrAlreadyRegistered
	}

	record := domain.ComponentRecord{
		ID:           id,
		SerialNumber: serialNumber,
		PartNumber:   partNumber,
		Manufacturer: manufacturer,
		Owner:        op.Caller,
		Metadata:     metadata,
		Status:       domain.StatusActive,
		CreatedAt:    op.Clock,
		LastUpdated:  op.Clock,
	}
	event := domain.ProvenanceEvent{
		ComponentID: id,
		EventID:     1,
		EventType:   domain.EventRegistered,
		Initiator:   op.Caller,
		Timestamp:   op.Clock,
		Details:     domain.RegisteredDetails{SerialNumber: serialNumber, PartNumber: partNumber},
	}
	if err := s.store.CreateComponent(ctx, record, event); err != nil {
		return 0, fmt.Errorf("create component %d: %w", id, err)
	}
	s.export(ctx, op, event)
	return id, nil
}

// TransferOwnership moves a component to a new owner. Owner only: the
// administrator has no implicit transfer right, a deliberate asymmetry from
// metadata updates.
func (s *Service) TransferOwnership(ctx context.Context, op Op, id domain.ComponentID, newOwner domain.Identity) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("registry not initialized")
	}
	if err := s.ensureActive(ctx); err != nil {
		return err
	}
	if newOwner.IsNull() {
		return domain.ErrZeroIdentity
	}
	record, err := s.getComponent(ctx, id)
	if err != nil {
		return err
	}
	if op.Caller != record.Owner {
		return domain.ErrNotOwner
	}

	record.Owner = newOwner
	record.LastUpdated = op.Clock
	return s.commitUpdate(ctx, op, record, domain.TransferredDetails{NewOwner: newOwner})
}

// UpdateMetadata replaces a component's metadata. Administrator or current
// owner.
func (s *Service) UpdateMetadata(ctx context.Context, op Op, id domain.ComponentID, metadata string) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("registry not initialized")
	}
	if err := s.ensureActive(ctx); err != nil {
		return err
	}
	if err := domain.ValidateMetadata(metadata); err != nil {
		return err
	}
	record, err := s.getComponent(ctx, id)
	if err != nil {
		return err
	}
	isAdmin, err := s.IsAdministrator(ctx, op.Caller)
	if err != nil {
		return err
	}
	if !isAdmin && op.Caller != record.Owner {
		return domain.ErrUnauthorized
	}

	record.Metadata = metadata
	record.LastUpdated = op.Clock
	return s.commitUpdate(ctx, op, record, domain.MetadataUpdatedDetails{Metadata: metadata})
}

// UpdateStatus replaces a component's lifecycle tag. Administrator only: the
// owner has no status-change right, since status reflects a maintenance
// authority decision rather than ownership.
func (s *Service) UpdateStatus(ctx context.Context, op Op, id domain.ComponentID, status string) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("registry not initialized")
	}
	if err := s.ensureActive(ctx); err != nil {
		return err
	}
	if err := s.requireAdministrator(ctx, op.Caller); err != nil {
		return err
	}
	record, err := s.getComponent(ctx, id)
	if err != nil {
		return err
	}

	record.Status = status
	record.LastUpdated = op.Clock
	return s.commitUpdate(ctx, op, record, domain.StatusUpdatedDetails{Status: status})
}

// Component returns a record by id. Read access is public; no gate applies.
func (s *Service) Component(ctx context.Context, id domain.ComponentID) (domain.ComponentRecord, error) {
	if s == nil || s.store == nil {
		return domain.ComponentRecord{}, fmt.Errorf("registry not initialized")
	}
	return s.getComponent(ctx, id)
}

// TotalComponents returns the number of successful registrations so far,
// which is also the most recently assigned identifier.
func (s *Service) TotalComponents(ctx context.Context) (uint64, error) {
	if s == nil || s.store == nil {
		return 0, fmt.Errorf("registry not initialized")
	}
	return s.store.TotalComponents(ctx)
}

func (s *Service) getComponent(ctx context.Context, id domain.ComponentID) (domain.ComponentRecord, error) {
	record, err := s.store.GetComponent(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotRegistered) {
			return domain.ComponentRecord{}, domain.ErrNotRegistered
		}
		return domain.ComponentRecord{}, fmt.Errorf("get component %d: %w", id, err)
	}
	return record, nil
}

// commitUpdate appends the mutation's provenance entry and persists the
// mutated record in one atomic store step, then mirrors the entry to the
// exporter.
func (s *Service) commitUpdate(ctx context.Context, op Op, record domain.ComponentRecord, details domain.EventDetails) error {
	event, err := s.nextEvent(ctx, op, record.ID, details)
	if err != nil {
		return err
	}
	if err := s.store.UpdateComponent(ctx, record, event); err != nil {
		return fmt.Errorf("update component %d: %w", record.ID, err)
	}
	s.export(ctx, op, event)
	return nil
}
