package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/aerotrace-labs/aerotrace-go/domain"
)

func newPopulatedStore(t *testing.T) *Store {
	t.Helper()
	store, err := New("authority-1")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.CreateComponent(context.Background(), testRecord(), testRegisteredEvent()); err != nil {
		t.Fatalf("create component: %v", err)
	}
	return store
}

func testRecord() domain.ComponentRecord {
	return domain.ComponentRecord{
		ID:           1,
		SerialNumber: "SN-1",
		PartNumber:   "PN-1",
		Manufacturer: "mfg-9",
		Owner:        "authority-1",
		Metadata:     `{}`,
		Status:       domain.StatusActive,
		CreatedAt:    1,
		LastUpdated:  1,
	}
}

func testRegisteredEvent() domain.ProvenanceEvent {
	return domain.ProvenanceEvent{
		ComponentID: 1,
		EventID:     1,
		EventType:   domain.EventRegistered,
		Initiator:   "authority-1",
		Timestamp:   1,
		Details:     domain.RegisteredDetails{SerialNumber: "SN-1", PartNumber: "PN-1"},
	}
}

func TestNewRequiresAdministrator(t *testing.T) {
	if _, err := New(domain.NullIdentity); err == nil {
		t.Fatalf("expected error for null administrator")
	}
}

func TestCreateComponentSeedsCounters(t *testing.T) {
	ctx := context.Background()
	store := newPopulatedStore(t)

	total, err := store.TotalComponents(ctx)
	if err != nil {
		t.Fatalf("total components: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected total 1, got %d", total)
	}
	count, err := store.EventCount(ctx, 1)
	if err != nil {
		t.Fatalf("event count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected event count 1, got %d", count)
	}
}

func TestCreateComponentRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	store := newPopulatedStore(t)
	err := store.CreateComponent(ctx, testRecord(), testRegisteredEvent())
	if !errors.Is(err, domain.ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}
}

func TestUpdateComponentEnforcesContiguity(t *testing.T) {
	ctx := context.Background()
	store := newPopulatedStore(t)

	record := testRecord()
	record.Status = "retired"
	record.LastUpdated = 2
	event := domain.ProvenanceEvent{
		ComponentID: 1,
		EventID:     3, // skips 2
		EventType:   domain.EventStatusUpdated,
		Initiator:   "authority-1",
		Timestamp:   2,
		Details:     domain.StatusUpdatedDetails{Status: "retired"},
	}
	if err := store.UpdateComponent(ctx, record, event); err == nil {
		t.Fatalf("expected contiguity violation to be rejected")
	}

	// The rejected write left both halves untouched.
	got, err := store.GetComponent(ctx, 1)
	if err != nil {
		t.Fatalf("get component: %v", err)
	}
	if got.Status != domain.StatusActive {
		t.Fatalf("record mutated by rejected write: %q", got.Status)
	}
	count, err := store.EventCount(ctx, 1)
	if err != nil {
		t.Fatalf("event count: %v", err)
	}
	if count != 1 {
		t.Fatalf("event counter mutated by rejected write: %d", count)
	}

	event.EventID = 2
	if err := store.UpdateComponent(ctx, record, event); err != nil {
		t.Fatalf("contiguous update: %v", err)
	}
}

func TestUpdateComponentProtectsImmutableFields(t *testing.T) {
	ctx := context.Background()
	store := newPopulatedStore(t)

	record := testRecord()
	record.SerialNumber = "SN-FORGED"
	record.LastUpdated = 2
	event := domain.ProvenanceEvent{
		ComponentID: 1,
		EventID:     2,
		EventType:   domain.EventMetadataUpdated,
		Initiator:   "authority-1",
		Timestamp:   2,
		Details:     domain.MetadataUpdatedDetails{Metadata: `{}`},
	}
	if err := store.UpdateComponent(ctx, record, event); err == nil {
		t.Fatalf("expected serial number change to be rejected")
	}
}

func TestUpdateComponentUnknownComponent(t *testing.T) {
	ctx := context.Background()
	store := newPopulatedStore(t)

	record := testRecord()
	record.ID = 42
	event := testRegisteredEvent()
	event.ComponentID = 42
	event.EventType = domain.EventStatusUpdated
	event.Details = domain.StatusUpdatedDetails{Status: "retired"}
	err := store.UpdateComponent(ctx, record, event)
	if !errors.Is(err, domain.ErrNotRegistered) {
		t.Fatalf("expected ErrNotRegistered, got %v", err)
	}
}

func TestEventCountAbsenceIsZero(t *testing.T) {
	ctx := context.Background()
	store, err := New("authority-1")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	count, err := store.EventCount(ctx, 42)
	if err != nil {
		t.Fatalf("event count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 for unknown component, got %d", count)
	}
}

func TestGetEventUnknownKeys(t *testing.T) {
	ctx := context.Background()
	store := newPopulatedStore(t)
	for _, eventID := range []uint64{0, 2} {
		if _, err := store.GetEvent(ctx, 1, eventID); !errors.Is(err, domain.ErrNotRegistered) {
			t.Fatalf("expected ErrNotRegistered for event %d, got %v", eventID, err)
		}
	}
	if _, err := store.GetComponent(ctx, 42); !errors.Is(err, domain.ErrNotRegistered) {
		t.Fatalf("expected ErrNotRegistered for unknown component, got %v", err)
	}
}
