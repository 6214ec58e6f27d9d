// Package memory provides the in-process ledger store used for embedding and
// tests. All state lives behind one mutex, so each composite write is atomic
// by construction.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aerotrace-labs/aerotrace-go/domain"
)

type eventKey struct {
	component domain.ComponentID
	event     uint64
}

type Store struct {
	mu         sync.RWMutex
	admin      domain.Identity
	paused     bool
	total      uint64
	components map[domain.ComponentID]domain.ComponentRecord
	eventCount map[domain.ComponentID]uint64
	events     map[eventKey]domain.ProvenanceEvent
}

// New builds a ledger seeded with the deployment-time administrator.
func New(administrator domain.Identity) (*Store, error) {
	if administrator.IsNull() {
		return nil, errors.New("administrator is required")
	}
	return &Store{
		admin:      administrator,
		components: make(map[domain.ComponentID]domain.ComponentRecord),
		eventCount: make(map[domain.ComponentID]uint64),
		events:     make(map[eventKey]domain.ProvenanceEvent),
	}, nil
}

func (s *Store) Administrator(ctx context.Context) (domain.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.admin, nil
}

func (s *Store) SetAdministrator(ctx context.Context, admin domain.Identity) error {
	if admin.IsNull() {
		return errors.New("administrator is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admin = admin
	return nil
}

func (s *Store) Paused(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.paused, nil
}

func (s *Store) SetPaused(ctx context.Context, paused bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = paused
	return nil
}

func (s *Store) TotalComponents(ctx context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total, nil
}

func (s *Store) GetComponent(ctx context.Context, id domain.ComponentID) (domain.ComponentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.components[id]
	if !ok {
		return domain.ComponentRecord{}, domain.ErrNotRegistered
	}
	return record, nil
}

func (s *Store) HasComponent(ctx context.Context, id domain.ComponentID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.components[id]
	return ok, nil
}

func (s *Store) EventCount(ctx context.Context, id domain.ComponentID) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.eventCount[id], nil
}

func (s *Store) GetEvent(ctx context.Context, id domain.ComponentID, eventID uint64) (domain.ProvenanceEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	event, ok := s.events[eventKey{component: id, event: eventID}]
	if !ok {
		return domain.ProvenanceEvent{}, domain.ErrNotRegistered
	}
	return event, nil
}

func (s *Store) CreateComponent(ctx context.Context, record domain.ComponentRecord, event domain.ProvenanceEvent) error {
	if err := record.Validate(); err != nil {
		return err
	}
	if err := event.Validate(); err != nil {
		return err
	}
	if event.ComponentID != record.ID {
		return fmt.Errorf("event component %d does not match record %d", event.ComponentID, record.ID)
	}
	if event.EventID != 1 {
		return errors.New("registration event must be the component's first")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.components[record.ID]; ok {
		return domain.ErrAlreadyRegistered
	}
	s.components[record.ID] = record
	s.events[eventKey{component: record.ID, event: event.EventID}] = event
	s.eventCount[record.ID] = event.EventID
	if uint64(record.ID) > s.total {
		s.total = uint64(record.ID)
	}
	return nil
}

func (s *Store) UpdateComponent(ctx context.Context, record domain.ComponentRecord, event domain.ProvenanceEvent) error {
	if err := record.Validate(); err != nil {
		return err
	}
	if err := event.Validate(); err != nil {
		return err
	}
	if event.ComponentID != record.ID {
		return fmt.Errorf("event component %d does not match record %d", event.ComponentID, record.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	before, ok := s.components[record.ID]
	if !ok {
		return domain.ErrNotRegistered
	}
	if err := domain.EnsureComponentImmutable(before, record); err != nil {
		return err
	}
	if want := s.eventCount[record.ID] + 1; event.EventID != want {
		return fmt.Errorf("event id %d breaks contiguity, want %d", event.EventID, want)
	}
	s.components[record.ID] = record
	s.events[eventKey{component: record.ID, event: event.EventID}] = event
	s.eventCount[record.ID] = event.EventID
	return nil
}
