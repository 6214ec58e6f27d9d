// Package postgres provides the durable ledger adapter. Each composite write
// runs in one SQL transaction, keeping the component table, the per-component
// event counter and the provenance table in lockstep.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/aerotrace-labs/aerotrace-go/domain"
)

const pgUniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	if db == nil {
		return nil
	}
	return &Store{db: db}
}

func (s *Store) Administrator(ctx context.Context) (domain.Identity, error) {
	if s == nil || s.db == nil {
		return domain.NullIdentity, errors.New("store not initialized")
	}
	var admin string
	err := s.db.QueryRowContext(ctx,
		`SELECT administrator FROM registry_control WHERE control_id = 1`,
	).Scan(&admin)
	if err != nil {
		return domain.NullIdentity, fmt.Errorf("read administrator: %w", err)
	}
	return domain.Identity(admin), nil
}

func (s *Store) SetAdministrator(ctx context.Context, admin domain.Identity) error {
	if s == nil || s.db == nil {
		return errors.New("store not initialized")
	}
	if admin.IsNull() {
		return errors.New("administrator is required")
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE registry_control SET administrator = $1 WHERE control_id = 1`,
		string(admin),
	)
	if err != nil {
		return fmt.Errorf("set administrator: %w", err)
	}
	return nil
}

func (s *Store) Paused(ctx context.Context) (bool, error) {
	if s == nil || s.db == nil {
		return false, errors.New("store not initialized")
	}
	var paused bool
	err := s.db.QueryRowContext(ctx,
		`SELECT paused FROM registry_control WHERE control_id = 1`,
	).Scan(&paused)
	if err != nil {
		return false, fmt.Errorf("read pause flag: %w", err)
	}
	return paused, nil
}

func (s *Store) SetPaused(ctx context.Context, paused bool) error {
	if s == nil || s.db == nil {
		return errors.New("store not initialized")
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE registry_control SET paused = $1 WHERE control_id = 1`,
		paused,
	)
	if err != nil {
		return fmt.Errorf("set paused: %w", err)
	}
	return nil
}

func (s *Store) TotalComponents(ctx context.Context) (uint64, error) {
	if s == nil || s.db == nil {
		return 0, errors.New("store not initialized")
	}
	var total int64
	err := s.db.QueryRowContext(ctx,
		`SELECT total_components FROM registry_control WHERE control_id = 1`,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("read total components: %w", err)
	}
	return uint64(total), nil
}

func (s *Store) GetComponent(ctx context.Context, id domain.ComponentID) (domain.ComponentRecord, error) {
	if s == nil || s.db == nil {
		return domain.ComponentRecord{}, errors.New("store not initialized")
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT component_id, serial_number, part_number, manufacturer, owner, metadata, status, created_at, last_updated
		 FROM components
		 WHERE component_id = $1`,
		int64(id),
	)
	return scanComponent(row)
}

func (s *Store) HasComponent(ctx context.Context, id domain.ComponentID) (bool, error) {
	if s == nil || s.db == nil {
		return false, errors.New("store not initialized")
	}
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM components WHERE component_id = $1)`,
		int64(id),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check component: %w", err)
	}
	return exists, nil
}

func (s *Store) EventCount(ctx context.Context, id domain.ComponentID) (uint64, error) {
	if s == nil || s.db == nil {
		return 0, errors.New("store not initialized")
	}
	// Absence is zero: unknown components report an empty history.
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE((SELECT event_count FROM components WHERE component_id = $1), 0)`,
		int64(id),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("read event count: %w", err)
	}
	return uint64(count), nil
}

func (s *Store) GetEvent(ctx context.Context, id domain.ComponentID, eventID uint64) (domain.ProvenanceEvent, error) {
	if s == nil || s.db == nil {
		return domain.ProvenanceEvent{}, errors.New("store not initialized")
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT component_id, event_id, event_type, initiator, logical_time, details
		 FROM component_events
		 WHERE component_id = $1 AND event_id = $2`,
		int64(id), int64(eventID),
	)
	return scanEvent(row)
}

func (s *Store) CreateComponent(ctx context.Context, record domain.ComponentRecord, event domain.ProvenanceEvent) error {
	if s == nil || s.db == nil {
		return errors.New("store not initialized")
	}
	if err := record.Validate(); err != nil {
		return err
	}
	if err := event.Validate(); err != nil {
		return err
	}
	if event.ComponentID != record.ID || event.EventID != 1 {
		return errors.New("registration event must be the component's first")
	}
	detailsJSON, err := domain.MarshalDetails(event.Details)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO components (
			component_id,
			serial_number,
			part_number,
			manufacturer,
			owner,
			metadata,
			status,
			created_at,
			last_updated,
			event_count
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		int64(record.ID),
		record.SerialNumber,
		record.PartNumber,
		string(record.Manufacturer),
		string(record.Owner),
		record.Metadata,
		record.Status,
		int64(record.CreatedAt),
		int64(record.LastUpdated),
		int64(event.EventID),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyRegistered
		}
		return fmt.Errorf("insert component: %w", err)
	}

	if err := insertEvent(ctx, tx, event, detailsJSON); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE registry_control SET total_components = GREATEST(total_components, $1) WHERE control_id = 1`,
		int64(record.ID),
	)
	if err != nil {
		return fmt.Errorf("advance total components: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Store) UpdateComponent(ctx context.Context, record domain.ComponentRecord, event domain.ProvenanceEvent) error {
	if s == nil || s.db == nil {
		return errors.New("store not initialized")
	}
	if err := record.Validate(); err != nil {
		return err
	}
	if err := event.Validate(); err != nil {
		return err
	}
	if event.ComponentID != record.ID {
		return fmt.Errorf("event component %d does not match record %d", event.ComponentID, record.ID)
	}
	detailsJSON, err := domain.MarshalDetails(event.Details)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// The event_count predicate enforces contiguity: the write only lands if
	// this entry is exactly one past the persisted counter.
	res, err := tx.ExecContext(ctx,
		`UPDATE components
		 SET owner = $2, metadata = $3, status = $4, last_updated = $5, event_count = $6
		 WHERE component_id = $1 AND event_count = $6 - 1`,
		int64(record.ID),
		string(record.Owner),
		record.Metadata,
		record.Status,
		int64(record.LastUpdated),
		int64(event.EventID),
	)
	if err != nil {
		return fmt.Errorf("update component: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update component: %w", err)
	}
	if affected == 0 {
		exists, err := s.HasComponent(ctx, record.ID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotRegistered
		}
		return fmt.Errorf("event id %d breaks contiguity for component %d", event.EventID, record.ID)
	}

	if err := insertEvent(ctx, tx, event, detailsJSON); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertEvent(ctx context.Context, tx *sql.Tx, event domain.ProvenanceEvent, detailsJSON []byte) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO component_events (
			component_id,
			event_id,
			event_type,
			initiator,
			logical_time,
			details
		) VALUES ($1,$2,$3,$4,$5,$6)`,
		int64(event.ComponentID),
		int64(event.EventID),
		string(event.EventType),
		string(event.Initiator),
		int64(event.Timestamp),
		detailsJSON,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComponent(row rowScanner) (domain.ComponentRecord, error) {
	var record domain.ComponentRecord
	var id, createdAt, lastUpdated int64
	var manufacturer, owner string
	err := row.Scan(&id, &record.SerialNumber, &record.PartNumber, &manufacturer, &owner, &record.Metadata, &record.Status, &createdAt, &lastUpdated)
	if err != nil {
		return domain.ComponentRecord{}, handleNotFound(err)
	}
	record.ID = domain.ComponentID(id)
	record.Manufacturer = domain.Identity(manufacturer)
	record.Owner = domain.Identity(owner)
	record.CreatedAt = domain.LogicalTime(createdAt)
	record.LastUpdated = domain.LogicalTime(lastUpdated)
	return record, nil
}

func scanEvent(row rowScanner) (domain.ProvenanceEvent, error) {
	var event domain.ProvenanceEvent
	var componentID, eventID, logicalTime int64
	var eventType, initiator string
	var detailsJSON []byte
	err := row.Scan(&componentID, &eventID, &eventType, &initiator, &logicalTime, &detailsJSON)
	if err != nil {
		return domain.ProvenanceEvent{}, handleNotFound(err)
	}
	event.ComponentID = domain.ComponentID(componentID)
	event.EventID = uint64(eventID)
	event.EventType = domain.EventType(eventType)
	event.Initiator = domain.Identity(initiator)
	event.Timestamp = domain.LogicalTime(logicalTime)
	details, err := domain.UnmarshalDetails(event.EventType, detailsJSON)
	if err != nil {
		return domain.ProvenanceEvent{}, fmt.Errorf("decode details: %w", err)
	}
	event.Details = details
	return event, nil
}

func handleNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotRegistered
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
