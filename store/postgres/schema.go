package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aerotrace-labs/aerotrace-go/domain"
)

// Schema is the ledger layout: one control row, the component table carrying
// each component's event counter, and the provenance table keyed by
// (component_id, event_id).
const Schema = `
CREATE TABLE IF NOT EXISTS registry_control (
	control_id       SMALLINT PRIMARY KEY CHECK (control_id = 1),
	administrator    TEXT NOT NULL,
	paused           BOOLEAN NOT NULL DEFAULT FALSE,
	total_components BIGINT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS components (
	component_id  BIGINT PRIMARY KEY,
	serial_number TEXT NOT NULL,
	part_number   TEXT NOT NULL,
	manufacturer  TEXT NOT NULL,
	owner         TEXT NOT NULL,
	metadata      TEXT NOT NULL,
	status        TEXT NOT NULL,
	created_at    BIGINT NOT NULL,
	last_updated  BIGINT NOT NULL,
	event_count   BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS component_events (
	component_id BIGINT NOT NULL REFERENCES components (component_id),
	event_id     BIGINT NOT NULL,
	event_type   TEXT NOT NULL,
	initiator    TEXT NOT NULL,
	logical_time BIGINT NOT NULL,
	details      JSONB NOT NULL,
	PRIMARY KEY (component_id, event_id)
);
`

// EnsureSchema creates the tables when missing and seeds the control row with
// the deployment-time administrator. An existing control row is left alone.
func EnsureSchema(ctx context.Context, db *sql.DB, administrator domain.Identity) error {
	if db == nil {
		return errors.New("db is required")
	}
	if administrator.IsNull() {
		return errors.New("administrator is required")
	}
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO registry_control (control_id, administrator, paused, total_components)
		 VALUES (1, $1, FALSE, 0)
		 ON CONFLICT (control_id) DO NOTHING`,
		string(administrator),
	)
	if err != nil {
		return fmt.Errorf("seed control row: %w", err)
	}
	return nil
}
