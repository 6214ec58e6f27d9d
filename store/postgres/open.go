package postgres

import (
	"context"
	"database/sql"

	platform "github.com/aerotrace-labs/aerotrace-go/internal/platform/postgres"
)

// OpenFromEnv opens the ledger database described by the
// AEROTRACE_DATABASE_* settings.
func OpenFromEnv(ctx context.Context) (*sql.DB, error) {
	cfg, err := platform.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return platform.Open(ctx, cfg)
}
