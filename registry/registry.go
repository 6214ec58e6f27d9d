// Package registry implements the component registry state machine: an
// access-controlled table of aircraft component records where every mutation
// is mirrored into an append-only, per-component provenance log.
package registry

import (
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/aerotrace-labs/aerotrace-go/domain"
	"github.com/aerotrace-labs/aerotrace-go/provexport"
)

// Op is the host-supplied envelope of a single operation: the authenticated
// caller, the external logical clock value shared by operations at the same
// serialization point, and an optional request id used to correlate exported
// provenance records. An empty RequestID is filled in by the service.
type Op struct {
	Caller    domain.Identity
	Clock     domain.LogicalTime
	RequestID string
}

// Service orchestrates the access controller, the component table and the
// provenance log over a single Store. All process-wide state lives in the
// store; the service itself holds no mutable registry state.
type Service struct {
	store        Store
	exporter     provexport.Exporter
	logger       *slog.Logger
	newRequestID func() string
}

// New builds a registry service over the given ledger store. The exporter
// observes committed provenance entries and may be nil; a nil logger
// discards.
func New(store Store, exporter provexport.Exporter, logger *slog.Logger) *Service {
	if store == nil {
		return nil
	}
	if exporter == nil {
		exporter = provexport.NoopExporter{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		store:        store,
		exporter:     exporter,
		logger:       logger,
		newRequestID: uuid.NewString,
	}
}
