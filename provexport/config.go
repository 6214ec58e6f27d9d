package provexport

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aerotrace-labs/aerotrace-go/internal/platform/env"
	"github.com/aerotrace-labs/aerotrace-go/internal/platform/objectstore"
)

// Config controls provenance export format and destination.
type Config struct {
	Format      string
	Destination string
	Prefix      string
}

const (
	DestinationNone        = "none"
	DestinationStdout      = "stdout"
	DestinationObjectStore = "objectstore"
)

func ConfigFromEnv() (Config, error) {
	cfg := Config{
		Format:      env.String("AEROTRACE_PROVENANCE_EXPORT_FORMAT", "ndjson"),
		Destination: env.String("AEROTRACE_PROVENANCE_EXPORT_DESTINATION", DestinationNone),
		Prefix:      env.String("AEROTRACE_PROVENANCE_EXPORT_PREFIX", ""),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	format := strings.ToLower(strings.TrimSpace(c.Format))
	if format == "" {
		format = "ndjson"
	}
	if format != "ndjson" {
		return fmt.Errorf("unsupported provenance export format: %s", c.Format)
	}
	switch strings.ToLower(strings.TrimSpace(c.Destination)) {
	case "", DestinationNone, DestinationStdout, DestinationObjectStore:
		return nil
	default:
		return fmt.Errorf("unsupported provenance export destination: %s", c.Destination)
	}
}

// NewExporterFromEnv builds the exporter the environment selects. For the
// object-store destination it also constructs the client from
// AEROTRACE_OBJECTSTORE_* settings and ensures the archive bucket exists.
func NewExporterFromEnv(ctx context.Context) (Exporter, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Destination)) {
	case "", DestinationNone:
		return NoopExporter{}, nil
	case DestinationStdout:
		return NewNDJSONExporter(os.Stdout), nil
	case DestinationObjectStore:
		storeCfg, err := objectstore.ConfigFromEnv()
		if err != nil {
			return nil, err
		}
		client, err := objectstore.NewClient(storeCfg)
		if err != nil {
			return nil, fmt.Errorf("object store client: %w", err)
		}
		if err := objectstore.EnsureBucket(ctx, client, storeCfg); err != nil {
			return nil, fmt.Errorf("object store bucket: %w", err)
		}
		return NewObjectStoreExporter(client, storeCfg.Bucket, cfg.Prefix)
	default:
		return nil, fmt.Errorf("unsupported provenance export destination: %s", cfg.Destination)
	}
}
