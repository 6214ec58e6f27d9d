package provexport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
)

// ObjectStoreExporter archives each provenance entry as one JSON object in an
// object-store bucket, keyed by component and event id so the archive layout
// mirrors the ledger's (componentId, eventId) keying.
type ObjectStoreExporter struct {
	client *minio.Client
	bucket string
	prefix string
}

func NewObjectStoreExporter(client *minio.Client, bucket, prefix string) (*ObjectStoreExporter, error) {
	if client == nil {
		return nil, errors.New("object store client is required")
	}
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, errors.New("bucket is required")
	}
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	return &ObjectStoreExporter{client: client, bucket: bucket, prefix: prefix}, nil
}

func (e *ObjectStoreExporter) Export(ctx context.Context, entry Entry) error {
	if e == nil || e.client == nil {
		return errors.New("object store exporter not initialized")
	}
	record, err := recordFromEntry(entry)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal export record: %w", err)
	}
	key := e.objectKey(record.ComponentID, record.EventID)
	_, err = e.client.PutObject(ctx, e.bucket, key, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (e *ObjectStoreExporter) objectKey(componentID, eventID uint64) string {
	key := fmt.Sprintf("components/%d/events/%d.json", componentID, eventID)
	if e.prefix != "" {
		return e.prefix + "/" + key
	}
	return key
}
