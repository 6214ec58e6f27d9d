package provexport

import (
	"context"
	"encoding/json"
	"io"
)

// NDJSONExporter writes provenance entries as newline-delimited JSON.
type NDJSONExporter struct {
	enc *json.Encoder
}

func NewNDJSONExporter(w io.Writer) *NDJSONExporter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	return &NDJSONExporter{enc: enc}
}

func (e *NDJSONExporter) Export(ctx context.Context, entry Entry) error {
	record, err := recordFromEntry(entry)
	if err != nil {
		return err
	}
	return e.enc.Encode(record)
}
