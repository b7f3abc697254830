package record

import (
	"encoding/json"
	"fmt"
)

// Doc wraps a typed payload view over the raw JSON document it was decoded
// from. Marshaling re-emits the original bytes, so fields the typed view
// does not know about are preserved verbatim.
type Doc[P any] struct {
	Known P
	raw   json.RawMessage
}

// NewDoc builds a Doc from a typed payload. With no raw form on record,
// marshaling falls back to the typed view.
func NewDoc[P any](p P) Doc[P] {
	return Doc[P]{Known: p}
}

// Raw returns the document bytes as decoded, or nil for a Doc built from a
// typed payload.
func (d Doc[P]) Raw() json.RawMessage {
	return d.raw
}

func (d *Doc[P]) UnmarshalJSON(data []byte) error {
	var known P
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	d.Known = known
	d.raw = append(d.raw[:0:0], data...)
	return nil
}

func (d Doc[P]) MarshalJSON() ([]byte, error) {
	if d.raw != nil {
		return d.raw, nil
	}
	return json.Marshal(d.Known)
}

// Record is the shared envelope carried by every entity kind except
// object_metadata: the fixed columns plus the kind-specific payload.
// A status of "deleted" or "archived" marks a tombstone.
type Record[P any] struct {
	ID         string  `json:"id"`
	TenantID   string  `json:"tenant_id"`
	ObjectName string  `json:"object_name"`
	ObjectType string  `json:"object_type"`
	Status     string  `json:"status"`
	Data       Doc[P]  `json:"data"`
	Version    int64   `json:"version"`
	CreatedBy  *string `json:"created_by"`
	ModifiedBy *string `json:"modified_by"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

// Tombstoned reports whether the record's status marks it for client-side
// removal.
func (r Record[P]) Tombstoned() bool {
	return r.Status == "deleted" || r.Status == "archived"
}

// MetadataRecord is the reduced envelope of object_metadata rows, which
// carry no object_type or status columns.
type MetadataRecord struct {
	ID         string                     `json:"id"`
	TenantID   string                     `json:"tenant_id"`
	ObjectName string                     `json:"object_name"`
	Data       Doc[ObjectMetadataPayload] `json:"data"`
	Version    int64                      `json:"version"`
	CreatedBy  *string                    `json:"created_by"`
	ModifiedBy *string                    `json:"modified_by"`
	CreatedAt  string                     `json:"created_at"`
	UpdatedAt  string                     `json:"updated_at"`
}

// Row is the raw stored tuple of one entity table row, before payload
// decoding. Reduced kinds leave ObjectType and Status empty.
type Row struct {
	ID         string
	TenantID   string
	ObjectName string
	ObjectType string
	Status     string
	Data       []byte
	Version    int64
	CreatedBy  *string
	ModifiedBy *string
	CreatedAt  string
	UpdatedAt  string
}

// CodecError reports a payload that failed to decode, tagged with the row
// it came from.
type CodecError struct {
	Kind string
	ID   string
	Err  error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("decode %s record %q: %v", e.Kind, e.ID, e.Err)
}

func (e *CodecError) Unwrap() error {
	return e.Err
}
