package models

import (
	"encoding/json"
	"fmt"

	"github.com/notenexus/notenexus/internal/common"
)

// SnapshotSchemaVersion is the shape version written with every persisted
// snapshot record. Readers reject anything else; there is no silent
// forward/backward compatibility.
const SnapshotSchemaVersion = 1

// RecordKind discriminates envelope payloads.
type RecordKind string

const (
	KindProfile  RecordKind = "profile"
	KindCatalog  RecordKind = "catalog"
	KindAdConfig RecordKind = "adconfig"
)

// Envelope wraps a persisted record with its schema version and kind.
type Envelope struct {
	SchemaVersion int             `json:"schemaVersion"`
	Kind          RecordKind      `json:"kind"`
	Data          json.RawMessage `json:"data"`
}

// WrapRecord marshals v into a current-version envelope.
func WrapRecord(kind RecordKind, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s record: %w", kind, err)
	}
	return json.Marshal(Envelope{SchemaVersion: SnapshotSchemaVersion, Kind: kind, Data: data})
}

// UnwrapRecord decodes an envelope produced by WrapRecord into v. Records
// with a different schema version or kind fail with ErrSchemaVersion.
func UnwrapRecord(raw []byte, kind RecordKind, v any) error {
	var e Envelope
	if err := json.Unmarshal(raw, &e); err != nil {
		return fmt.Errorf("failed to unmarshal envelope: %w", err)
	}
	if e.SchemaVersion != SnapshotSchemaVersion || e.Kind != kind {
		return fmt.Errorf("%w: got version %d kind %q, want version %d kind %q",
			common.ErrSchemaVersion, e.SchemaVersion, e.Kind, SnapshotSchemaVersion, kind)
	}
	return json.Unmarshal(e.Data, v)
}
