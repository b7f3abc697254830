package chain

import "encoding/json"

// Overlay is one client-produced change in a POST /sync batch: an intent to
// create or mutate a single domain record, pre-linked by the client into its
// local view of the tenant chain.
type Overlay struct {
	ID                string          `json:"id"`
	TenantID          string          `json:"tenant_id"`
	ObjectID          string          `json:"object_id"`
	ObjectName        string          `json:"object_name"`
	Changes           json.RawMessage `json:"changes"`
	CreatedAt         string          `json:"created_at"`
	StateHash         string          `json:"state_hash"`
	PreviousStateHash string          `json:"previous_state_hash"`
}

// Entry is one committed change-log row. ChangeData holds the canonical JSON
// string exactly as hashed; entries are immutable once committed.
// JSON (de)serialization goes through the wire shape below.
type Entry struct {
	SequenceID        int64
	ID                string
	TenantID          string
	UserID            string
	ObjectName        string
	RecordID          string
	ChangeData        string
	StateHash         string
	PreviousStateHash string
	CreatedAt         string
}

// ComputeStateHash recomputes the entry's state hash from its stored fields.
// For an intact entry this reproduces the persisted StateHash.
func (e Entry) ComputeStateHash() string {
	content := ContentHash(e.ID, e.TenantID, e.UserID, e.CreatedAt, e.ObjectName, e.RecordID, []byte(e.ChangeData))
	return StateHash(content, e.PreviousStateHash)
}

// entryJSON is the wire shape of an entry on GET /sync/v2: change_data goes
// out as the parsed JSON document, not a string.
type entryJSON struct {
	SequenceID        int64           `json:"sequence_id"`
	ID                string          `json:"id"`
	TenantID          string          `json:"tenant_id"`
	UserID            string          `json:"user_id"`
	ObjectName        string          `json:"object_name"`
	RecordID          string          `json:"record_id"`
	ChangeData        json.RawMessage `json:"change_data"`
	StateHash         string          `json:"state_hash"`
	PreviousStateHash string          `json:"previous_state_hash"`
	CreatedAt         string          `json:"created_at"`
}

// MarshalJSON emits ChangeData as raw JSON. The stored text is canonical and
// therefore already valid.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(entryJSON{
		SequenceID:        e.SequenceID,
		ID:                e.ID,
		TenantID:          e.TenantID,
		UserID:            e.UserID,
		ObjectName:        e.ObjectName,
		RecordID:          e.RecordID,
		ChangeData:        json.RawMessage(e.ChangeData),
		StateHash:         e.StateHash,
		PreviousStateHash: e.PreviousStateHash,
		CreatedAt:         e.CreatedAt,
	})
}

// UnmarshalJSON accepts the wire shape and restores ChangeData to its string
// form.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var w entryJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*e = Entry{
		SequenceID:        w.SequenceID,
		ID:                w.ID,
		TenantID:          w.TenantID,
		UserID:            w.UserID,
		ObjectName:        w.ObjectName,
		RecordID:          w.RecordID,
		ChangeData:        string(w.ChangeData),
		StateHash:         w.StateHash,
		PreviousStateHash: w.PreviousStateHash,
		CreatedAt:         w.CreatedAt,
	}
	return nil
}
