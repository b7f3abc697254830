package store

import (
	"context"
	"fmt"

	"github.com/kestrelops/fieldsync/internal/canonical"
	"github.com/kestrelops/fieldsync/internal/chain"
)

// IngestResult summarizes one committed batch.
type IngestResult struct {
	// Applied counts overlays appended to the chain and folded into
	// domain state.
	Applied int

	// Skipped counts overlays whose object_name is outside the ingest
	// scope. Skipped overlays neither extend the chain nor get validated
	// against it.
	Skipped int
}

// IngestBatch commits a batch of client overlays in one transaction.
//
// A batch belongs to exactly one tenant: the tenant of the first overlay.
// An overlay carrying any other tenant_id rejects the whole batch, so a
// batch can never extend a chain it was not validated against. Each
// applied overlay must link to the current head (previous_state_hash ==
// head) and carry a state_hash that matches the server's recomputation
// over the canonicalized changes. The first violation aborts the whole
// batch; nothing from a rejected batch lands.
//
// Overlays whose object_name is not "job" are skipped without touching the
// chain. An empty batch succeeds without opening a transaction.
func (s *Store) IngestBatch(ctx context.Context, userID string, overlays []chain.Overlay) (IngestResult, error) {
	if len(overlays) == 0 {
		return IngestResult{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return IngestResult{}, fmt.Errorf("begin ingest transaction: %w", err)
	}
	defer tx.Rollback()

	tenantID := overlays[0].TenantID

	ok, err := tenantExists(ctx, tx, tenantID)
	if err != nil {
		return IngestResult{}, err
	}
	if !ok {
		return IngestResult{}, &SyncError{
			Code:     ErrCodeInvalidTenant,
			Message:  "Provided tenant_id does not exist.",
			TenantID: tenantID,
		}
	}

	ok, err = userExists(ctx, tx, userID)
	if err != nil {
		return IngestResult{}, err
	}
	if !ok {
		return IngestResult{}, &SyncError{
			Code:     ErrCodeInvalidUser,
			Message:  "X-User-ID does not refer to an existing user.",
			TenantID: tenantID,
			Details:  map[string]string{"user_id": userID},
		}
	}

	head, err := chainHead(ctx, tx, tenantID)
	if err != nil {
		return IngestResult{}, err
	}

	var result IngestResult
	for _, o := range overlays {
		if o.TenantID != tenantID {
			return IngestResult{}, &SyncError{
				Code:     ErrCodeInvalidTenant,
				Message:  "All overlays in a batch must carry the same tenant_id.",
				TenantID: tenantID,
				Details: map[string]string{
					"overlay_id":        o.ID,
					"overlay_tenant_id": o.TenantID,
					"batch_tenant_id":   tenantID,
				},
			}
		}

		if o.ObjectName != "job" {
			result.Skipped++
			continue
		}

		if o.PreviousStateHash != head {
			return IngestResult{}, &SyncError{
				Code:     ErrCodeChainDiverged,
				Message:  "Client history has diverged or batch is inconsistent. Please sync first.",
				TenantID: tenantID,
				Details: map[string]string{
					"overlay_id":          o.ID,
					"previous_state_hash": o.PreviousStateHash,
					"chain_head":          head,
				},
			}
		}

		// The canonical form is the hash input and the persisted
		// change_data. Changes survived the envelope decode, so a failure
		// here is a canonicalizer fault, not client error.
		canon, err := canonical.Canonicalize(o.Changes)
		if err != nil {
			return IngestResult{}, fmt.Errorf("canonicalize changes for overlay %s: %w", o.ID, err)
		}

		changeHash := chain.ContentHash(o.ID, o.TenantID, userID, o.CreatedAt, o.ObjectName, o.ObjectID, canon)
		stateHash := chain.StateHash(changeHash, o.PreviousStateHash)
		if stateHash != o.StateHash {
			return IngestResult{}, &SyncError{
				Code:     ErrCodeHashMismatch,
				Message:  "Client hash does not match server calculation.",
				TenantID: tenantID,
				Details: map[string]string{
					"id":                  o.ID,
					"tenant_id":           o.TenantID,
					"user_id":             userID,
					"created_at":          o.CreatedAt,
					"object_name":         o.ObjectName,
					"object_id":           o.ObjectID,
					"previous_state_hash": o.PreviousStateHash,
					"client_state_hash":   o.StateHash,
					"server_state_hash":   stateHash,
					"server_change_hash":  changeHash,
					"server_changes_json": string(canon),
				},
			}
		}

		entry := chain.Entry{
			ID:                o.ID,
			TenantID:          o.TenantID,
			UserID:            userID,
			ObjectName:        o.ObjectName,
			RecordID:          o.ObjectID,
			ChangeData:        string(canon),
			StateHash:         o.StateHash,
			PreviousStateHash: o.PreviousStateHash,
			CreatedAt:         o.CreatedAt,
		}
		if _, err := appendChainEntry(ctx, tx, entry); err != nil {
			return IngestResult{}, err
		}

		if err := applyJobOverlay(ctx, tx, o, userID, canon); err != nil {
			return IngestResult{}, err
		}

		head = o.StateHash
		result.Applied++
	}

	if err := tx.Commit(); err != nil {
		return IngestResult{}, fmt.Errorf("commit ingest batch: %w", err)
	}
	return result, nil
}

// applyJobOverlay folds one overlay into the jobs table: merge-patch an
// existing row, or insert a fresh one when the record is new. json_patch
// applies RFC 7386 semantics, so null-valued keys in changes delete fields.
func applyJobOverlay(ctx context.Context, q querier, o chain.Overlay, userID string, canon []byte) error {
	res, err := q.ExecContext(ctx, `
		UPDATE jobs
		SET data = json_patch(data, ?), version = version + 1, updated_at = ?
		WHERE id = ?
	`, string(canon), o.CreatedAt, o.ObjectID)
	if err != nil {
		return fmt.Errorf("patch job %s: %w", o.ObjectID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("patch job %s: %w", o.ObjectID, err)
	}
	if n > 0 {
		return nil
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO jobs (id, tenant_id, object_name, object_type, status, data, version, created_by, modified_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, 'active', ?, 0, ?, ?, ?, ?)
	`, o.ObjectID, o.TenantID, o.ObjectName, o.ObjectName, string(canon), userID, userID, o.CreatedAt, o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert job %s: %w", o.ObjectID, err)
	}
	return nil
}
