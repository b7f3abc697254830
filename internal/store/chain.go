package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kestrelops/fieldsync/internal/chain"
)

// ChainHead returns the tenant's current head state hash: the state_hash of
// the entry with the highest sequence_id, or chain.GenesisHash when the
// tenant has no entries yet.
func (s *Store) ChainHead(ctx context.Context, tenantID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return chainHead(ctx, s.db, tenantID)
}

func chainHead(ctx context.Context, q querier, tenantID string) (string, error) {
	var head string
	err := q.QueryRowContext(ctx, `
		SELECT state_hash FROM change_log
		WHERE tenant_id = ?
		ORDER BY sequence_id DESC
		LIMIT 1
	`, tenantID).Scan(&head)
	if errors.Is(err, sql.ErrNoRows) {
		return chain.GenesisHash, nil
	}
	if err != nil {
		return "", fmt.Errorf("query chain head: %w", err)
	}
	return head, nil
}

// appendChainEntry inserts one committed entry inside the ingest
// transaction. sequence_id is assigned by the database; the unique
// (tenant_id, state_hash) index rejects duplicate links.
func appendChainEntry(ctx context.Context, q querier, e chain.Entry) (int64, error) {
	res, err := q.ExecContext(ctx, `
		INSERT INTO change_log (id, tenant_id, user_id, object_name, record_id, change_data, state_hash, previous_state_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.TenantID, e.UserID, e.ObjectName, e.RecordID, e.ChangeData, e.StateHash, e.PreviousStateHash, e.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("insert change_log entry %s: %w", e.ID, err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read change_log sequence: %w", err)
	}
	return seq, nil
}

// ResolveAnchor maps a client-supplied state hash to its sequence_id in the
// tenant's chain. A hash the chain does not contain yields a
// bootstrap_required SyncError: the client must do a full pull.
func (s *Store) ResolveAnchor(ctx context.Context, tenantID, stateHash string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return resolveAnchor(ctx, s.db, tenantID, stateHash)
}

func resolveAnchor(ctx context.Context, q querier, tenantID, stateHash string) (int64, error) {
	var seq int64
	err := q.QueryRowContext(ctx, `
		SELECT sequence_id FROM change_log
		WHERE tenant_id = ? AND state_hash = ?
	`, tenantID, stateHash).Scan(&seq)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, &SyncError{
			Code:     ErrCodeBootstrapRequired,
			Message:  "since_hash not found in change log; full sync required",
			TenantID: tenantID,
			Details:  map[string]string{"since_hash": stateHash},
		}
	}
	if err != nil {
		return 0, fmt.Errorf("resolve anchor: %w", err)
	}
	return seq, nil
}

// ReadChainAfter returns every entry for the tenant with sequence_id
// strictly greater than seq, ascending. Returns an empty slice, never nil.
func (s *Store) ReadChainAfter(ctx context.Context, tenantID string, seq int64) ([]chain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readChainAfter(ctx, s.db, tenantID, seq)
}

func readChainAfter(ctx context.Context, q querier, tenantID string, seq int64) ([]chain.Entry, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT sequence_id, id, tenant_id, user_id, object_name, record_id, change_data, state_hash, previous_state_hash, created_at
		FROM change_log
		WHERE tenant_id = ? AND sequence_id > ?
		ORDER BY sequence_id ASC
	`, tenantID, seq)
	if err != nil {
		return nil, fmt.Errorf("query change_log: %w", err)
	}
	defer rows.Close()

	entries := []chain.Entry{}
	for rows.Next() {
		e, err := scanChainEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate change_log: %w", err)
	}
	return entries, nil
}

// ReplayChain resolves a client anchor and returns the entries after it.
// An empty or unknown anchor is a bootstrap_required rejection; the tenant
// must exist.
func (s *Store) ReplayChain(ctx context.Context, tenantID, sinceHash string) ([]chain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ok, err := tenantExists(ctx, s.db, tenantID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &SyncError{
			Code:     ErrCodeInvalidTenant,
			Message:  "Provided tenant_id does not exist.",
			TenantID: tenantID,
		}
	}

	// A missing or malformed anchor can never resolve, so skip the lookup.
	if !chain.IsHexDigest(sinceHash) {
		return nil, &SyncError{
			Code:     ErrCodeBootstrapRequired,
			Message:  "since_hash is missing or malformed; full sync required",
			TenantID: tenantID,
		}
	}

	anchor, err := resolveAnchor(ctx, s.db, tenantID, sinceHash)
	if err != nil {
		return nil, err
	}
	return readChainAfter(ctx, s.db, tenantID, anchor)
}

func scanChainEntry(rows *sql.Rows) (chain.Entry, error) {
	var e chain.Entry
	if err := rows.Scan(
		&e.SequenceID, &e.ID, &e.TenantID, &e.UserID, &e.ObjectName,
		&e.RecordID, &e.ChangeData, &e.StateHash, &e.PreviousStateHash, &e.CreatedAt,
	); err != nil {
		return chain.Entry{}, fmt.Errorf("scan change_log row: %w", err)
	}
	return e, nil
}
