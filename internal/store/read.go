package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kestrelops/fieldsync/internal/record"
)

// EpochSince is the default since parameter: a genesis pull that covers
// every record ever written.
const EpochSince = "1970-01-01T00:00:00Z"

// querier abstracts *sql.DB and *sql.Tx so read helpers work both inside
// and outside the ingest transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ReadBundle projects every entity kind updated strictly after since for one
// tenant. The lock is held across all sixteen queries, so the bundle
// reflects a single snapshot of the store.
//
// Any query or decode failure aborts the whole bundle; partial bundles are
// never returned.
func (s *Store) ReadBundle(ctx context.Context, tenantID, since string) (*record.Bundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := record.NewBundle()
	for _, kind := range record.Kinds() {
		if err := s.readKind(ctx, kind, b, tenantID, since); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// readKind runs one kind's incremental query and decodes each row into the
// bundle. Ordering is by updated_at then id so identical stores produce
// byte-identical lists.
func (s *Store) readKind(ctx context.Context, kind record.Kind, b *record.Bundle, tenantID, since string) error {
	rows, err := s.db.QueryContext(ctx, selectForKind(kind), tenantID, since)
	if err != nil {
		return fmt.Errorf("query %s: %w", kind.Table, err)
	}
	defer rows.Close()

	for rows.Next() {
		row, err := scanEntityRow(rows, kind)
		if err != nil {
			return err
		}
		if err := kind.Append(b, row); err != nil {
			return err
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate %s: %w", kind.Table, err)
	}

	return nil
}

// selectForKind builds the projection query for one kind. Table names come
// from the fixed registry, never from request input.
func selectForKind(kind record.Kind) string {
	if kind.Reduced {
		return `
			SELECT id, tenant_id, object_name, data, version, created_by, modified_by, created_at, updated_at
			FROM ` + kind.Table + `
			WHERE tenant_id = ? AND updated_at > ?
			ORDER BY updated_at ASC, id COLLATE BINARY ASC
		`
	}
	return `
		SELECT id, tenant_id, object_name, object_type, status, data, version, created_by, modified_by, created_at, updated_at
		FROM ` + kind.Table + `
		WHERE tenant_id = ? AND updated_at > ?
		ORDER BY updated_at ASC, id COLLATE BINARY ASC
	`
}

// scanEntityRow scans one row of an entity table into the neutral column
// tuple the registry decoders consume.
func scanEntityRow(rows *sql.Rows, kind record.Kind) (record.Row, error) {
	var row record.Row
	var createdBy, modifiedBy sql.NullString

	if kind.Reduced {
		if err := rows.Scan(
			&row.ID, &row.TenantID, &row.ObjectName, &row.Data, &row.Version,
			&createdBy, &modifiedBy, &row.CreatedAt, &row.UpdatedAt,
		); err != nil {
			return record.Row{}, fmt.Errorf("scan %s row: %w", kind.Table, err)
		}
	} else {
		if err := rows.Scan(
			&row.ID, &row.TenantID, &row.ObjectName, &row.ObjectType, &row.Status,
			&row.Data, &row.Version, &createdBy, &modifiedBy, &row.CreatedAt, &row.UpdatedAt,
		); err != nil {
			return record.Row{}, fmt.Errorf("scan %s row: %w", kind.Table, err)
		}
	}

	if createdBy.Valid {
		row.CreatedBy = &createdBy.String
	}
	if modifiedBy.Valid {
		row.ModifiedBy = &modifiedBy.String
	}

	return row, nil
}

// ReadRows returns the stored rows of one kind without payload decoding.
// An empty tenantID reads across all tenants. Used by audit tooling; the
// sync path reads through ReadBundle.
func (s *Store) ReadRows(ctx context.Context, kind record.Kind, tenantID string) ([]record.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := selectForKind(kind)
	args := []any{tenantID, EpochSince}
	if tenantID == "" {
		query = selectAllForKind(kind)
		args = nil
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", kind.Table, err)
	}
	defer rows.Close()

	out := []record.Row{}
	for rows.Next() {
		row, err := scanEntityRow(rows, kind)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", kind.Table, err)
	}
	return out, nil
}

// selectAllForKind is the unfiltered variant of selectForKind, ordered the
// same way.
func selectAllForKind(kind record.Kind) string {
	if kind.Reduced {
		return `
			SELECT id, tenant_id, object_name, data, version, created_by, modified_by, created_at, updated_at
			FROM ` + kind.Table + `
			ORDER BY updated_at ASC, id COLLATE BINARY ASC
		`
	}
	return `
		SELECT id, tenant_id, object_name, object_type, status, data, version, created_by, modified_by, created_at, updated_at
		FROM ` + kind.Table + `
		ORDER BY updated_at ASC, id COLLATE BINARY ASC
	`
}

// Tenants lists every tenant id in the tenants table, sorted.
func (s *Store) Tenants(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id FROM tenants ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query tenants: %w", err)
	}
	defer rows.Close()

	var tenants []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan tenant id: %w", err)
		}
		tenants = append(tenants, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tenants: %w", err)
	}
	return tenants, nil
}

// TenantExists reports whether the tenant row exists. Exposed for seed
// tooling; the ingest preflight uses the tx-scoped variant.
func (s *Store) TenantExists(ctx context.Context, tenantID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return tenantExists(ctx, s.db, tenantID)
}

func tenantExists(ctx context.Context, q querier, tenantID string) (bool, error) {
	var count int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM tenants WHERE id = ?`, tenantID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check tenant: %w", err)
	}
	return count > 0, nil
}

func userExists(ctx context.Context, q querier, userID string) (bool, error) {
	var count int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE id = ?`, userID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check user: %w", err)
	}
	return count > 0, nil
}
