package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kestrelops/fieldsync/internal/record"
)

// Tenant is one tenants-table row. Data carries the tenant profile document
// ({"name", "plan", ...}) as JSON text.
type Tenant struct {
	ID        string
	Data      string
	CreatedAt string
}

// SeedRow pairs an entity row with its kind name for bulk loading.
type SeedRow struct {
	Kind string
	Row  record.Row
}

// Seed loads tenants and entity rows in one transaction.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - re-seeding an existing
// database leaves prior rows untouched and only fills in the gaps.
// Returns the number of rows actually inserted.
func (s *Store) Seed(ctx context.Context, tenants []Tenant, rows []SeedRow) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	inserted := 0
	for _, t := range tenants {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO tenants (id, data, version, created_at, updated_at)
			VALUES (?, ?, 0, ?, ?)
			ON CONFLICT(id) DO NOTHING
		`, t.ID, t.Data, t.CreatedAt, t.CreatedAt)
		if err != nil {
			return 0, fmt.Errorf("seed tenant %s: %w", t.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("seed tenant %s: %w", t.ID, err)
		}
		inserted += int(n)
	}

	for _, sr := range rows {
		kind, ok := record.KindByName(sr.Kind)
		if !ok {
			return 0, fmt.Errorf("seed: unknown kind %q", sr.Kind)
		}
		n, err := insertEntityRow(ctx, tx, kind, sr.Row)
		if err != nil {
			return 0, err
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed transaction: %w", err)
	}
	return inserted, nil
}

// insertEntityRow inserts one row into its kind's table. Reduced kinds
// (object_metadata) have no object_type/status columns.
func insertEntityRow(ctx context.Context, q querier, kind record.Kind, row record.Row) (int, error) {
	var res sql.Result
	var err error
	if kind.Reduced {
		res, err = q.ExecContext(ctx, `
			INSERT INTO `+kind.Table+` (id, tenant_id, object_name, data, version, created_by, modified_by, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING
		`, row.ID, row.TenantID, row.ObjectName, string(row.Data), row.Version,
			row.CreatedBy, row.ModifiedBy, row.CreatedAt, row.UpdatedAt)
	} else {
		res, err = q.ExecContext(ctx, `
			INSERT INTO `+kind.Table+` (id, tenant_id, object_name, object_type, status, data, version, created_by, modified_by, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING
		`, row.ID, row.TenantID, row.ObjectName, row.ObjectType, row.Status, string(row.Data), row.Version,
			row.CreatedBy, row.ModifiedBy, row.CreatedAt, row.UpdatedAt)
	}
	if err != nil {
		return 0, fmt.Errorf("seed %s %s: %w", kind.Name, row.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("seed %s %s: %w", kind.Name, row.ID, err)
	}
	return int(n), nil
}
