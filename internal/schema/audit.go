package schema

import (
	"context"
	"fmt"

	"github.com/kestrelops/fieldsync/internal/record"
	"github.com/kestrelops/fieldsync/internal/store"
)

// Finding ties a validation error to the stored row that produced it.
type Finding struct {
	Kind     string          `json:"kind"`
	RowID    string          `json:"row_id"`
	TenantID string          `json:"tenant_id"`
	Error    ValidationError `json:"error"`
}

// AuditStore validates every stored payload, kind by kind. An empty
// tenantID audits all tenants. Rows come back in store order, so repeated
// audits of the same database report findings in the same order.
// Returns the findings and the number of rows checked.
func (v *Validator) AuditStore(ctx context.Context, st *store.Store, tenantID string) ([]Finding, int, error) {
	findings := []Finding{}
	checked := 0

	for _, kind := range record.Kinds() {
		rows, err := st.ReadRows(ctx, kind, tenantID)
		if err != nil {
			return nil, 0, fmt.Errorf("reading %s rows: %w", kind.Name, err)
		}

		for _, row := range rows {
			checked++
			for _, ve := range v.Validate(kind.Name, row.Data) {
				findings = append(findings, Finding{
					Kind:     kind.Name,
					RowID:    row.ID,
					TenantID: row.TenantID,
					Error:    ve,
				})
			}
		}
	}

	return findings, checked, nil
}
