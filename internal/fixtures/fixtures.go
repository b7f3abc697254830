// Package fixtures generates the demo dataset behind `fieldsyncd seed`:
// one field-service tenant with its users, a customer and job, a service
// product, and the job metadata and layout definitions a client needs to
// render them.
package fixtures

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/kestrelops/fieldsync/internal/record"
	"github.com/kestrelops/fieldsync/internal/store"
)

// Well-known IDs used in --fixed-ids mode, so demos and docs can reference
// stable identifiers across re-seeds.
const (
	FixedTenantID       = "tnt_demo"
	FixedDispatcherID   = "usr_dispatch"
	FixedTechID         = "usr_tech"
	FixedCustomerID     = "cus_demo"
	FixedJobID          = "job_demo"
	FixedProductID      = "prod_demo"
	FixedMetadataID     = "meta_job"
	FixedDetailLayoutID = "lyt_job_detail"
	FixedListLayoutID   = "lyt_job_list"
	FixedTimestamp      = "2025-01-01T12:00:00Z"
)

// Options control dataset generation.
type Options struct {
	// FixedIDs uses the well-known IDs and timestamp above instead of
	// minting fresh ones, making repeated seeds reproducible.
	FixedIDs bool

	// Now stamps freshly minted rows; ignored with FixedIDs. Must be
	// RFC 3339 UTC, second precision.
	Now string
}

// Dataset is a seedable demo dataset plus handles to its key rows.
type Dataset struct {
	Tenants []store.Tenant
	Rows    []store.SeedRow

	TenantID   string
	AdminID    string
	TechID     string
	CustomerID string
	JobID      string
}

// Demo builds the demo dataset. Payloads go through the typed record
// schemas, so the seeded documents always agree with what the bundle
// codec expects.
func Demo(opts Options) Dataset {
	mint := func(prefix, fixed string) string {
		if opts.FixedIDs {
			return fixed
		}
		return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	stamp := opts.Now
	if opts.FixedIDs {
		stamp = FixedTimestamp
	}

	d := Dataset{
		TenantID:   mint("tnt", FixedTenantID),
		AdminID:    mint("usr", FixedDispatcherID),
		TechID:     mint("usr", FixedTechID),
		CustomerID: mint("cus", FixedCustomerID),
		JobID:      mint("job", FixedJobID),
	}
	productID := mint("prod", FixedProductID)
	metadataID := mint("meta", FixedMetadataID)
	detailLayoutID := mint("lyt", FixedDetailLayoutID)
	listLayoutID := mint("lyt", FixedListLayoutID)

	d.Tenants = []store.Tenant{{
		ID:        d.TenantID,
		Data:      `{"name":"FieldApp Demo Inc.","plan":"premium","settings":{"timezone":"America/Chicago"}}`,
		CreatedAt: stamp,
	}}

	row := func(kind, id, objectName, objectType string, payload any) store.SeedRow {
		return store.SeedRow{Kind: kind, Row: record.Row{
			ID:         id,
			TenantID:   d.TenantID,
			ObjectName: objectName,
			ObjectType: objectType,
			Status:     "active",
			Data:       mustJSON(payload),
			CreatedAt:  stamp,
			UpdatedAt:  stamp,
		}}
	}

	d.Rows = []store.SeedRow{
		row("users", d.AdminID, "user", "user", record.UserPayload{
			Email:       "dispatch@fieldappdemo.example",
			DisplayName: "Dana Reyes",
			Role:        strp("dispatcher"),
		}),
		row("users", d.TechID, "user", "user", record.UserPayload{
			Email:       "tech@fieldappdemo.example",
			DisplayName: "Terry Vance",
			Role:        strp("tech"),
		}),
		row("customers", d.CustomerID, "customer", "customer", record.CustomerPayload{
			Name: "Acme Field Services",
			Contact: &record.ContactInfo{
				Email: strp("ops@acme.example"),
				Phone: strp("555-123-4567"),
			},
			Address: &record.Address{
				Street:  strp("123 Main St"),
				City:    strp("Anytown"),
				State:   strp("CA"),
				ZipCode: strp("12345"),
			},
		}),
		row("jobs", d.JobID, "job", "job", record.JobPayload{
			JobNumber:      "J-1001",
			CustomerID:     d.CustomerID,
			JobDescription: strp("Seasonal furnace tune-up"),
			AssignedTechID: strp(d.TechID),
		}),
		row("products", productID, "product", "product", record.ProductPayload{
			Name:        "Furnace Tune-Up",
			Description: strp("Annual inspection and cleaning"),
			ProductCode: strp("SVC-100"),
			Type:        strp("service"),
		}),
		{Kind: "object_metadata", Row: record.Row{
			ID:         metadataID,
			TenantID:   d.TenantID,
			ObjectName: "job",
			Data: mustJSON(record.ObjectMetadataPayload{
				FieldDefinitions: []record.FieldDefinition{
					{Name: "title", Label: "Job Title", Type: strp("string"), Required: true},
					{Name: "customer", Label: "Customer", Type: strp("reference"), TargetObject: strp("customer")},
					{Name: "scheduled_date", Label: "Scheduled Date", Type: strp("date")},
				},
			}),
			CreatedAt: stamp,
			UpdatedAt: stamp,
		}},
		row("layout_definitions", detailLayoutID, "layout_definition", "job", record.LayoutDefinitionPayload{
			Sections: []record.LayoutSection{
				{Label: "Job Info", Fields: []string{"title", "customer", "priority"}},
				{Label: "Scheduling", Fields: []string{"scheduled_date"}},
			},
		}),
		row("layout_definitions", listLayoutID, "layout_definition", "job", record.LayoutDefinitionPayload{
			Sections: []record.LayoutSection{
				{Label: "Summary", Fields: []string{"title", "customer"}},
			},
		}),
	}

	return d
}

func strp(s string) *string { return &s }

// mustJSON marshals a fixture payload. The shapes are static, so a failure
// is a programming error.
func mustJSON(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
