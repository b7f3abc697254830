package record

import "encoding/json"

// Kind binds one entity kind to its table and its decoder. Append decodes a
// stored row and adds it to the kind's bundle list; dispatch is a fixed
// registry rather than reflection.
type Kind struct {
	Name    string
	Table   string
	Reduced bool // object_metadata: no object_type/status columns
	Append  func(b *Bundle, row Row) error
}

// kinds lists every entity kind in bundle order.
var kinds = []Kind{
	{Name: "users", Table: "users", Append: func(b *Bundle, row Row) error {
		return appendTyped("users", &b.Users, row)
	}},
	{Name: "customers", Table: "customers", Append: func(b *Bundle, row Row) error {
		return appendTyped("customers", &b.Customers, row)
	}},
	{Name: "jobs", Table: "jobs", Append: func(b *Bundle, row Row) error {
		return appendTyped("jobs", &b.Jobs, row)
	}},
	{Name: "calendar_events", Table: "calendar_events", Append: func(b *Bundle, row Row) error {
		return appendTyped("calendar_events", &b.CalendarEvents, row)
	}},
	{Name: "pricebooks", Table: "pricebooks", Append: func(b *Bundle, row Row) error {
		return appendTyped("pricebooks", &b.Pricebooks, row)
	}},
	{Name: "products", Table: "products", Append: func(b *Bundle, row Row) error {
		return appendTyped("products", &b.Products, row)
	}},
	{Name: "locations", Table: "locations", Append: func(b *Bundle, row Row) error {
		return appendTyped("locations", &b.Locations, row)
	}},
	{Name: "product_items", Table: "product_items", Append: func(b *Bundle, row Row) error {
		return appendTyped("product_items", &b.ProductItems, row)
	}},
	{Name: "pricebook_entries", Table: "pricebook_entries", Append: func(b *Bundle, row Row) error {
		return appendTyped("pricebook_entries", &b.PricebookEntries, row)
	}},
	{Name: "job_line_items", Table: "job_line_items", Append: func(b *Bundle, row Row) error {
		return appendTyped("job_line_items", &b.JobLineItems, row)
	}},
	{Name: "quotes", Table: "quotes", Append: func(b *Bundle, row Row) error {
		return appendTyped("quotes", &b.Quotes, row)
	}},
	{Name: "object_feeds", Table: "object_feeds", Append: func(b *Bundle, row Row) error {
		return appendTyped("object_feeds", &b.ObjectFeeds, row)
	}},
	{Name: "invoices", Table: "invoices", Append: func(b *Bundle, row Row) error {
		return appendTyped("invoices", &b.Invoices, row)
	}},
	{Name: "invoice_line_items", Table: "invoice_line_items", Append: func(b *Bundle, row Row) error {
		return appendTyped("invoice_line_items", &b.InvoiceLineItems, row)
	}},
	{Name: "object_metadata", Table: "object_metadata", Reduced: true, Append: func(b *Bundle, row Row) error {
		rec, err := decodeMetadata(row)
		if err != nil {
			return err
		}
		b.ObjectMetadata = append(b.ObjectMetadata, rec)
		return nil
	}},
	{Name: "layout_definitions", Table: "layout_definitions", Append: func(b *Bundle, row Row) error {
		return appendTyped("layout_definitions", &b.LayoutDefinitions, row)
	}},
}

// Kinds returns the registry in bundle order. Callers must not mutate it.
func Kinds() []Kind {
	return kinds
}

// KindByName looks up a kind by its object_name tag.
func KindByName(name string) (Kind, bool) {
	for _, k := range kinds {
		if k.Name == name {
			return k, true
		}
	}
	return Kind{}, false
}

func appendTyped[P any](kind string, list *[]Record[P], row Row) error {
	var doc Doc[P]
	if err := json.Unmarshal(row.Data, &doc); err != nil {
		return &CodecError{Kind: kind, ID: row.ID, Err: err}
	}
	*list = append(*list, Record[P]{
		ID:         row.ID,
		TenantID:   row.TenantID,
		ObjectName: row.ObjectName,
		ObjectType: row.ObjectType,
		Status:     row.Status,
		Data:       doc,
		Version:    row.Version,
		CreatedBy:  row.CreatedBy,
		ModifiedBy: row.ModifiedBy,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	})
	return nil
}

func decodeMetadata(row Row) (MetadataRecord, error) {
	var doc Doc[ObjectMetadataPayload]
	if err := json.Unmarshal(row.Data, &doc); err != nil {
		return MetadataRecord{}, &CodecError{Kind: "object_metadata", ID: row.ID, Err: err}
	}
	return MetadataRecord{
		ID:         row.ID,
		TenantID:   row.TenantID,
		ObjectName: row.ObjectName,
		Data:       doc,
		Version:    row.Version,
		CreatedBy:  row.CreatedBy,
		ModifiedBy: row.ModifiedBy,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}, nil
}
