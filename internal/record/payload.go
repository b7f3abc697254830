package record

// Payload schemas for the sixteen entity kinds. Optional fields are
// pointers (or omitted slices) so absence survives round trips; fields the
// schema requires decode to zero values when missing so that reads never
// fail on sparse documents.

// Address is a postal address fragment shared by several kinds.
type Address struct {
	Street  *string `json:"street,omitempty"`
	City    *string `json:"city,omitempty"`
	State   *string `json:"state,omitempty"`
	ZipCode *string `json:"zip_code,omitempty"`
	Country *string `json:"country,omitempty"`
}

// ContactInfo carries customer contact details.
type ContactInfo struct {
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

type UserPayload struct {
	Email       string  `json:"email"`
	DisplayName string  `json:"display_name"`
	Role        *string `json:"role,omitempty"`
}

type CustomerPayload struct {
	Name    string       `json:"name"`
	Contact *ContactInfo `json:"contact,omitempty"`
	Address *Address     `json:"address,omitempty"`
}

type JobPayload struct {
	JobNumber      string   `json:"job_number"`
	CustomerID     string   `json:"customer_id"`
	JobAddress     *Address `json:"job_address,omitempty"`
	JobDescription *string  `json:"job_description,omitempty"`
	AssignedTechID *string  `json:"assigned_tech_id,omitempty"`
	StatusNote     *string  `json:"status_note,omitempty"`
	QuoteID        *string  `json:"quote_id,omitempty"`
	EquipmentID    *string  `json:"equipment_id,omitempty"`
}

type CalendarEventPayload struct {
	Title     string  `json:"title"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	IsAllDay  any     `json:"is_all_day,omitempty"`
	JobID     *string `json:"job_id,omitempty"`
	UserID    *string `json:"user_id,omitempty"`
}

type PricebookPayload struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	IsActive    any     `json:"is_active,omitempty"`
	Currency    string  `json:"currency"`
}

type ProductPayload struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	ProductCode *string `json:"product_code,omitempty"`
	Type        *string `json:"type,omitempty"`
}

type LocationPayload struct {
	Name    string   `json:"name"`
	Address *Address `json:"address,omitempty"`
}

type ProductItemPayload struct {
	QuantityOnHand float64 `json:"quantity_on_hand"`
	ProductID      string  `json:"product_id"`
	LocationID     string  `json:"location_id"`
}

type PricebookEntryPayload struct {
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	PricebookID string  `json:"pricebook_id"`
	ProductID   string  `json:"product_id"`
}

type JobLineItemPayload struct {
	Quantity          float64 `json:"quantity"`
	PriceAtTimeOfSale float64 `json:"price_at_time_of_sale"`
	Description       *string `json:"description,omitempty"`
	JobID             string  `json:"job_id"`
	ProductID         string  `json:"product_id"`
}

type QuotePayload struct {
	QuoteNumber string   `json:"quote_number"`
	CustomerID  string   `json:"customer_id"`
	PricebookID *string  `json:"pricebook_id,omitempty"`
	TotalAmount float64  `json:"total_amount"`
	Currency    string   `json:"currency"`
	QuoteStatus *string  `json:"quote_status,omitempty"`
	Notes       *string  `json:"notes,omitempty"`
	PreparedBy  *string  `json:"prepared_by,omitempty"`
	LineItemIDs []string `json:"line_item_ids,omitempty"`
}

type ObjectFeedPayload struct {
	RelatedObjectName string   `json:"related_object_name"`
	RelatedRecordID   string   `json:"related_record_id"`
	EntryType         *string  `json:"entry_type,omitempty"`
	Message           *string  `json:"message,omitempty"`
	AuthorID          *string  `json:"author_id,omitempty"`
	AttachmentIDs     []string `json:"attachment_ids,omitempty"`
}

type InvoicePayload struct {
	InvoiceNumber  string   `json:"invoice_number"`
	CustomerID     string   `json:"customer_id"`
	JobID          *string  `json:"job_id,omitempty"`
	QuoteID        *string  `json:"quote_id,omitempty"`
	SubtotalAmount float64  `json:"subtotal_amount"`
	TaxAmount      *float64 `json:"tax_amount,omitempty"`
	DiscountAmount *float64 `json:"discount_amount,omitempty"`
	TotalAmount    float64  `json:"total_amount"`
	Currency       string   `json:"currency"`
	IssueDate      string   `json:"issue_date"`
	DueDate        *string  `json:"due_date,omitempty"`
	PaymentStatus  *string  `json:"payment_status,omitempty"`
	Notes          *string  `json:"notes,omitempty"`
	IssuedBy       *string  `json:"issued_by,omitempty"`
	LineItemIDs    []string `json:"line_item_ids,omitempty"`
}

type InvoiceLineItemPayload struct {
	Quantity             float64  `json:"quantity"`
	PriceAtTimeOfInvoice float64  `json:"price_at_time_of_invoice"`
	Description          *string  `json:"description,omitempty"`
	InvoiceID            string   `json:"invoice_id"`
	ProductID            string   `json:"product_id"`
	TaxRate              *float64 `json:"tax_rate,omitempty"`
	DiscountAmount       *float64 `json:"discount_amount,omitempty"`
}

// FieldDefinition describes one field of a customizable object, as carried
// by object_metadata payloads.
type FieldDefinition struct {
	Name         string   `json:"name"`
	Label        string   `json:"label"`
	Type         *string  `json:"type,omitempty"`
	Required     any      `json:"required,omitempty"`
	Format       *string  `json:"format,omitempty"`
	Options      []string `json:"options,omitempty"`
	TargetObject *string  `json:"target_object,omitempty"`
}

type ObjectMetadataPayload struct {
	FieldDefinitions []FieldDefinition `json:"field_definitions"`
}

// LayoutSection groups fields on a rendered layout.
type LayoutSection struct {
	Label  string   `json:"label"`
	Fields []string `json:"fields"`
}

type LayoutDefinitionPayload struct {
	Sections []LayoutSection `json:"sections"`
}
