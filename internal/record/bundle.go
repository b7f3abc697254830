package record

// Meta accompanies every bundle: the instant the server assembled it and the
// echoed since parameter.
type Meta struct {
	ServerTime string `json:"server_time"`
	Since      string `json:"since"`
}

// Bundle is the composite pull response: one ordered list per entity kind.
// Lists are always present, empty rather than null.
type Bundle struct {
	Users             []Record[UserPayload]             `json:"users"`
	Customers         []Record[CustomerPayload]         `json:"customers"`
	Jobs              []Record[JobPayload]              `json:"jobs"`
	CalendarEvents    []Record[CalendarEventPayload]    `json:"calendar_events"`
	Pricebooks        []Record[PricebookPayload]        `json:"pricebooks"`
	Products          []Record[ProductPayload]          `json:"products"`
	Locations         []Record[LocationPayload]         `json:"locations"`
	ProductItems      []Record[ProductItemPayload]      `json:"product_items"`
	PricebookEntries  []Record[PricebookEntryPayload]   `json:"pricebook_entries"`
	JobLineItems      []Record[JobLineItemPayload]      `json:"job_line_items"`
	Quotes            []Record[QuotePayload]            `json:"quotes"`
	ObjectFeeds       []Record[ObjectFeedPayload]       `json:"object_feeds"`
	Invoices          []Record[InvoicePayload]          `json:"invoices"`
	InvoiceLineItems  []Record[InvoiceLineItemPayload]  `json:"invoice_line_items"`
	ObjectMetadata    []MetadataRecord                  `json:"object_metadata"`
	LayoutDefinitions []Record[LayoutDefinitionPayload] `json:"layout_definitions"`
}

// NewBundle returns a bundle with every kind list initialized to an empty
// slice, so an untouched bundle still serializes each kind as [].
func NewBundle() *Bundle {
	return &Bundle{
		Users:             []Record[UserPayload]{},
		Customers:         []Record[CustomerPayload]{},
		Jobs:              []Record[JobPayload]{},
		CalendarEvents:    []Record[CalendarEventPayload]{},
		Pricebooks:        []Record[PricebookPayload]{},
		Products:          []Record[ProductPayload]{},
		Locations:         []Record[LocationPayload]{},
		ProductItems:      []Record[ProductItemPayload]{},
		PricebookEntries:  []Record[PricebookEntryPayload]{},
		JobLineItems:      []Record[JobLineItemPayload]{},
		Quotes:            []Record[QuotePayload]{},
		ObjectFeeds:       []Record[ObjectFeedPayload]{},
		Invoices:          []Record[InvoicePayload]{},
		InvoiceLineItems:  []Record[InvoiceLineItemPayload]{},
		ObjectMetadata:    []MetadataRecord{},
		LayoutDefinitions: []Record[LayoutDefinitionPayload]{},
	}
}
