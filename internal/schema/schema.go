// Package schema audits stored payload documents against embedded CUE
// schemas, one per entity kind. The audit is offline tooling behind the
// validate command; the sync path itself never validates payloads, staying
// byte-faithful to what clients wrote.
package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed payloads.cue
var payloadSchemas string

// Validation error codes (E001 general, E100-E199 schema).
const (
	ErrCodeInvalidJSON     = "E001" // payload is not valid JSON
	ErrCodeUnknownKind     = "E002" // no schema registered for kind
	ErrCodeSchemaViolation = "E101" // payload violates the kind schema
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// kindSchemas maps each entity kind to its definition in payloads.cue.
var kindSchemas = map[string]string{
	"users":              "#User",
	"customers":          "#Customer",
	"jobs":               "#Job",
	"calendar_events":    "#CalendarEvent",
	"pricebooks":         "#Pricebook",
	"products":           "#Product",
	"locations":          "#Location",
	"product_items":      "#ProductItem",
	"pricebook_entries":  "#PricebookEntry",
	"job_line_items":     "#JobLineItem",
	"quotes":             "#Quote",
	"object_feeds":       "#ObjectFeed",
	"invoices":           "#Invoice",
	"invoice_line_items": "#InvoiceLineItem",
	"object_metadata":    "#ObjectMetadata",
	"layout_definitions": "#LayoutDefinition",
}

// Validator holds the compiled kind schemas. Payload values must be built
// in the same CUE context they are unified in, so the context is kept.
type Validator struct {
	ctx     *cue.Context
	schemas map[string]cue.Value
}

// NewValidator compiles the embedded schemas. Fails only on a broken
// schema file, which is a build defect rather than a data problem.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()

	root := ctx.CompileString(payloadSchemas, cue.Filename("payloads.cue"))
	if err := root.Err(); err != nil {
		return nil, fmt.Errorf("compiling payload schemas: %w", err)
	}

	schemas := make(map[string]cue.Value, len(kindSchemas))
	for kind, def := range kindSchemas {
		v := root.LookupPath(cue.ParsePath(def))
		if !v.Exists() {
			return nil, fmt.Errorf("schema %s not found for kind %s", def, kind)
		}
		schemas[kind] = v
	}

	return &Validator{ctx: ctx, schemas: schemas}, nil
}

// Validate checks one payload document against its kind's schema.
// Returns all errors found (does not fail-fast); an empty slice means the
// payload conforms.
func (v *Validator) Validate(kind string, data []byte) []ValidationError {
	schema, ok := v.schemas[kind]
	if !ok {
		return []ValidationError{{
			Field:   "kind",
			Message: fmt.Sprintf("no schema registered for kind %q", kind),
			Code:    ErrCodeUnknownKind,
		}}
	}

	if !json.Valid(data) {
		return []ValidationError{{
			Message: "payload is not valid JSON",
			Code:    ErrCodeInvalidJSON,
		}}
	}

	// JSON is a subset of CUE, so the document compiles directly.
	doc := v.ctx.CompileBytes(data, cue.Filename(kind+".json"))
	if err := doc.Err(); err != nil {
		return []ValidationError{{
			Message: fmt.Sprintf("payload did not compile: %v", err),
			Code:    ErrCodeInvalidJSON,
		}}
	}

	unified := schema.Unify(doc)
	err := unified.Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}

	var errs []ValidationError
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		errs = append(errs, ValidationError{
			Field:   strings.Join(e.Path(), "."),
			Message: fmt.Sprintf(format, args...),
			Code:    ErrCodeSchemaViolation,
		})
	}
	return errs
}
