package canonical

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Value is a sealed interface over the parsed JSON value types.
// Only Null, Bool, Number, String, Array, and Object implement it.
// Object preserves member order exactly as parsed; Number preserves the
// source literal.
type Value interface {
	jsonValue() // Sealed - only these types implement it
}

// Null represents a JSON null.
type Null struct{}

func (Null) jsonValue() {}

// Bool represents a JSON boolean.
type Bool bool

func (Bool) jsonValue() {}

// Number holds a JSON number as its source literal, untouched by any
// float64 round trip. Normalization happens at serialization time only.
type Number string

func (Number) jsonValue() {}

// String represents a JSON string (decoded, not the source escape form).
type String string

func (String) jsonValue() {}

// Array represents a JSON array.
type Array []Value

func (Array) jsonValue() {}

// Member is one key/value pair of an Object.
type Member struct {
	Key   string
	Value Value
}

// Object represents a JSON object as an ordered member list.
// Duplicate keys are retained in source order; canonical output reproduces
// them as given.
type Object []Member

func (Object) jsonValue() {}

// Get returns the value of the first member with the given key.
func (o Object) Get(key string) (Value, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Parse decodes data into a Value, rejecting trailing content after the
// first complete JSON value. Object member order and number literals are
// preserved from the input.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := parseValue(dec)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after JSON value")
	}

	return v, nil
}

func parseValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("unexpected end of JSON input")
		}
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		}
		return nil, fmt.Errorf("unexpected delimiter %q", t.String())
	case string:
		return String(t), nil
	case json.Number:
		return Number(t), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null{}, nil
	default:
		return nil, fmt.Errorf("unexpected token type %T", tok)
	}
}

func parseObject(dec *json.Decoder) (Value, error) {
	obj := Object{}
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("object: %w", err)
		}
		if d, ok := tok.(json.Delim); ok && d == '}' {
			return obj, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object: non-string key token %v", tok)
		}
		val, err := parseValue(dec)
		if err != nil {
			return nil, fmt.Errorf("object key %q: %w", key, err)
		}
		obj = append(obj, Member{Key: key, Value: val})
	}
}

func parseArray(dec *json.Decoder) (Value, error) {
	arr := Array{}
	for {
		if !dec.More() {
			// Consume the closing ']'
			if _, err := dec.Token(); err != nil {
				return nil, fmt.Errorf("array: %w", err)
			}
			return arr, nil
		}
		elem, err := parseValue(dec)
		if err != nil {
			return nil, fmt.Errorf("array[%d]: %w", len(arr), err)
		}
		arr = append(arr, elem)
	}
}
