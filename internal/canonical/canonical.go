// Package canonical produces the compact JSON form used for change hashing
// and change-log persistence.
//
// The canonical form is the shortest round trip of the parsed value:
//   - no whitespace between tokens
//   - object keys in insertion order, exactly as parsed (never sorted)
//   - numbers in shortest round-trip decimal form
//   - strings with minimal escaping: quote, backslash, and control
//     characters only; no HTML escaping; non-ASCII passes through as UTF-8
//
// Clients must serialize identically before hashing. A client/server
// disagreement here surfaces as a hash mismatch at ingest, never as silent
// corruption.
package canonical

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Marshal renders v in canonical form.
func Marshal(v Value) []byte {
	return Append(nil, v)
}

// Canonicalize parses data and re-emits it canonically.
// Fails on invalid JSON or trailing content.
func Canonicalize(data []byte) ([]byte, error) {
	v, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("canonicalize: %w", err)
	}
	return Marshal(v), nil
}

// Append renders v in canonical form, appending to dst.
func Append(dst []byte, v Value) []byte {
	switch val := v.(type) {
	case Null:
		return append(dst, "null"...)
	case Bool:
		if val {
			return append(dst, "true"...)
		}
		return append(dst, "false"...)
	case Number:
		return appendNumber(dst, string(val))
	case String:
		return appendString(dst, string(val))
	case Array:
		dst = append(dst, '[')
		for i, elem := range val {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = Append(dst, elem)
		}
		return append(dst, ']')
	case Object:
		dst = append(dst, '{')
		for i, m := range val {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = appendString(dst, m.Key)
			dst = append(dst, ':')
			dst = Append(dst, m.Value)
		}
		return append(dst, '}')
	default:
		// Parse never produces anything else; a hand-built Value of an
		// unknown type is a programming error.
		panic(fmt.Sprintf("canonical: unsupported value type %T", v))
	}
}

const hexDigits = "0123456789abcdef"

// appendString writes s as a JSON string with minimal escaping.
// Only the quote, the backslash, and control characters below U+0020 are
// escaped; U+2028/U+2029 and all other non-ASCII pass through as UTF-8.
func appendString(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			dst = append(dst, '\\', '"')
		case c == '\\':
			dst = append(dst, '\\', '\\')
		case c >= 0x20:
			dst = append(dst, c)
		case c == '\b':
			dst = append(dst, '\\', 'b')
		case c == '\f':
			dst = append(dst, '\\', 'f')
		case c == '\n':
			dst = append(dst, '\\', 'n')
		case c == '\r':
			dst = append(dst, '\\', 'r')
		case c == '\t':
			dst = append(dst, '\\', 't')
		default:
			dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
		}
	}
	return append(dst, '"')
}

// appendNumber writes a number literal in shortest round-trip form.
//
// Integer literals (no fraction, no exponent) are already minimal under the
// JSON grammar and pass through verbatim; this also keeps integers beyond
// float64 precision intact. Everything else is reduced through float64 and
// re-rendered the way ECMAScript serializes numbers.
func appendNumber(dst []byte, lit string) []byte {
	if !strings.ContainsAny(lit, ".eE") {
		if lit == "-0" {
			return append(dst, '0')
		}
		return append(dst, lit...)
	}

	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		// The literal came out of the JSON parser, so this cannot happen
		// for parsed input.
		panic(fmt.Sprintf("canonical: bad number literal %q: %v", lit, err))
	}
	return appendFloat(dst, f)
}

// appendFloat renders f per the ECMAScript number-to-string algorithm:
// positional notation for 10^-6 <= |f| < 10^21, exponent notation with an
// explicit sign outside that range.
func appendFloat(dst []byte, f float64) []byte {
	if f == 0 {
		return append(dst, '0')
	}
	if math.Signbit(f) {
		dst = append(dst, '-')
		f = -f
	}

	// Shortest digits and decimal exponent via strconv's 'e' form: d[.ddd]e±dd
	mant := strconv.FormatFloat(f, 'e', -1, 64)
	ePos := strings.IndexByte(mant, 'e')
	exp, _ := strconv.Atoi(mant[ePos+1:])
	digits := strings.Replace(mant[:ePos], ".", "", 1)

	k := len(digits)
	n := exp + 1 // decimal point position: f = 0.digits * 10^n

	switch {
	case k <= n && n <= 21:
		dst = append(dst, digits...)
		for i := k; i < n; i++ {
			dst = append(dst, '0')
		}
	case 0 < n && n <= 21:
		dst = append(dst, digits[:n]...)
		dst = append(dst, '.')
		dst = append(dst, digits[n:]...)
	case -6 < n && n <= 0:
		dst = append(dst, '0', '.')
		for i := 0; i < -n; i++ {
			dst = append(dst, '0')
		}
		dst = append(dst, digits...)
	default:
		dst = append(dst, digits[0])
		if k > 1 {
			dst = append(dst, '.')
			dst = append(dst, digits[1:]...)
		}
		dst = append(dst, 'e')
		if n-1 >= 0 {
			dst = append(dst, '+')
		}
		dst = strconv.AppendInt(dst, int64(n-1), 10)
	}
	return dst
}
