// Package record defines the typed domain records synchronized between
// clients and the server: the shared column envelope, the per-kind payload
// schemas, and the registry that maps each of the sixteen entity kinds to
// its table and decoder.
//
// Payload decoding is total for valid JSON: schema-required fields that are
// absent decode to zero values rather than failing, and fields unknown to
// the schema survive round trips byte for byte (see Doc). Enforcement of the
// payload schemas is a separate offline concern.
package record
