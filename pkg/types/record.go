// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for ads-harvest.
// Records are schema-less: the fields returned by the ADS search API are kept
// verbatim, in the order the API returned them.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	// FieldBibcode is the ADS identifier and the join key between the search
	// and enrichment phases.
	FieldBibcode = "bibcode"

	// FieldDOI holds the record's DOI list. Records without it are dropped.
	FieldDOI = "doi"

	// FieldReferences is the column added by enrichment.
	FieldReferences = "references"
)

// Record is one article returned by the ADS API: an ordered mapping from
// field name to a JSON value (string, json.Number, bool, []any,
// map[string]any, or nil).
type Record struct {
	keys   []string
	values map[string]any
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]any)}
}

// Len returns the number of fields.
func (r *Record) Len() int { return len(r.keys) }

// Keys returns the field names in insertion order.
func (r *Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Value returns the value stored under key and whether the key is present.
// A present key may hold nil (JSON null).
func (r *Record) Value(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Set stores v under key. A new key is appended after the existing ones;
// an existing key keeps its position.
func (r *Record) Set(key string, v any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

// String returns the value under key when it is a JSON string.
func (r *Record) String(key string) string {
	s, _ := r.values[key].(string)
	return s
}

// Bibcode returns the record's ADS bibcode, or "" if it has none.
func (r *Record) Bibcode() string {
	return r.String(FieldBibcode)
}

// HasDOI reports whether the doi field is present and not null.
func (r *Record) HasDOI() bool {
	v, ok := r.values[FieldDOI]
	return ok && v != nil
}

// Project returns a new record holding exactly the given columns in order.
// Columns missing from r are set to nil.
func (r *Record) Project(columns []string) *Record {
	out := &Record{
		keys:   make([]string, 0, len(columns)),
		values: make(map[string]any, len(columns)),
	}
	for _, c := range columns {
		out.Set(c, r.values[c])
	}
	return out
}

// UnmarshalJSON decodes a JSON object, keeping key order and decoding
// numbers as json.Number so they are written back unchanged.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decoding record: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("decoding record: expected JSON object, got %v", tok)
	}

	r.keys = nil
	r.values = make(map[string]any)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decoding record key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("decoding record: unexpected key %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("decoding field %q: %w", key, err)
		}
		r.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decoding record: %w", err)
	}
	return nil
}

// MarshalJSON encodes the record as a JSON object in key order. HTML
// characters are not escaped, so abstracts and titles round-trip verbatim.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeValue(&buf, k); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := encodeValue(&buf, r.values[k]); err != nil {
			return nil, fmt.Errorf("encoding field %q: %w", k, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// EncodeValue renders v as compact JSON without HTML escaping.
func EncodeValue(v any) (string, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func encodeValue(buf *bytes.Buffer, v any) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}

// Columns returns the union of record keys in order of first appearance.
// This is the header of the output table.
func Columns(records []*Record) []string {
	seen := make(map[string]bool)
	var cols []string
	for _, r := range records {
		for _, k := range r.keys {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	return cols
}
