// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes the enriched article table to disk: CSV and JSON
// tables, a YAML run summary, and an optional SQLite database.
package export

import (
	"encoding/json"
	"path/filepath"
	"strconv"

	"github.com/pdiddy/ads-harvest/pkg/types"
)

// Paths holds the output file names derived from a prefix.
type Paths struct {
	CSV     string
	JSON    string
	Summary string
	SQLite  string
}

// PathsFor returns the output paths for prefix inside dir.
func PathsFor(dir, prefix string) Paths {
	if prefix == "" {
		prefix = types.DefaultPrefix
	}
	base := filepath.Join(dir, prefix)
	return Paths{
		CSV:     base + "_with_references.csv",
		JSON:    base + "_with_references.json",
		Summary: base + "_run.yaml",
		SQLite:  base + "_with_references.db",
	}
}

// Cell renders a record value as a single table cell. Strings and numbers
// are written as-is, null as an empty cell, and lists or objects as compact
// JSON.
func Cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	default:
		s, err := types.EncodeValue(x)
		if err != nil {
			return ""
		}
		return s
	}
}

// firstString returns v when it is a string, or the first string element
// when v is a list. ADS returns title and doi as lists.
func firstString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []any:
		for _, e := range x {
			if s, ok := e.(string); ok {
				return s
			}
		}
	}
	return ""
}
