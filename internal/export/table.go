// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pdiddy/ads-harvest/pkg/types"
)

// WriteCSV writes records as a CSV table to path. The header is the union
// of record fields in order of first appearance.
func WriteCSV(path string, records []*types.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating CSV file: %w", err)
	}
	if err := FormatCSV(records, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// FormatCSV writes records as CSV to w. An empty table writes nothing.
func FormatCSV(records []*types.Record, w io.Writer) error {
	cols := types.Columns(records)
	if len(cols) == 0 {
		return nil
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	row := make([]string, len(cols))
	for _, r := range records {
		for i, c := range cols {
			v, _ := r.Value(c)
			row[i] = Cell(v)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %s: %w", r.Bibcode(), err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes records to path as an indented JSON array of objects.
func WriteJSON(path string, records []*types.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating JSON file: %w", err)
	}
	if err := FormatJSON(records, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// FormatJSON writes records to w as an array of objects indented by four
// spaces. Every object carries every table column; missing fields are null.
func FormatJSON(records []*types.Record, w io.Writer) error {
	cols := types.Columns(records)
	rows := make([]*types.Record, len(records))
	for i, r := range records {
		rows[i] = r.Project(cols)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}
