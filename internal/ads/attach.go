// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ads

import (
	"strings"

	"github.com/pdiddy/ads-harvest/internal/export"
	"github.com/pdiddy/ads-harvest/pkg/types"
)

// NoReferences is the placeholder written for records without references.
const NoReferences = "None"

// ReferencesCell joins refs for the references column, or returns
// NoReferences when refs is empty.
func ReferencesCell(refs []string) string {
	if len(refs) == 0 {
		return NoReferences
	}
	return strings.Join(refs, ", ")
}

// AttachReferences sets the references field of every record from refs and
// writes the table to <prefix>_with_references.csv and .json in the
// configured output directory. Write failures are reported as warnings and
// do not stop the run. The same, now mutated, records are returned.
func (c *Client) AttachReferences(records []*types.Record, refs ReferenceMap, prefix string) []*types.Record {
	for _, r := range records {
		r.Set(types.FieldReferences, ReferencesCell(refs[r.Bibcode()]))
	}

	paths := export.PathsFor(c.output.Dir, prefix)
	if err := export.WriteCSV(paths.CSV, records); err != nil {
		c.warnf("error saving CSV: %v", err)
	} else {
		c.logf("saved CSV to %s", paths.CSV)
	}
	if err := export.WriteJSON(paths.JSON, records); err != nil {
		c.warnf("error saving JSON: %v", err)
	} else {
		c.logf("saved JSON to %s", paths.JSON)
	}
	return records
}
