// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/ads-harvest/pkg/types"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS articles (
		bibcode TEXT PRIMARY KEY,
		doi TEXT,
		title TEXT,
		year TEXT,
		fields TEXT NOT NULL,
		references_text TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS article_references (
		bibcode TEXT NOT NULL REFERENCES articles(bibcode),
		position INTEGER NOT NULL,
		reference TEXT NOT NULL,
		PRIMARY KEY (bibcode, position)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_article_references_reference ON article_references(reference)`,
}

// WriteSQLite replaces the database at path with one row per record in
// articles and one row per cited bibcode in article_references. Records
// without a bibcode are skipped. A bibcode seen twice keeps its last row.
func WriteSQLite(ctx context.Context, path string, records []*types.Record, refs map[string][]string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing old database: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := insertRecords(ctx, tx, records, refs); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// refRowsPerInsert bounds the bind variables per statement.
const refRowsPerInsert = 300

func insertRecords(ctx context.Context, tx *sql.Tx, records []*types.Record, refs map[string][]string) error {
	for _, r := range records {
		bibcode := r.Bibcode()
		if bibcode == "" {
			continue
		}
		fields, err := r.MarshalJSON()
		if err != nil {
			return fmt.Errorf("encoding %s: %w", bibcode, err)
		}

		del, delArgs, err := sq.Delete("article_references").Where(sq.Eq{"bibcode": bibcode}).ToSql()
		if err != nil {
			return fmt.Errorf("building delete for %s: %w", bibcode, err)
		}
		if _, err := tx.ExecContext(ctx, del, delArgs...); err != nil {
			return fmt.Errorf("clearing references of %s: %w", bibcode, err)
		}

		doi, _ := r.Value(types.FieldDOI)
		title, _ := r.Value("title")
		year, _ := r.Value("year")
		refText, _ := r.Value(types.FieldReferences)

		query, args, err := sq.Insert("articles").
			Options("OR REPLACE").
			Columns("bibcode", "doi", "title", "year", "fields", "references_text").
			Values(bibcode, firstString(doi), firstString(title), Cell(year), string(fields), Cell(refText)).
			ToSql()
		if err != nil {
			return fmt.Errorf("building insert for %s: %w", bibcode, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("inserting %s: %w", bibcode, err)
		}

		list := refs[bibcode]
		for start := 0; start < len(list); start += refRowsPerInsert {
			end := min(start+refRowsPerInsert, len(list))
			ins := sq.Insert("article_references").Columns("bibcode", "position", "reference")
			for i := start; i < end; i++ {
				ins = ins.Values(bibcode, i, list[i])
			}
			query, args, err := ins.ToSql()
			if err != nil {
				return fmt.Errorf("building reference insert for %s: %w", bibcode, err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("inserting references of %s: %w", bibcode, err)
			}
		}
	}
	return nil
}
