// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ads

import (
	"context"
	"time"

	"github.com/pdiddy/ads-harvest/internal/export"
	"github.com/pdiddy/ads-harvest/pkg/types"
)

// Report summarizes one RunCombined call.
type Report struct {
	StartYear     int
	EndYear       int
	Keyword       string
	Prefix        string
	BatchSize     int
	Records       int
	Requests      int
	RateLimit     types.RateLimitStatus
	FailedYears   []int
	FailedBatches []int
	Files         []string
	Finished      time.Time
}

// Summary converts the report to its on-disk form.
func (r Report) Summary() export.Summary {
	return export.Summary{
		Query: export.SummaryQuery{
			StartYear: r.StartYear,
			EndYear:   r.EndYear,
			Keyword:   r.Keyword,
			Prefix:    r.Prefix,
			BatchSize: r.BatchSize,
		},
		Records:   r.Records,
		Requests:  r.Requests,
		RateLimit: r.RateLimit,
		Failures: export.SummaryFailures{
			Years:   r.FailedYears,
			Batches: r.FailedBatches,
		},
		Files:     r.Files,
		Timestamp: r.Finished,
	}
}

// LastReport returns the report of the most recent RunCombined call.
func (c *Client) LastReport() Report { return c.lastReport }

// RunCombined searches startYear..endYear for keyword, fetches references
// for the results in batches, writes the table under prefix, and logs the
// request count and the last rate-limit snapshot. It returns the final
// table. Only transport errors and cancellation are returned; HTTP error
// statuses and write failures are warnings.
func (c *Client) RunCombined(ctx context.Context, startYear, endYear int, keyword, prefix string, batchSize int) ([]*types.Record, error) {
	if prefix == "" {
		prefix = c.output.Prefix
	}
	if prefix == "" {
		prefix = types.DefaultPrefix
	}
	if batchSize <= 0 {
		batchSize = c.cfg.BatchSize
	}

	c.logf("querying articles from %d to %d with keyword %q", startYear, endYear, keyword)
	records, err := c.Search(ctx, startYear, endYear, keyword)
	if err != nil {
		return nil, err
	}
	c.logf("retrieved %d articles with DOI, fetching references", len(records))

	refs, err := c.Enrich(ctx, Bibcodes(records), batchSize)
	if err != nil {
		return nil, err
	}
	records = c.AttachReferences(records, refs, prefix)

	c.logf("total requests made: %d", c.requests)
	if c.rateLimit.Known() {
		c.logf("%s", c.rateLimit)
	}

	paths := export.PathsFor(c.output.Dir, prefix)
	report := Report{
		StartYear:     startYear,
		EndYear:       endYear,
		Keyword:       keyword,
		Prefix:        prefix,
		BatchSize:     batchSize,
		Records:       len(records),
		Requests:      c.requests,
		RateLimit:     c.rateLimit,
		FailedYears:   c.failedYears,
		FailedBatches: c.failedBatches,
		Files:         []string{paths.CSV, paths.JSON},
		Finished:      time.Now().UTC(),
	}

	if c.output.SQLite {
		if err := export.WriteSQLite(ctx, paths.SQLite, records, refs); err != nil {
			c.warnf("error saving SQLite database: %v", err)
		} else {
			c.logf("saved SQLite database to %s", paths.SQLite)
			report.Files = append(report.Files, paths.SQLite)
		}
	}
	if c.output.Summary {
		// The summary lists its own path, so it goes in before the write.
		report.Files = append(report.Files, paths.Summary)
		if err := export.WriteSummary(paths.Summary, report.Summary()); err != nil {
			c.warnf("error saving run summary: %v", err)
			report.Files = report.Files[:len(report.Files)-1]
		} else {
			c.logf("saved run summary to %s", paths.Summary)
		}
	}

	c.lastReport = report
	return records, nil
}
