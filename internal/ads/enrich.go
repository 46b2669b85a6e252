// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ads

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const referenceFields = "bibcode,reference"

// ReferenceMap maps a bibcode to the bibcodes it cites, in API order.
type ReferenceMap map[string][]string

// Batches splits ids into contiguous slices of at most size elements.
// The last batch holds the remainder. size must be positive.
func Batches(ids []string, size int) [][]string {
	if size <= 0 || len(ids) == 0 {
		return nil
	}
	batches := make([][]string, 0, (len(ids)-1)/size+1)
	for start := 0; start < len(ids); {
		end := start + min(size, len(ids)-start)
		batches = append(batches, ids[start:end])
		start = end
	}
	return batches
}

// BibcodeQuery OR-combines one bibcode lookup per id.
func BibcodeQuery(batch []string) string {
	terms := make([]string, len(batch))
	for i, b := range batch {
		terms[i] = "bibcode:" + b
	}
	return strings.Join(terms, " OR ")
}

// Enrich fetches the reference list of every bibcode, batchSize bibcodes
// per request. A batchSize of zero or less uses the configured default.
//
// Every input bibcode is a key of the result. Bibcodes the API did not
// return, and every bibcode of a batch that failed with a non-200 status,
// map to an empty list. Duplicates are not removed; when a bibcode appears
// in several batches the last batch processed decides its value. Batches
// are separated by the configured delay. Transport errors abort.
func (c *Client) Enrich(ctx context.Context, bibcodes []string, batchSize int) (ReferenceMap, error) {
	if batchSize <= 0 {
		batchSize = c.cfg.BatchSize
	}

	c.failedBatches = nil
	refs := make(ReferenceMap, len(bibcodes))
	batches := Batches(bibcodes, batchSize)
	for i, batch := range batches {
		if i > 0 {
			if err := c.pause(ctx); err != nil {
				return nil, err
			}
		}

		requested := make(map[string]bool, len(batch))
		for _, b := range batch {
			refs[b] = []string{}
			requested[b] = true
		}

		params := url.Values{
			"q":    {BibcodeQuery(batch)},
			"fl":   {referenceFields},
			"rows": {strconv.Itoa(len(batch))},
		}
		docs, status, err := queryDocs[referenceDoc](ctx, c, params)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			c.warnf("error retrieving references for batch %d: HTTP %d", i+1, status)
			c.failedBatches = append(c.failedBatches, i+1)
			continue
		}

		for _, d := range docs {
			if !requested[d.Bibcode] {
				continue
			}
			if d.Reference == nil {
				d.Reference = []string{}
			}
			refs[d.Bibcode] = d.Reference
		}
		c.logf("processed batch %d / %d", i+1, len(batches))
	}
	return refs, nil
}

// pause waits out the inter-batch delay or until ctx is done.
func (c *Client) pause(ctx context.Context) error {
	if c.cfg.BatchDelay <= 0 {
		return nil
	}
	t := time.NewTimer(c.cfg.BatchDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
