// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ads

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/ads-harvest/pkg/types"
)

// refereedFilter restricts search results to peer-reviewed articles.
const refereedFilter = "property:refereed"

// SearchQuery returns the q parameter for one year of a keyword search.
func SearchQuery(year int, keyword string) string {
	return fmt.Sprintf("year:%d %s doctype:article", year, keyword)
}

// Search pages through every year from startYear to endYear inclusive and
// returns the accumulated records that carry a DOI.
//
// Pages are requested with increasing start offsets until a page comes back
// empty. A non-200 page ends that year with a warning; records gathered so
// far, from this and earlier years, are kept and the next year proceeds.
// Transport errors abort the search.
func (c *Client) Search(ctx context.Context, startYear, endYear int, keyword string) ([]*types.Record, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, fmt.Errorf("keyword is empty")
	}
	if startYear > endYear {
		return nil, fmt.Errorf("start year %d is after end year %d", startYear, endYear)
	}

	c.failedYears = nil
	var all []*types.Record
	for year := startYear; year <= endYear; year++ {
		docs, err := c.searchYear(ctx, year, keyword)
		if err != nil {
			return nil, fmt.Errorf("searching year %d: %w", year, err)
		}
		all = append(all, docs...)
	}
	return FilterDOI(all), nil
}

func (c *Client) searchYear(ctx context.Context, year int, keyword string) ([]*types.Record, error) {
	rows := c.cfg.PageSize
	params := url.Values{
		"q":    {SearchQuery(year, keyword)},
		"fl":   {strings.Join(c.cfg.Fields, ",")},
		"fq":   {refereedFilter},
		"rows": {strconv.Itoa(rows)},
	}

	var out []*types.Record
	for start := 0; ; start += rows {
		params.Set("start", strconv.Itoa(start))

		docs, status, err := queryDocs[*types.Record](ctx, c, params)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			c.warnf("error querying ADS API for year %d: HTTP %d", year, status)
			c.failedYears = append(c.failedYears, year)
			break
		}
		if len(docs) == 0 {
			break
		}
		for _, d := range docs {
			if d != nil {
				out = append(out, d)
			}
		}
	}
	return out, nil
}

// FilterDOI returns the records whose doi field is present and not null,
// in their original order.
func FilterDOI(records []*types.Record) []*types.Record {
	out := make([]*types.Record, 0, len(records))
	for _, r := range records {
		if r.HasDOI() {
			out = append(out, r)
		}
	}
	return out
}

// Bibcodes returns the bibcodes of records in order, skipping records that
// have none. Duplicates are kept.
func Bibcodes(records []*types.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		if b := r.Bibcode(); b != "" {
			out = append(out, b)
		}
	}
	return out
}
