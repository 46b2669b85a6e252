// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ads

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ads-harvest/pkg/types"
)

func TestSearchQuery(t *testing.T) {
	assert.Equal(t, "year:2003 Astrobiology doctype:article", SearchQuery(2003, "Astrobiology"))
}

func TestSearch_TwoYearsOnePageEach(t *testing.T) {
	_, ts := newFakeADS(t, func(w http.ResponseWriter, q url.Values) {
		if startOf(q) > 0 {
			writeDocs(w)
			return
		}
		switch yearOf(q) {
		case 2000:
			writeDocs(w, article("2000A", true), article("2000B", true), article("2000C", true))
		case 2001:
			writeDocs(w, article("2001A", true), article("2001B", true))
		default:
			writeDocs(w)
		}
	})

	var log bytes.Buffer
	c := newTestClient(t, ts, &log)
	records, err := c.Search(context.Background(), 2000, 2001, "Astrobiology")
	require.NoError(t, err)

	assert.Equal(t, []string{"2000A", "2000B", "2000C", "2001A", "2001B"}, Bibcodes(records))
	// One data page and one empty page per year.
	assert.Equal(t, 4, c.RequestsMade())
}

func TestSearch_ZeroResults(t *testing.T) {
	_, ts := newFakeADS(t, func(w http.ResponseWriter, _ url.Values) { writeDocs(w) })

	var log bytes.Buffer
	c := newTestClient(t, ts, &log)
	records, err := c.Search(context.Background(), 1990, 1994, "nonexistentkeyword")
	require.NoError(t, err)

	assert.Empty(t, records)
	assert.Equal(t, 5, c.RequestsMade())
}

func TestSearch_DropsRecordsWithoutDOI(t *testing.T) {
	_, ts := newFakeADS(t, func(w http.ResponseWriter, q url.Values) {
		if startOf(q) > 0 {
			writeDocs(w)
			return
		}
		writeDocs(w,
			article("keep", true),
			article("absent", false),
			`{"bibcode":"null","doi":null}`,
		)
	})

	var log bytes.Buffer
	c := newTestClient(t, ts, &log)
	records, err := c.Search(context.Background(), 2010, 2011, "comets")
	require.NoError(t, err)

	require.Len(t, records, 2)
	for _, r := range records {
		assert.True(t, r.HasDOI(), r.Bibcode())
		assert.Equal(t, "keep", r.Bibcode())
	}
}

func TestSearch_PaginationStopsAtFirstEmptyPage(t *testing.T) {
	f, ts := newFakeADS(t, func(w http.ResponseWriter, q url.Values) {
		switch startOf(q) {
		case 0:
			writeDocs(w, article("p1a", true), article("p1b", true))
		case 2:
			writeDocs(w, article("p2a", true), article("p2b", true))
		case 4:
			writeDocs(w)
		default:
			writeDocs(w, article("never", true))
		}
	})

	var log bytes.Buffer
	c := newTestClient(t, ts, &log, func(cfg *types.ADSConfig) { cfg.PageSize = 2 })
	records, err := c.Search(context.Background(), 2015, 2015, "galaxies")
	require.NoError(t, err)

	assert.Equal(t, []string{"p1a", "p1b", "p2a", "p2b"}, Bibcodes(records))

	var starts []string
	for _, q := range f.queries() {
		starts = append(starts, q.Get("start"))
	}
	assert.Equal(t, []string{"0", "2", "4"}, starts)
}

func TestSearch_ErrorStatusStopsOnlyThatYear(t *testing.T) {
	f, ts := newFakeADS(t, func(w http.ResponseWriter, q url.Values) {
		year, start := yearOf(q), startOf(q)
		switch {
		case year == 2000 && start == 0:
			writeDocs(w, article("2000A", true), article("2000B", true))
		case year == 2000:
			w.WriteHeader(http.StatusInternalServerError)
		case year == 2001 && start == 0:
			writeDocs(w, article("2001A", true))
		default:
			writeDocs(w)
		}
	})

	var log bytes.Buffer
	c := newTestClient(t, ts, &log, func(cfg *types.ADSConfig) { cfg.PageSize = 2 })
	records, err := c.Search(context.Background(), 2000, 2001, "Astrobiology")
	require.NoError(t, err)

	assert.Equal(t, []string{"2000A", "2000B", "2001A"}, Bibcodes(records))
	assert.Contains(t, log.String(), "warning: error querying ADS API for year 2000: HTTP 500")
	assert.Equal(t, []int{2000}, c.failedYears)

	for _, q := range f.queries() {
		if yearOf(q) == 2000 {
			assert.NotEqual(t, "4", q.Get("start"), "no page after the failed one")
		}
	}
}

func TestSearch_RequestParameters(t *testing.T) {
	f, ts := newFakeADS(t, func(w http.ResponseWriter, _ url.Values) { writeDocs(w) })

	var log bytes.Buffer
	c := newTestClient(t, ts, &log)
	_, err := c.Search(context.Background(), 2022, 2022, "  black holes ")
	require.NoError(t, err)

	qs := f.queries()
	require.Len(t, qs, 1)
	q := qs[0]
	assert.Equal(t, "year:2022 black holes doctype:article", q.Get("q"))
	assert.Equal(t, "property:refereed", q.Get("fq"))
	assert.Equal(t, "2000", q.Get("rows"))
	assert.Equal(t, "0", q.Get("start"))
	assert.Equal(t, strings.Join(types.DefaultSearchFields, ","), q.Get("fl"))
}

func TestSearch_YearsAscending(t *testing.T) {
	f, ts := newFakeADS(t, func(w http.ResponseWriter, _ url.Values) { writeDocs(w) })

	var log bytes.Buffer
	c := newTestClient(t, ts, &log)
	_, err := c.Search(context.Background(), 2018, 2021, "dust")
	require.NoError(t, err)

	var years []int
	for _, q := range f.queries() {
		years = append(years, yearOf(q))
	}
	assert.Equal(t, []int{2018, 2019, 2020, 2021}, years)
}

func TestSearch_InvalidArguments(t *testing.T) {
	f, ts := newFakeADS(t, func(w http.ResponseWriter, _ url.Values) { writeDocs(w) })

	var log bytes.Buffer
	c := newTestClient(t, ts, &log)

	_, err := c.Search(context.Background(), 2000, 2001, "   ")
	assert.ErrorContains(t, err, "keyword is empty")

	_, err = c.Search(context.Background(), 2005, 2001, "x")
	assert.ErrorContains(t, err, "after end year")

	assert.Empty(t, f.queries())
}

func TestSearch_TransportErrorAborts(t *testing.T) {
	_, ts := newFakeADS(t, func(w http.ResponseWriter, _ url.Values) { writeDocs(w) })

	var log bytes.Buffer
	c := newTestClient(t, ts, &log)
	ts.Close()

	_, err := c.Search(context.Background(), 2000, 2000, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADS API request")
	assert.Zero(t, c.RequestsMade())
}

func TestSearch_MalformedBodyAborts(t *testing.T) {
	_, ts := newFakeADS(t, func(w http.ResponseWriter, _ url.Values) {
		w.Write([]byte(`{"response":`))
	})

	var log bytes.Buffer
	c := newTestClient(t, ts, &log)
	_, err := c.Search(context.Background(), 2000, 2000, "x")
	assert.ErrorContains(t, err, "parsing ADS response")
}

func TestFilterDOI(t *testing.T) {
	a := types.NewRecord()
	a.Set("doi", []any{"10.1/a"})
	b := types.NewRecord()
	b.Set("doi", nil)
	c := types.NewRecord()

	assert.Equal(t, []*types.Record{a}, FilterDOI([]*types.Record{a, b, c}))
	assert.Empty(t, FilterDOI(nil))
}
