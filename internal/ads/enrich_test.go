// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ads

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ads-harvest/pkg/types"
)

// referencesFor returns a deterministic reference list for bibcode.
func referencesFor(bibcode string) []string {
	return []string{bibcode + "-r1", bibcode + "-r2"}
}

func writeReferenceDocs(w http.ResponseWriter, bibcodes []string) {
	docs := make([]string, 0, len(bibcodes))
	for _, b := range bibcodes {
		refs := referencesFor(b)
		docs = append(docs, fmt.Sprintf(`{"bibcode":%q,"reference":["%s"]}`, b, strings.Join(refs, `","`)))
	}
	writeDocs(w, docs...)
}

func TestBatches(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}

	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}, {"e"}}, Batches(ids, 2))
	assert.Equal(t, [][]string{{"a", "b", "c", "d", "e"}}, Batches(ids, 5))
	assert.Equal(t, [][]string{{"a", "b", "c", "d", "e"}}, Batches(ids, 50))
	assert.Len(t, Batches(ids, 1), 5)
	assert.Nil(t, Batches(nil, 3))
	assert.Nil(t, Batches(ids, 0))
	assert.Equal(t, [][]string{{"a", "b", "c", "d", "e"}}, Batches(ids, math.MaxInt))
}

func TestBibcodeQuery(t *testing.T) {
	assert.Equal(t, "bibcode:2020A OR bibcode:2020B", BibcodeQuery([]string{"2020A", "2020B"}))
	assert.Equal(t, "bibcode:x", BibcodeQuery([]string{"x"}))
}

func TestEnrich_KeySetMatchesInput(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}

	cases := []struct {
		size    int
		batches int
	}{
		{1, 5}, {2, 3}, {3, 2}, {4, 2}, {5, 1}, {6, 1}, {math.MaxInt, 1},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("batch size %d", tc.size), func(t *testing.T) {
			f, ts := newFakeADS(t, func(w http.ResponseWriter, q url.Values) {
				writeReferenceDocs(w, requestedBibcodes(q))
			})

			var log bytes.Buffer
			c := newTestClient(t, ts, &log)
			refs, err := c.Enrich(context.Background(), ids, tc.size)
			require.NoError(t, err)

			keys := make([]string, 0, len(refs))
			for k := range refs {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			assert.Equal(t, ids, keys)
			for _, id := range ids {
				assert.Equal(t, referencesFor(id), refs[id])
			}
			assert.Len(t, f.queries(), tc.batches)
		})
	}
}

func TestEnrich_BatchRequests(t *testing.T) {
	f, ts := newFakeADS(t, func(w http.ResponseWriter, q url.Values) {
		writeReferenceDocs(w, requestedBibcodes(q))
	})

	var log bytes.Buffer
	c := newTestClient(t, ts, &log)
	_, err := c.Enrich(context.Background(), []string{"a", "b", "c", "d", "e"}, 2)
	require.NoError(t, err)

	qs := f.queries()
	require.Len(t, qs, 3)
	assert.Equal(t, "bibcode:a OR bibcode:b", qs[0].Get("q"))
	assert.Equal(t, "bibcode:c OR bibcode:d", qs[1].Get("q"))
	assert.Equal(t, "bibcode:e", qs[2].Get("q"))
	assert.Equal(t, "bibcode,reference", qs[0].Get("fl"))
	assert.Equal(t, "2", qs[0].Get("rows"))
	assert.Equal(t, "1", qs[2].Get("rows"))
	assert.Empty(t, qs[0].Get("fq"))

	assert.Contains(t, log.String(), "processed batch 3 / 3")
	assert.Equal(t, 3, c.RequestsMade())
}

func TestEnrich_FailedBatchYieldsEmptyLists(t *testing.T) {
	_, ts := newFakeADS(t, func(w http.ResponseWriter, q url.Values) {
		ids := requestedBibcodes(q)
		if ids[0] == "c" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeReferenceDocs(w, ids)
	})

	var log bytes.Buffer
	c := newTestClient(t, ts, &log)
	refs, err := c.Enrich(context.Background(), []string{"a", "b", "c", "d", "e"}, 2)
	require.NoError(t, err)

	assert.Len(t, refs, 5)
	assert.Equal(t, referencesFor("a"), refs["a"])
	assert.Equal(t, []string{}, refs["c"])
	assert.Equal(t, []string{}, refs["d"])
	assert.Equal(t, referencesFor("e"), refs["e"])
	assert.Contains(t, log.String(), "warning: error retrieving references for batch 2: HTTP 500")
	assert.Equal(t, []int{2}, c.failedBatches)
}

func TestEnrich_MissingAndUnrequestedDocs(t *testing.T) {
	_, ts := newFakeADS(t, func(w http.ResponseWriter, _ url.Values) {
		writeDocs(w,
			`{"bibcode":"a","reference":["x","y"]}`,
			`{"bibcode":"b"}`,
			`{"bibcode":"stranger","reference":["z"]}`,
		)
	})

	var log bytes.Buffer
	c := newTestClient(t, ts, &log)
	refs, err := c.Enrich(context.Background(), []string{"a", "b", "c"}, 10)
	require.NoError(t, err)

	assert.Equal(t, ReferenceMap{
		"a": {"x", "y"},
		"b": {},
		"c": {},
	}, refs)
}

func TestEnrich_DuplicatesLastBatchWins(t *testing.T) {
	_, ts := newFakeADS(t, func(w http.ResponseWriter, q url.Values) {
		ids := requestedBibcodes(q)
		if len(ids) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeReferenceDocs(w, ids)
	})

	var log bytes.Buffer
	c := newTestClient(t, ts, &log)
	refs, err := c.Enrich(context.Background(), []string{"a", "b", "a"}, 2)
	require.NoError(t, err)

	assert.Len(t, refs, 2)
	assert.Equal(t, referencesFor("b"), refs["b"])
	assert.Equal(t, []string{}, refs["a"], "second batch failed and overwrote a")
}

func TestEnrich_DefaultBatchSize(t *testing.T) {
	f, ts := newFakeADS(t, func(w http.ResponseWriter, q url.Values) {
		writeReferenceDocs(w, requestedBibcodes(q))
	})

	ids := make([]string, 150)
	for i := range ids {
		ids[i] = fmt.Sprintf("b%03d", i)
	}

	var log bytes.Buffer
	c := newTestClient(t, ts, &log)
	refs, err := c.Enrich(context.Background(), ids, 0)
	require.NoError(t, err)

	assert.Len(t, refs, 150)
	assert.Len(t, f.queries(), 2)
}

func TestEnrich_Empty(t *testing.T) {
	f, ts := newFakeADS(t, func(w http.ResponseWriter, _ url.Values) { writeDocs(w) })

	var log bytes.Buffer
	c := newTestClient(t, ts, &log)
	refs, err := c.Enrich(context.Background(), nil, 10)
	require.NoError(t, err)

	assert.Empty(t, refs)
	assert.Empty(t, f.queries())
}

func TestEnrich_PausesBetweenBatches(t *testing.T) {
	_, ts := newFakeADS(t, func(w http.ResponseWriter, q url.Values) {
		writeReferenceDocs(w, requestedBibcodes(q))
	})

	var log bytes.Buffer
	c := newTestClient(t, ts, &log, func(cfg *types.ADSConfig) { cfg.BatchDelay = 30 * time.Millisecond })

	began := time.Now()
	_, err := c.Enrich(context.Background(), []string{"a", "b", "c"}, 1)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(began), 60*time.Millisecond)
}

func TestEnrich_PauseHonorsContext(t *testing.T) {
	f, ts := newFakeADS(t, func(w http.ResponseWriter, q url.Values) {
		writeReferenceDocs(w, requestedBibcodes(q))
	})

	var log bytes.Buffer
	c := newTestClient(t, ts, &log, func(cfg *types.ADSConfig) { cfg.BatchDelay = time.Hour })

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err := c.Enrich(ctx, []string{"a", "b"}, 1)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Len(t, f.queries(), 1)
}
