// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ads queries the ADS search API: paginated keyword search over a
// year range, batched reference lookups, and persistence of the merged
// table. A Client runs one request at a time and keeps the request count
// and the last rate-limit snapshot reported by the API.
package ads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/pdiddy/ads-harvest/internal/httputil"
	"github.com/pdiddy/ads-harvest/pkg/types"
)

// ErrNoToken is returned by NewClient when the configuration has no API token.
var ErrNoToken = errors.New("ADS API token is required")

// Client talks to the ADS search endpoint. It is not safe for concurrent use.
type Client struct {
	cfg        types.ADSConfig
	output     types.OutputConfig
	httpClient *http.Client
	log        io.Writer

	requests  int
	rateLimit types.RateLimitStatus

	failedYears   []int
	failedBatches []int
	lastReport    Report
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLog sets the writer that receives progress lines and warnings.
func WithLog(w io.Writer) Option {
	return func(c *Client) {
		c.log = w
	}
}

// WithOutput sets where and what RunCombined writes.
func WithOutput(out types.OutputConfig) Option {
	return func(c *Client) {
		c.output = out
	}
}

// NewClient returns a client for cfg. Zero-valued settings take their
// defaults; the API token is required.
func NewClient(cfg types.ADSConfig, opts ...Option) (*Client, error) {
	if cfg.APIToken == "" {
		return nil, ErrNoToken
	}
	cfg = cfg.WithDefaults()

	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        io.Discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Config returns the effective configuration.
func (c *Client) Config() types.ADSConfig { return c.cfg }

// RequestsMade returns the number of HTTP calls that reached the API.
func (c *Client) RequestsMade() int { return c.requests }

// RateLimit returns the snapshot from the most recent response.
func (c *Client) RateLimit() types.RateLimitStatus { return c.rateLimit }

// get issues one GET against the search endpoint. Every response, whatever
// its status, counts as a request and refreshes the rate-limit snapshot.
// Transport failures are returned without touching either.
func (c *Client) get(ctx context.Context, params url.Values) (*http.Response, error) {
	reqURL := c.cfg.BaseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIToken)
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ADS API request: %w", err)
	}
	c.requests++
	c.rateLimit = httputil.ParseRateLimit(resp.Header)
	return resp, nil
}

// queryDocs runs one request and decodes response.docs. It returns the
// HTTP status; docs are only decoded when the status is 200.
func queryDocs[T any](ctx context.Context, c *Client, params url.Values) ([]T, int, error) {
	resp, err := c.get(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	defer httputil.DrainAndClose(resp)

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, nil
	}

	var sr searchResponse[T]
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("parsing ADS response: %w", err)
	}
	return sr.Response.Docs, resp.StatusCode, nil
}

func (c *Client) logf(format string, args ...any) {
	fmt.Fprintf(c.log, format+"\n", args...)
}

func (c *Client) warnf(format string, args ...any) {
	c.logf("warning: "+format, args...)
}

// ADS API JSON structures.
type searchResponse[T any] struct {
	Response struct {
		Docs []T `json:"docs"`
	} `json:"response"`
}

type referenceDoc struct {
	Bibcode   string   `json:"bibcode"`
	Reference []string `json:"reference"`
}
