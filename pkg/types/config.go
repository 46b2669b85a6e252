// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

const (
	// DefaultBaseURL is the ADS search endpoint.
	DefaultBaseURL = "https://api.adsabs.harvard.edu/v1/search/query"

	// DefaultPageSize is the rows requested per search page.
	DefaultPageSize = 2000

	// DefaultBatchSize is the number of bibcodes combined into one
	// enrichment request.
	DefaultBatchSize = 100

	// DefaultBatchDelay is the pause between enrichment batches.
	DefaultBatchDelay = 1 * time.Second

	// DefaultTimeout is the HTTP request timeout.
	DefaultTimeout = 60 * time.Second

	// DefaultUserAgent is sent with every request.
	DefaultUserAgent = "ads-harvest/0.1"

	// DefaultPrefix names output files when the caller supplies none.
	DefaultPrefix = "ads_combined"
)

// DefaultSearchFields is the fl list requested by the search phase.
var DefaultSearchFields = []string{
	"abstract", "aff", "author", "bibcode", "bibstem", "citation_count",
	"date", "database", "doi", "doctype", "first_author", "keyword", "pub",
	"pubdate", "read_count", "title", "year", "arxiv_class", "property",
}

// HTTPConfig holds shared HTTP settings.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ADSConfig holds settings for talking to the ADS search API.
type ADSConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIToken is the ADS bearer token. Never serialized.
	APIToken string `json:"-" yaml:"-"`

	// BaseURL is the search endpoint (default DefaultBaseURL).
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Fields is the fl list for the search phase.
	Fields []string `json:"fields" yaml:"fields"`

	// PageSize is the rows per search page (default 2000).
	PageSize int `json:"page_size" yaml:"page_size"`

	// BatchSize is the bibcodes per enrichment request (default 100).
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// BatchDelay is the fixed pause between enrichment batches (default 1s).
	BatchDelay time.Duration `json:"batch_delay" yaml:"batch_delay"`
}

// OutputConfig controls what a combined run writes to disk.
type OutputConfig struct {
	// Dir is the directory output files are written into ("" for cwd).
	Dir string `json:"dir" yaml:"dir"`

	// Prefix names the output files: <prefix>_with_references.csv etc.
	Prefix string `json:"prefix" yaml:"prefix"`

	// Summary enables the <prefix>_run.yaml run summary.
	Summary bool `json:"summary" yaml:"summary"`

	// SQLite enables the <prefix>_with_references.db database.
	SQLite bool `json:"sqlite" yaml:"sqlite"`
}

// DefaultADSConfig returns an ADSConfig with every default filled in.
func DefaultADSConfig() ADSConfig {
	fields := make([]string, len(DefaultSearchFields))
	copy(fields, DefaultSearchFields)
	return ADSConfig{
		HTTPConfig: HTTPConfig{
			Timeout:   DefaultTimeout,
			UserAgent: DefaultUserAgent,
		},
		BaseURL:    DefaultBaseURL,
		Fields:     fields,
		PageSize:   DefaultPageSize,
		BatchSize:  DefaultBatchSize,
		BatchDelay: DefaultBatchDelay,
	}
}

// WithDefaults fills zero-valued settings from DefaultADSConfig. A zero
// BatchDelay is kept: it disables the pause.
func (c ADSConfig) WithDefaults() ADSConfig {
	d := DefaultADSConfig()
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.UserAgent == "" {
		c.UserAgent = d.UserAgent
	}
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	if len(c.Fields) == 0 {
		c.Fields = d.Fields
	}
	if c.PageSize <= 0 {
		c.PageSize = d.PageSize
	}
	if c.BatchSize <= 0 {
		c.BatchSize = d.BatchSize
	}
	if c.BatchDelay < 0 {
		c.BatchDelay = 0
	}
	return c
}
