// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/ads-harvest/pkg/types"
)

// Summary is the on-disk record of one combined run: what was asked, how
// much came back, and what the API reported about quota.
type Summary struct {
	Query     SummaryQuery          `yaml:"query"`
	Records   int                   `yaml:"records"`
	Requests  int                   `yaml:"requests"`
	RateLimit types.RateLimitStatus `yaml:"rate_limit"`
	Failures  SummaryFailures       `yaml:"failures"`
	Files     []string              `yaml:"files,omitempty"`
	Timestamp time.Time             `yaml:"timestamp"`
}

// SummaryQuery stores the run parameters.
type SummaryQuery struct {
	StartYear int    `yaml:"start_year"`
	EndYear   int    `yaml:"end_year"`
	Keyword   string `yaml:"keyword"`
	Prefix    string `yaml:"prefix"`
	BatchSize int    `yaml:"batch_size"`
}

// SummaryFailures lists the years whose pagination stopped on an error
// status and the 1-based enrichment batches that failed.
type SummaryFailures struct {
	Years   []int `yaml:"years,omitempty"`
	Batches []int `yaml:"batches,omitempty"`
}

// WriteSummary saves s as YAML to path.
func WriteSummary(path string, s Summary) error {
	data, err := yaml.Marshal(&s)
	if err != nil {
		return fmt.Errorf("marshaling run summary: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadSummary loads a run summary written by WriteSummary.
func ReadSummary(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run summary: %w", err)
	}
	var s Summary
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing run summary: %w", err)
	}
	return &s, nil
}
