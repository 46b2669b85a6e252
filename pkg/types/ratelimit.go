// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strconv"
	"time"
)

// RateLimitStatus is the quota snapshot the ADS API reports in response
// headers. Values are kept as the raw header strings; an empty string means
// the header was absent. The snapshot is advisory and never enforced.
type RateLimitStatus struct {
	// Remaining is X-RateLimit-Remaining.
	Remaining string `json:"remaining,omitempty" yaml:"remaining,omitempty"`

	// Limit is X-RateLimit-Limit.
	Limit string `json:"limit,omitempty" yaml:"limit,omitempty"`

	// Reset is X-RateLimit-Reset, seconds since the Unix epoch.
	Reset string `json:"reset,omitempty" yaml:"reset,omitempty"`
}

// Known reports whether the last response carried a remaining-quota value.
func (s RateLimitStatus) Known() bool {
	return s.Remaining != ""
}

// ResetTime parses Reset as Unix seconds.
func (s RateLimitStatus) ResetTime() (time.Time, bool) {
	if s.Reset == "" {
		return time.Time{}, false
	}
	secs, err := strconv.ParseInt(s.Reset, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(secs, 0).UTC(), true
}

func (s RateLimitStatus) String() string {
	if !s.Known() {
		return "rate limit unknown"
	}
	reset := s.Reset
	if t, ok := s.ResetTime(); ok {
		reset = t.Format(time.RFC3339)
	}
	return fmt.Sprintf("remaining requests: %s / %s, resets at: %s", s.Remaining, s.Limit, reset)
}
