// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the ADS client.
package httputil

import (
	"io"
	"net/http"

	"github.com/pdiddy/ads-harvest/pkg/types"
)

// Rate-limit headers reported by the ADS API on every response.
const (
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
)

// ParseRateLimit reads the rate-limit snapshot from response headers.
// Absent headers yield empty fields, so a response without them clears
// the previous snapshot.
func ParseRateLimit(h http.Header) types.RateLimitStatus {
	return types.RateLimitStatus{
		Remaining: h.Get(HeaderRateLimitRemaining),
		Limit:     h.Get(HeaderRateLimitLimit),
		Reset:     h.Get(HeaderRateLimitReset),
	}
}

// DrainAndClose discards the rest of the body and closes it so the
// connection can be reused.
func DrainAndClose(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
