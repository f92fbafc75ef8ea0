package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dunglas/httpsfv"
)

// parseRateLimitReset extracts "seconds until the limit resets" from a 429
// response. The storefront CDN emits the structured-field RateLimit header
// (RFC 8941 Dictionary, draft-ietf-httpapi-ratelimit-headers):
//
//	RateLimit: limit=100, remaining=0, reset=30
//
// Falls back to a plain Retry-After seconds value. Returns 0 when neither
// header says anything usable.
func parseRateLimitReset(h http.Header) time.Duration {
	if raw := h.Get("RateLimit"); raw != "" {
		if d, ok := resetFromDictionary(raw); ok {
			return d
		}
	}

	if raw := h.Get("Retry-After"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}

	return 0
}

func resetFromDictionary(raw string) (time.Duration, bool) {
	dict, err := httpsfv.UnmarshalDictionary([]string{raw})
	if err != nil {
		return 0, false
	}

	member, ok := dict.Get("reset")
	if !ok {
		return 0, false
	}
	item, ok := member.(httpsfv.Item)
	if !ok {
		return 0, false
	}

	// sfv integers decode as int64
	secs, ok := item.Value.(int64)
	if !ok || secs <= 0 {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}
