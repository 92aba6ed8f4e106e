package utils

import (
	"net/http"
	"strings"
)

// UnknownClient is the rate-limit key shared by requests that carry no
// forwarding headers.
const UnknownClient = "unknown"

// ClientKey identifies the caller for rate limiting. The leftmost
// X-Forwarded-For entry wins over X-Real-IP; requests with neither share the
// UnknownClient bucket.
func ClientKey(r *http.Request) string {
	if forwardedFor := r.Header.Get("X-Forwarded-For"); forwardedFor != "" {
		// Format: client, proxy1, proxy2, ...
		first, _, _ := strings.Cut(forwardedFor, ",")
		if clientIP := strings.TrimSpace(first); clientIP != "" {
			return clientIP
		}
	}

	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	return UnknownClient
}
