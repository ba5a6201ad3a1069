package handlers

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/relink-dev/relink/internal/rate"
)

// fallbackKey stands in when no client address can be determined. It is also
// the IP recorded on clicks in that case.
const fallbackKey = "local"

// RateLimit rejects requests over the per-key sliding window with 429. Keyed
// by client IP; applied to the link-creation route only.
func RateLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	msg := fmt.Sprintf("too many requests: limit %d per %s", limiter.Limit(), limiter.Window())
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientIP(r)) {
				jsonError(w, msg, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP derives the caller address: first non-empty comma-separated entry
// of X-Forwarded-For (empty leading tokens are skipped), then X-Real-IP,
// then the connection's remote address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		for _, part := range strings.Split(fwd, ",") {
			if p := strings.TrimSpace(part); p != "" {
				return p
			}
		}
	}
	if rip := strings.TrimSpace(r.Header.Get("X-Real-IP")); rip != "" {
		return rip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return fallbackKey
}
