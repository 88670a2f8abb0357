package api

import (
	"encoding/json/v2"
	"log/slog"
	"net/http"
	"strings"

	domainerrors "github.com/ignicult/dashboard-server/internal/errors"
	"github.com/ignicult/dashboard-server/internal/ratelimit"
)

// RateLimitMiddleware rate limits requests by client IP and answers 429 with
// the error envelope when the limit is exceeded.
func RateLimitMiddleware(limiter *ratelimit.KeyedRateLimiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := getClientIP(r)

			if !limiter.Allow(key) {
				logger.Warn("rate limit exceeded",
					"ip", key,
					"path", r.URL.Path,
				)
				writeError(w, &APIError{
					status:  http.StatusTooManyRequests,
					Code:    string(domainerrors.CodeRateLimited),
					Message: "too many requests, please try again later",
				}, logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// writeError writes an error envelope outside of huma.
func writeError(w http.ResponseWriter, apiErr *APIError, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(apiErr.status)

	envelope := ErrorEnvelope{Version: EnvelopeVersion, Success: false, Error: apiErr}
	if err := json.MarshalWrite(w, envelope); err != nil {
		logger.Error("failed to encode error response", "error", err)
	}
}

// getClientIP extracts the client IP from the request.
// Checks X-Forwarded-For and X-Real-IP headers before falling back to RemoteAddr.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip := r.RemoteAddr
	if i := strings.LastIndexByte(ip, ':'); i >= 0 {
		return ip[:i]
	}
	return ip
}
