package middleware

import (
	"context"
	"net"
	"net/http"

	"go.uber.org/zap"

	"github.com/quotescout/quotescout/pkg/httputil"
)

// RateLimitChecker counts a request against a client key and reports whether
// the key is still within its per-window budget.
type RateLimitChecker interface {
	CheckRateLimit(ctx context.Context, key string, limit int) (bool, int, error)
}

// RateLimitMiddleware throttles requests per client IP using a shared counter.
type RateLimitMiddleware struct {
	checker RateLimitChecker
	limit   int
	logger  *zap.Logger
}

// NewRateLimitMiddleware creates a new rate limit middleware
func NewRateLimitMiddleware(checker RateLimitChecker, limit int, logger *zap.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{checker: checker, limit: limit, logger: logger}
}

// Handler returns the middleware handler
func (m *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.checker == nil {
			next.ServeHTTP(w, r)
			return
		}

		key := clientIP(r)
		allowed, count, err := m.checker.CheckRateLimit(r.Context(), key, m.limit)
		if err != nil {
			// Counter backend outage must not take the API down with it.
			m.logger.Warn("Rate limit check failed", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		if !allowed {
			m.logger.Warn("Rate limit exceeded",
				zap.String("client", key),
				zap.Int("count", count),
				zap.Int("limit", m.limit),
			)
			httputil.JSONError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests, slow down", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
