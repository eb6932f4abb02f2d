package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

type rateRule struct {
	limit  int
	window time.Duration
}

// ruleFor picks the bucket for a path: login and logout are tightest, admin next.
func (mw *Middleware) ruleFor(path string) rateRule {
	rl := mw.cfg.RateLimit
	switch {
	case strings.HasPrefix(path, "/auth/login"), strings.HasPrefix(path, "/auth/logout"):
		return rateRule{rl.AuthLimit, rl.AuthWindow}
	case strings.HasPrefix(path, "/admin"):
		return rateRule{rl.AdminLimit, rl.AdminWindow}
	default:
		return rateRule{rl.GeneralLimit, rl.GeneralWindow}
	}
}

// clientIP strips the port. chi's RealIP has already rewritten RemoteAddr behind a proxy.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// normalizeEndpoint folds uuids into :id so one counter covers every product or artist page.
func normalizeEndpoint(path string) string {
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		return "/"
	}

	parts := strings.Split(path, "/")
	for i, part := range parts {
		if _, err := uuid.Parse(part); err == nil {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}

// RateLimitMiddleware enforces fixed-window limits per client and endpoint. Cache errors let the request through.
func (mw *Middleware) RateLimitMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !mw.cfg.RateLimit.Enabled || mw.limiter == nil || isHealthCheck(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			ip := clientIP(r)
			rule := mw.ruleFor(r.URL.Path)
			endpoint := normalizeEndpoint(r.URL.Path)

			count, err := mw.limiter.IncrementRateLimit(r.Context(), ip, endpoint, rule.window)
			if err != nil {
				mw.logger.Warn("Rate limiter unavailable",
					gecho.Field("error", err),
					gecho.Field("endpoint", endpoint),
				)
				next.ServeHTTP(w, r)
				return
			}

			retryAfter := int(rule.window.Seconds())
			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(rule.limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(max(0, rule.limit-count)))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(rule.window).Unix(), 10))

			if count <= rule.limit {
				next.ServeHTTP(w, r)
				return
			}

			mw.logger.Warn("Rate limit exceeded",
				gecho.Field("ip", ip),
				gecho.Field("endpoint", endpoint),
				gecho.Field("count", count),
			)
			h.Set("Retry-After", strconv.Itoa(retryAfter))
			gecho.TooManyRequests(w,
				gecho.WithMessage("Too many requests"),
				gecho.WithData(map[string]any{"limit": rule.limit, "retry_after": retryAfter}),
				gecho.Send(),
			)
		})
	}
}
