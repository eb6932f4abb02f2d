package middleware

import (
	"net/http"
	"strings"

	"github.com/MonkyMars/gecho"
)

// isHealthCheck reports health checks and metric scrapes, which are neither logged nor limited.
func isHealthCheck(path string) bool {
	return strings.HasPrefix(path, "/health") || path == "/metrics"
}

// RequestLogger logs every request except health checks through gecho.
func (mw *Middleware) RequestLogger() func(http.Handler) http.Handler {
	logged := gecho.Handlers.CreateLoggingMiddleware(mw.logger)
	return func(next http.Handler) http.Handler {
		withLog := logged(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isHealthCheck(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			withLog.ServeHTTP(w, r)
		})
	}
}
