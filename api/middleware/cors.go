package middleware

import (
	"slices"
	"storefront_server/lib"

	"github.com/rs/cors"
)

// rateLimitHeaders are exposed so the browser can back off.
var rateLimitHeaders = []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"}

func withAll(base []string, extra ...string) []string {
	out := slices.Clone(base)
	for _, h := range extra {
		if !slices.Contains(out, h) {
			out = append(out, h)
		}
	}
	return out
}

// SetupCORS builds the CORS handler. The csrf header is always allowed since every mutation needs it.
func (mw *Middleware) SetupCORS() *cors.Cors {
	c := mw.cfg.Cors
	return cors.New(cors.Options{
		AllowedOrigins:   c.AllowOrigins,
		AllowedMethods:   c.AllowMethods,
		AllowedHeaders:   withAll(c.AllowHeaders, lib.CSRFHeaderName),
		ExposedHeaders:   withAll(c.ExposedHeaders, rateLimitHeaders...),
		AllowCredentials: c.AllowCredentials,
		MaxAge:           c.MaxAge,
	})
}
