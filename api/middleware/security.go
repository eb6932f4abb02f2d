package middleware

import (
	"crypto/subtle"
	"net/http"
	"storefront_server/config"
	"storefront_server/lib"

	"github.com/MonkyMars/gecho"
)

var securityHeaders = map[string]string{
	"X-Content-Type-Options":  "nosniff",
	"X-Frame-Options":         "DENY",
	"Referrer-Policy":         "strict-origin-when-cross-origin",
	"Content-Security-Policy": "default-src 'self'; img-src 'self' data:; frame-ancestors 'none'",
	"Permissions-Policy":      "geolocation=(), camera=(), microphone=()",
}

func (mw *Middleware) SecurityHeaders() func(http.Handler) http.Handler {
	hsts := config.IsProduction()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for k, v := range securityHeaders {
				h.Set(k, v)
			}
			if hsts {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BodyLimit caps request bodies; image uploads are the largest legitimate payload.
func (mw *Middleware) BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				gecho.NewErr(w,
					gecho.WithStatus(http.StatusRequestEntityTooLarge),
					gecho.WithMessage("Request body too large"),
					gecho.Send(),
				)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// CSRFMiddleware requires unsafe methods to echo the csrf cookie in the X-CSRF-Token header.
func (mw *Middleware) CSRFMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := lib.GetCookieValue(lib.CSRFCookieName, r)
			if err != nil || cookie == "" {
				gecho.Forbidden(w, gecho.WithMessage("CSRF token missing"), gecho.Send())
				return
			}

			token := r.Header.Get(lib.CSRFHeaderName)
			if subtle.ConstantTimeCompare([]byte(token), []byte(cookie)) != 1 {
				mw.logger.Warn("CSRF token mismatch", gecho.Field("path", r.URL.Path))
				gecho.Forbidden(w, gecho.WithMessage("Invalid CSRF token"), gecho.Send())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
