package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"storefront_server/lib"
	"storefront_server/services"
	"storefront_server/structs"
	"storefront_server/structs/tables"
	"strings"
	"testing"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

type fakeLimiter struct {
	counts map[string]int
	err    error
}

func (f *fakeLimiter) IncrementRateLimit(_ context.Context, ip, endpoint string, _ time.Duration) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.counts[ip+endpoint]++
	return f.counts[ip+endpoint], nil
}

type fakeRevoker struct {
	revoked map[uuid.UUID]bool
}

func (f *fakeRevoker) BlacklistToken(_ context.Context, jti uuid.UUID, _ time.Time) error {
	f.revoked[jti] = true
	return nil
}

func (f *fakeRevoker) IsTokenBlacklisted(_ context.Context, jti uuid.UUID) (bool, error) {
	return f.revoked[jti], nil
}

func testConfig() *structs.Config {
	return &structs.Config{
		Auth: &structs.AuthConfig{AccessTokenSecret: "test-secret", AccessTokenExpiry: time.Hour},
		RateLimit: &structs.RateLimitConfig{
			Enabled:       true,
			GeneralLimit:  2,
			GeneralWindow: time.Minute,
			AuthLimit:     1,
			AuthWindow:    time.Minute,
			AdminLimit:    5,
			AdminWindow:   time.Minute,
		},
	}
}

func newTestMiddleware(limiter RateLimiter) (*Middleware, *services.AuthService, *fakeRevoker) {
	cfg := testConfig()
	logger := gecho.NewDefaultLogger()
	revoker := &fakeRevoker{revoked: map[uuid.UUID]bool{}}
	authService := services.NewAuthService(cfg, logger, nil, revoker)
	return NewMiddleware(cfg, logger, authService, limiter), authService, revoker
}

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func requestWithToken(t *testing.T, as *services.AuthService, admin bool) (*http.Request, *structs.AuthClaims) {
	t.Helper()
	token, claims, err := as.GenerateAccessToken(&tables.User{Id: uuid.New(), Email: "a@example.com", IsAdmin: admin})
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/admin/products", nil)
	req.AddCookie(&http.Cookie{Name: lib.AccessCookieName, Value: token})
	return req, claims
}

func TestUserAuthMiddleware(t *testing.T) {
	mw, as, revoker := newTestMiddleware(nil)
	handler := mw.UserAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, found := GetClaimsFromContext(r.Context()); !found {
			t.Error("claims missing from context")
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("missing cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("valid token", func(t *testing.T) {
		req, _ := requestWithToken(t, as, false)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", rec.Code)
		}
	})

	t.Run("revoked token", func(t *testing.T) {
		req, claims := requestWithToken(t, as, false)
		revoker.revoked[claims.Jti] = true
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}

func TestAdminAuthMiddleware(t *testing.T) {
	mw, as, _ := newTestMiddleware(nil)
	handler := mw.UserAuthMiddleware(mw.AdminAuthMiddleware(ok))

	for _, tt := range []struct {
		name  string
		admin bool
		want  int
	}{
		{"buyer", false, http.StatusForbidden},
		{"admin", true, http.StatusNoContent},
	} {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := requestWithToken(t, as, tt.admin)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestCSRFMiddleware(t *testing.T) {
	mw, _, _ := newTestMiddleware(nil)
	handler := mw.CSRFMiddleware()(ok)

	tests := []struct {
		name   string
		method string
		cookie string
		header string
		want   int
	}{
		{"safe method", http.MethodGet, "", "", http.StatusNoContent},
		{"missing cookie", http.MethodPost, "", "abc", http.StatusForbidden},
		{"mismatch", http.MethodPost, "abc", "abd", http.StatusForbidden},
		{"match", http.MethodDelete, "abc", "abc", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/admin/products", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: lib.CSRFCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set(lib.CSRFHeaderName, tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := &fakeLimiter{counts: map[string]int{}}
	mw, _, _ := newTestMiddleware(limiter)
	handler := mw.RateLimitMiddleware()(ok)

	codes := make([]int, 0, 3)
	for range 3 {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/artists/"+uuid.NewString(), nil))
		codes = append(codes, rec.Code)
	}
	// ids are grouped under one key
	if codes[0] != http.StatusNoContent || codes[1] != http.StatusNoContent || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v", codes)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/server", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("health checks are not limited, got %d", rec.Code)
	}
}

func TestRateLimitFailsOpen(t *testing.T) {
	mw, _, _ := newTestMiddleware(&fakeLimiter{err: errors.New("redis down")})
	rec := httptest.NewRecorder()
	mw.RateLimitMiddleware()(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	id := uuid.NewString()
	tests := map[string]string{
		"/":                                "/",
		"/admin/products/":                 "/admin/products",
		"/admin/products/" + id + "/images": "/admin/products/:id/images",
		"/artists/" + id:                   "/artists/:id",
	}
	for in, want := range tests {
		if got := normalizeEndpoint(in); got != want {
			t.Errorf("normalizeEndpoint(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRequestLogger(t *testing.T) {
	mw, _, _ := newTestMiddleware(nil)
	handler := mw.RequestLogger()(ok)

	for _, path := range []string{"/health/database", "/metrics", "/admin/products"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusNoContent {
			t.Errorf("%s: status = %d, want 204", path, rec.Code)
		}
	}
}

func TestWithAll(t *testing.T) {
	got := withAll([]string{"Content-Type", lib.CSRFHeaderName}, lib.CSRFHeaderName, "Retry-After")
	want := []string{"Content-Type", lib.CSRFHeaderName, "Retry-After"}
	if len(got) != len(want) {
		t.Fatalf("withAll = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("withAll = %v, want %v", got, want)
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	mw, _, _ := newTestMiddleware(nil)
	rec := httptest.NewRecorder()
	mw.SecurityHeaders()(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	for k, v := range securityHeaders {
		if got := rec.Header().Get(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
}

func TestBodyLimit(t *testing.T) {
	mw, _, _ := newTestMiddleware(nil)
	handler := mw.BodyLimit(4)(ok)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("too long"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("ok"))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}
