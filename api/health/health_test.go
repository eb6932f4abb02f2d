package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"storefront_server/services"
	"strings"
	"testing"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHealthRoutes(t *testing.T) {
	up := services.PingFunc(func(context.Context) error { return nil })
	down := services.PingFunc(func(context.Context) error { return errors.New("connection refused") })

	r := chi.NewRouter()
	NewHealthRoutesManager(services.NewHealthService(gecho.NewDefaultLogger(), up, down)).RegisterRoutes(r)

	tests := []struct {
		path string
		want int
	}{
		{"/health/server", http.StatusOK},
		{"/health/database", http.StatusOK},
		{"/health/cache", http.StatusServiceUnavailable},
		{"/metrics", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestMetricsExposeGalleryUploads(t *testing.T) {
	r := chi.NewRouter()
	ping := services.PingFunc(func(context.Context) error { return nil })
	NewHealthRoutesManager(services.NewHealthService(gecho.NewDefaultLogger(), ping, ping)).RegisterRoutes(r)

	before := testutil.ToFloat64(galleryUploads.WithLabelValues("ignored"))
	ObserveUpload(8, 2)
	ObserveRequest(http.MethodGet, "/", "200", 3*time.Millisecond)

	if got := testutil.ToFloat64(galleryUploads.WithLabelValues("ignored")) - before; got != 2 {
		t.Fatalf("ignored uploads delta = %v, want 2", got)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	for _, name := range []string{"storefront_gallery_uploads_total", "storefront_http_requests_total"} {
		if !strings.Contains(body, name) {
			t.Errorf("metrics output is missing %s", name)
		}
	}
}
