package api

import (
	"net/http"
	"storefront_server/api/middleware"
	"storefront_server/config"
	"storefront_server/services"
	"storefront_server/storage"
	"storefront_server/structs"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	chiware "github.com/go-chi/chi/v5/middleware"
)

// App builds the HTTP handler: global middleware, the JSON API and the public media files.
func App(logger *gecho.Logger, cfg *structs.Config, sm *services.ServiceManager, disk *storage.Disk) chi.Router {
	// access logs skip the caller, it is always the logging middleware
	accessLog := gecho.NewLogger(gecho.NewConfig(
		gecho.WithShowCaller(false),
		gecho.WithLogLevel(gecho.ParseLogLevel(config.GetLogLevel())),
	))
	mw := middleware.NewMiddleware(cfg, accessLog, sm.AuthService, sm.CacheService)

	r := chi.NewRouter()
	r.Use(
		chiware.RequestID,
		chiware.RealIP,
		chiware.Recoverer,
		mw.BodyLimit(cfg.Server.MaxBodyBytes),
		mw.SecurityHeaders(),
		mw.RequestLogger(),
		middleware.MetricsMiddleware,
		mw.SetupCORS().Handler,
		mw.RateLimitMiddleware(),
	)

	NewRouterManager(logger, sm, mw).RegisterRoutes(r)
	mountMedia(r, cfg.Storage.PublicURL, disk)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		gecho.NotFound(w, gecho.Send())
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		gecho.MethodNotAllowed(w, gecho.Send())
	})

	return r
}

// mountMedia serves stored images under the public url prefix.
func mountMedia(r chi.Router, publicURL string, disk *storage.Disk) {
	prefix := strings.TrimSuffix(publicURL, "/")
	r.Handle(prefix+"/*", http.StripPrefix(prefix, disk.Handler()))
}
