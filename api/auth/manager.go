package auth

import (
	"storefront_server/api/middleware"
	"storefront_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type AuthRoutesManager struct {
	logger      *gecho.Logger
	authService *services.AuthService
	mw          *middleware.Middleware
}

func NewAuthRoutesManager(logger *gecho.Logger, authService *services.AuthService, mw *middleware.Middleware) *AuthRoutesManager {
	return &AuthRoutesManager{logger: logger, authService: authService, mw: mw}
}

// RegisterRoutes mounts /auth. Clients fetch /auth/csrf before logging in.
func (ar *AuthRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Get("/csrf", ar.HandleCSRF)
		r.With(ar.mw.CSRFMiddleware()).Post("/login", ar.HandleLogin)
		r.With(ar.mw.CSRFMiddleware()).Post("/logout", ar.HandleLogout)
		r.With(ar.mw.UserAuthMiddleware).Get("/me", ar.HandleMe)
	})
}
