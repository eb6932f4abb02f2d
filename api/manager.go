package api

import (
	"storefront_server/api/admin"
	"storefront_server/api/auth"
	"storefront_server/api/health"
	"storefront_server/api/home"
	"storefront_server/api/middleware"
	"storefront_server/api/payment"
	"storefront_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type routerManager struct {
	homeRoutes    *home.HomeRoutesManager
	healthRoutes  *health.HealthRoutesManager
	authRoutes    *auth.AuthRoutesManager
	paymentRoutes *payment.PaymentRoutesManager
	adminRoutes   *admin.AdminRoutesManager
}

func NewRouterManager(logger *gecho.Logger, sm *services.ServiceManager, mw *middleware.Middleware) *routerManager {
	return &routerManager{
		homeRoutes:    home.NewHomeRoutesManager(logger, sm.HomeService, sm.ArtistService),
		healthRoutes:  health.NewHealthRoutesManager(sm.HealthService),
		authRoutes:    auth.NewAuthRoutesManager(logger, sm.AuthService, mw),
		paymentRoutes: payment.NewPaymentRoutesManager(logger, sm.PaymentService, mw),
		adminRoutes:   admin.NewAdminRoutesManager(logger, sm.ProductService, sm.ArtistService, sm.SettingService, mw),
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	rm.homeRoutes.RegisterRoutes(r)
	rm.healthRoutes.RegisterRoutes(r)
	rm.authRoutes.RegisterRoutes(r)
	rm.paymentRoutes.RegisterRoutes(r)
	rm.adminRoutes.RegisterRoutes(r)
}
