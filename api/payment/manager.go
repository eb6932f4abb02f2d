package payment

import (
	"storefront_server/api/middleware"
	"storefront_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type PaymentRoutesManager struct {
	logger         *gecho.Logger
	paymentService *services.PaymentService
	mw             *middleware.Middleware
}

func NewPaymentRoutesManager(logger *gecho.Logger, paymentService *services.PaymentService, mw *middleware.Middleware) *PaymentRoutesManager {
	return &PaymentRoutesManager{
		logger:         logger,
		paymentService: paymentService,
		mw:             mw,
	}
}

func (pr *PaymentRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/payment", func(r chi.Router) {
		r.Use(pr.mw.UserAuthMiddleware)
		r.Use(pr.mw.CSRFMiddleware())

		r.Get("/", pr.HandleEdit)
		r.Post("/", pr.HandleProceed)
		r.Get("/confirm", pr.HandleReview)
		r.Post("/confirm", pr.HandleConfirm)
	})
}
