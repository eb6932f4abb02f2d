package middleware

import (
	"context"
	"storefront_server/services"
	"storefront_server/structs"
	"time"

	"github.com/MonkyMars/gecho"
)

// RateLimiter counts requests per client and endpoint within a window.
type RateLimiter interface {
	IncrementRateLimit(ctx context.Context, ip, endpoint string, ttl time.Duration) (int, error)
}

type Middleware struct {
	logger      *gecho.Logger
	cfg         *structs.Config
	authService *services.AuthService
	limiter     RateLimiter
}

func NewMiddleware(cfg *structs.Config, logger *gecho.Logger, authService *services.AuthService, limiter RateLimiter) *Middleware {
	return &Middleware{
		logger:      logger,
		cfg:         cfg,
		authService: authService,
		limiter:     limiter,
	}
}
