package health

import (
	"storefront_server/services"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registerOnce sync.Once

type HealthRoutesManager struct {
	healthService *services.HealthService
}

func NewHealthRoutesManager(healthService *services.HealthService) *HealthRoutesManager {
	return &HealthRoutesManager{
		healthService: healthService,
	}
}

func (hrm *HealthRoutesManager) RegisterRoutes(r chi.Router) {
	r.Get("/health/server", hrm.GetServerHealth)
	for _, name := range hrm.healthService.Dependencies() {
		r.Get("/health/"+name, hrm.dependency(name))
	}

	registerOnce.Do(func() {
		prometheus.MustRegister(collectors()...)
	})
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}
