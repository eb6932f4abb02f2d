package home

import (
	"storefront_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type HomeRoutesManager struct {
	logger        *gecho.Logger
	homeService   *services.HomeService
	artistService *services.ArtistService
}

func NewHomeRoutesManager(logger *gecho.Logger, homeService *services.HomeService, artistService *services.ArtistService) *HomeRoutesManager {
	return &HomeRoutesManager{
		logger:        logger,
		homeService:   homeService,
		artistService: artistService,
	}
}

func (hr *HomeRoutesManager) RegisterRoutes(r chi.Router) {
	r.Get("/", hr.HandleHome)
	r.Get("/artists/{id}", hr.HandleShowArtist)
}
