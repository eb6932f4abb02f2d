package admin

import (
	"net/http"
	"storefront_server/api/middleware"
	"storefront_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type AdminRoutesManager struct {
	logger         *gecho.Logger
	productService *services.ProductService
	artistService  *services.ArtistService
	settingService *services.SettingService
	mw             *middleware.Middleware
}

func NewAdminRoutesManager(
	logger *gecho.Logger,
	productService *services.ProductService,
	artistService *services.ArtistService,
	settingService *services.SettingService,
	mw *middleware.Middleware,
) *AdminRoutesManager {
	return &AdminRoutesManager{
		logger:         logger,
		productService: productService,
		artistService:  artistService,
		settingService: settingService,
		mw:             mw,
	}
}

func (ar *AdminRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(ar.mw.UserAuthMiddleware)
		r.Use(ar.mw.AdminAuthMiddleware)

		r.Get("/products", ar.ListProducts)
		r.Get("/artists", ar.ListArtists)
		r.Get("/settings", ar.GetSettings)

		// Mutations behind CSRF
		r.Group(func(r chi.Router) {
			r.Use(ar.mw.CSRFMiddleware())

			r.Post("/products", ar.CreateProduct)
			r.Route("/products/{id}", func(r chi.Router) {
				r.Post("/edit", ar.EditProduct)
				r.Put("/", ar.UpdateProduct)
				r.Delete("/", ar.DeleteProduct)
				r.Post("/publish", ar.TogglePublish)
				r.Post("/current", ar.SetCurrentProduct)
				r.Post("/images", ar.AddImages)
				r.Put("/images/{imageID}", ar.UpdateImageAlt)
				r.Delete("/images/{imageID}", ar.DeleteImage)
			})

			r.Post("/artists", ar.CreateArtist)
			r.Post("/artists/new", ar.NewArtistEdit)
			r.Route("/artists/{id}", func(r chi.Router) {
				r.Post("/edit", ar.EditArtist)
				r.Put("/", ar.UpdateArtist)
				r.Delete("/", ar.DeleteArtist)
				r.Post("/portrait", ar.UploadPortrait)
				r.Post("/visibility", ar.ToggleArtistVisibility)
			})

			r.Put("/settings/purchase-completed", ar.SetPurchaseCompleted)
		})
	})
}

// editor is the admin making the request
func editor(r *http.Request) uuid.UUID {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		return uuid.Nil
	}
	return claims.Sub
}
