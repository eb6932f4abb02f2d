package services

import (
	"context"
	"errors"
	"fmt"
	"storefront_server/database"
	"storefront_server/lib"
	"storefront_server/structs"
	"storefront_server/structs/tables"
	"time"

	"github.com/MonkyMars/gecho"
)

type HomeService struct {
	logger   *gecho.Logger
	repo     database.Repository
	settings *SettingService
	disk     PublicDisk
}

func NewHomeService(logger *gecho.Logger, repo database.Repository, settings *SettingService, disk PublicDisk) *HomeService {
	return &HomeService{logger: logger, repo: repo, settings: settings, disk: disk}
}

// Home assembles the public page: the current product and its gallery, visible artists and the sold-out state.
func (hs *HomeService) Home(ctx context.Context) (*structs.HomeView, error) {
	startTime := time.Now()

	view := &structs.HomeView{
		Images:  []structs.GalleryImage{},
		Artists: []structs.ArtistCard{},
	}

	currentID, err := hs.settings.CurrentProductID(ctx)
	if err != nil {
		return nil, err
	}

	if currentID != nil {
		product, err := hs.repo.FindProduct(ctx, *currentID)
		switch {
		case errors.Is(err, lib.ErrNotFound):
			hs.logger.Warn("Current product no longer exists", gecho.Field("product_id", *currentID))
		case err != nil:
			return nil, fmt.Errorf("failed to load current product: %w", err)
		default:
			rows, err := hs.repo.ListImages(ctx, product.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to load product images: %w", err)
			}
			view.Product = product
			view.Images = ResolveGallery(hs.disk, product, rows)
		}
	}

	artists, err := hs.repo.ListArtists(ctx, true, tables.MaxVisibleArtists)
	if err != nil {
		return nil, fmt.Errorf("failed to load artists: %w", err)
	}
	for i := range artists {
		view.Artists = append(view.Artists, NewArtistCard(hs.disk, &artists[i]))
	}

	completed, err := hs.settings.PurchaseCompleted(ctx, false)
	if err != nil {
		return nil, err
	}
	view.SoldOut = completed
	view.CanPurchase = !completed && view.Product != nil

	hs.logger.Debug("Home view rendered",
		gecho.Field("has_product", view.Product != nil),
		gecho.Field("images", len(view.Images)),
		gecho.Field("artists", len(view.Artists)),
		gecho.Field("duration", time.Since(startTime)))

	return view, nil
}
