package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"storefront_server/database"
	"storefront_server/lib"
	"storefront_server/storage"
	"storefront_server/structs"
	"storefront_server/structs/tables"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

const (
	adminProductListLimit = 50
	newProductTitle       = "New Product"
	productEditSession    = "admin.product_edit"
)

type ProductService struct {
	logger        *gecho.Logger
	repo          database.Repository
	settings      *SettingService
	sessions      SessionStore
	disk          Disk
	maxUploadSize int64
	now           func() time.Time
}

func NewProductService(logger *gecho.Logger, cfg *structs.Config, repo database.Repository, settings *SettingService, sessions SessionStore, disk Disk) *ProductService {
	return &ProductService{
		logger:        logger,
		repo:          repo,
		settings:      settings,
		sessions:      sessions,
		disk:          disk,
		maxUploadSize: cfg.Storage.MaxUploadSize,
		now:           time.Now,
	}
}

// AcceptedUploads is how many of n new images fit next to existing ones under the gallery cap.
func AcceptedUploads(existing, n int) int {
	return min(n, max(0, tables.MaxProductImages-existing))
}

// RepackPositions renumbers images 1..N in their current position order.
// It returns the renumbered slice and the images whose position changed.
func RepackPositions(images []tables.ProductImage) (packed, moved []tables.ProductImage) {
	packed = make([]tables.ProductImage, len(images))
	copy(packed, images)
	sort.SliceStable(packed, func(i, j int) bool {
		return packed[i].Position < packed[j].Position
	})

	for i := range packed {
		if packed[i].Position != i+1 {
			packed[i].Position = i + 1
			moved = append(moved, packed[i])
		}
	}
	return packed, moved
}

// List returns the admin overview: newest 50 products, published first, plus the editor's open product.
func (ps *ProductService) List(ctx context.Context, editor uuid.UUID) (*structs.AdminProductsView, error) {
	startTime := time.Now()

	products, err := ps.repo.ListProducts(ctx, adminProductListLimit)
	if err != nil {
		ps.logger.Error("Failed to fetch products",
			gecho.Field("error", err),
			gecho.Field("duration", time.Since(startTime)))
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	currentID, err := ps.settings.CurrentProductID(ctx)
	if err != nil {
		return nil, err
	}

	view := &structs.AdminProductsView{
		Products:         products,
		CurrentProductID: currentID,
		EditingImages:    []tables.ProductImage{},
	}

	state, err := ps.editState(ctx, editor)
	if err != nil {
		return nil, err
	}
	if state.EditingProductID != nil {
		product, images, err := ps.loadForEditing(ctx, *state.EditingProductID)
		switch {
		case errors.Is(err, lib.ErrNotFound):
			_ = ps.sessions.Forget(ctx, editor, productEditSession)
		case err != nil:
			return nil, err
		default:
			view.Editing = product
			view.EditingImages = images
		}
	}

	ps.logger.Debug("Products fetched successfully",
		gecho.Field("count", len(products)),
		gecho.Field("duration", time.Since(startTime)))

	return view, nil
}

// CreateDraft inserts an empty draft and makes it the editor's open product.
func (ps *ProductService) CreateDraft(ctx context.Context, creator uuid.UUID) (*tables.Product, error) {
	product := &tables.Product{
		ID:       uuid.New(),
		Title:    newProductTitle,
		Specs:    []string{},
		PriceYen: 0,
		Status:   tables.ProductStatusDraft,
	}
	if creator != uuid.Nil {
		product.CreatedBy = &creator
	}

	if err := ps.repo.CreateProduct(ctx, product); err != nil {
		ps.logger.Error("Failed to create draft product", gecho.Field("error", err))
		return nil, fmt.Errorf("failed to create draft product: %w", err)
	}

	if err := ps.setEditing(ctx, creator, &product.ID); err != nil {
		return nil, err
	}

	ps.logger.Info("Draft product created", gecho.Field("product_id", product.ID))
	return product, nil
}

// StartEdit opens an existing product for the editor.
func (ps *ProductService) StartEdit(ctx context.Context, editor, id uuid.UUID) (*tables.Product, []tables.ProductImage, error) {
	product, images, err := ps.loadForEditing(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if err := ps.setEditing(ctx, editor, &product.ID); err != nil {
		return nil, nil, err
	}
	return product, images, nil
}

// Update validates the form and saves the product fields and image alt texts together.
func (ps *ProductService) Update(ctx context.Context, id uuid.UUID, form *structs.ProductForm) (*tables.Product, error) {
	if err := lib.Validate(form); err != nil {
		return nil, err
	}

	var product *tables.Product
	err := ps.repo.Transaction(ctx, func(ctx context.Context, tx database.Repository) error {
		var err error
		product, err = tx.FindProduct(ctx, id)
		if err != nil {
			return err
		}

		product.Title = strings.TrimSpace(form.Title)
		product.Description = lib.SanitizeText(form.Description)
		product.PriceYen = form.PriceYen
		product.Specs = cleanSpecs(form.Specs)

		if err := tx.UpdateProduct(ctx, product); err != nil {
			return err
		}

		for _, alt := range form.ImageAlts {
			err := tx.UpdateImageAlt(ctx, product.ID, alt.ImageID, strings.TrimSpace(alt.AltText))
			if errors.Is(err, lib.ErrNotFound) {
				// images of other products are ignored
				continue
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ps.logger.Info("Product updated", gecho.Field("product_id", id))
	return product, nil
}

func cleanSpecs(specs []string) []string {
	out := make([]string, 0, len(specs))
	for _, s := range specs {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// AddImages stores uploads as new gallery images. Files past the 10 image cap are ignored.
// It returns how many were accepted.
func (ps *ProductService) AddImages(ctx context.Context, id uuid.UUID, uploads []storage.Upload) (int, error) {
	startTime := time.Now()

	if len(uploads) == 0 {
		return 0, lib.NewValidationError("images", "is required")
	}
	if err := checkUploads("images", uploads, ps.maxUploadSize); err != nil {
		return 0, err
	}

	var stored []string
	accepted := 0

	err := ps.repo.Transaction(ctx, func(ctx context.Context, tx database.Repository) error {
		// a retried transaction starts over
		for _, path := range stored {
			_ = ps.disk.Delete(path)
		}
		stored, accepted = stored[:0], 0

		product, err := tx.FindProduct(ctx, id)
		if err != nil {
			return err
		}

		existing, err := tx.ListImages(ctx, product.ID)
		if err != nil {
			return err
		}

		dir := "products/" + product.ID.String()
		for _, upload := range uploads[:AcceptedUploads(len(existing), len(uploads))] {
			path, err := ps.disk.StoreImage(dir, upload)
			if err != nil {
				return fmt.Errorf("failed to store image: %w", err)
			}
			stored = append(stored, path)

			err = tx.CreateImage(ctx, &tables.ProductImage{
				ID:        uuid.New(),
				ProductID: product.ID,
				Path:      path,
				AltText:   product.Title,
				Position:  len(existing) + accepted + 1,
			})
			if err != nil {
				return err
			}
			accepted++
		}
		return nil
	})
	if err != nil {
		for _, path := range stored {
			_ = ps.disk.Delete(path)
		}
		ps.logger.Error("Failed to add product images",
			gecho.Field("product_id", id),
			gecho.Field("error", err),
			gecho.Field("duration", time.Since(startTime)))
		return 0, err
	}

	ps.logger.Info("Product images added",
		gecho.Field("product_id", id),
		gecho.Field("received", len(uploads)),
		gecho.Field("accepted", accepted),
		gecho.Field("duration", time.Since(startTime)))

	return accepted, nil
}

// DeleteImage removes one image file and row, then closes the gap in positions.
func (ps *ProductService) DeleteImage(ctx context.Context, productID, imageID uuid.UUID) error {
	var path string
	err := ps.repo.Transaction(ctx, func(ctx context.Context, tx database.Repository) error {
		images, err := tx.ListImages(ctx, productID)
		if err != nil {
			return err
		}

		var target *tables.ProductImage
		remaining := make([]tables.ProductImage, 0, len(images))
		for i := range images {
			if images[i].ID == imageID {
				target = &images[i]
				continue
			}
			remaining = append(remaining, images[i])
		}
		if target == nil {
			return lib.ErrNotFound
		}
		path = target.Path

		if err := tx.DeleteImage(ctx, productID, imageID); err != nil {
			return err
		}

		_, moved := RepackPositions(remaining)
		for _, img := range moved {
			if err := tx.UpdateImagePosition(ctx, img.ID, img.Position); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if path != "" {
		if err := ps.disk.Delete(path); err != nil {
			ps.logger.Warn("Failed to delete image file", gecho.Field("path", path), gecho.Field("error", err))
		}
	}

	ps.logger.Info("Product image deleted", gecho.Field("product_id", productID), gecho.Field("image_id", imageID))
	return nil
}

// UpdateImageAlt changes the alt text of one image.
func (ps *ProductService) UpdateImageAlt(ctx context.Context, productID, imageID uuid.UUID, altText string) error {
	req := &structs.ImageAltRequest{AltText: strings.TrimSpace(altText)}
	if err := lib.Validate(req); err != nil {
		return err
	}
	return ps.repo.UpdateImageAlt(ctx, productID, imageID, req.AltText)
}

// TogglePublish flips draft and published. Archived products are rejected untouched.
func (ps *ProductService) TogglePublish(ctx context.Context, id uuid.UUID) (*tables.Product, error) {
	var product *tables.Product
	err := ps.repo.Transaction(ctx, func(ctx context.Context, tx database.Repository) error {
		var err error
		product, err = tx.FindProduct(ctx, id)
		if err != nil {
			return err
		}
		if err := product.TogglePublish(ps.now()); err != nil {
			return err
		}
		return tx.UpdateProduct(ctx, product)
	})
	if err != nil {
		return nil, err
	}

	ps.logger.Info("Product publish state toggled",
		gecho.Field("product_id", id),
		gecho.Field("status", product.Status))
	return product, nil
}

// SetCurrent publishes the product when needed and makes it the home page product.
func (ps *ProductService) SetCurrent(ctx context.Context, id uuid.UUID) (*tables.Product, error) {
	var product *tables.Product
	err := ps.repo.Transaction(ctx, func(ctx context.Context, tx database.Repository) error {
		var err error
		product, err = tx.FindProduct(ctx, id)
		if err != nil {
			return err
		}

		if !product.IsPublished() {
			product.Publish(ps.now())
			if err := tx.UpdateProduct(ctx, product); err != nil {
				return err
			}
		}

		return ps.settings.With(tx).SetCurrentProductID(ctx, product.ID)
	})
	if err != nil {
		return nil, err
	}

	ps.logger.Info("Current product set", gecho.Field("product_id", id))
	return product, nil
}

// DeleteProduct removes every image of the product, retires the product row and
// clears the current product and the editor's open product when they point at it.
func (ps *ProductService) DeleteProduct(ctx context.Context, editor, id uuid.UUID) error {
	startTime := time.Now()
	var paths []string

	err := ps.repo.Transaction(ctx, func(ctx context.Context, tx database.Repository) error {
		paths = paths[:0]
		product, err := tx.FindProduct(ctx, id)
		if err != nil {
			return err
		}

		images, err := tx.ListImages(ctx, product.ID)
		if err != nil {
			return err
		}
		for _, img := range images {
			if err := tx.DeleteImage(ctx, product.ID, img.ID); err != nil {
				return err
			}
			if img.Path != "" {
				paths = append(paths, img.Path)
			}
		}

		if err := tx.SoftDeleteProduct(ctx, product.ID); err != nil {
			return err
		}

		settings := ps.settings.With(tx)
		currentID, err := settings.CurrentProductID(ctx)
		if err != nil {
			return err
		}
		if currentID != nil && *currentID == product.ID {
			return settings.ClearFlag(ctx, tables.SettingCurrentProductID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// files go only once the rows are gone for good
	for _, p := range paths {
		if err := ps.disk.Delete(p); err != nil {
			ps.logger.Warn("Failed to delete image file", gecho.Field("path", p), gecho.Field("error", err))
		}
	}

	state, err := ps.editState(ctx, editor)
	if err == nil && state.EditingProductID != nil && *state.EditingProductID == id {
		_ = ps.sessions.Forget(ctx, editor, productEditSession)
	}

	ps.logger.Info("Product deleted",
		gecho.Field("product_id", id),
		gecho.Field("images_removed", len(paths)),
		gecho.Field("duration", time.Since(startTime)))
	return nil
}

func (ps *ProductService) loadForEditing(ctx context.Context, id uuid.UUID) (*tables.Product, []tables.ProductImage, error) {
	product, err := ps.repo.FindProduct(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	images, err := ps.repo.ListImages(ctx, product.ID)
	if err != nil {
		return nil, nil, err
	}
	if len(images) > tables.MaxProductImages {
		images = images[:tables.MaxProductImages]
	}
	return product, images, nil
}

func (ps *ProductService) editState(ctx context.Context, editor uuid.UUID) (structs.ProductEditState, error) {
	var state structs.ProductEditState
	if _, err := ps.sessions.Load(ctx, editor, productEditSession, &state); err != nil {
		return structs.ProductEditState{}, fmt.Errorf("failed to load product edit state: %w", err)
	}
	return state, nil
}

func (ps *ProductService) setEditing(ctx context.Context, editor uuid.UUID, id *uuid.UUID) error {
	state := structs.ProductEditState{EditingProductID: id}
	if err := ps.sessions.Save(ctx, editor, productEditSession, state); err != nil {
		return fmt.Errorf("failed to save product edit state: %w", err)
	}
	return nil
}
