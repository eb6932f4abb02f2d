// Package seed fills an empty database with demo accounts, a current product and three artists.
package seed

import (
	"context"
	"fmt"
	"storefront_server/database"
	"storefront_server/lib"
	"storefront_server/services"
	"storefront_server/structs/tables"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/bxcodec/faker/v3"
	"github.com/google/uuid"
)

const (
	AdminEmail   = "admin@example.com"
	UserEmail    = "user@example.com"
	DemoPassword = "password"
)

// Data is the demo data set, ready to insert.
type Data struct {
	Admin   *tables.User
	User    *tables.User
	Profile *tables.PaymentProfile
	Product *tables.Product
	Images  []tables.ProductImage
	Artists []tables.Artist
}

// Build assembles the demo data. Both accounts share passwordHash.
func Build(now time.Time, passwordHash string) *Data {
	admin := &tables.User{Id: uuid.New(), Name: "Admin", Email: AdminEmail, PasswordHash: passwordHash, IsAdmin: true}
	user := &tables.User{Id: uuid.New(), Name: "User", Email: UserEmail, PasswordHash: passwordHash}

	profile := &tables.PaymentProfile{
		ID:          uuid.New(),
		UserID:      user.Id,
		CardBrand:   "visa",
		Last4:       "4242",
		ExpMonth:    12,
		ExpYear:     now.Year() + 3,
		BillingName: user.Name,
		Country:     "JP",
		PostalCode:  "100-0001",
		Region:      "Tokyo",
		Locality:    "Chiyoda",
		Line1:       "Chiyoda 1-1",
	}

	publishedAt := now
	product := &tables.Product{
		ID:          uuid.New(),
		Title:       "Fushiyama Weekly Product",
		Description: "A demo product for this week.",
		Specs:       []string{"Material: Cotton", "Size: Free"},
		PriceYen:    29800,
		Status:      tables.ProductStatusPublished,
		PublishedAt: &publishedAt,
		CreatedBy:   &admin.Id,
	}

	// the files do not exist; the home gallery falls back to folder scans
	images := make([]tables.ProductImage, 0, 3)
	for i := 1; i <= 3; i++ {
		images = append(images, tables.ProductImage{
			ID:        uuid.New(),
			ProductID: product.ID,
			Path:      fmt.Sprintf("products/%s/%d_demo.jpg", product.ID, i),
			AltText:   fmt.Sprintf("Demo image %d", i),
			Position:  i,
		})
	}

	artists := make([]tables.Artist, 0, tables.MaxVisibleArtists)
	for order := 1; order <= tables.MaxVisibleArtists; order++ {
		bio := faker.Paragraph()
		artists = append(artists, tables.Artist{
			ID:           uuid.New(),
			Name:         faker.Name(),
			Title:        "Creator",
			Bio:          &bio,
			DisplayOrder: &order,
			IsVisible:    true,
		})
	}

	return &Data{Admin: admin, User: user, Profile: profile, Product: product, Images: images, Artists: artists}
}

// Run inserts the demo data in one transaction. A database that already has the admin account is left alone.
func Run(ctx context.Context, logger *gecho.Logger, repo database.Repository) error {
	startTime := time.Now()

	if _, err := repo.FindUserByEmail(ctx, AdminEmail); err == nil {
		logger.Info("Demo data already present, skipping seed")
		return nil
	} else if !lib.IsNotFound(err) {
		return fmt.Errorf("failed to check for demo data: %w", err)
	}

	hash, err := lib.HashPassword(DemoPassword, lib.DefaultArgonParams)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	data := Build(time.Now(), hash)

	err = repo.Transaction(ctx, func(ctx context.Context, tx database.Repository) error {
		for _, u := range []*tables.User{data.Admin, data.User} {
			if err := tx.CreateUser(ctx, u); err != nil {
				return fmt.Errorf("failed to create user %s: %w", u.Email, err)
			}
		}
		if err := tx.UpsertPaymentProfile(ctx, data.Profile); err != nil {
			return fmt.Errorf("failed to create payment profile: %w", err)
		}
		if err := tx.CreateProduct(ctx, data.Product); err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		for i := range data.Images {
			if err := tx.CreateImage(ctx, &data.Images[i]); err != nil {
				return fmt.Errorf("failed to create product image: %w", err)
			}
		}
		for i := range data.Artists {
			if err := tx.CreateArtist(ctx, &data.Artists[i]); err != nil {
				return fmt.Errorf("failed to create artist: %w", err)
			}
		}
		return services.NewSettingService(logger, tx).SetCurrentProductID(ctx, data.Product.ID)
	})
	if err != nil {
		logger.Error("Failed to seed database", gecho.Field("error", err))
		return err
	}

	logger.Info("Database seeded",
		gecho.Field("product_id", data.Product.ID),
		gecho.Field("artists", len(data.Artists)),
		gecho.Field("duration", time.Since(startTime)))
	return nil
}
