package database

import (
	"context"
	"time"

	"storefront_server/structs/tables"

	"github.com/google/uuid"
)

// Repository is the persistence surface the services depend on.
// Find* lookups return lib.ErrNotFound for missing rows, except settings and
// payment profiles whose absence is a normal state and yields nil.
type Repository interface {
	GetSetting(ctx context.Context, key string) (*tables.SiteSetting, error)
	PutSetting(ctx context.Context, setting *tables.SiteSetting) error
	DeleteSetting(ctx context.Context, key string) error

	ListProducts(ctx context.Context, limit int) ([]tables.Product, error)
	FindProduct(ctx context.Context, id uuid.UUID) (*tables.Product, error)
	CreateProduct(ctx context.Context, product *tables.Product) error
	UpdateProduct(ctx context.Context, product *tables.Product) error
	SoftDeleteProduct(ctx context.Context, id uuid.UUID) error

	ListImages(ctx context.Context, productID uuid.UUID) ([]tables.ProductImage, error)
	CreateImage(ctx context.Context, image *tables.ProductImage) error
	UpdateImageAlt(ctx context.Context, productID, imageID uuid.UUID, altText string) error
	UpdateImagePosition(ctx context.Context, imageID uuid.UUID, position int) error
	DeleteImage(ctx context.Context, productID, imageID uuid.UUID) error

	ListArtists(ctx context.Context, visibleOnly bool, limit int) ([]tables.Artist, error)
	FindArtist(ctx context.Context, id uuid.UUID) (*tables.Artist, error)
	CreateArtist(ctx context.Context, artist *tables.Artist) error
	UpdateArtist(ctx context.Context, artist *tables.Artist) error
	DeleteArtist(ctx context.Context, id uuid.UUID) error

	FindPaymentProfile(ctx context.Context, userID uuid.UUID) (*tables.PaymentProfile, error)
	UpsertPaymentProfile(ctx context.Context, profile *tables.PaymentProfile) error

	FindUserByEmail(ctx context.Context, email string) (*tables.User, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*tables.User, error)
	CreateUser(ctx context.Context, user *tables.User) error
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error

	// Transaction runs fn against a Repository bound to a single database transaction.
	Transaction(ctx context.Context, fn func(ctx context.Context, tx Repository) error) error
}
