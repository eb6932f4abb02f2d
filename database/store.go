package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront_server/lib"
	"storefront_server/structs/tables"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Store implements Repository on top of bun. It works on a pool or on a transaction.
type Store struct {
	db bun.IDB
}

var _ Repository = (*Store)(nil)

func NewStore(db bun.IDB) *Store {
	return &Store{db: db}
}

func (s *Store) Transaction(ctx context.Context, fn func(ctx context.Context, tx Repository) error) error {
	return Transaction(ctx, s.db, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &Store{db: tx})
	})
}

func found[T any](row *T, err error) (*T, error) {
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	if row == nil {
		return nil, lib.ErrNotFound
	}
	return row, nil
}

func affected(n int, err error) error {
	if err != nil {
		return lib.MapPgError(err)
	}
	if n == 0 {
		return lib.ErrNotFound
	}
	return nil
}

// Settings

func (s *Store) GetSetting(ctx context.Context, key string) (*tables.SiteSetting, error) {
	row, err := Query[tables.SiteSetting](s.db).Where("ss.key", key).First(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return row, nil
}

func (s *Store) PutSetting(ctx context.Context, setting *tables.SiteSetting) error {
	setting.UpdatedAt = time.Now()
	_, err := Upsert(s.db, ctx, setting, "key", "value", "updated_at")
	return lib.MapPgError(err)
}

func (s *Store) DeleteSetting(ctx context.Context, key string) error {
	_, err := Query[tables.SiteSetting](s.db).Where("key", key).Delete(ctx)
	return lib.MapPgError(err)
}

// Products

func (s *Store) ListProducts(ctx context.Context, limit int) ([]tables.Product, error) {
	rows, err := ExcludeSoftDeleted(Query[tables.Product](s.db)).
		OrderRaw("CASE WHEN p.status = 'published' THEN 0 ELSE 1 END").
		OrderRaw("p.published_at DESC NULLS LAST").
		OrderBy("p.created_at", DESC).
		Limit(limit).
		All(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return rows, nil
}

func (s *Store) FindProduct(ctx context.Context, id uuid.UUID) (*tables.Product, error) {
	return found(ExcludeSoftDeleted(Query[tables.Product](s.db)).Where("p.id", id).First(ctx))
}

func (s *Store) CreateProduct(ctx context.Context, product *tables.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if product.Specs == nil {
		product.Specs = []string{}
	}
	_, err := Query[tables.Product](s.db).Insert(ctx, product)
	return lib.MapPgError(err)
}

func (s *Store) UpdateProduct(ctx context.Context, product *tables.Product) error {
	product.UpdatedAt = time.Now()
	if product.Specs == nil {
		product.Specs = []string{}
	}
	return affected(Query[tables.Product](s.db).
		Columns("title", "description", "specs", "price_yen", "status", "published_at", "updated_at").
		Update(ctx, product))
}

func (s *Store) SoftDeleteProduct(ctx context.Context, id uuid.UUID) error {
	return affected(SoftDelete[tables.Product](s.db, ctx, id))
}

// Images

func (s *Store) ListImages(ctx context.Context, productID uuid.UUID) ([]tables.ProductImage, error) {
	rows, err := Query[tables.ProductImage](s.db).
		Where("pi.product_id", productID).
		OrderBy("pi.position", ASC).
		OrderBy("pi.created_at", ASC).
		All(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return rows, nil
}

func (s *Store) CreateImage(ctx context.Context, image *tables.ProductImage) error {
	if image.ID == uuid.Nil {
		image.ID = uuid.New()
	}
	_, err := Query[tables.ProductImage](s.db).Insert(ctx, image)
	return lib.MapPgError(err)
}

func (s *Store) UpdateImageAlt(ctx context.Context, productID, imageID uuid.UUID, altText string) error {
	return affected(Query[tables.ProductImage](s.db).
		Where("id", imageID).
		Where("product_id", productID).
		Update(ctx, map[string]any{"alt_text": altText}))
}

func (s *Store) UpdateImagePosition(ctx context.Context, imageID uuid.UUID, position int) error {
	return affected(Query[tables.ProductImage](s.db).
		Where("id", imageID).
		Update(ctx, map[string]any{"position": position}))
}

func (s *Store) DeleteImage(ctx context.Context, productID, imageID uuid.UUID) error {
	return affected(Query[tables.ProductImage](s.db).
		Where("id", imageID).
		Where("product_id", productID).
		Delete(ctx))
}

// Artists

func (s *Store) ListArtists(ctx context.Context, visibleOnly bool, limit int) ([]tables.Artist, error) {
	q := Query[tables.Artist](s.db)
	if visibleOnly {
		q = q.Where("a.is_visible", true)
	}
	q = q.OrderRaw("a.display_order ASC NULLS LAST").
		OrderBy("a.created_at", ASC).
		OrderBy("a.id", ASC)
	if limit > 0 {
		q = q.Limit(limit)
	}

	rows, err := q.All(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return rows, nil
}

func (s *Store) FindArtist(ctx context.Context, id uuid.UUID) (*tables.Artist, error) {
	return found(FindByID[tables.Artist](s.db, ctx, id))
}

func (s *Store) CreateArtist(ctx context.Context, artist *tables.Artist) error {
	if artist.ID == uuid.Nil {
		artist.ID = uuid.New()
	}
	_, err := Query[tables.Artist](s.db).Insert(ctx, artist)
	return lib.MapPgError(err)
}

func (s *Store) UpdateArtist(ctx context.Context, artist *tables.Artist) error {
	artist.UpdatedAt = time.Now()
	return affected(Query[tables.Artist](s.db).
		Columns("name", "title", "genre", "bio", "portrait_path", "display_order", "is_visible", "updated_at").
		Update(ctx, artist))
}

func (s *Store) DeleteArtist(ctx context.Context, id uuid.UUID) error {
	return affected(DeleteByID[tables.Artist](s.db, ctx, id))
}

// Payment profiles

func (s *Store) FindPaymentProfile(ctx context.Context, userID uuid.UUID) (*tables.PaymentProfile, error) {
	row, err := Query[tables.PaymentProfile](s.db).Where("pp.user_id", userID).First(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return row, nil
}

func (s *Store) UpsertPaymentProfile(ctx context.Context, profile *tables.PaymentProfile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	profile.UpdatedAt = time.Now()

	_, err := Upsert(s.db, ctx, profile, "user_id",
		"card_brand", "last4", "exp_month", "exp_year", "billing_name", "country", "postal_code",
		"region", "locality", "line1", "line2", "updated_at",
	)
	if err != nil {
		return fmt.Errorf("failed to save payment profile: %w", lib.MapPgError(err))
	}
	return nil
}

// Users

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*tables.User, error) {
	return found(Query[tables.User](s.db).Where("u.email", strings.ToLower(strings.TrimSpace(email))).First(ctx))
}

func (s *Store) FindUserByID(ctx context.Context, id uuid.UUID) (*tables.User, error) {
	return found(FindByID[tables.User](s.db, ctx, id))
}

func (s *Store) CreateUser(ctx context.Context, user *tables.User) error {
	if user.Id == uuid.Nil {
		user.Id = uuid.New()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	_, err := Query[tables.User](s.db).Insert(ctx, user)
	return lib.MapPgError(err)
}

func (s *Store) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return affected(Query[tables.User](s.db).Where("id", id).Update(ctx, map[string]any{"last_login": at}))
}

func (s *Store) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return affected(Query[tables.User](s.db).Where("id", id).Update(ctx, map[string]any{"password_hash": hash}))
}
