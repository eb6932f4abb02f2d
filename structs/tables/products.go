package tables

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type ProductStatus string

const (
	ProductStatusDraft     ProductStatus = "draft"
	ProductStatusPublished ProductStatus = "published"
	ProductStatusArchived  ProductStatus = "archived"
)

// MaxProductImages caps the gallery of a single product.
const MaxProductImages = 10

var ErrArchivedProduct = errors.New("archived products cannot be toggled")

type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID          uuid.UUID     `bun:"id,pk,type:uuid" json:"id"`
	Title       string        `bun:"title,notnull" json:"title"`
	Description string        `bun:"description,notnull" json:"description"`
	Specs       []string      `bun:"specs,type:jsonb,notnull" json:"specs"`
	PriceYen    int64         `bun:"price_yen,notnull" json:"price_yen"`
	Status      ProductStatus `bun:"status,notnull" json:"status"`
	PublishedAt *time.Time    `bun:"published_at,nullzero" json:"published_at"`
	CreatedBy   *uuid.UUID    `bun:"created_by,type:uuid,nullzero" json:"created_by,omitempty"`
	CreatedAt   time.Time     `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time     `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
	DeletedAt   *time.Time    `bun:"deleted_at,nullzero" json:"-"`
}

// TogglePublish flips draft and published. Archived products are left untouched.
func (p *Product) TogglePublish(now time.Time) error {
	switch p.Status {
	case ProductStatusPublished:
		p.Status = ProductStatusDraft
		p.PublishedAt = nil
	case ProductStatusDraft:
		p.Publish(now)
	default:
		return ErrArchivedProduct
	}
	return nil
}

// Publish marks the product published and stamps published_at.
func (p *Product) Publish(now time.Time) {
	p.Status = ProductStatusPublished
	p.PublishedAt = &now
}

func (p *Product) IsPublished() bool {
	return p.Status == ProductStatusPublished
}

// ProductImage is one gallery entry. Positions are 1-based and contiguous per product.
type ProductImage struct {
	bun.BaseModel `bun:"table:product_images,alias:pi"`

	ID        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	ProductID uuid.UUID `bun:"product_id,type:uuid,notnull" json:"product_id"`
	Path      string    `bun:"path,notnull" json:"path"`
	AltText   string    `bun:"alt_text,notnull" json:"alt_text"`
	Position  int       `bun:"position,notnull" json:"position"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
