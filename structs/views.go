package structs

import (
	"storefront_server/structs/tables"

	"github.com/google/uuid"
)

// GalleryImage is an image as the public home page sees it. Fallback images have no ID.
type GalleryImage struct {
	ID       *uuid.UUID `json:"id,omitempty"`
	Path     string     `json:"path"`
	URL      string     `json:"url"`
	AltText  string     `json:"alt_text"`
	Position int        `json:"position"`
}

type ArtistCard struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Title        string    `json:"title"`
	Genre        string    `json:"genre,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	DisplayOrder *int      `json:"display_order"`
	IsVisible    bool      `json:"is_visible"`
	PortraitURL  string    `json:"portrait_url,omitempty"`
}

type HomeView struct {
	Product     *tables.Product `json:"product"`
	Images      []GalleryImage  `json:"images"`
	Artists     []ArtistCard    `json:"artists"`
	SoldOut     bool            `json:"sold_out"`
	CanPurchase bool            `json:"can_purchase"`
}

type AdminProductsView struct {
	Products         []tables.Product      `json:"products"`
	CurrentProductID *uuid.UUID            `json:"current_product_id"`
	Editing          *tables.Product       `json:"editing"`
	EditingImages    []tables.ProductImage `json:"editing_images"`
}

type AdminArtistsView struct {
	Artists []ArtistCard    `json:"artists"`
	Editing ArtistEditState `json:"editing"`
}

type SettingsView struct {
	CurrentProductID  *uuid.UUID `json:"current_product_id"`
	PurchaseCompleted bool       `json:"purchase_completed"`
}

// ProductEditState is the per-admin pointer at the product being edited.
type ProductEditState struct {
	EditingProductID *uuid.UUID `json:"editing_product_id"`
}

// ArtistEditState is the per-admin in-progress artist edit. The zero value is not the default;
// use NewArtistEditState.
type ArtistEditState struct {
	EditingID    *uuid.UUID `json:"editing_id"`
	Name         string     `json:"name"`
	Title        string     `json:"title"`
	Genre        string     `json:"genre"`
	Bio          string     `json:"bio"`
	DisplayOrder *int       `json:"display_order"`
	IsVisible    bool       `json:"is_visible"`
}

func NewArtistEditState() ArtistEditState {
	return ArtistEditState{IsVisible: true}
}

type PaymentEditView struct {
	Form       PaymentForm `json:"form"`
	FromDraft  bool        `json:"from_draft"`
	HasProfile bool        `json:"has_profile"`
}
