package structs

import "github.com/google/uuid"

// ProductForm is the editable part of a product. Multipart requests carry the same fields.
type ProductForm struct {
	Title       string         `json:"title" schema:"title" validate:"required,max=100"`
	Description string         `json:"description" schema:"description"`
	PriceYen    int64          `json:"price_yen" schema:"price_yen" validate:"gte=0"`
	Specs       []string       `json:"specs" schema:"specs" validate:"max=10,dive,max=200"`
	ImageAlts   []ImageAltForm `json:"image_alts" schema:"image_alts" validate:"dive"`
}

type ImageAltForm struct {
	ImageID uuid.UUID `json:"image_id" schema:"image_id" validate:"required"`
	AltText string    `json:"alt_text" schema:"alt_text" validate:"max=150"`
}

type ArtistForm struct {
	Name         string `json:"name" schema:"name" validate:"required,max=80"`
	Title        string `json:"title" schema:"title" validate:"required,max=120"`
	Genre        string `json:"genre" schema:"genre" validate:"omitempty,max=50,oneof='craft maker' 'wine importer' 'coffee roaster'"`
	Bio          string `json:"bio" schema:"bio"`
	DisplayOrder *int   `json:"display_order" schema:"display_order" validate:"omitempty,min=1,max=3"`
	IsVisible    *bool  `json:"is_visible" schema:"is_visible"`
}

// Visible defaults to true when the field was not submitted.
func (f *ArtistForm) Visible() bool {
	return f.IsVisible == nil || *f.IsVisible
}

type PaymentForm struct {
	CardBrand   string `json:"card_brand" validate:"required,oneof=visa mastercard amex jcb diners discover other"`
	Last4       string `json:"last4" validate:"required,len=4,number"`
	ExpMonth    int    `json:"exp_month" validate:"required,min=1,max=12"`
	ExpYear     int    `json:"exp_year" validate:"required,min=1000,max=9999,notpast_year"`
	BillingName string `json:"billing_name" validate:"max=100"`
	Country     string `json:"country" validate:"required,len=2,alpha"`
	PostalCode  string `json:"postal_code" validate:"max=20"`
	Region      string `json:"region" validate:"max=100"`
	Locality    string `json:"locality" validate:"max=100"`
	Line1       string `json:"line1" validate:"max=150"`
	Line2       string `json:"line2" validate:"max=150"`
}

type PurchaseCompletedRequest struct {
	Completed bool `json:"completed"`
}

type ImageAltRequest struct {
	AltText string `json:"alt_text" validate:"max=150"`
}
