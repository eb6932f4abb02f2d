package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// CardBrands are the accepted card_brand values.
var CardBrands = []string{"visa", "mastercard", "amex", "jcb", "diners", "discover", "other"}

// PaymentProfile is descriptive only. Nothing here is ever charged.
type PaymentProfile struct {
	bun.BaseModel `bun:"table:payment_profiles,alias:pp"`

	ID                 uuid.UUID      `bun:"id,pk,type:uuid" json:"id"`
	UserID             uuid.UUID      `bun:"user_id,type:uuid,notnull,unique" json:"user_id"`
	CardBrand          string         `bun:"card_brand,notnull" json:"card_brand"`
	Last4              string         `bun:"last4,notnull" json:"last4"`
	ExpMonth           int            `bun:"exp_month,notnull" json:"exp_month"`
	ExpYear            int            `bun:"exp_year,notnull" json:"exp_year"`
	BillingName        string         `bun:"billing_name,notnull" json:"billing_name"`
	Country            string         `bun:"country,notnull" json:"country"`
	PostalCode         string         `bun:"postal_code,notnull" json:"postal_code"`
	Region             string         `bun:"region,notnull" json:"region"`
	Locality           string         `bun:"locality,notnull" json:"locality"`
	Line1              string         `bun:"line1,notnull" json:"line1"`
	Line2              string         `bun:"line2,notnull" json:"line2"`
	ExternalCustomerID *string        `bun:"external_customer_id" json:"-"`
	Meta               map[string]any `bun:"meta,type:jsonb" json:"meta,omitempty"`
	CreatedAt          time.Time      `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt          time.Time      `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}
