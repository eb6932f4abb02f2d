package tables

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	SettingCurrentProductID  = "current_product_id"
	SettingPurchaseCompleted = "purchase_completed"
)

type SiteSetting struct {
	bun.BaseModel `bun:"table:site_settings,alias:ss"`

	Key       string          `bun:"key,pk" json:"key"`
	Value     json.RawMessage `bun:"value,type:jsonb,notnull" json:"value"`
	UpdatedAt time.Time       `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// CurrentProductValue is the JSON body stored under current_product_id.
type CurrentProductValue struct {
	ID uuid.UUID `json:"id"`
}

// PurchaseCompletedValue is the JSON body stored under purchase_completed.
type PurchaseCompletedValue struct {
	Completed bool `json:"completed"`
}
