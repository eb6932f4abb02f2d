package services

import (
	"context"
	"encoding/json"
	"fmt"
	"storefront_server/database"
	"storefront_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// SettingService is the key/value flag store. Defaults always come from the caller.
type SettingService struct {
	logger *gecho.Logger
	repo   database.Repository
}

func NewSettingService(logger *gecho.Logger, repo database.Repository) *SettingService {
	return &SettingService{logger: logger, repo: repo}
}

// With returns a copy bound to another repository, typically a transaction.
func (ss *SettingService) With(repo database.Repository) *SettingService {
	return &SettingService{logger: ss.logger, repo: repo}
}

// GetFlag returns the raw JSON value of key, or nil when no row exists.
func (ss *SettingService) GetFlag(ctx context.Context, key string) (json.RawMessage, error) {
	row, err := ss.repo.GetSetting(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	if row == nil {
		return nil, nil
	}
	return row.Value, nil
}

// SetFlag upserts key with the JSON encoding of value.
func (ss *SettingService) SetFlag(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode setting %s: %w", key, err)
	}

	if err := ss.repo.PutSetting(ctx, &tables.SiteSetting{Key: key, Value: data}); err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}

	ss.logger.Debug("Setting updated", gecho.Field("key", key))
	return nil
}

func (ss *SettingService) ClearFlag(ctx context.Context, key string) error {
	if err := ss.repo.DeleteSetting(ctx, key); err != nil {
		return fmt.Errorf("failed to clear setting %s: %w", key, err)
	}
	return nil
}

// CurrentProductID returns the product shown on the home page, or nil when none is set.
func (ss *SettingService) CurrentProductID(ctx context.Context) (*uuid.UUID, error) {
	raw, err := ss.GetFlag(ctx, tables.SettingCurrentProductID)
	if err != nil || raw == nil {
		return nil, err
	}

	var value tables.CurrentProductValue
	if err := json.Unmarshal(raw, &value); err != nil || value.ID == uuid.Nil {
		ss.logger.Warn("Ignoring malformed current product setting", gecho.Field("value", string(raw)))
		return nil, nil
	}
	return &value.ID, nil
}

func (ss *SettingService) SetCurrentProductID(ctx context.Context, id uuid.UUID) error {
	return ss.SetFlag(ctx, tables.SettingCurrentProductID, tables.CurrentProductValue{ID: id})
}

// PurchaseCompleted reads the sold-out flag, falling back to def when it is absent or unreadable.
func (ss *SettingService) PurchaseCompleted(ctx context.Context, def bool) (bool, error) {
	raw, err := ss.GetFlag(ctx, tables.SettingPurchaseCompleted)
	if err != nil {
		return def, err
	}
	if raw == nil {
		return def, nil
	}

	var value tables.PurchaseCompletedValue
	if err := json.Unmarshal(raw, &value); err != nil {
		return def, nil
	}
	return value.Completed, nil
}

func (ss *SettingService) SetPurchaseCompleted(ctx context.Context, completed bool) error {
	return ss.SetFlag(ctx, tables.SettingPurchaseCompleted, tables.PurchaseCompletedValue{Completed: completed})
}
