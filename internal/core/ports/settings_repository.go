package ports

import (
	"context"

	"github.com/Jan1986-cloud/aitrader/internal/core/domain"
)

// SettingsRepository persists per-tenant trading settings (one record per
// tenant, upsert on save).
type SettingsRepository interface {
	Upsert(ctx context.Context, settings *domain.TradingSettings) error
	Get(ctx context.Context, tenantID string) (*domain.TradingSettings, error)
}
