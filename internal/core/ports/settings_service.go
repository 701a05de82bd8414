package ports

import (
	"context"

	"github.com/Jan1986-cloud/aitrader/internal/core/domain"
)

// SettingsService manages per-tenant trading settings.
type SettingsService interface {
	// Get returns the tenant's settings, writing and returning the defaults
	// when none exist yet.
	Get(ctx context.Context, tenantID string) (*domain.TradingSettings, error)
	Update(ctx context.Context, settings *domain.TradingSettings) (*domain.TradingSettings, error)
	// SetActive toggles whether the batch run trades for this tenant.
	SetActive(ctx context.Context, tenantID string, active bool) error
}
