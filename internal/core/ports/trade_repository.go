package ports

import (
	"context"

	"github.com/Jan1986-cloud/aitrader/internal/core/domain"
)

// TradeRepository persists executed trades. Append-only.
type TradeRepository interface {
	Append(ctx context.Context, trade *domain.Trade) error
	ListRecent(ctx context.Context, tenantID string, limit int) ([]domain.Trade, error)
}
