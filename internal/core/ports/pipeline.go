package ports

import (
	"context"

	"github.com/Jan1986-cloud/aitrader/internal/core/domain"
)

// TradingPipeline is the contract the batch runner invokes per tenant.
// The decision logic behind it is an external collaborator; this service
// only defines how it is called and how its results are persisted.
type TradingPipeline interface {
	Process(ctx context.Context, tenantID string, creds PlaintextCredential, settings domain.TradingSettings) ([]domain.Trade, error)
}
