package pipeline

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Jan1986-cloud/aitrader/internal/core/domain"
	"github.com/Jan1986-cloud/aitrader/internal/core/ports"
)

// Noop is a TradingPipeline that evaluates nothing and places no orders.
// It stands in for the real strategy engine in environments where trading
// against an exchange is not wired up.
type Noop struct {
	log zerolog.Logger
}

func NewNoop(log zerolog.Logger) *Noop {
	return &Noop{log: log}
}

func (p *Noop) Process(ctx context.Context, tenantID string, creds ports.PlaintextCredential, settings domain.TradingSettings) ([]domain.Trade, error) {
	p.log.Debug().
		Str("tenant_id", tenantID).
		Bool("sandbox", creds.Sandbox).
		Int("symbols", len(settings.ActiveSymbols)).
		Msg("noop pipeline invoked")
	return nil, nil
}
