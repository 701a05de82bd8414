package domain

import "time"

// TradeSide is the direction of an executed trade.
type TradeSide string

const (
	SideBuy  TradeSide = "buy"
	SideSell TradeSide = "sell"
)

// Trade is a single executed trade produced by the trading pipeline.
// Records are append-only.
type Trade struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"tenant_id"`
	ProductID  string    `json:"product_id"` // instrument pair, e.g. "BTC-USD"
	Side       TradeSide `json:"side"`
	Size       float64   `json:"size"`
	Price      float64   `json:"price"`
	Value      float64   `json:"value"`
	Reasoning  string    `json:"reasoning,omitempty"`
	ExecutedAt time.Time `json:"executed_at"`
}
