package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Jan1986-cloud/aitrader/internal/core/domain"
)

const tradeCollection = "trade_history"

// TradeRepository persists executed trades. Append-only: there is no
// update or delete path.
type TradeRepository struct {
	coll *mongo.Collection
}

func NewTradeRepository(db *mongo.Database) *TradeRepository {
	return &TradeRepository{coll: db.Collection(tradeCollection)}
}

type tradeDoc struct {
	ID         string  `bson:"_id"`
	TenantID   string  `bson:"tenant_id"`
	ProductID  string  `bson:"product_id"`
	Side       string  `bson:"side"`
	Size       float64 `bson:"size"`
	Price      float64 `bson:"price"`
	Value      float64 `bson:"value"`
	Reasoning  string  `bson:"reasoning,omitempty"`
	ExecutedAt int64   `bson:"executed_at"`
}

func (r *TradeRepository) Append(ctx context.Context, trade *domain.Trade) error {
	doc := tradeDoc{
		ID:         trade.ID,
		TenantID:   trade.TenantID,
		ProductID:  trade.ProductID,
		Side:       string(trade.Side),
		Size:       trade.Size,
		Price:      trade.Price,
		Value:      trade.Value,
		Reasoning:  trade.Reasoning,
		ExecutedAt: trade.ExecutedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("append trade: %w", err)
	}
	return nil
}

func (r *TradeRepository) ListRecent(ctx context.Context, tenantID string, limit int) ([]domain.Trade, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "executed_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{"tenant_id": tenantID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	defer cursor.Close(ctx)

	var trades []domain.Trade
	for cursor.Next(ctx) {
		var doc tradeDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode trade: %w", err)
		}
		trades = append(trades, domain.Trade{
			ID:         doc.ID,
			TenantID:   doc.TenantID,
			ProductID:  doc.ProductID,
			Side:       domain.TradeSide(doc.Side),
			Size:       doc.Size,
			Price:      doc.Price,
			Value:      doc.Value,
			Reasoning:  doc.Reasoning,
			ExecutedAt: unixToTime(doc.ExecutedAt),
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}
	return trades, nil
}
