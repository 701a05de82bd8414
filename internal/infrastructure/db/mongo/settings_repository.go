package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Jan1986-cloud/aitrader/internal/core/domain"
)

const settingsCollection = "trading_settings"

type SettingsRepository struct {
	coll *mongo.Collection
}

func NewSettingsRepository(db *mongo.Database) *SettingsRepository {
	return &SettingsRepository{coll: db.Collection(settingsCollection)}
}

type settingsDoc struct {
	TenantID              string   `bson:"tenant_id"`
	MaxTransactionPercent float64  `bson:"max_transaction_percent"`
	MaxPositionPercent    float64  `bson:"max_position_percent"`
	Frequency             string   `bson:"trading_frequency"`
	Risk                  string   `bson:"risk_level"`
	ActiveSymbols         []string `bson:"active_cryptocurrencies"`
	TradingActive         bool     `bson:"trading_active"`
	UpdatedAt             int64    `bson:"updated_at"`
}

func (r *SettingsRepository) Upsert(ctx context.Context, settings *domain.TradingSettings) error {
	filter := bson.M{"tenant_id": settings.TenantID}
	update := bson.M{"$set": settingsDoc{
		TenantID:              settings.TenantID,
		MaxTransactionPercent: settings.MaxTransactionPercent,
		MaxPositionPercent:    settings.MaxPositionPercent,
		Frequency:             string(settings.Frequency),
		Risk:                  string(settings.Risk),
		ActiveSymbols:         settings.ActiveSymbols,
		TradingActive:         settings.TradingActive,
		UpdatedAt:             settings.UpdatedAt.Unix(),
	}}

	if _, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}

func (r *SettingsRepository) Get(ctx context.Context, tenantID string) (*domain.TradingSettings, error) {
	var doc settingsDoc
	if err := r.coll.FindOne(ctx, bson.M{"tenant_id": tenantID}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("find settings: %w", err)
	}

	return &domain.TradingSettings{
		TenantID:              doc.TenantID,
		MaxTransactionPercent: doc.MaxTransactionPercent,
		MaxPositionPercent:    doc.MaxPositionPercent,
		Frequency:             domain.TradingFrequency(doc.Frequency),
		Risk:                  domain.RiskLevel(doc.Risk),
		ActiveSymbols:         doc.ActiveSymbols,
		TradingActive:         doc.TradingActive,
		UpdatedAt:             unixToTime(doc.UpdatedAt),
	}, nil
}
