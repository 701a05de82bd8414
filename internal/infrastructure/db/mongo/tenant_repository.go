package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Jan1986-cloud/aitrader/internal/core/domain"
	"github.com/Jan1986-cloud/aitrader/internal/core/ports"
)

const tenantCollection = "users"

type TenantRepository struct {
	coll *mongo.Collection
}

func NewTenantRepository(db *mongo.Database) *TenantRepository {
	return &TenantRepository{coll: db.Collection(tenantCollection)}
}

type tenantDoc struct {
	ID                 string `bson:"_id"`
	Email              string `bson:"email"`
	Name               string `bson:"name,omitempty"`
	SubscriptionTier   string `bson:"subscription_tier"`
	SubscriptionExpiry int64  `bson:"subscription_expires"`
	CreatedAt          int64  `bson:"created_at"`
	LastLogin          int64  `bson:"last_login"`
}

func (r *TenantRepository) FindByID(ctx context.Context, id string) (*domain.Tenant, error) {
	var doc tenantDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrTenantNotFound
		}
		return nil, fmt.Errorf("find tenant: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *TenantRepository) FindByEmail(ctx context.Context, email string) (*domain.Tenant, error) {
	var doc tenantDoc
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrTenantNotFound
		}
		return nil, fmt.Errorf("find tenant by email: %w", err)
	}
	return doc.toDomain(), nil
}

// Upsert creates the tenant on first login; on later logins only the
// last-login timestamp is refreshed (email is the natural key, the
// original ID and creation data win).
func (r *TenantRepository) Upsert(ctx context.Context, tenant *domain.Tenant) (*domain.Tenant, error) {
	update := bson.M{
		"$set": bson.M{
			"last_login": tenant.LastLogin.Unix(),
		},
		"$setOnInsert": bson.M{
			"_id":                  tenant.ID,
			"email":                tenant.Email,
			"name":                 tenant.Name,
			"subscription_tier":    tenant.SubscriptionTier,
			"subscription_expires": tenant.SubscriptionExpiry.Unix(),
			"created_at":           tenant.CreatedAt.Unix(),
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc tenantDoc
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"email": tenant.Email}, update, opts).Decode(&doc); err != nil {
		return nil, fmt.Errorf("upsert tenant: %w", err)
	}
	return doc.toDomain(), nil
}

// ListEligible joins credentials against settings: a tenant qualifies for
// a batch run only when it holds both records.
func (r *TenantRepository) ListEligible(ctx context.Context) ([]ports.EligibleTenant, error) {
	creds := r.coll.Database().Collection(credentialCollection)

	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         settingsCollection,
			"localField":   "tenant_id",
			"foreignField": "tenant_id",
			"as":           "settings",
		}}},
		{{Key: "$match", Value: bson.M{"settings": bson.M{"$ne": bson.A{}}}}},
		{{Key: "$project", Value: bson.M{"tenant_id": 1, "provider": 1}}},
	}

	cursor, err := creds.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list eligible tenants: %w", err)
	}
	defer cursor.Close(ctx)

	var eligible []ports.EligibleTenant
	for cursor.Next(ctx) {
		var row struct {
			TenantID string `bson:"tenant_id"`
			Provider string `bson:"provider"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode eligible tenant: %w", err)
		}
		eligible = append(eligible, ports.EligibleTenant{TenantID: row.TenantID, Provider: row.Provider})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list eligible tenants: %w", err)
	}
	return eligible, nil
}

func (d *tenantDoc) toDomain() *domain.Tenant {
	return &domain.Tenant{
		ID:                 d.ID,
		Email:              d.Email,
		Name:               d.Name,
		SubscriptionTier:   d.SubscriptionTier,
		SubscriptionExpiry: unixToTime(d.SubscriptionExpiry),
		CreatedAt:          unixToTime(d.CreatedAt),
		LastLogin:          unixToTime(d.LastLogin),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
