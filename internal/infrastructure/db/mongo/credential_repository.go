package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Jan1986-cloud/aitrader/internal/core/domain"
)

const credentialCollection = "api_credentials"

// CredentialRepository persists encrypted credential records. Ciphertext
// blobs pass through as opaque binary — plaintext never reaches this layer.
type CredentialRepository struct {
	coll *mongo.Collection
}

func NewCredentialRepository(db *mongo.Database) *CredentialRepository {
	return &CredentialRepository{coll: db.Collection(credentialCollection)}
}

type credentialDoc struct {
	ID              string           `bson:"_id"`
	TenantID        string           `bson:"tenant_id"`
	Provider        string           `bson:"provider"`
	EncryptedKey    primitive.Binary `bson:"encrypted_key"`
	EncryptedSecret primitive.Binary `bson:"encrypted_secret"`
	Sandbox         bool             `bson:"is_sandbox"`
	LastUsed        int64            `bson:"last_used"`
}

// Upsert replaces the record for (tenant, provider) atomically;
// last-writer-wins.
func (r *CredentialRepository) Upsert(ctx context.Context, cred *domain.Credential) error {
	filter := bson.M{"tenant_id": cred.TenantID, "provider": cred.Provider}
	update := bson.M{
		"$set": bson.M{
			"encrypted_key":    primitive.Binary{Data: cred.EncryptedKey},
			"encrypted_secret": primitive.Binary{Data: cred.EncryptedSecret},
			"is_sandbox":       cred.Sandbox,
			"last_used":        cred.LastUsed.Unix(),
		},
		"$setOnInsert": bson.M{"_id": cred.ID},
	}

	if _, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return fmt.Errorf("upsert credential: %w", err)
	}
	return nil
}

// Touch refreshes last_used after the credentials were successfully used.
func (r *CredentialRepository) Touch(ctx context.Context, tenantID, provider string, at time.Time) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"tenant_id": tenantID, "provider": provider},
		bson.M{"$set": bson.M{"last_used": at.Unix()}},
	)
	if err != nil {
		return fmt.Errorf("touch credential: %w", err)
	}
	return nil
}

func (r *CredentialRepository) Get(ctx context.Context, tenantID, provider string) (*domain.Credential, error) {
	var doc credentialDoc
	err := r.coll.FindOne(ctx, bson.M{"tenant_id": tenantID, "provider": provider}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrCredentialNotFound
		}
		return nil, fmt.Errorf("find credential: %w", err)
	}

	return &domain.Credential{
		ID:              doc.ID,
		TenantID:        doc.TenantID,
		Provider:        doc.Provider,
		EncryptedKey:    doc.EncryptedKey.Data,
		EncryptedSecret: doc.EncryptedSecret.Data,
		Sandbox:         doc.Sandbox,
		LastUsed:        unixToTime(doc.LastUsed),
	}, nil
}
