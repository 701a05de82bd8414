package ports

import (
	"context"

	"github.com/Jan1986-cloud/aitrader/internal/core/domain"
)

// EligibleTenant identifies a tenant that holds both a credential record
// and a settings record, making it a candidate for a batch run.
type EligibleTenant struct {
	TenantID string
	Provider string
}

// TenantRepository persists tenant accounts.
type TenantRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Tenant, error)
	FindByEmail(ctx context.Context, email string) (*domain.Tenant, error)
	// Upsert inserts the tenant or, when the email already exists, refreshes
	// its last-login timestamp. Returns the stored record.
	Upsert(ctx context.Context, tenant *domain.Tenant) (*domain.Tenant, error)
	// ListEligible returns every tenant holding both credentials and settings.
	ListEligible(ctx context.Context) ([]EligibleTenant, error)
}
