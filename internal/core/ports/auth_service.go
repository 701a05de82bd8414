package ports

import (
	"context"

	"github.com/Jan1986-cloud/aitrader/internal/core/domain"
)

// Identity is the external identity established by the OAuth exchange.
type Identity struct {
	Email string
	Name  string
}

// IdentityProvider exchanges an authorization code for a verified identity.
type IdentityProvider interface {
	Exchange(ctx context.Context, code string) (*Identity, error)
}

// AuthService signs a tenant in: it resolves the identity, creates the
// tenant on first login (or refreshes last-login), and issues a session
// token.
type AuthService interface {
	Login(ctx context.Context, code string) (token string, tenant *domain.Tenant, err error)
}

// TokenService issues and verifies signed session tokens. Stateless; safe
// for concurrent use.
type TokenService interface {
	Issue(claims map[string]any) (string, error)
	Verify(token string) (map[string]any, error)
}
