package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/Jan1986-cloud/aitrader/internal/core/ports"
)

// GoogleProvider resolves Google OAuth authorization codes to identities.
//
// The current implementation is a development stand-in: it does not call
// Google's token endpoint. A code shaped like an email address is taken as
// the identity directly, which keeps local logins deterministic; anything
// else maps to a fixed demo account.
// TODO: swap in the real token exchange once the OAuth client is registered.
type GoogleProvider struct{}

func NewGoogleProvider() *GoogleProvider {
	return &GoogleProvider{}
}

func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*ports.Identity, error) {
	if code == "" {
		return nil, fmt.Errorf("empty authorization code")
	}

	if at := strings.Index(code, "@"); at > 0 {
		return &ports.Identity{
			Email: code,
			Name:  code[:at],
		}, nil
	}

	return &ports.Identity{
		Email: "demo@aitrader.dev",
		Name:  "Demo Trader",
	}, nil
}
