package service

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Jan1986-cloud/aitrader/internal/core/domain"
	"github.com/Jan1986-cloud/aitrader/internal/pkg/crypto"
)

// TokenLifetime is the fixed validity window of every session token.
// There is no refresh and no revocation: rotating the signing secret
// invalidates all outstanding tokens at once.
const TokenLifetime = 7 * 24 * time.Hour

var b64 = base64.RawURLEncoding

type tokenHeader struct {
	Alg string `json:"alg"`
	Typ string `json:"typ"`
}

// TokenService issues and verifies HS256 session tokens in the standard
// three-part JWT wire format: b64url(header).b64url(payload).b64url(sig),
// unpadded. Stateless and safe for concurrent use.
type TokenService struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

func NewTokenService(secret []byte, lifetime time.Duration) *TokenService {
	if lifetime <= 0 {
		lifetime = TokenLifetime
	}
	return &TokenService{secret: secret, lifetime: lifetime, now: time.Now}
}

// Issue builds a token carrying the given claims plus iat and exp
// (epoch seconds). Deterministic for a fixed clock.
func (s *TokenService) Issue(claims map[string]any) (string, error) {
	now := s.now().UTC()

	payload := make(map[string]any, len(claims)+2)
	for k, v := range claims {
		payload[k] = v
	}
	payload[domain.ClaimIssuedAt] = now.Unix()
	payload[domain.ClaimExpiry] = now.Add(s.lifetime).Unix()

	headerJSON, err := json.Marshal(tokenHeader{Alg: "HS256", Typ: "JWT"})
	if err != nil {
		return "", fmt.Errorf("marshal header: %w", err)
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal claims: %w", err)
	}

	signingInput := b64.EncodeToString(headerJSON) + "." + b64.EncodeToString(payloadJSON)
	sig := crypto.Sign([]byte(signingInput), s.secret)

	return signingInput + "." + b64.EncodeToString(sig), nil
}

// Verify checks structure, signature, and expiry, in that order, and
// returns the claims. The signature check is constant-time and runs before
// the payload is even decoded, so nothing is acted on unauthenticated.
func (s *TokenService) Verify(token string) (map[string]any, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, domain.ErrMalformedToken
	}

	sig, err := b64.DecodeString(parts[2])
	if err != nil {
		return nil, domain.ErrMalformedToken
	}
	if !crypto.Verify([]byte(parts[0]+"."+parts[1]), sig, s.secret) {
		return nil, domain.ErrInvalidSignature
	}

	payloadJSON, err := b64.DecodeString(parts[1])
	if err != nil {
		return nil, domain.ErrMalformedToken
	}
	var claims map[string]any
	if err := json.Unmarshal(payloadJSON, &claims); err != nil {
		return nil, domain.ErrMalformedToken
	}

	exp, ok := claims[domain.ClaimExpiry].(float64)
	if !ok {
		return nil, domain.ErrMalformedToken
	}
	if s.now().UTC().Unix() > int64(exp) {
		return nil, domain.ErrTokenExpired
	}

	return claims, nil
}
