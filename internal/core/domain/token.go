package domain

import "errors"

// Registered claim names used in session tokens.
const (
	ClaimSubject  = "sub"
	ClaimIssuedAt = "iat"
	ClaimExpiry   = "exp"
	ClaimEmail    = "email"
	ClaimName     = "name"
)

// Session token verification failures. All three surface to end users as a
// uniform "unauthorized" — the distinction exists for logs and tests only.
var (
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")
)
