package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Jan1986-cloud/aitrader/internal/api/metrics"
	"github.com/Jan1986-cloud/aitrader/internal/core/domain"
	"github.com/Jan1986-cloud/aitrader/internal/core/ports"
)

// Context keys populated for authenticated requests.
const (
	ContextTenantID = "tenant_id"
	ContextEmail    = "email"
	ContextName     = "name"
)

// Auth verifies the bearer session token and injects the tenant identity
// into context. Every verification failure maps to the same 401 response;
// the failure kind is only distinguished in metrics.
func Auth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues(verifyResult(err)).Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()

			sub, _ := claims[domain.ClaimSubject].(string)
			if sub == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(ContextTenantID, sub)
			c.Set(ContextEmail, claims[domain.ClaimEmail])
			c.Set(ContextName, claims[domain.ClaimName])

			return next(c)
		}
	}
}

func verifyResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrInvalidSignature):
		return "bad_signature"
	default:
		return "malformed"
	}
}

// TenantID returns the authenticated tenant from context, or "" when the
// request did not pass through Auth.
func TenantID(c echo.Context) string {
	id, _ := c.Get(ContextTenantID).(string)
	return id
}
