package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Jan1986-cloud/aitrader/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes. Token errors all map
	// to the same 401 body so the response never reveals why verification
	// failed.
	switch {
	case errors.Is(err, domain.ErrMalformedToken),
		errors.Is(err, domain.ErrInvalidSignature),
		errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized, "invalid token"
	case errors.Is(err, domain.ErrCredentialNotFound):
		return http.StatusNotFound, domain.ErrCredentialNotFound.Error()
	case errors.Is(err, domain.ErrTenantNotFound):
		return http.StatusNotFound, "tenant not found"
	case errors.Is(err, domain.ErrSettingsNotFound):
		return http.StatusNotFound, "settings not found"
	case errors.Is(err, domain.ErrInvalidSettings):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrRunInProgress):
		return http.StatusConflict, "a batch run is already in progress"
	}

	// Unexpected error: log the real cause, return a generic message.
	// Decryption failures land here on purpose.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
