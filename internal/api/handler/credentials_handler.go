package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Jan1986-cloud/aitrader/internal/api/middleware"
	"github.com/Jan1986-cloud/aitrader/internal/core/domain"
	"github.com/Jan1986-cloud/aitrader/internal/core/ports"
)

type CredentialsHandler struct {
	vault ports.CredentialVault
}

func NewCredentialsHandler(vault ports.CredentialVault) *CredentialsHandler {
	return &CredentialsHandler{vault: vault}
}

type storeCredentialsRequest struct {
	APIKey    string `json:"api_key" validate:"required"`
	APISecret string `json:"api_secret" validate:"required"`
	Sandbox   bool   `json:"is_sandbox"`
}

type credentialStatusResponse struct {
	Provider   string    `json:"provider"`
	Configured bool      `json:"configured"`
	Sandbox    bool      `json:"is_sandbox"`
	LastUsed   time.Time `json:"last_used"`
}

// Store saves the tenant's Coinbase API credential pair. The plaintext is
// encrypted before it touches storage and never appears in any response.
//
// @Summary      Store exchange API credentials
// @Tags         credentials
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      storeCredentialsRequest  true  "API credential pair"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/coinbase/credentials [post]
func (h *CredentialsHandler) Store(c echo.Context) error {
	var req storeCredentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	plain := ports.PlaintextCredential{
		APIKey:    req.APIKey,
		APISecret: req.APISecret,
		Sandbox:   req.Sandbox,
	}
	if err := h.vault.Store(c.Request().Context(), middleware.TenantID(c), domain.ProviderCoinbase, plain); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "credentials saved"})
}

// Status reports whether credentials are configured, without ever touching
// ciphertext or plaintext.
//
// @Summary      Credential configuration status
// @Tags         credentials
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  credentialStatusResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/coinbase/credentials [get]
func (h *CredentialsHandler) Status(c echo.Context) error {
	cred, err := h.vault.Describe(c.Request().Context(), middleware.TenantID(c), domain.ProviderCoinbase)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, credentialStatusResponse{
		Provider:   cred.Provider,
		Configured: true,
		Sandbox:    cred.Sandbox,
		LastUsed:   cred.LastUsed,
	})
}
