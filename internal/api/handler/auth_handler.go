package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Jan1986-cloud/aitrader/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type googleLoginRequest struct {
	Code string `json:"code" validate:"required"`
}

type tenantResponse struct {
	ID      string    `json:"id"`
	Email   string    `json:"email"`
	Name    string    `json:"name"`
	Tier    string    `json:"subscription_tier"`
	Expires time.Time `json:"subscription_expires"`
}

type loginResponse struct {
	Token string         `json:"token"`
	User  tenantResponse `json:"user"`
}

// GoogleLogin exchanges a Google authorization code for a session token,
// creating the tenant on first login.
//
// @Summary      Sign in with Google
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      googleLoginRequest  true  "OAuth authorization code"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/auth/google [post]
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	var req googleLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, tenant, err := h.authService.Login(c.Request().Context(), req.Code)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication failed")
	}

	return c.JSON(http.StatusOK, loginResponse{
		Token: token,
		User: tenantResponse{
			ID:      tenant.ID,
			Email:   tenant.Email,
			Name:    tenant.Name,
			Tier:    tenant.SubscriptionTier,
			Expires: tenant.SubscriptionExpiry,
		},
	})
}
