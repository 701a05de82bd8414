package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Jan1986-cloud/aitrader/internal/api/middleware"
	"github.com/Jan1986-cloud/aitrader/internal/core/domain"
	"github.com/Jan1986-cloud/aitrader/internal/core/ports"
)

type SettingsHandler struct {
	settings ports.SettingsService
}

func NewSettingsHandler(settings ports.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

type updateSettingsRequest struct {
	MaxTransactionPercent float64  `json:"max_transaction_percent" validate:"required,gt=0,lte=100"`
	MaxPositionPercent    float64  `json:"max_position_percent" validate:"required,gt=0,lte=100"`
	Frequency             string   `json:"trading_frequency" validate:"required,oneof=Low Optimal High"`
	Risk                  string   `json:"risk_level" validate:"required,oneof=Low Medium High"`
	ActiveSymbols         []string `json:"active_cryptocurrencies" validate:"required,min=1"`
}

// Get returns the tenant's trading settings, materialising the defaults on
// first access.
//
// @Summary      Get trading settings
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.TradingSettings
// @Failure      401  {object}  map[string]string
// @Router       /api/trading/settings [get]
func (h *SettingsHandler) Get(c echo.Context) error {
	settings, err := h.settings.Get(c.Request().Context(), middleware.TenantID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settings)
}

// Update replaces the tenant's trading settings.
//
// @Summary      Update trading settings
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateSettingsRequest  true  "New settings"
// @Success      200   {object}  domain.TradingSettings
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/trading/settings [put]
func (h *SettingsHandler) Update(c echo.Context) error {
	var req updateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	current, err := h.settings.Get(c.Request().Context(), middleware.TenantID(c))
	if err != nil {
		return err
	}

	current.MaxTransactionPercent = req.MaxTransactionPercent
	current.MaxPositionPercent = req.MaxPositionPercent
	current.Frequency = domain.TradingFrequency(req.Frequency)
	current.Risk = domain.RiskLevel(req.Risk)
	current.ActiveSymbols = req.ActiveSymbols

	updated, err := h.settings.Update(c.Request().Context(), current)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}
