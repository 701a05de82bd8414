package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Jan1986-cloud/aitrader/internal/api/middleware"
	"github.com/Jan1986-cloud/aitrader/internal/core/ports"
)

type TradingHandler struct {
	settings ports.SettingsService
}

func NewTradingHandler(settings ports.SettingsService) *TradingHandler {
	return &TradingHandler{settings: settings}
}

type tradingStateResponse struct {
	TradingActive bool `json:"trading_active"`
}

// Start enables automated trading for the tenant. The next batch run picks
// the tenant up.
//
// @Summary      Start automated trading
// @Tags         trading
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  tradingStateResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/trading/start [post]
func (h *TradingHandler) Start(c echo.Context) error {
	return h.setActive(c, true)
}

// Stop pauses automated trading for the tenant. Stored credentials and
// settings are untouched.
//
// @Summary      Stop automated trading
// @Tags         trading
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  tradingStateResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/trading/stop [post]
func (h *TradingHandler) Stop(c echo.Context) error {
	return h.setActive(c, false)
}

func (h *TradingHandler) setActive(c echo.Context, active bool) error {
	if err := h.settings.SetActive(c.Request().Context(), middleware.TenantID(c), active); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tradingStateResponse{TradingActive: active})
}
