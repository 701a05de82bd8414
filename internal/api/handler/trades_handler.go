package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Jan1986-cloud/aitrader/internal/api/middleware"
	"github.com/Jan1986-cloud/aitrader/internal/core/domain"
	"github.com/Jan1986-cloud/aitrader/internal/core/ports"
)

type TradesHandler struct {
	trades ports.TradeRepository
}

func NewTradesHandler(trades ports.TradeRepository) *TradesHandler {
	return &TradesHandler{trades: trades}
}

type tradesResponse struct {
	Trades []domain.Trade `json:"trades"`
}

// Recent lists the tenant's most recent trades, newest first.
//
// @Summary      Recent trade history
// @Tags         trades
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Max trades to return (default 10, max 100)"
// @Success      200    {object}  tradesResponse
// @Failure      401    {object}  map[string]string
// @Router       /api/trades/recent [get]
func (h *TradesHandler) Recent(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be an integer")
		}
		limit = n
	}

	trades, err := h.trades.ListRecent(c.Request().Context(), middleware.TenantID(c), limit)
	if err != nil {
		return err
	}
	if trades == nil {
		trades = []domain.Trade{}
	}
	return c.JSON(http.StatusOK, tradesResponse{Trades: trades})
}
