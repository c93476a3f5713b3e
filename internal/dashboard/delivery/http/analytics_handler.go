package http

import (
	"math"
	"net/http"
	"strconv"

	"stock-order-dashboard/internal/dashboard/dto"
	"stock-order-dashboard/internal/dashboard/service"
	"stock-order-dashboard/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AnalyticsHandler serves the derived chart series.
type AnalyticsHandler struct {
	orders    service.OrderService
	analytics service.AnalyticsService
	logger    *logger.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(orders service.OrderService, analytics service.AnalyticsService, logger *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		orders:    orders,
		analytics: analytics,
		logger:    logger,
	}
}

// RegisterRoutes registers the analytics routes to the Echo group.
func (h *AnalyticsHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/view/analytics", h.GetReport)
}

// GetReport recomputes every derived series from the current completed
// orders and the fee query parameter (flat percentage per trade,
// default 0).
func (h *AnalyticsHandler) GetReport(c echo.Context) error {
	fee := 0.0
	if raw := c.QueryParam("fee"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "fee must be a non-negative number"})
		}
		fee = parsed
	}

	report := h.analytics.BuildReport(h.orders.Completed(), fee)
	return c.JSON(http.StatusOK, report)
}
