package http

import (
	"errors"
	"net/http"

	"stock-order-dashboard/internal/dashboard/dto"
	"stock-order-dashboard/internal/dashboard/service"
	"stock-order-dashboard/internal/dashboard/settings"
	"stock-order-dashboard/pkg/logger"
	"stock-order-dashboard/pkg/utils"

	"github.com/labstack/echo/v4"
)

// AlertsHandler serves the pending alert surface and its actions.
type AlertsHandler struct {
	notifications service.NotificationService
	settings      *settings.Store
	logger        *logger.Logger
}

// NewAlertsHandler creates a new AlertsHandler.
func NewAlertsHandler(notifications service.NotificationService, settingsStore *settings.Store, logger *logger.Logger) *AlertsHandler {
	return &AlertsHandler{
		notifications: notifications,
		settings:      settingsStore,
		logger:        logger,
	}
}

// RegisterRoutes registers the alert routes to the Echo group.
func (h *AlertsHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/view/alerts", h.GetAlerts)
	g.GET("/view/feedback", h.GetFeedback)
	g.POST("/alerts/exit-all", h.ExitAll)
	g.POST("/alerts/:symbol/exit", h.ExitAlert)
	g.POST("/alerts/:symbol/edit", h.EditAlert)
}

// GetAlerts returns the pending alert set joined with backing orders,
// plus whether the alert surface should be visible.
func (h *AlertsHandler) GetAlerts(c echo.Context) error {
	pending := h.notifications.Pending()
	intensity := h.settings.Get().ColorIntensity

	alerts := make([]dto.AlertView, 0, len(pending))
	for _, p := range pending {
		view := dto.AlertView{
			Notification: p.Notification,
			Order:        p.Order,
		}
		if p.Order != nil {
			view.Color = utils.ProfitColor(p.Order.Profit, intensity)
		}
		alerts = append(alerts, view)
	}

	return c.JSON(http.StatusOK, dto.AlertsResponse{
		Alerts:         alerts,
		SurfaceVisible: h.notifications.SurfaceVisible(),
	})
}

// GetFeedback returns the currently active feedback event, if any.
func (h *AlertsHandler) GetFeedback(c echo.Context) error {
	return c.JSON(http.StatusOK, h.notifications.Feedback())
}

// ExitAlert exits the position behind one pending alert.
func (h *AlertsHandler) ExitAlert(c echo.Context) error {
	outcome := h.notifications.Exit(c.Request().Context(), c.Param("symbol"))
	if !outcome.Confirmed {
		return c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: "exit failed, order remains holding"})
	}
	return c.JSON(http.StatusOK, outcome)
}

// ExitAll exits every pending alert sequentially and reports each
// outcome. A partial failure still empties the pending set.
func (h *AlertsHandler) ExitAll(c echo.Context) error {
	return c.JSON(http.StatusOK, h.notifications.ExitAll(c.Request().Context()))
}

// EditAlert resolves the backing order for the edit form and
// acknowledges the alert.
func (h *AlertsHandler) EditAlert(c echo.Context) error {
	order, err := h.notifications.Edit(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Order not found"})
		}
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, order)
}
