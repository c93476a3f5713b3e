package http

import (
	"errors"
	"net/http"

	"stock-order-dashboard/internal/dashboard/dto"
	"stock-order-dashboard/internal/dashboard/service"
	"stock-order-dashboard/internal/dashboard/settings"
	"stock-order-dashboard/internal/entity"
	"stock-order-dashboard/pkg/logger"
	"stock-order-dashboard/pkg/utils"

	"github.com/labstack/echo/v4"
)

// OrdersHandler serves the reconciled order view and proxies
// user-initiated order mutations.
type OrdersHandler struct {
	orders        service.OrderService
	notifications service.NotificationService
	poller        *service.Poller
	settings      *settings.Store
	logger        *logger.Logger
}

// NewOrdersHandler creates a new OrdersHandler.
func NewOrdersHandler(orders service.OrderService, notifications service.NotificationService, poller *service.Poller, settingsStore *settings.Store, logger *logger.Logger) *OrdersHandler {
	return &OrdersHandler{
		orders:        orders,
		notifications: notifications,
		poller:        poller,
		settings:      settingsStore,
		logger:        logger,
	}
}

// RegisterRoutes registers the order routes to the Echo group.
func (h *OrdersHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/view/orders", h.GetOrders)
	g.POST("/view/refresh", h.ForceRefresh)
	g.POST("/orders", h.SubmitOrder)
	g.PUT("/orders/:symbol", h.UpdateOrder)
	g.DELETE("/orders/completed", h.DeleteCompleted)
	g.DELETE("/orders/:symbol", h.DeleteOrder)
	g.POST("/orders/:symbol/exit", h.ExitOrder)
	g.GET("/stock/:symbol", h.GetCandles)
}

// GetOrders returns the merged order view, active trades first. The
// optional status query narrows to one partition.
func (h *OrdersHandler) GetOrders(c echo.Context) error {
	var orders []entity.Order
	switch c.QueryParam("status") {
	case "active":
		orders = h.orders.Active()
	case "completed":
		orders = h.orders.Completed()
	default:
		orders = h.orders.View()
	}

	intensity := h.settings.Get().ColorIntensity
	view := make([]dto.OrderView, 0, len(orders))
	for _, o := range orders {
		view = append(view, dto.OrderView{
			Order: o,
			Color: utils.ProfitColor(o.Profit, intensity),
		})
	}
	return c.JSON(http.StatusOK, view)
}

// ForceRefresh triggers an immediate reconcile outside the timer, used
// when a tab that depends on fresh completed-order data becomes visible.
func (h *OrdersHandler) ForceRefresh(c echo.Context) error {
	h.poller.RefreshNow(c.Request().Context())
	return c.NoContent(http.StatusAccepted)
}

// SubmitOrder creates a new order at the remote service.
func (h *OrdersHandler) SubmitOrder(c echo.Context) error {
	var draft dto.OrderDraft
	if err := c.Bind(&draft); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	if err := h.orders.Submit(c.Request().Context(), draft); err != nil {
		return submissionError(c, err)
	}
	return c.NoContent(http.StatusCreated)
}

// UpdateOrder replaces an existing order's parameters.
func (h *OrdersHandler) UpdateOrder(c echo.Context) error {
	var draft dto.OrderDraft
	if err := c.Bind(&draft); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	if err := h.orders.Update(c.Request().Context(), c.Param("symbol"), draft); err != nil {
		return submissionError(c, err)
	}
	return c.NoContent(http.StatusOK)
}

// DeleteOrder removes a single order by symbol.
func (h *OrdersHandler) DeleteOrder(c echo.Context) error {
	if err := h.orders.Delete(c.Request().Context(), c.Param("symbol")); err != nil {
		return c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: err.Error()})
	}
	return c.NoContent(http.StatusOK)
}

// DeleteCompleted removes every completed order.
func (h *OrdersHandler) DeleteCompleted(c echo.Context) error {
	if err := h.orders.DeleteCompleted(c.Request().Context()); err != nil {
		return c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: err.Error()})
	}
	return c.NoContent(http.StatusOK)
}

// ExitOrder closes a position from the order list. It runs through the
// notification controller so feedback and alert acknowledgment behave
// the same as exits from the alert surface.
func (h *OrdersHandler) ExitOrder(c echo.Context) error {
	outcome := h.notifications.Exit(c.Request().Context(), c.Param("symbol"))
	if !outcome.Confirmed {
		return c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: "exit failed, order remains holding"})
	}
	return c.JSON(http.StatusOK, outcome)
}

// GetCandles proxies the symbol's bar history with entry/exit marker
// indices for the chart modal.
func (h *OrdersHandler) GetCandles(c echo.Context) error {
	interval := c.QueryParam("interval")
	if interval == "" {
		interval = "1m"
	}

	resp, err := h.orders.Candles(c.Request().Context(), c.Param("symbol"), interval)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Order not found"})
		}
		return c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, resp)
}

// submissionError maps draft validation failures to 400 and upstream
// failures to 502. Order submission is the one mutation whose failure
// must surface to the user as a blocking response rather than a log line.
func submissionError(c echo.Context, err error) error {
	var verr *dto.ValidationError
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: verr.Error()})
	}
	return c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: err.Error()})
}
