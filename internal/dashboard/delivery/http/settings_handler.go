package http

import (
	"net/http"

	"stock-order-dashboard/internal/dashboard/dto"
	"stock-order-dashboard/internal/dashboard/settings"
	"stock-order-dashboard/internal/entity"
	"stock-order-dashboard/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SettingsHandler serves the process-wide user settings.
type SettingsHandler struct {
	settings *settings.Store
	logger   *logger.Logger
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settingsStore *settings.Store, logger *logger.Logger) *SettingsHandler {
	return &SettingsHandler{settings: settingsStore, logger: logger}
}

// RegisterRoutes registers the settings routes to the Echo group.
func (h *SettingsHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/settings", h.GetSettings)
	g.PUT("/settings", h.UpdateSettings)
}

// GetSettings returns the current settings value.
func (h *SettingsHandler) GetSettings(c echo.Context) error {
	return c.JSON(http.StatusOK, h.settings.Get())
}

// UpdateSettings replaces the settings value. In-memory only; the value
// resets on restart.
func (h *SettingsHandler) UpdateSettings(c echo.Context) error {
	var v entity.Settings
	if err := c.Bind(&v); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}
	if v.ColorIntensity <= 0 {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "colorIntensity must be positive"})
	}

	h.settings.Update(v)
	return c.JSON(http.StatusOK, h.settings.Get())
}
