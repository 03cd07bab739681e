package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/brooklinpub/admin-api/internal/application/services"
	"github.com/brooklinpub/admin-api/internal/infrastructure/logger"
)

// DashboardHandler serves the aggregated landing-page summary
type DashboardHandler struct {
	dashboardService *services.DashboardService
	logger           *logger.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService, logger *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// Summary returns the aggregated counts for the landing page
func (h *DashboardHandler) Summary(c echo.Context) error {
	summary, err := h.dashboardService.Summary(c.Request().Context())
	if err != nil {
		h.logger.Errorw("Dashboard summary failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to build summary")
	}

	return c.JSON(http.StatusOK, summary)
}
