package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/moderncrm/crm-api/internal/core/domain"
	"github.com/moderncrm/crm-api/internal/core/ports"
)

const maxRecentDeals = 50

// DashboardHandler serves the read-only summaries.
type DashboardHandler struct {
	service ports.DashboardService
}

func NewDashboardHandler(service ports.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Stats handles GET /api/dashboard/stats.
//
// @Summary      Dashboard headline numbers
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  analytics.DashboardStats
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /dashboard/stats [get]
func (h *DashboardHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// RecentDeals handles GET /api/dashboard/recent-deals.
//
// @Summary      Newest deals
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum number of deals (default 5, max 50)"
// @Success      200    {array}   domain.Deal
// @Failure      400    {object}  errorResponse
// @Router       /dashboard/recent-deals [get]
func (h *DashboardHandler) RecentDeals(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxRecentDeals {
			return domain.NewValidationError("limit must be a number between 1 and 50")
		}
		limit = n
	}

	deals, err := h.service.RecentDeals(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deals)
}

// Analytics handles GET /api/analytics.
//
// @Summary      Pipeline, source and task breakdowns
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  ports.AnalyticsReport
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /analytics [get]
func (h *DashboardHandler) Analytics(c echo.Context) error {
	report, err := h.service.Analytics(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}
