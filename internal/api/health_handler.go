package api

import (
	"net/http"

	"inventory-lab/internal/service"

	"github.com/labstack/echo/v4"
)

// HandleHealthCheck reports the state of the lab and its database.
// GET /api/health
func (h *Handler) HandleHealthCheck(c echo.Context) error {
	health := h.healthService.CheckHealth(c.Request().Context())

	httpStatus := http.StatusOK
	if health.Status == service.StatusUnavailable {
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, health)
}
