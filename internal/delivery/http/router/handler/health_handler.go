// Package handler contains the HTTP handlers binding the wire contracts
// onto the orchestration layer in internal/handler.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nomnom-routing/vrpcore/internal/delivery/http/response"
	"github.com/nomnom-routing/vrpcore/internal/handler"
)

// HealthHandler serves the liveness and store-introspection endpoints.
type HealthHandler struct {
	core *handler.Handler
}

// NewHealthHandler is the constructor for HealthHandler, injected by Fx.
func NewHealthHandler(core *handler.Handler) *HealthHandler {
	return &HealthHandler{core: core}
}

// Health handles GET /health.
func (h *HealthHandler) Health(c echo.Context) error {
	return response.JSON(c, http.StatusOK, h.core.Health())
}

// Stats handles GET /stats.
func (h *HealthHandler) Stats(c echo.Context) error {
	return response.JSON(c, http.StatusOK, h.core.Stats())
}
