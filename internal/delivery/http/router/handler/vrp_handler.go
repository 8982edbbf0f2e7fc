package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/nomnom-routing/vrpcore/config"
	"github.com/nomnom-routing/vrpcore/internal/delivery/http/response"
	"github.com/nomnom-routing/vrpcore/internal/export"
	"github.com/nomnom-routing/vrpcore/internal/handler"
	"github.com/nomnom-routing/vrpcore/internal/solver"
	"github.com/nomnom-routing/vrpcore/internal/util"
)

// snapTimeout bounds the cheap endpoints (map, generate); the expensive
// solve endpoint uses the configured request timeout instead.
const snapTimeout = 30 * time.Second

// VRPHandler serves the map/generate/solve/solution endpoints.
type VRPHandler struct {
	core         *handler.Handler
	logger       *slog.Logger
	solveTimeout time.Duration
}

// NewVRPHandler is the constructor for VRPHandler, injected by Fx.
func NewVRPHandler(core *handler.Handler, logger *slog.Logger, cfg *config.Config) *VRPHandler {
	return &VRPHandler{
		core:         core,
		logger:       logger,
		solveTimeout: cfg.HTTP.Timeouts.RequestTimeout,
	}
}

type coordinateBody struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Name string  `json:"name"`
}

type mapRequestBody struct {
	GraphID   string           `json:"graph_id"`
	Depot     coordinateBody   `json:"depot"`
	Customers []coordinateBody `json:"customers"`
}

// MapLocations handles POST /vrp/map.
func (h *VRPHandler) MapLocations(c echo.Context) error {
	var body mapRequestBody
	if err := c.Bind(&body); err != nil {
		return response.BindingError(c, "invalid map request body")
	}

	graphID, err := uuid.Parse(body.GraphID)
	if err != nil {
		return response.BadRequest(c, "InvalidInput", "graph_id must be a UUID")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), snapTimeout)
	defer cancel()

	customers := make([]handler.NamedCoordinate, len(body.Customers))
	for i, cust := range body.Customers {
		customers[i] = handler.NamedCoordinate{Lat: cust.Lat, Lon: cust.Lon, Name: cust.Name}
	}

	resp, err := h.core.MapLocations(ctx, handler.MapRequest{
		GraphID:   graphID,
		Depot:     handler.NamedCoordinate{Lat: body.Depot.Lat, Lon: body.Depot.Lon, Name: body.Depot.Name},
		Customers: customers,
	})
	if err != nil {
		return err
	}

	return response.JSON(c, http.StatusOK, resp)
}

type generateConstraintsBody struct {
	TimeWindows bool     `json:"time_windows"`
	MaxDistance *float64 `json:"max_distance"`
	MaxDuration *float64 `json:"max_duration"`
	ServiceTime *float64 `json:"service_time"`
}

type generateRequestBody struct {
	GraphID     string                  `json:"graph_id"`
	Vehicles    int                     `json:"vehicles"`
	Capacity    float64                 `json:"capacity"`
	Constraints generateConstraintsBody `json:"constraints"`
}

// Generate handles POST /vrp/generate.
func (h *VRPHandler) Generate(c echo.Context) error {
	var body generateRequestBody
	if err := c.Bind(&body); err != nil {
		return response.BindingError(c, "invalid generate request body")
	}

	graphID, err := uuid.Parse(body.GraphID)
	if err != nil {
		return response.BadRequest(c, "InvalidInput", "graph_id must be a UUID")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), snapTimeout)
	defer cancel()

	resp, err := h.core.GenerateInstance(ctx, handler.GenerateRequest{
		GraphID:  graphID,
		Vehicles: body.Vehicles,
		Capacity: body.Capacity,
		Constraints: handler.GenerateConstraints{
			TimeWindows: body.Constraints.TimeWindows,
			MaxDistance: body.Constraints.MaxDistance,
			MaxDuration: body.Constraints.MaxDuration,
			ServiceTime: body.Constraints.ServiceTime,
		},
	})
	if err != nil {
		return err
	}

	return response.JSON(c, http.StatusOK, resp)
}

type solveRequestBody struct {
	VrpID     string `json:"vrp_id"`
	Algorithm string `json:"algorithm"`
}

// Solve handles POST /vrp/solve.
func (h *VRPHandler) Solve(c echo.Context) error {
	var body solveRequestBody
	if err := c.Bind(&body); err != nil {
		return response.BindingError(c, "invalid solve request body")
	}

	vrpID, err := uuid.Parse(body.VrpID)
	if err != nil {
		return response.BadRequest(c, "InvalidInput", "vrp_id must be a UUID")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.solveTimeout)
	defer cancel()

	doc, err := h.core.Solve(ctx, handler.SolveRequest{
		VrpID:     vrpID,
		Algorithm: solver.Algorithm(body.Algorithm),
	})
	if err != nil {
		return err
	}

	h.logger.Info("solve complete",
		slog.String("algorithm", body.Algorithm),
		slog.String("elapsed", util.FormatDuration(time.Duration(doc.SolveTimeMS)*time.Millisecond)),
		slog.Int("vehicles_used", doc.VehiclesUsed),
	)

	return response.JSON(c, http.StatusOK, doc)
}

// GetSolution handles GET /vrp/solution/:id.
func (h *VRPHandler) GetSolution(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "InvalidInput", "solution id must be a UUID")
	}

	doc, err := h.core.GetSolution(id)
	if err != nil {
		return err
	}

	return response.JSON(c, http.StatusOK, doc)
}

// ExportSolution handles GET /vrp/solution/:id/export?format=json|geojson.
func (h *VRPHandler) ExportSolution(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "InvalidInput", "solution id must be a UUID")
	}

	raw := c.QueryParam("format")
	if raw == "" {
		raw = string(export.FormatJSON)
	}

	format, err := export.ParseFormat(raw)
	if err != nil {
		return err
	}

	body, err := h.core.ExportSolution(id, format)
	if err != nil {
		return err
	}

	return response.JSON(c, http.StatusOK, body)
}
