// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"github.com/nomnom-routing/vrpcore/internal/delivery/http/middleware"
	"github.com/nomnom-routing/vrpcore/internal/delivery/http/router/handler"
)

type RouterParams struct {
	fx.In

	HealthHandler       *handler.HealthHandler
	OSMHandler          *handler.OSMHandler
	VRPHandler          *handler.VRPHandler
	RequestIDMiddleware *middleware.RequestIDMiddleware
	LoggerMiddleware    *middleware.LoggerMiddleware
	ErrorMiddleware     *middleware.ErrorMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	params RouterParams
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{params: params}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.Use(r.params.RequestIDMiddleware.Process)
	e.Use(r.params.LoggerMiddleware.Handle)
	e.Use(r.params.ErrorMiddleware.HandleErrors)

	e.GET("/health", r.params.HealthHandler.Health)
	e.GET("/stats", r.params.HealthHandler.Stats)

	osmGroup := e.Group("/osm")
	{
		osmGroup.POST("/upload", r.params.OSMHandler.Upload)
	}

	vrpGroup := e.Group("/vrp")
	{
		vrpGroup.POST("/map", r.params.VRPHandler.MapLocations)
		vrpGroup.POST("/generate", r.params.VRPHandler.Generate)
		vrpGroup.POST("/solve", r.params.VRPHandler.Solve)
		vrpGroup.GET("/solution/:id", r.params.VRPHandler.GetSolution)
		vrpGroup.GET("/solution/:id/export", r.params.VRPHandler.ExportSolution)
	}
}
