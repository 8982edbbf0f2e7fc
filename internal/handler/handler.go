// Package handler implements the orchestration body of every API
// endpoint, operating on already-decoded Go values — multipart extraction,
// URL fetching and JSON binding are the transport layer's job,
// done by internal/delivery/http before a handler method is ever called.
package handler

import (
	"log/slog"
	"time"

	"go.uber.org/fx"

	"github.com/nomnom-routing/vrpcore/config"
	"github.com/nomnom-routing/vrpcore/internal/session"
)

// Handler holds the session store and solver defaults every endpoint
// method needs. One Handler is constructed per process and is safe for
// concurrent use — all mutable state lives behind Store's registries.
type Handler struct {
	Store    *session.Store
	SpeedMPS float64
	Logger   *slog.Logger
}

// New builds a Handler.
func New(store *session.Store, speedMPS float64, logger *slog.Logger) *Handler {
	return &Handler{Store: store, SpeedMPS: speedMPS, Logger: logger}
}

// Params defines the dependencies the fx-wired constructor needs.
type Params struct {
	fx.In

	Config *config.Config
	Store  *session.Store
	Logger *slog.Logger
}

// NewFromConfig builds a Handler from injected configuration.
func NewFromConfig(params Params) *Handler {
	return New(params.Store, params.Config.Routing.DefaultSpeedMPS, params.Logger)
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string        `json:"status"`
	Timestamp int64         `json:"timestamp"`
	Stats     session.Stats `json:"stats"`
}

// Health reports process liveness plus a snapshot of live session counts.
func (h *Handler) Health() HealthResponse {
	return HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Unix(),
		Stats:     h.Store.Stats(),
	}
}

// Stats is the body of GET /stats — just the store's live counts.
func (h *Handler) Stats() session.Stats {
	return h.Store.Stats()
}
