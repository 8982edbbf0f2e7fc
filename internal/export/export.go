// Package export renders a solved VRP solution into the two wire formats
// the API offers: a JSON document with full location detail, and a
// GeoJSON FeatureCollection suitable for direct map rendering.
package export

import (
	"time"

	"github.com/google/uuid"

	"github.com/nomnom-routing/vrpcore/internal/solver"
	"github.com/nomnom-routing/vrpcore/internal/vrp"
	"github.com/nomnom-routing/vrpcore/internal/vrperrors"
)

// Format is the closed set of export formats accepted by the
// /vrp/solution/{id}/export endpoint.
type Format string

const (
	FormatJSON    Format = "json"
	FormatGeoJSON Format = "geojson"
)

// IsValid reports whether f is one of the known formats.
func (f Format) IsValid() bool {
	return f == FormatJSON || f == FormatGeoJSON
}

// ParseFormat validates a raw query/form value into a Format.
func ParseFormat(raw string) (Format, error) {
	f := Format(raw)
	if !f.IsValid() {
		return "", vrperrors.Invalid("unknown export format: " + raw)
	}

	return f, nil
}

// RouteView is one route expanded with full location detail, the shape
// the JSON export uses instead of bare location ids.
type RouteView struct {
	VehicleID int            `json:"vehicle_id"`
	Stops     []vrp.Location `json:"stops"`
	Distance  float64        `json:"distance_meters"`
	Duration  float64        `json:"duration_seconds"`
	Demand    float64        `json:"demand"`
}

// Document is the full JSON export of a solved solution, carrying the
// solver metadata the bare Solution type doesn't.
type Document struct {
	SolutionID    uuid.UUID        `json:"solution_id"`
	InstanceID    uuid.UUID        `json:"vrp_id"`
	Algorithm     solver.Algorithm `json:"algorithm"`
	SolveTimeMS   int64            `json:"solve_time_ms"`
	CreatedAt     time.Time        `json:"created_at"`
	Routes        []RouteView      `json:"routes"`
	TotalDistance float64          `json:"total_distance"`
	TotalDuration float64          `json:"total_duration"`
	VehiclesUsed  int              `json:"vehicles_used"`
}

// Meta carries the solver bookkeeping a Document needs beyond the raw
// Instance/Solution pair.
type Meta struct {
	SolutionID  uuid.UUID
	InstanceID  uuid.UUID
	Algorithm   solver.Algorithm
	SolveTimeMS int64
	CreatedAt   time.Time
}

// BuildDocument expands sol's routes with full location detail from inst.
func BuildDocument(inst *vrp.Instance, sol *vrp.Solution, meta Meta) Document {
	views := make([]RouteView, len(sol.Routes))
	for i, r := range sol.Routes {
		stops := make([]vrp.Location, len(r.Path))
		for j, id := range r.Path {
			stops[j] = inst.Locations[id]
		}

		views[i] = RouteView{
			VehicleID: r.VehicleID,
			Stops:     stops,
			Distance:  r.Distance,
			Duration:  r.Duration,
			Demand:    r.Demand,
		}
	}

	return Document{
		SolutionID:    meta.SolutionID,
		InstanceID:    meta.InstanceID,
		Algorithm:     meta.Algorithm,
		SolveTimeMS:   meta.SolveTimeMS,
		CreatedAt:     meta.CreatedAt,
		Routes:        views,
		TotalDistance: sol.TotalDistance,
		TotalDuration: sol.TotalDuration,
		VehiclesUsed:  sol.NumVehiclesUsed,
	}
}
