package handler

import (
	"context"

	"github.com/google/uuid"

	"github.com/nomnom-routing/vrpcore/internal/vrp"
	"github.com/nomnom-routing/vrpcore/internal/vrperrors"
)

// defaultServiceTimeSecs is the constraints.service_time default.
const defaultServiceTimeSecs = 300.0

// unitDemand is the demand assigned to every customer generated through
// this endpoint. The wire schema for POST /vrp/generate carries no
// per-customer demand field, so capacity here behaves as a
// per-vehicle customer-count limit; weighted-demand instances are only
// reachable through the internal vrp.InstanceBuilder API directly.
const unitDemand = 1.0

// GenerateConstraints mirrors the request body's constraints object.
type GenerateConstraints struct {
	TimeWindows bool
	MaxDistance *float64
	MaxDuration *float64
	ServiceTime *float64
}

// GenerateRequest is the body of POST /vrp/generate.
type GenerateRequest struct {
	GraphID     uuid.UUID
	Vehicles    int
	Capacity    float64
	Constraints GenerateConstraints
}

// GenerateResponse is the body of POST /vrp/generate.
type GenerateResponse struct {
	VrpID      uuid.UUID `json:"vrp_id"`
	Customers  int       `json:"customers"`
	Vehicles   int       `json:"vehicles"`
	DepotCount int       `json:"depot_count"`
}

// GenerateInstance assembles a VrpInstance from a graph's most recent
// mapping: the depot and customers from /vrp/map, and a homogeneous fleet
// sized and constrained per the request.
func (h *Handler) GenerateInstance(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if req.Vehicles < 1 {
		return nil, vrperrors.Invalid("vehicles must be at least 1")
	}
	if req.Capacity <= 0 {
		return nil, vrperrors.Invalid("capacity must be greater than 0")
	}

	if _, err := h.Store.Graphs.Get(req.GraphID); err != nil {
		return nil, err
	}

	mapping, err := h.Store.Mappings.Get(req.GraphID)
	if err != nil {
		return nil, err
	}

	serviceTime := defaultServiceTimeSecs
	if req.Constraints.ServiceTime != nil {
		serviceTime = *req.Constraints.ServiceTime
	}

	b := vrp.NewInstanceBuilder()
	b.SetDepot(mapping.Depot.Name, mapping.Depot.Coord)

	for _, c := range mapping.Customers {
		b.AddCustomer(vrp.Location{
			Name:        c.Name,
			Coord:       c.Coord,
			Demand:      unitDemand,
			ServiceTime: serviceTime,
		})
	}

	for i := 0; i < req.Vehicles; i++ {
		b.AddVehicle(vrp.Vehicle{
			Capacity:    req.Capacity,
			MaxDistance: req.Constraints.MaxDistance,
			MaxDuration: req.Constraints.MaxDuration,
		})
	}

	inst, err := b.Build(ctx)
	if err != nil {
		return nil, externalize(err, vrperrors.ErrInvalidInput)
	}

	id := h.Store.Instances.Insert(inst)

	return &GenerateResponse{
		VrpID:      id,
		Customers:  len(mapping.Customers),
		Vehicles:   req.Vehicles,
		DepotCount: 1,
	}, nil
}
