package handler

import (
	"context"

	"github.com/google/uuid"

	"github.com/nomnom-routing/vrpcore/internal/geo"
	"github.com/nomnom-routing/vrpcore/internal/graph"
	"github.com/nomnom-routing/vrpcore/internal/session"
	"github.com/nomnom-routing/vrpcore/internal/vrperrors"
)

// NamedCoordinate is one lat/lon pair with an optional display name, the
// input shape shared by a map request's depot and customers.
type NamedCoordinate struct {
	Lat  float64
	Lon  float64
	Name string
}

// MapRequest is the body of POST /vrp/map.
type MapRequest struct {
	GraphID   uuid.UUID
	Depot     NamedCoordinate
	Customers []NamedCoordinate
}

// MappedLocation is one snapped stop in a MapResponse.
type MappedLocation struct {
	NodeID             uint64  `json:"node_id"`
	Lat                float64 `json:"lat"`
	Lon                float64 `json:"lon"`
	DistanceToOriginal float64 `json:"distance_to_original"`
}

// MapResponse is the body of POST /vrp/map.
type MapResponse struct {
	MappedDepot     MappedLocation   `json:"mapped_depot"`
	MappedCustomers []MappedLocation `json:"mapped_customers"`
}

// MapLocations snaps a depot and its customers onto a previously ingested
// graph and persists the result, keyed by the graph's own id, for a later
// /vrp/generate call to consume.
func (h *Handler) MapLocations(ctx context.Context, req MapRequest) (*MapResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, vrperrors.ErrTimeout.WithDetails(err.Error())
	}

	if len(req.Customers) == 0 {
		return nil, vrperrors.Invalid("customers must not be empty")
	}

	g, err := h.Store.Graphs.Get(req.GraphID)
	if err != nil {
		return nil, err
	}

	depotStop, err := snapStop(g, req.Depot)
	if err != nil {
		return nil, externalize(err, vrperrors.ErrInternal)
	}

	customerStops := make([]session.MappedStop, len(req.Customers))
	for i, c := range req.Customers {
		stop, err := snapStop(g, c)
		if err != nil {
			return nil, externalize(err, vrperrors.ErrInternal)
		}
		customerStops[i] = stop
	}

	h.Store.Mappings.InsertAt(req.GraphID, session.Mapping{
		GraphID:   req.GraphID,
		Depot:     depotStop,
		Customers: customerStops,
	})

	mappedCustomers := make([]MappedLocation, len(customerStops))
	for i, s := range customerStops {
		mappedCustomers[i] = toMappedLocation(s)
	}

	return &MapResponse{
		MappedDepot:     toMappedLocation(depotStop),
		MappedCustomers: mappedCustomers,
	}, nil
}

// snapStop resolves c to its nearest graph node. The stored coordinate is
// the node's own position — the instance built later must be solved over
// the snapped points, not the client's raw input.
func snapStop(g *graph.Graph, c NamedCoordinate) (session.MappedStop, error) {
	result, err := g.Snap(geo.Coordinate{Lat: c.Lat, Lon: c.Lon})
	if err != nil {
		return session.MappedStop{}, err
	}

	return session.MappedStop{
		Name:         c.Name,
		Coord:        result.Coord,
		NodeID:       result.NodeID,
		SnapDistance: result.Distance,
	}, nil
}

func toMappedLocation(s session.MappedStop) MappedLocation {
	return MappedLocation{
		NodeID:             s.NodeID,
		Lat:                s.Coord.Lat,
		Lon:                s.Coord.Lon,
		DistanceToOriginal: s.SnapDistance,
	}
}
