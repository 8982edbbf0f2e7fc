package vrp

import (
	"context"

	"github.com/nomnom-routing/vrpcore/internal/geo"
	"github.com/nomnom-routing/vrpcore/internal/vrperrors"
)

// InstanceBuilder incrementally collects a depot, customers, vehicles and
// a distance method, then freezes them into an Instance.
type InstanceBuilder struct {
	depot     *Location
	customers []Location
	vehicles  []Vehicle
	method    geo.DistanceMethod
}

// NewInstanceBuilder returns an empty builder defaulting to Haversine.
func NewInstanceBuilder() *InstanceBuilder {
	return &InstanceBuilder{method: geo.Haversine}
}

// SetDepot sets the instance's single depot from a name and coordinate;
// the depot is always demand 0, service time 0.
func (b *InstanceBuilder) SetDepot(name string, coord geo.Coordinate) *InstanceBuilder {
	b.depot = &Location{Name: name, Coord: coord}

	return b
}

// AddCustomer appends a customer stop.
func (b *InstanceBuilder) AddCustomer(loc Location) *InstanceBuilder {
	b.customers = append(b.customers, loc)

	return b
}

// AddVehicle appends a vehicle.
func (b *InstanceBuilder) AddVehicle(v Vehicle) *InstanceBuilder {
	b.vehicles = append(b.vehicles, v)

	return b
}

// SetMethod overrides the default Haversine distance method.
func (b *InstanceBuilder) SetMethod(m geo.DistanceMethod) *InstanceBuilder {
	b.method = m

	return b
}

// Build validates the collected inputs, assigns dense location ids from 0
// (depot is always 0), computes the distance matrix in parallel, and
// returns the frozen Instance.
func (b *InstanceBuilder) Build(ctx context.Context) (*Instance, error) {
	if b.depot == nil {
		return nil, vrperrors.NewBaseError(400, "NoDepot", "instance requires a depot", "")
	}

	if len(b.vehicles) == 0 {
		return nil, vrperrors.NewBaseError(400, "NoVehicles", "instance requires at least one vehicle", "")
	}

	if len(b.customers) == 0 {
		return nil, vrperrors.NewBaseError(400, "NoCustomers", "instance requires at least one customer", "")
	}

	locations := make([]Location, 0, len(b.customers)+1)
	depot := *b.depot
	depot.ID = 0
	depot.Demand = 0
	depot.ServiceTime = 0
	locations = append(locations, depot)

	for i, c := range b.customers {
		if c.Demand < 0 {
			return nil, vrperrors.NewBaseError(400, "NegativeDemand", "customer demand must be non-negative", c.Name)
		}

		if c.ServiceTime < 0 {
			return nil, vrperrors.Invalid("service time must be non-negative")
		}

		if c.TimeWindow != nil && !c.TimeWindow.WellFormed() {
			return nil, vrperrors.NewBaseError(400, "InvalidTimeWindow", "time window start must not exceed end", c.Name)
		}

		c.ID = i + 1
		locations = append(locations, c)
	}

	vehicles := make([]Vehicle, len(b.vehicles))
	copy(vehicles, b.vehicles)
	for i := range vehicles {
		if vehicles[i].DepotID != 0 {
			return nil, vrperrors.Invalid("vehicle depot_id does not match the instance depot")
		}
		vehicles[i].ID = i
	}

	coords := make([]geo.Coordinate, len(locations))
	for i, l := range locations {
		coords[i] = l.Coord
	}

	matrix, err := geo.Matrix(ctx, coords, b.method)
	if err != nil {
		return nil, err
	}

	return &Instance{
		Locations: locations,
		Vehicles:  vehicles,
		Method:    b.method,
		Matrix:    matrix,
	}, nil
}
