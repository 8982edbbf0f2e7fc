package vrp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomnom-routing/vrpcore/internal/geo"
)

func smallBuilder() *InstanceBuilder {
	b := NewInstanceBuilder()
	b.SetDepot("depot", geo.Coordinate{Lat: 17.735, Lon: 83.315})
	b.AddCustomer(Location{Name: "c1", Coord: geo.Coordinate{Lat: 17.737, Lon: 83.320}, Demand: 10, ServiceTime: 600})
	b.AddCustomer(Location{Name: "c2", Coord: geo.Coordinate{Lat: 17.740, Lon: 83.310}, Demand: 10, ServiceTime: 600})
	b.AddVehicle(Vehicle{Capacity: 100})

	return b
}

func TestBuildAssignsDenseIDsDepotZero(t *testing.T) {
	inst, err := smallBuilder().Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, inst.Locations[0].ID)
	assert.Equal(t, 1, inst.Locations[1].ID)
	assert.Equal(t, 2, inst.Locations[2].ID)
	assert.Zero(t, inst.Locations[0].Demand)
}

func TestBuildMatrixDiagonalZero(t *testing.T) {
	inst, err := smallBuilder().Build(context.Background())
	require.NoError(t, err)

	for i := range inst.Locations {
		assert.Zero(t, inst.Matrix[i][i])
	}
}

func TestBuildNoDepot(t *testing.T) {
	b := NewInstanceBuilder()
	b.AddCustomer(Location{Coord: geo.Coordinate{Lat: 1, Lon: 1}})
	b.AddVehicle(Vehicle{Capacity: 10})

	_, err := b.Build(context.Background())
	assert.Error(t, err)
}

func TestBuildNoVehicles(t *testing.T) {
	b := NewInstanceBuilder()
	b.SetDepot("d", geo.Coordinate{Lat: 1, Lon: 1})
	b.AddCustomer(Location{Coord: geo.Coordinate{Lat: 1, Lon: 1}})

	_, err := b.Build(context.Background())
	assert.Error(t, err)
}

func TestBuildNoCustomers(t *testing.T) {
	b := NewInstanceBuilder()
	b.SetDepot("d", geo.Coordinate{Lat: 1, Lon: 1})
	b.AddVehicle(Vehicle{Capacity: 10})

	_, err := b.Build(context.Background())
	assert.Error(t, err)
}

func TestBuildNegativeDemand(t *testing.T) {
	b := NewInstanceBuilder()
	b.SetDepot("d", geo.Coordinate{Lat: 1, Lon: 1})
	b.AddCustomer(Location{Coord: geo.Coordinate{Lat: 1, Lon: 1}, Demand: -5})
	b.AddVehicle(Vehicle{Capacity: 10})

	_, err := b.Build(context.Background())
	assert.Error(t, err)
}

func TestBuildInvalidTimeWindow(t *testing.T) {
	b := NewInstanceBuilder()
	b.SetDepot("d", geo.Coordinate{Lat: 1, Lon: 1})
	b.AddCustomer(Location{Coord: geo.Coordinate{Lat: 1, Lon: 1}, TimeWindow: &TimeWindow{Start: 100, End: 50}})
	b.AddVehicle(Vehicle{Capacity: 10})

	_, err := b.Build(context.Background())
	assert.Error(t, err)
}
