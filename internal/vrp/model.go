// Package vrp holds the data model for a vehicle routing problem instance
// and its solution, plus the InstanceBuilder that assembles a
// frozen instance from a depot, customers, vehicles and a distance method.
package vrp

import "github.com/nomnom-routing/vrpcore/internal/geo"

// TimeWindow is advisory in this version: the data model and wire format
// carry it, but no solver enforces it.
type TimeWindow struct {
	Start float64 // seconds from a shared reference instant
	End   float64
}

// WellFormed reports whether Start <= End.
func (w TimeWindow) WellFormed() bool {
	return w.Start <= w.End
}

// Location is a stop in the instance: the depot (ID 0) or a customer.
type Location struct {
	ID          int
	Name        string
	Coord       geo.Coordinate
	Demand      float64
	TimeWindow  *TimeWindow
	ServiceTime float64 // seconds
}

// Vehicle is one capacitated, optionally range-limited vehicle based at a
// single depot.
type Vehicle struct {
	ID          int
	Capacity    float64
	MaxDistance *float64 // meters, nil = unbounded
	MaxDuration *float64 // seconds, nil = unbounded
	DepotID     int
}

// Instance is a frozen, fully assembled VRP input: locations (index 0 is
// always the depot), a non-empty vehicle list, the distance method used to
// build the matrix, and the matrix itself. Safe for concurrent readers —
// never mutated after InstanceBuilder.Build returns it.
type Instance struct {
	Locations []Location
	Vehicles  []Vehicle
	Method    geo.DistanceMethod
	Matrix    [][]float64
}

// Depot returns the instance's depot location (always index 0).
func (inst *Instance) Depot() Location {
	return inst.Locations[0]
}

// Distance returns the frozen distance, in meters, between location i and j.
func (inst *Instance) Distance(i, j int) float64 {
	return inst.Matrix[i][j]
}

// Route is one vehicle's assigned stops, depot excluded from Path.
type Route struct {
	VehicleID int
	Path      []int // location ids, depot excluded, visit order
	Distance  float64
	Duration  float64
	Demand    float64
}

// Solution is a complete route set for an Instance.
type Solution struct {
	Routes          []Route
	TotalDistance   float64
	TotalDuration   float64
	NumVehiclesUsed int // routes with len(Path) > 0
}
