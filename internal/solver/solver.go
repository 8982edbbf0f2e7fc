// Package solver implements the three VRP solving strategies:
// greedy nearest/farthest-start construction, Clarke-Wright savings, and a
// multi-start meta-heuristic that runs several base solvers and keeps the
// best feasible result.
package solver

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/nomnom-routing/vrpcore/internal/vrp"
)

// DefaultSpeedMPS is the constant speed used to turn a route's distance
// into a duration estimate, absent any per-edge or per-road-class model.
const DefaultSpeedMPS = 15.0

// Algorithm names the closed set of solving strategies exposed at the
// handler boundary.
type Algorithm string

const (
	AlgorithmGreedy         Algorithm = "greedy"
	AlgorithmGreedyFarthest Algorithm = "greedy_farthest"
	AlgorithmClarkeWright   Algorithm = "clarke_wright"
	AlgorithmMultiStart     Algorithm = "multi_start"
)

// Solver produces a Solution from a frozen Instance, or a solver-specific
// failure (typically an Infeasible AppError naming the unassigned set).
type Solver interface {
	Name() Algorithm
	Solve(ctx context.Context, inst *vrp.Instance) (*vrp.Solution, error)
}

// For dispatches to the Solver matching algo.
func For(algo Algorithm, speedMPS float64) (Solver, bool) {
	switch algo {
	case AlgorithmGreedy:
		return &GreedySolver{FarthestStart: false, SpeedMPS: speedMPS}, true
	case AlgorithmGreedyFarthest:
		return &GreedySolver{FarthestStart: true, SpeedMPS: speedMPS}, true
	case AlgorithmClarkeWright:
		return &ClarkeWrightSolver{SpeedMPS: speedMPS}, true
	case AlgorithmMultiStart:
		return NewMultiStart(speedMPS), true
	default:
		return nil, false
	}
}

// routeState tracks one route under construction — the Empty/Building/Closed
// construction state machine collapses into "len(path) == 0" vs. not,
// since the only externally visible states are empty-and-dropped versus
// carrying at least one stop.
type routeState struct {
	vehicle   vrp.Vehicle
	current   int // location id, starts at the depot (0)
	remaining float64
	distSoFar float64
	durSoFar  float64
	path      []int
}

func newRouteState(v vrp.Vehicle) *routeState {
	return &routeState{vehicle: v, current: 0, remaining: v.Capacity}
}

// canInsert checks every hard constraint for appending customer c next.
func canInsert(inst *vrp.Instance, rs *routeState, c int, speedMPS float64) bool {
	cust := inst.Locations[c]
	if rs.remaining < cust.Demand {
		return false
	}

	travelOut := inst.Distance(rs.current, c)
	returnTrip := inst.Distance(c, 0)

	if rs.vehicle.MaxDistance != nil && rs.distSoFar+travelOut+returnTrip > *rs.vehicle.MaxDistance {
		return false
	}

	if speedMPS > 0 && rs.vehicle.MaxDuration != nil {
		travelTime := travelOut / speedMPS
		returnTime := returnTrip / speedMPS
		if rs.durSoFar+travelTime+cust.ServiceTime+returnTime > *rs.vehicle.MaxDuration {
			return false
		}
	}

	return true
}

// insert commits customer c as the next stop on rs.
func insert(inst *vrp.Instance, rs *routeState, c int, speedMPS float64) {
	cust := inst.Locations[c]
	travelOut := inst.Distance(rs.current, c)

	rs.distSoFar += travelOut
	if speedMPS > 0 {
		rs.durSoFar += travelOut/speedMPS + cust.ServiceTime
	}
	rs.remaining -= cust.Demand
	rs.path = append(rs.path, c)
	rs.current = c
}

// closeRoute finalizes rs into a Route, folding in the return-to-depot leg.
func closeRoute(inst *vrp.Instance, rs *routeState, speedMPS float64) vrp.Route {
	returnTrip := inst.Distance(rs.current, 0)
	distance := rs.distSoFar + returnTrip
	duration := rs.durSoFar
	if speedMPS > 0 {
		duration += returnTrip / speedMPS
	}

	return vrp.Route{
		VehicleID: rs.vehicle.ID,
		Path:      rs.path,
		Distance:  distance,
		Duration:  duration,
		Demand:    rs.vehicle.Capacity - rs.remaining,
	}
}

func sumDistance(routes []vrp.Route) float64 {
	var total float64
	for _, r := range routes {
		total += r.Distance
	}

	return total
}

func sumDuration(routes []vrp.Route) float64 {
	var total float64
	for _, r := range routes {
		total += r.Duration
	}

	return total
}

// formatUnassigned renders an unassigned-customer set as a sorted,
// comma-separated list for the Infeasible error's details.
func formatUnassigned(ids []int) string {
	sort.Ints(ids)

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}

	return "unassigned customers: " + strings.Join(parts, ",")
}

func solutionFromRoutes(routes []vrp.Route) *vrp.Solution {
	used := 0
	for _, r := range routes {
		if len(r.Path) > 0 {
			used++
		}
	}

	return &vrp.Solution{
		Routes:          routes,
		TotalDistance:   sumDistance(routes),
		TotalDuration:   sumDuration(routes),
		NumVehiclesUsed: used,
	}
}
