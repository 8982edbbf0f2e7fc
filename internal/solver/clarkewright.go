package solver

import (
	"context"
	"sort"

	"github.com/nomnom-routing/vrpcore/internal/vrp"
	"github.com/nomnom-routing/vrpcore/internal/vrperrors"
)

// ClarkeWrightSolver implements the classic savings algorithm: start
// from one out-and-back route per customer, then greedily
// merge the pair with the largest saving whenever the merge stays
// feasible, until no pair can merge.
//
// The fleet is assumed homogeneous for merge feasibility: every candidate
// merged route is checked against the first vehicle's capacity,
// max_distance and max_duration (an Open Question resolution, recorded in
// the design notes). Finished routes are assigned to actual vehicles in
// ascending order of their lowest customer id; more finished routes than
// vehicles is Infeasible.
type ClarkeWrightSolver struct {
	SpeedMPS float64
}

func (s *ClarkeWrightSolver) Name() Algorithm {
	return AlgorithmClarkeWright
}

// cwRoute is a route under construction during the merge phase: customer
// ids only, first and last are its two mergeable endpoints.
type cwRoute struct {
	path     []int
	distance float64
	duration float64
	demand   float64
}

func (r *cwRoute) first() int { return r.path[0] }
func (r *cwRoute) last() int  { return r.path[len(r.path)-1] }

func reversed(ids []int) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[len(ids)-1-i] = id
	}

	return out
}

func (s *ClarkeWrightSolver) Solve(ctx context.Context, inst *vrp.Instance) (*vrp.Solution, error) {
	if err := ctx.Err(); err != nil {
		return nil, vrperrors.ErrTimeout.WithDetails(err.Error())
	}

	profile := inst.Vehicles[0]

	routes := make(map[int]*cwRoute, len(inst.Locations)-1)
	routeOf := make(map[int]*cwRoute, len(inst.Locations)-1)

	for _, loc := range inst.Locations[1:] {
		leg := inst.Distance(0, loc.ID)
		r := &cwRoute{
			path:     []int{loc.ID},
			distance: 2 * leg,
			demand:   loc.Demand,
		}
		if s.SpeedMPS > 0 {
			r.duration = 2*(leg/s.SpeedMPS) + loc.ServiceTime
		}

		if !withinLimits(profile, r) {
			return nil, vrperrors.Infeasible(formatUnassigned([]int{loc.ID}))
		}

		routes[loc.ID] = r
		routeOf[loc.ID] = r
	}

	type saving struct {
		i, j  int
		value float64
	}

	var savings []saving
	n := len(inst.Locations)
	for i := 1; i < n; i++ {
		for j := i + 1; j < n; j++ {
			savings = append(savings, saving{i, j, inst.Distance(0, i) + inst.Distance(0, j) - inst.Distance(i, j)})
		}
	}

	sort.Slice(savings, func(a, b int) bool {
		if savings[a].value != savings[b].value {
			return savings[a].value > savings[b].value
		}
		if savings[a].i != savings[b].i {
			return savings[a].i < savings[b].i
		}

		return savings[a].j < savings[b].j
	})

	for _, sv := range savings {
		ri, rj := routeOf[sv.i], routeOf[sv.j]
		if ri == rj {
			continue
		}

		merged, ok := tryMerge(inst, ri, rj, sv.i, sv.j, s.SpeedMPS)
		if !ok || !withinLimits(profile, merged) {
			continue
		}

		for _, id := range merged.path {
			routeOf[id] = merged
		}
	}

	finished := distinctRoutes(routeOf)
	sort.Slice(finished, func(a, b int) bool { return minID(finished[a].path) < minID(finished[b].path) })

	if len(finished) > len(inst.Vehicles) {
		overflowIDs := []int{}
		for _, r := range finished[len(inst.Vehicles):] {
			overflowIDs = append(overflowIDs, r.path...)
		}

		return nil, infeasibleUnassigned(toSet(overflowIDs))
	}

	routesOut := make([]vrp.Route, len(finished))
	for i, r := range finished {
		routesOut[i] = vrp.Route{
			VehicleID: inst.Vehicles[i].ID,
			Path:      r.path,
			Distance:  r.distance,
			Duration:  r.duration,
			Demand:    r.demand,
		}
	}

	return solutionFromRoutes(routesOut), nil
}

// tryMerge attempts to splice ri and rj into one route joining i and j,
// trying the orientation where i and j end up adjacent. Returns ok=false
// if i or j is an interior stop of its route (ineligible to merge).
func tryMerge(inst *vrp.Instance, ri, rj *cwRoute, i, j int, speedMPS float64) (*cwRoute, bool) {
	iIsLast, iIsFirst := ri.last() == i, ri.first() == i
	jIsLast, jIsFirst := rj.last() == j, rj.first() == j

	if !iIsLast && !iIsFirst {
		return nil, false
	}
	if !jIsLast && !jIsFirst {
		return nil, false
	}

	var path []int
	switch {
	case iIsLast && jIsFirst:
		path = append(append([]int{}, ri.path...), rj.path...)
	case iIsFirst && jIsLast:
		path = append(append([]int{}, rj.path...), ri.path...)
	case iIsLast && jIsLast:
		path = append(append([]int{}, ri.path...), reversed(rj.path)...)
	case iIsFirst && jIsFirst:
		path = append(append([]int{}, reversed(ri.path)...), rj.path...)
	default:
		return nil, false
	}

	distance := inst.Distance(0, path[0])
	duration := 0.0
	for k := 0; k < len(path)-1; k++ {
		distance += inst.Distance(path[k], path[k+1])
	}
	distance += inst.Distance(path[len(path)-1], 0)

	if speedMPS > 0 {
		duration = distance / speedMPS
		for _, id := range path {
			duration += inst.Locations[id].ServiceTime
		}
	}

	return &cwRoute{path: path, distance: distance, duration: duration, demand: ri.demand + rj.demand}, true
}

func withinLimits(v vrp.Vehicle, r *cwRoute) bool {
	if r.demand > v.Capacity {
		return false
	}
	if v.MaxDistance != nil && r.distance > *v.MaxDistance {
		return false
	}
	if v.MaxDuration != nil && r.duration > *v.MaxDuration {
		return false
	}

	return true
}

func distinctRoutes(routeOf map[int]*cwRoute) []*cwRoute {
	seen := make(map[*cwRoute]bool)
	var out []*cwRoute
	for _, r := range routeOf {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}

	return out
}

func minID(ids []int) int {
	m := ids[0]
	for _, id := range ids[1:] {
		if id < m {
			m = id
		}
	}

	return m
}

func toSet(ids []int) map[int]bool {
	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}

	return set
}
