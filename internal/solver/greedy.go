package solver

import (
	"context"

	"github.com/nomnom-routing/vrpcore/internal/vrp"
	"github.com/nomnom-routing/vrpcore/internal/vrperrors"
)

// GreedySolver builds one route per vehicle in turn, repeatedly appending
// the cheapest feasible next customer until none qualifies, then closes the
// route and moves to the next vehicle.
type GreedySolver struct {
	// FarthestStart picks the farthest-from-depot feasible customer as the
	// first stop on each new route instead of the nearest-to-depot one.
	// Every stop after the first is always nearest-to-current.
	FarthestStart bool
	SpeedMPS      float64
}

func (s *GreedySolver) Name() Algorithm {
	if s.FarthestStart {
		return AlgorithmGreedyFarthest
	}

	return AlgorithmGreedy
}

func (s *GreedySolver) Solve(ctx context.Context, inst *vrp.Instance) (*vrp.Solution, error) {
	unassigned := make(map[int]bool, len(inst.Locations)-1)
	for _, loc := range inst.Locations[1:] {
		unassigned[loc.ID] = true
	}

	var routes []vrp.Route

	for _, vehicle := range inst.Vehicles {
		if len(unassigned) == 0 {
			break
		}

		if err := ctx.Err(); err != nil {
			return nil, vrperrors.ErrTimeout.WithDetails(err.Error())
		}

		rs := newRouteState(vehicle)
		first := true

		for {
			next, ok := s.pickNext(inst, rs, unassigned, first)
			if !ok {
				break
			}

			insert(inst, rs, next, s.SpeedMPS)
			delete(unassigned, next)
			first = false
		}

		if len(rs.path) > 0 {
			routes = append(routes, closeRoute(inst, rs, s.SpeedMPS))
		}
	}

	if len(unassigned) > 0 {
		return nil, infeasibleUnassigned(unassigned)
	}

	return solutionFromRoutes(routes), nil
}

// pickNext scans unassigned customers in ascending id order so that ties in
// the selection metric resolve to the lowest id.
func (s *GreedySolver) pickNext(inst *vrp.Instance, rs *routeState, unassigned map[int]bool, first bool) (int, bool) {
	best := -1
	bestVal := 0.0

	for id := 1; id < len(inst.Locations); id++ {
		if !unassigned[id] {
			continue
		}

		if !canInsert(inst, rs, id, s.SpeedMPS) {
			continue
		}

		var val float64
		if first && s.FarthestStart {
			val = -inst.Distance(0, id)
		} else {
			val = inst.Distance(rs.current, id)
		}

		if best == -1 || val < bestVal {
			best, bestVal = id, val
		}
	}

	return best, best != -1
}

func infeasibleUnassigned(unassigned map[int]bool) error {
	ids := make([]int, 0, len(unassigned))
	for id := range unassigned {
		ids = append(ids, id)
	}

	return vrperrors.Infeasible(formatUnassigned(ids))
}
