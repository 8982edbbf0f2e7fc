package solver

import (
	"context"
	"errors"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/nomnom-routing/vrpcore/internal/vrp"
	"github.com/nomnom-routing/vrpcore/internal/vrperrors"
)

// MultiStartSolver dispatches every base solver concurrently against the
// same instance and keeps the best feasible result. Dispatch order
// does not affect the winner: candidates are compared by a total order,
// not by arrival.
type MultiStartSolver struct {
	bases []Solver
}

// NewMultiStart builds the standard multi-start panel: both greedy
// variants plus Clarke-Wright, all using the given constant speed.
func NewMultiStart(speedMPS float64) *MultiStartSolver {
	return &MultiStartSolver{
		bases: []Solver{
			&GreedySolver{FarthestStart: false, SpeedMPS: speedMPS},
			&GreedySolver{FarthestStart: true, SpeedMPS: speedMPS},
			&ClarkeWrightSolver{SpeedMPS: speedMPS},
		},
	}
}

func (s *MultiStartSolver) Name() Algorithm {
	return AlgorithmMultiStart
}

type candidate struct {
	algo Algorithm
	sol  *vrp.Solution
}

func (s *MultiStartSolver) Solve(ctx context.Context, inst *vrp.Instance) (*vrp.Solution, error) {
	candidates := make([]*candidate, len(s.bases))
	failures := make([]error, len(s.bases))

	g, gctx := errgroup.WithContext(ctx)
	for i, base := range s.bases {
		i, base := i, base
		g.Go(func() error {
			sol, err := base.Solve(gctx, inst)
			if err != nil {
				// A failed base solver just doesn't enter the panel; its
				// cause is kept for the all-failed aggregate.
				failures[i] = err

				return nil
			}

			candidates[i] = &candidate{algo: base.Name(), sol: sol}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, vrperrors.ErrInternal.WithDetails(err.Error())
	}

	var surviving []*candidate
	for _, c := range candidates {
		if c != nil {
			surviving = append(surviving, c)
		}
	}

	if len(surviving) == 0 {
		return nil, vrperrors.Infeasible(formatFailures(s.bases, failures))
	}

	sort.Slice(surviving, func(a, b int) bool { return less(surviving[a], surviving[b]) })

	return surviving[0].sol, nil
}

// less implements the winner's tie-break chain: lower total
// distance; then fewer vehicles used; then a lexicographically smaller
// sequence of route vehicle ids. TotalDistance is the sum of the route
// distances, so that sum is not compared separately.
func less(a, b *candidate) bool {
	if a.sol.TotalDistance != b.sol.TotalDistance {
		return a.sol.TotalDistance < b.sol.TotalDistance
	}
	if a.sol.NumVehiclesUsed != b.sol.NumVehiclesUsed {
		return a.sol.NumVehiclesUsed < b.sol.NumVehiclesUsed
	}

	return lexLessRouteIDs(a.sol.Routes, b.sol.Routes)
}

// formatFailures renders every base solver's failure cause for the
// all-solvers-failed aggregate error.
func formatFailures(bases []Solver, failures []error) string {
	var b strings.Builder
	for i, base := range bases {
		if failures[i] == nil {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("; ")
		}
		b.WriteString(string(base.Name()))
		b.WriteString(": ")

		var appErr vrperrors.AppError
		if errors.As(failures[i], &appErr) && appErr.Details() != "" {
			b.WriteString(appErr.Details())
		} else {
			b.WriteString(failures[i].Error())
		}
	}
	if b.Len() == 0 {
		return "no base solver produced a feasible solution"
	}

	return b.String()
}

func lexLessRouteIDs(a, b []vrp.Route) bool {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	for i := 0; i < n; i++ {
		if a[i].VehicleID != b[i].VehicleID {
			return a[i].VehicleID < b[i].VehicleID
		}
	}

	return len(a) < len(b)
}
