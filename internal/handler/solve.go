package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nomnom-routing/vrpcore/internal/export"
	"github.com/nomnom-routing/vrpcore/internal/session"
	"github.com/nomnom-routing/vrpcore/internal/solver"
	"github.com/nomnom-routing/vrpcore/internal/validate"
	"github.com/nomnom-routing/vrpcore/internal/vrperrors"
)

// SolveRequest is the body of POST /vrp/solve.
type SolveRequest struct {
	VrpID     uuid.UUID
	Algorithm solver.Algorithm
}

// Solve runs the requested algorithm against a previously generated
// instance, persists the solution, and returns its full export document.
func (h *Handler) Solve(ctx context.Context, req SolveRequest) (*export.Document, error) {
	inst, err := h.Store.Instances.Get(req.VrpID)
	if err != nil {
		return nil, err
	}

	s, ok := solver.For(req.Algorithm, h.SpeedMPS)
	if !ok {
		return nil, vrperrors.Invalid("unknown algorithm: " + string(req.Algorithm))
	}

	start := time.Now()
	sol, err := s.Solve(ctx, inst)
	if err != nil {
		return nil, externalize(err, vrperrors.ErrInternal)
	}
	elapsed := time.Since(start)
	createdAt := time.Now()

	// Second-pass sanity check, independent of the solver. Violations are
	// solver bugs: surface them loudly but still return the solution.
	if report := validate.Validate(inst, sol); !report.OK {
		for _, issue := range report.Issues {
			h.Logger.Error("solution failed validation",
				slog.String("algorithm", string(req.Algorithm)),
				slog.String("kind", issue.Kind),
				slog.String("detail", issue.Detail),
			)
		}
	}

	solutionID := h.Store.Solutions.Insert(session.SolvedRecord{
		InstanceID:  req.VrpID,
		Instance:    inst,
		Solution:    sol,
		Algorithm:   req.Algorithm,
		SolveTimeMS: elapsed.Milliseconds(),
		CreatedAt:   createdAt,
	})

	doc := export.BuildDocument(inst, sol, export.Meta{
		SolutionID:  solutionID,
		InstanceID:  req.VrpID,
		Algorithm:   req.Algorithm,
		SolveTimeMS: elapsed.Milliseconds(),
		CreatedAt:   createdAt,
	})

	return &doc, nil
}
