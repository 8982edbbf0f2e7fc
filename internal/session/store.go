package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nomnom-routing/vrpcore/internal/geo"
	"github.com/nomnom-routing/vrpcore/internal/graph"
	"github.com/nomnom-routing/vrpcore/internal/solver"
	"github.com/nomnom-routing/vrpcore/internal/vrp"
)

// MappedStop is one location snapped onto a road graph: the nearest graph
// node, that node's own coordinate, and how far it sits from the
// originally requested point. Instances are generated from Coord, so
// solving always runs over the snapped positions.
type MappedStop struct {
	Name         string
	Coord        geo.Coordinate // the snapped node's position
	NodeID       uint64
	SnapDistance float64 // meters, node to the original request point
}

// Mapping is the result of a /vrp/map call: a depot and its customers,
// each snapped onto a previously ingested road graph. Keyed in the
// Mappings registry by the owning graph's id, so at most one mapping is
// live per graph at a time — a later /vrp/map call for the same graph
// replaces it.
type Mapping struct {
	GraphID   uuid.UUID
	Depot     MappedStop
	Customers []MappedStop
}

// SolvedRecord is a solution plus the solver bookkeeping the GET
// /vrp/solution/{id} endpoint must surface (algorithm, created_at,
// vrp_id) that a bare vrp.Solution doesn't carry. Instance is the frozen
// instance the solver ran against, held by reference so the record keeps
// exporting even after the instance registry reaps its entry.
type SolvedRecord struct {
	InstanceID  uuid.UUID
	Instance    *vrp.Instance
	Solution    *vrp.Solution
	Algorithm   solver.Algorithm
	SolveTimeMS int64
	CreatedAt   time.Time
}

// Store bundles the four per-kind registries the VRP API's lifecycle
// needs: ingested road graphs, location-to-node mappings, built
// instances, and solved solutions.
type Store struct {
	Graphs    *Registry[*graph.Graph]
	Mappings  *Registry[Mapping]
	Instances *Registry[*vrp.Instance]
	Solutions *Registry[SolvedRecord]
}

// NewStore returns a Store with all four registries empty.
func NewStore() *Store {
	return &Store{
		Graphs:    NewRegistry[*graph.Graph]("graph"),
		Mappings:  NewRegistry[Mapping]("mapping"),
		Instances: NewRegistry[*vrp.Instance]("instance"),
		Solutions: NewRegistry[SolvedRecord]("solution"),
	}
}

// Stats summarizes how many live entries each registry holds, for the
// /stats endpoint.
type Stats struct {
	Graphs    int `json:"graphs"`
	Mappings  int `json:"mappings"`
	Instances int `json:"vrp_instances"`
	Solutions int `json:"solutions"`
}

func (s *Store) Stats() Stats {
	return Stats{
		Graphs:    s.Graphs.Count(),
		Mappings:  s.Mappings.Count(),
		Instances: s.Instances.Count(),
		Solutions: s.Solutions.Count(),
	}
}

// ReapAll removes every entry across all four registries older than
// maxAge, returning the total removed.
func (s *Store) ReapAll(maxAge time.Duration) int {
	now := time.Now()

	return s.Graphs.Reap(now, maxAge) +
		s.Mappings.Reap(now, maxAge) +
		s.Instances.Reap(now, maxAge) +
		s.Solutions.Reap(now, maxAge)
}

// RunReaper reaps on a fixed interval until ctx is cancelled. Intended to
// run as a long-lived fx.Lifecycle goroutine.
func (s *Store) RunReaper(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.ReapAll(maxAge)
		}
	}
}
