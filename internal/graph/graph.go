// Package graph builds and queries the road-network graph extracted from
// an OSM extract: a filtered node/way set plus a nearest-node spatial
// index, immutable after publish and safely shared across concurrent
// readers.
package graph

import (
	"encoding/json"
	"math"

	"github.com/nomnom-routing/vrpcore/internal/geo"
	"github.com/nomnom-routing/vrpcore/internal/vrperrors"
)

// DrivableHighways is the accepted `highway` tag value set used by the
// roads-only filter.
var DrivableHighways = map[string]bool{
	"motorway":       true,
	"trunk":          true,
	"primary":        true,
	"secondary":      true,
	"tertiary":       true,
	"unclassified":   true,
	"residential":    true,
	"service":        true,
	"motorway_link":  true,
	"trunk_link":     true,
	"primary_link":   true,
	"secondary_link": true,
	"tertiary_link":  true,
	"living_street":  true,
}

// Node is an OSM node retained in the graph.
type Node struct {
	ID   uint64
	Lat  float64
	Lon  float64
	Tags map[string]string
}

// Coordinate returns the node's position as a geo.Coordinate.
func (n Node) Coordinate() geo.Coordinate {
	return geo.Coordinate{Lat: n.Lat, Lon: n.Lon}
}

// Way is an OSM way: an ordered sequence of node references plus tags.
type Way struct {
	ID       uint64
	NodeRefs []uint64
	Tags     map[string]string
}

// Drivable reports whether w's `highway` tag is in the accepted set.
func (w Way) Drivable() bool {
	highway, ok := w.Tags["highway"]
	if !ok {
		return false
	}

	return DrivableHighways[highway]
}

// BBox is a tight bounding box over a graph's surviving nodes.
type BBox struct {
	MinLat, MinLon, MaxLat, MaxLon float64
}

// Contains reports whether c falls within the box (inclusive).
func (b BBox) Contains(c geo.Coordinate) bool {
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat && c.Lon >= b.MinLon && c.Lon <= b.MaxLon
}

// Graph is the immutable, published road network: a node set, an ordered
// way set, and a nearest-node spatial index built once over the final
// node set. Never mutated after New or UnmarshalGraphJSON returns.
type Graph struct {
	Nodes    map[uint64]Node
	Ways     []Way
	Filtered bool
	BBox     BBox

	index *GridIndex
}

// New builds a Graph from raw parsed nodes and ways, optionally retaining
// only drivable ways. Every retained way's node refs are
// required to resolve in the surviving node set; refs that don't are
// dropped from the way rather than failing the build, since OSM extracts
// routinely clip ways at tile boundaries.
func New(nodes map[uint64]Node, ways []Way, roadsOnly bool) (*Graph, error) {
	if len(nodes) == 0 {
		return nil, vrperrors.NewBaseError(500, "EmptyGraph", "no nodes in source data", "")
	}

	retainedWays := ways
	if roadsOnly {
		retainedWays = filterDrivable(ways)
	}

	usedNodes := usedNodeSet(retainedWays, roadsOnly, nodes)

	finalNodes := nodes
	if roadsOnly {
		finalNodes = make(map[uint64]Node, len(usedNodes))
		for id := range usedNodes {
			if n, ok := nodes[id]; ok {
				finalNodes[id] = n
			}
		}
	}

	if len(finalNodes) == 0 {
		return nil, vrperrors.NewBaseError(500, "EmptyGraph", "no nodes remain after filtering", "")
	}

	retainedWays = pruneDanglingRefs(retainedWays, finalNodes)

	g := &Graph{
		Nodes:    finalNodes,
		Ways:     retainedWays,
		Filtered: roadsOnly,
		BBox:     computeBBox(finalNodes),
	}

	g.index = NewGridIndex(1.0)
	g.index.Build(finalNodes)

	return g, nil
}

func filterDrivable(ways []Way) []Way {
	out := make([]Way, 0, len(ways))
	for _, w := range ways {
		if w.Drivable() {
			out = append(out, w)
		}
	}

	return out
}

func usedNodeSet(ways []Way, roadsOnly bool, allNodes map[uint64]Node) map[uint64]struct{} {
	used := make(map[uint64]struct{})
	if !roadsOnly {
		for id := range allNodes {
			used[id] = struct{}{}
		}

		return used
	}

	for _, w := range ways {
		for _, ref := range w.NodeRefs {
			used[ref] = struct{}{}
		}
	}

	return used
}

func pruneDanglingRefs(ways []Way, nodes map[uint64]Node) []Way {
	out := make([]Way, 0, len(ways))
	for _, w := range ways {
		refs := make([]uint64, 0, len(w.NodeRefs))
		for _, ref := range w.NodeRefs {
			if _, ok := nodes[ref]; ok {
				refs = append(refs, ref)
			}
		}
		w.NodeRefs = refs
		out = append(out, w)
	}

	return out
}

func computeBBox(nodes map[uint64]Node) BBox {
	bbox := BBox{MinLat: math.MaxFloat64, MinLon: math.MaxFloat64, MaxLat: -math.MaxFloat64, MaxLon: -math.MaxFloat64}
	for _, n := range nodes {
		bbox.MinLat = math.Min(bbox.MinLat, n.Lat)
		bbox.MinLon = math.Min(bbox.MinLon, n.Lon)
		bbox.MaxLat = math.Max(bbox.MaxLat, n.Lat)
		bbox.MaxLon = math.Max(bbox.MaxLon, n.Lon)
	}

	return bbox
}

// EdgeCount returns the number of directed way segments across all
// retained ways — each way with k node refs contributes k-1 segments.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, w := range g.Ways {
		if len(w.NodeRefs) > 1 {
			count += len(w.NodeRefs) - 1
		}
	}

	return count
}

// SnapResult is the outcome of a nearest-node query: the winning node,
// its own position, and how far it sits from the query point.
type SnapResult struct {
	NodeID   uint64
	Coord    geo.Coordinate // the snapped node's position, not the query's
	Distance float64        // meters, Haversine, to the original query point
}

// Snap returns the node nearest to q by Haversine distance, breaking ties
// by the lower node id. A query far outside the graph's bbox is not an
// error — it still returns its nearest node, with a large Distance.
func (g *Graph) Snap(q geo.Coordinate) (SnapResult, error) {
	if g.index == nil || g.index.Size() == 0 {
		return SnapResult{}, vrperrors.NewBaseError(500, "EmptyGraph", "graph has no nodes to snap against", "")
	}

	id, dist, ok := g.index.Nearest(q)
	if !ok {
		return SnapResult{}, vrperrors.NewBaseError(500, "EmptyGraph", "graph has no nodes to snap against", "")
	}

	return SnapResult{NodeID: id, Coord: g.Nodes[id].Coordinate(), Distance: dist}, nil
}

// jsonGraph is the on-the-wire representation used for round-tripping a
// Graph through JSON (testable property 8).
type jsonGraph struct {
	Nodes    []Node `json:"nodes"`
	Ways     []Way  `json:"ways"`
	Filtered bool   `json:"filtered"`
}

// MarshalJSON serializes the graph's node and way sets (not the derived
// spatial index, which is rebuilt on load).
func (g *Graph) MarshalJSON() ([]byte, error) {
	nodes := make([]Node, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		nodes = append(nodes, n)
	}

	return json.Marshal(jsonGraph{Nodes: nodes, Ways: g.Ways, Filtered: g.Filtered})
}

// UnmarshalGraphJSON rebuilds a Graph (including its spatial index) from
// the wire form produced by MarshalJSON.
func UnmarshalGraphJSON(data []byte) (*Graph, error) {
	var jg jsonGraph
	if err := json.Unmarshal(data, &jg); err != nil {
		return nil, vrperrors.Malformed(err.Error())
	}

	nodes := make(map[uint64]Node, len(jg.Nodes))
	for _, n := range jg.Nodes {
		nodes[n.ID] = n
	}

	g := &Graph{
		Nodes:    nodes,
		Ways:     jg.Ways,
		Filtered: jg.Filtered,
		BBox:     computeBBox(nodes),
	}
	g.index = NewGridIndex(1.0)
	g.index.Build(nodes)

	return g, nil
}
