// Package osmingest decodes a binary OSM extract (PBF) into the
// node/way representation consumed by the road-network graph builder.
package osmingest

import (
	"context"
	"io"
	"runtime"
	"strings"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"

	"github.com/nomnom-routing/vrpcore/internal/graph"
	"github.com/nomnom-routing/vrpcore/internal/vrperrors"
)

// Result is the outcome of parsing an OSM extract: the accumulated node
// and way sets plus any non-fatal warning encountered along the way.
type Result struct {
	Nodes     map[uint64]graph.Node
	Ways      []graph.Way
	Truncated bool // set when the stream ended before a clean EOF
}

// Parse streams an OSM PBF extract from r, decoding dense node blocks and
// way blocks into Result. Nodes outside any way are kept — the roads-only
// filter runs later, in internal/graph.
//
// Failure modes: a malformed/inconsistent PBF framing returns a Malformed
// AppError; a block declaring a required feature this decoder doesn't
// implement returns an UnsupportedFeature AppError; a stream that cuts off
// mid-block returns whatever was decoded so far with Truncated set and a
// nil error, leaving the accept/reject decision to the caller.
func Parse(ctx context.Context, r io.Reader) (*Result, error) {
	scanner := osmpbf.New(ctx, r, runtime.GOMAXPROCS(0))
	defer scanner.Close()

	result := &Result{Nodes: make(map[uint64]graph.Node)}

	for scanner.Scan() {
		switch obj := scanner.Object().(type) {
		case *osm.Node:
			result.Nodes[uint64(obj.ID)] = graph.Node{
				ID:   uint64(obj.ID),
				Lat:  obj.Lat,
				Lon:  obj.Lon,
				Tags: tagsToMap(obj.Tags),
			}
		case *osm.Way:
			result.Ways = append(result.Ways, graph.Way{
				ID:       uint64(obj.ID),
				NodeRefs: wayNodeRefs(obj.Nodes),
				Tags:     tagsToMap(obj.Tags),
			})
		}
	}

	if err := scanner.Err(); err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			result.Truncated = true

			return result, nil
		}

		if isUnsupportedFeature(err) {
			return nil, vrperrors.NewBaseError(500, "UnsupportedFeature", "OSM block requires an unimplemented feature", err.Error())
		}

		return nil, vrperrors.Malformed(err.Error())
	}

	if len(result.Nodes) == 0 && len(result.Ways) == 0 {
		return nil, vrperrors.Malformed("decoded stream contained no nodes or ways")
	}

	return result, nil
}

func tagsToMap(tags osm.Tags) map[string]string {
	if len(tags) == 0 {
		return nil
	}

	m := make(map[string]string, len(tags))
	for _, t := range tags {
		m[t.Key] = t.Value
	}

	return m
}

func wayNodeRefs(nodes osm.WayNodes) []uint64 {
	refs := make([]uint64, 0, len(nodes))
	for _, n := range nodes {
		refs = append(refs, uint64(n.ID))
	}

	return refs
}

// isUnsupportedFeature reports whether err originates from the PBF decoder
// rejecting a block's declared required-feature set. The osmpbf decoder
// does not export a typed error for this, so the decision is made on the
// message it produces for an unrecognized "required_features" entry.
func isUnsupportedFeature(err error) bool {
	return strings.Contains(err.Error(), "feature")
}
