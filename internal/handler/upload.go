package handler

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/nomnom-routing/vrpcore/internal/graph"
	"github.com/nomnom-routing/vrpcore/internal/osmingest"
	"github.com/nomnom-routing/vrpcore/internal/vrperrors"
)

// UploadResponse is the body of POST /osm/upload.
type UploadResponse struct {
	GraphID uuid.UUID `json:"graph_id"`
	Nodes   int       `json:"nodes"`
	Edges   int       `json:"edges"`
	Message string    `json:"message"`
}

// UploadOSM parses an OSM extract already staged by the caller as r
// (either the multipart file body or the body fetched from file_url) and
// publishes the resulting road graph. roadsOnly defaults to true at the
// transport layer.
//
// r's underlying resource (a staged temp file) must outlive this call;
// releasing it is the caller's responsibility on every exit path,
// including ctx cancellation.
func (h *Handler) UploadOSM(ctx context.Context, r io.Reader, roadsOnly bool) (*UploadResponse, error) {
	result, err := osmingest.Parse(ctx, r)
	if err != nil {
		return nil, externalize(err, vrperrors.ErrMalformed)
	}

	g, err := graph.New(result.Nodes, result.Ways, roadsOnly)
	if err != nil {
		return nil, externalize(err, vrperrors.ErrMalformed)
	}

	id := h.Store.Graphs.Insert(g)

	message := fmt.Sprintf("parsed %d nodes and %d ways", len(g.Nodes), len(g.Ways))
	if result.Truncated {
		message += " (stream ended early; partial extract)"
	}

	return &UploadResponse{
		GraphID: id,
		Nodes:   len(g.Nodes),
		Edges:   g.EdgeCount(),
		Message: message,
	}, nil
}
