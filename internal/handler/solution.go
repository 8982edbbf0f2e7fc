package handler

import (
	"github.com/google/uuid"

	"github.com/nomnom-routing/vrpcore/internal/export"
	"github.com/nomnom-routing/vrpcore/internal/session"
)

// GetSolution returns a previously solved solution's full JSON document,
// for GET /vrp/solution/{id}.
func (h *Handler) GetSolution(id uuid.UUID) (*export.Document, error) {
	record, err := h.Store.Solutions.Get(id)
	if err != nil {
		return nil, err
	}

	doc := documentFromRecord(id, record)

	return &doc, nil
}

// ExportSolution renders a solved solution in the requested format, for
// GET /vrp/solution/{id}/export. The returned value is either an
// *export.Document or a *geojson.FeatureCollection, both ready for JSON
// encoding by the transport layer.
func (h *Handler) ExportSolution(id uuid.UUID, format export.Format) (any, error) {
	record, err := h.Store.Solutions.Get(id)
	if err != nil {
		return nil, err
	}

	switch format {
	case export.FormatGeoJSON:
		return export.BuildGeoJSON(record.Instance, record.Solution), nil
	default:
		doc := documentFromRecord(id, record)

		return &doc, nil
	}
}

func documentFromRecord(id uuid.UUID, record session.SolvedRecord) export.Document {
	return export.BuildDocument(record.Instance, record.Solution, export.Meta{
		SolutionID:  id,
		InstanceID:  record.InstanceID,
		Algorithm:   record.Algorithm,
		SolveTimeMS: record.SolveTimeMS,
		CreatedAt:   record.CreatedAt,
	})
}
