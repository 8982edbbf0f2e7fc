package export

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomnom-routing/vrpcore/internal/geo"
	"github.com/nomnom-routing/vrpcore/internal/solver"
	"github.com/nomnom-routing/vrpcore/internal/vrp"
)

func fixtureInstanceAndSolution() (*vrp.Instance, *vrp.Solution) {
	inst := &vrp.Instance{
		Locations: []vrp.Location{
			{ID: 0, Name: "depot", Coord: geo.Coordinate{Lat: 0, Lon: 0}},
			{ID: 1, Name: "c1", Coord: geo.Coordinate{Lat: 0.01, Lon: 0}, Demand: 10},
		},
		Matrix: [][]float64{{0, 1000}, {1000, 0}},
	}
	sol := &vrp.Solution{
		Routes:          []vrp.Route{{VehicleID: 0, Path: []int{1}, Distance: 2000, Duration: 200, Demand: 10}},
		TotalDistance:   2000,
		TotalDuration:   200,
		NumVehiclesUsed: 1,
	}

	return inst, sol
}

func TestParseFormatValid(t *testing.T) {
	f, err := ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("geojson")
	require.NoError(t, err)
	assert.Equal(t, FormatGeoJSON, f)
}

func TestParseFormatInvalid(t *testing.T) {
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestBuildDocumentExpandsLocations(t *testing.T) {
	inst, sol := fixtureInstanceAndSolution()

	doc := BuildDocument(inst, sol, Meta{
		SolutionID:  uuid.New(),
		InstanceID:  uuid.New(),
		Algorithm:   solver.AlgorithmGreedy,
		SolveTimeMS: 5,
		CreatedAt:   time.Now(),
	})

	require.Len(t, doc.Routes, 1)
	require.Len(t, doc.Routes[0].Stops, 1)
	assert.Equal(t, "c1", doc.Routes[0].Stops[0].Name)
	assert.Equal(t, 2000.0, doc.TotalDistance)
}

func TestBuildGeoJSONHasDepotAndRouteFeatures(t *testing.T) {
	inst, sol := fixtureInstanceAndSolution()

	fc := BuildGeoJSON(inst, sol)

	// depot point + 1 customer point + 1 route linestring
	assert.Len(t, fc.Features, 3)
}
