package graph

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomnom-routing/vrpcore/internal/geo"
)

func bruteForceNearest(nodes map[uint64]Node, q geo.Coordinate) (uint64, float64) {
	var bestID uint64
	bestDist := math.MaxFloat64
	found := false

	for id, n := range nodes {
		d, _ := geo.HaversineMeters(q, n.Coordinate())
		if d < bestDist || (d == bestDist && found && id < bestID) {
			bestDist = d
			bestID = id
			found = true
		}
	}

	return bestID, bestDist
}

func sampleNodes() map[uint64]Node {
	return map[uint64]Node{
		1: {ID: 1, Lat: 17.735, Lon: 83.315},
		2: {ID: 2, Lat: 17.737, Lon: 83.320},
		3: {ID: 3, Lat: 17.740, Lon: 83.310},
		4: {ID: 4, Lat: 17.733, Lon: 83.318},
		5: {ID: 5, Lat: 25.0330, Lon: 121.5654},
	}
}

func TestGridIndexNearestMatchesBruteForce(t *testing.T) {
	nodes := sampleNodes()
	idx := NewGridIndex(1.0)
	idx.Build(nodes)

	queries := []geo.Coordinate{
		{Lat: 17.736, Lon: 83.317},
		{Lat: 17.734, Lon: 83.3195},
		{Lat: 0, Lon: 0},
		{Lat: 25.04, Lon: 121.57},
		{Lat: 17.735, Lon: 83.315}, // exact hit
	}

	for _, q := range queries {
		wantID, wantDist := bruteForceNearest(nodes, q)

		gotID, gotDist, ok := idx.Nearest(q)
		require.True(t, ok)
		assert.Equal(t, wantID, gotID, "query %+v", q)
		assert.InDelta(t, wantDist, gotDist, 1e-6)
	}
}

func TestGridIndexOutOfBoundsStillReturnsNode(t *testing.T) {
	nodes := sampleNodes()
	idx := NewGridIndex(1.0)
	idx.Build(nodes)

	// Roughly 1km north of the Andhra Pradesh cluster.
	q := geo.Coordinate{Lat: 17.735 + 0.009, Lon: 83.315}

	id, dist, ok := idx.Nearest(q)
	require.True(t, ok)
	assert.NotZero(t, id)
	assert.Greater(t, dist, 0.0)
}

func TestGridIndexEmpty(t *testing.T) {
	idx := NewGridIndex(1.0)
	idx.Build(map[uint64]Node{})

	_, _, ok := idx.Nearest(geo.Coordinate{Lat: 0, Lon: 0})
	assert.False(t, ok)
}

func TestGridIndexTieBreakLowerID(t *testing.T) {
	nodes := map[uint64]Node{
		10: {ID: 10, Lat: 1.0, Lon: 1.0},
		2:  {ID: 2, Lat: 1.0, Lon: 1.0},
		7:  {ID: 7, Lat: 1.0, Lon: 1.0},
	}
	idx := NewGridIndex(1.0)
	idx.Build(nodes)

	id, dist, ok := idx.Nearest(geo.Coordinate{Lat: 1.0, Lon: 1.0})
	require.True(t, ok)
	assert.Equal(t, uint64(2), id)
	assert.Zero(t, dist)
}
