package geo

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversineSymmetry(t *testing.T) {
	a := Coordinate{Lat: 17.735, Lon: 83.315}
	b := Coordinate{Lat: 17.740, Lon: 83.310}

	dAB, err := HaversineMeters(a, b)
	require.NoError(t, err)
	dBA, err := HaversineMeters(b, a)
	require.NoError(t, err)

	assert.InDelta(t, dAB, dBA, 1e-6)
}

func TestHaversineIdenticalPoints(t *testing.T) {
	a := Coordinate{Lat: 10, Lon: 20}
	d, err := HaversineMeters(a, a)
	require.NoError(t, err)
	assert.Zero(t, d)
}

func TestHaversineInvalidCoordinate(t *testing.T) {
	a := Coordinate{Lat: 999, Lon: 20}
	b := Coordinate{Lat: 10, Lon: 20}
	_, err := HaversineMeters(a, b)
	assert.Error(t, err)
}

func TestHaversineKnownDistance(t *testing.T) {
	// Roughly one degree of latitude north from the equator.
	a := Coordinate{Lat: 0, Lon: 0}
	b := Coordinate{Lat: 1, Lon: 0}

	d, err := HaversineMeters(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 111195.0, d, 500)
}

func TestMatrixDiagonalIsZero(t *testing.T) {
	locs := []Coordinate{
		{Lat: 17.735, Lon: 83.315},
		{Lat: 17.737, Lon: 83.320},
		{Lat: 17.740, Lon: 83.310},
		{Lat: 17.733, Lon: 83.318},
	}

	for _, method := range []DistanceMethod{Haversine, Manhattan, Euclidean} {
		m, err := Matrix(context.Background(), locs, method)
		require.NoError(t, err)
		for i := range locs {
			assert.Zero(t, m[i][i])
		}
	}
}

func TestMatrixSymmetric(t *testing.T) {
	locs := []Coordinate{
		{Lat: 17.735, Lon: 83.315},
		{Lat: 17.737, Lon: 83.320},
		{Lat: 17.740, Lon: 83.310},
	}

	m, err := Matrix(context.Background(), locs, Haversine)
	require.NoError(t, err)

	for i := range locs {
		for j := range locs {
			assert.InDelta(t, m[i][j], m[j][i], 1e-6)
		}
	}
}

func TestMatrixEmpty(t *testing.T) {
	m, err := Matrix(context.Background(), nil, Haversine)
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestMatrixParallelDeterministic(t *testing.T) {
	locs := make([]Coordinate, 50)
	for i := range locs {
		locs[i] = Coordinate{
			Lat: 17.7 + float64(i)*0.001,
			Lon: 83.3 + math.Mod(float64(i)*0.0013, 0.05),
		}
	}

	first, err := Matrix(context.Background(), locs, Haversine)
	require.NoError(t, err)

	for attempt := 0; attempt < 5; attempt++ {
		m, err := Matrix(context.Background(), locs, Haversine)
		require.NoError(t, err)
		for i := range locs {
			assert.Equal(t, first[i], m[i])
		}
	}
}
