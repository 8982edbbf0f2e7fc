// Package geo implements the geodesic kernel: pairwise point distances and
// the parallel distance-matrix builder shared by the VRP instance builder
// and the road-network nearest-node index.
package geo

import (
	"context"
	"math"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/nomnom-routing/vrpcore/internal/vrperrors"
)

// earthRadiusMeters is the mean Earth radius used by the Haversine formula.
const earthRadiusMeters = 6_371_000.0

// degreeMeters is the approximate length, in meters, of one degree of
// latitude (and of longitude at the equator) — used by the cheaper
// Manhattan/Euclidean approximations.
const degreeMeters = 111_320.0

// Coordinate is a WGS-84 geographic point. Immutable once constructed.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Valid reports whether c lies within the legal WGS-84 ranges.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// DistanceMethod selects the pairwise cost function used to build a
// VrpInstance's distance matrix.
type DistanceMethod int

const (
	Haversine DistanceMethod = iota
	Manhattan
	Euclidean
)

// HaversineMeters returns the great-circle distance between a and b in
// meters. Symmetric, returns 0 for bit-identical points, clamps the inner
// square root argument to [0, 1] so floating point rounding never yields a
// NaN.
func HaversineMeters(a, b Coordinate) (float64, error) {
	if !a.Valid() || !b.Valid() {
		return 0, vrperrors.Invalid("invalid coordinate")
	}

	if a == b {
		return 0, nil
	}

	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	sinDLat := math.Sin(dLat / 2)
	sinDLon := math.Sin(dLon / 2)

	inner := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLon*sinDLon
	inner = math.Min(1, math.Max(0, inner))

	return earthRadiusMeters * 2 * math.Asin(math.Sqrt(inner)), nil
}

// ManhattanMeters approximates the L1 distance between a and b in meters
// using a flat-earth degree-to-meter conversion. Only an approximation —
// never use it for great-circle-accurate results.
func ManhattanMeters(a, b Coordinate) (float64, error) {
	if !a.Valid() || !b.Valid() {
		return 0, vrperrors.Invalid("invalid coordinate")
	}

	avgLat := (a.Lat + b.Lat) / 2 * math.Pi / 180
	dLat := math.Abs(b.Lat-a.Lat) * degreeMeters
	dLon := math.Abs(b.Lon-a.Lon) * degreeMeters * math.Cos(avgLat)

	return dLat + dLon, nil
}

// EuclideanMeters approximates the L2 distance between a and b in meters
// using the same flat-earth conversion as ManhattanMeters.
func EuclideanMeters(a, b Coordinate) (float64, error) {
	if !a.Valid() || !b.Valid() {
		return 0, vrperrors.Invalid("invalid coordinate")
	}

	dLat := (b.Lat - a.Lat) * degreeMeters
	dLon := (b.Lon - a.Lon) * degreeMeters

	return math.Sqrt(dLat*dLat + dLon*dLon), nil
}

// Distance dispatches to the distance function named by method.
func Distance(a, b Coordinate, method DistanceMethod) (float64, error) {
	switch method {
	case Manhattan:
		return ManhattanMeters(a, b)
	case Euclidean:
		return EuclideanMeters(a, b)
	default:
		return HaversineMeters(a, b)
	}
}

// Matrix builds the |locs| x |locs| symmetric (for Haversine/Euclidean)
// distance matrix D, D[i][j] in meters, D[i][i] = 0. Rows are computed in
// parallel: workers claim row indices from a shared atomic counter
// (work-stealing), each filling its own private row slice before it is
// published into D, so no row is ever written by more than one goroutine.
func Matrix(ctx context.Context, locs []Coordinate, method DistanceMethod) ([][]float64, error) {
	n := len(locs)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
	}

	if n == 0 {
		return matrix, nil
	}

	var nextRow atomic.Int64
	workers := workerCount(n)

	group, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		group.Go(func() error {
			for {
				if gctx.Err() != nil {
					return gctx.Err()
				}

				i := int(nextRow.Add(1)) - 1
				if i >= n {
					return nil
				}

				row := make([]float64, n)
				for j := i; j < n; j++ {
					if i == j {
						continue
					}

					d, err := Distance(locs[i], locs[j], method)
					if err != nil {
						return err
					}
					row[j] = d
				}

				matrix[i] = row
			}
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	// Mirror the upper triangle into the lower triangle.
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			matrix[j][i] = matrix[i][j]
		}
	}

	return matrix, nil
}

func workerCount(n int) int {
	const maxWorkers = 16
	if n < maxWorkers {
		return max(1, n)
	}

	return maxWorkers
}
