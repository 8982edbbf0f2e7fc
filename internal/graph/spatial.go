package graph

import (
	"math"

	"github.com/nomnom-routing/vrpcore/internal/geo"
)

// degreeMeters is the length, in meters, of one degree of latitude.
const degreeMeters = 111_320.0

// GridIndex is a uniform bucketed grid over a graph's bounding box with a
// fixed cell size given to NewGridIndex (graph.New uses 1 km); the cell
// size does not adapt to node density. Queries visit the containing
// cell plus expanding rings until the ring's minimum possible distance
// exceeds the best candidate found so far — it always returns the exact
// nearest node, never an approximation.
type GridIndex struct {
	ids         []uint64
	coords      []geo.Coordinate
	grid        map[gridKey][]int
	cellSizeLat float64
	cellSizeLon float64
	minLat      float64
	minLon      float64
}

type gridKey struct {
	latCell int
	lonCell int
}

// NewGridIndex creates a grid index with the given cell size in kilometers.
func NewGridIndex(cellSizeKm float64) *GridIndex {
	return &GridIndex{
		grid:        make(map[gridKey][]int),
		cellSizeLat: cellSizeKm * 1000 / degreeMeters,
		cellSizeLon: cellSizeKm * 1000 / degreeMeters,
	}
}

// Build constructs the grid from the graph's node set.
func (g *GridIndex) Build(nodes map[uint64]Node) {
	g.ids = make([]uint64, 0, len(nodes))
	g.coords = make([]geo.Coordinate, 0, len(nodes))
	g.grid = make(map[gridKey][]int)

	if len(nodes) == 0 {
		return
	}

	g.minLat = math.MaxFloat64
	g.minLon = math.MaxFloat64
	for _, n := range nodes {
		g.minLat = math.Min(g.minLat, n.Lat)
		g.minLon = math.Min(g.minLon, n.Lon)
	}

	for _, n := range nodes {
		idx := len(g.ids)
		g.ids = append(g.ids, n.ID)
		g.coords = append(g.coords, n.Coordinate())

		key := g.keyFor(n.Lat, n.Lon)
		g.grid[key] = append(g.grid[key], idx)
	}
}

// Size returns the number of indexed nodes.
func (g *GridIndex) Size() int {
	return len(g.ids)
}

// Nearest returns the node id nearest to q by Haversine distance, breaking
// ties by lower node id, plus the distance in meters. ok is false only when
// the index holds no nodes.
func (g *GridIndex) Nearest(q geo.Coordinate) (nodeID uint64, distance float64, ok bool) {
	if len(g.ids) == 0 {
		return 0, 0, false
	}

	centerKey := g.keyFor(q.Lat, q.Lon)

	bestIdx := -1
	bestDist := math.MaxFloat64

	queryLatRad := q.Lat * math.Pi / 180
	cosQueryLat := math.Max(math.Abs(math.Cos(queryLatRad)), 1e-9)

	for ring := 0; ; ring++ {
		g.scanRing(q, centerKey, ring, &bestIdx, &bestDist)

		latBound := float64(ring) * g.cellSizeLat * degreeMeters
		lonBound := float64(ring) * g.cellSizeLon * degreeMeters * cosQueryLat
		bound := math.Min(latBound, lonBound)

		if bestIdx >= 0 && bound >= bestDist {
			break
		}

		if ring > g.maxPossibleRing() {
			// Queries far from every indexed cell would need too many
			// rings; finish with a linear scan, which is exact.
			for idx := range g.coords {
				d, err := geo.HaversineMeters(q, g.coords[idx])
				if err != nil {
					continue
				}
				if d < bestDist || (d == bestDist && bestIdx >= 0 && g.ids[idx] < g.ids[bestIdx]) {
					bestDist = d
					bestIdx = idx
				}
			}

			break
		}
	}

	if bestIdx < 0 {
		return 0, 0, false
	}

	return g.ids[bestIdx], bestDist, true
}

func (g *GridIndex) scanRing(q geo.Coordinate, centerKey gridKey, ring int, bestIdx *int, bestDist *float64) {
	if ring == 0 {
		g.scanCell(q, centerKey, bestIdx, bestDist)

		return
	}

	for dLat := -ring; dLat <= ring; dLat++ {
		for dLon := -ring; dLon <= ring; dLon++ {
			if abs(dLat) != ring && abs(dLon) != ring {
				continue
			}

			key := gridKey{latCell: centerKey.latCell + dLat, lonCell: centerKey.lonCell + dLon}
			g.scanCell(q, key, bestIdx, bestDist)
		}
	}
}

func (g *GridIndex) scanCell(q geo.Coordinate, key gridKey, bestIdx *int, bestDist *float64) {
	indices, ok := g.grid[key]
	if !ok {
		return
	}

	for _, idx := range indices {
		d, err := geo.HaversineMeters(q, g.coords[idx])
		if err != nil {
			continue
		}

		if d < *bestDist || (d == *bestDist && *bestIdx >= 0 && g.ids[idx] < g.ids[*bestIdx]) {
			*bestDist = d
			*bestIdx = idx
		}
	}
}

func (g *GridIndex) keyFor(lat, lon float64) gridKey {
	return gridKey{
		latCell: int(math.Floor((lat - g.minLat) / g.cellSizeLat)),
		lonCell: int(math.Floor((lon - g.minLon) / g.cellSizeLon)),
	}
}

// maxPossibleRing caps the ring scan in Nearest; past it, Nearest falls
// back to a linear scan over every indexed node.
func (g *GridIndex) maxPossibleRing() int {
	return len(g.ids) + 360
}

func abs(x int) int {
	if x < 0 {
		return -x
	}

	return x
}
