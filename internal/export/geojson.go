package export

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/nomnom-routing/vrpcore/internal/vrp"
)

// BuildGeoJSON renders a solution as a FeatureCollection: one LineString
// per route (depot to depot, [lon,lat] order as orb requires) and one
// Point per visited location, carrying id/name/demand/type properties.
func BuildGeoJSON(inst *vrp.Instance, sol *vrp.Solution) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	depot := inst.Depot()
	depotPoint := orb.Point{depot.Coord.Lon, depot.Coord.Lat}

	depotFeature := geojson.NewFeature(depotPoint)
	depotFeature.Properties = geojson.Properties{
		"id":     depot.ID,
		"name":   depot.Name,
		"demand": depot.Demand,
		"type":   "depot",
	}
	fc.Append(depotFeature)

	for routeID, route := range sol.Routes {
		line := make(orb.LineString, 0, len(route.Path)+2)
		line = append(line, depotPoint)

		for _, id := range route.Path {
			loc := inst.Locations[id]
			point := orb.Point{loc.Coord.Lon, loc.Coord.Lat}
			line = append(line, point)

			stopFeature := geojson.NewFeature(point)
			stopFeature.Properties = geojson.Properties{
				"id":     loc.ID,
				"name":   loc.Name,
				"demand": loc.Demand,
				"type":   "customer",
			}
			fc.Append(stopFeature)
		}

		line = append(line, depotPoint)

		routeFeature := geojson.NewFeature(line)
		routeFeature.Properties = geojson.Properties{
			"route_id":   routeID,
			"vehicle_id": route.VehicleID,
			"distance":   route.Distance,
			"duration":   route.Duration,
			"demand":     route.Demand,
		}
		fc.Append(routeFeature)
	}

	return fc
}
