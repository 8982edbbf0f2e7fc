// Package validate cross-checks a solved Solution against its Instance
// independently of whichever solver produced it — a second
// pass intended to catch solver bugs, not to reimplement feasibility.
package validate

import (
	"fmt"

	"github.com/nomnom-routing/vrpcore/internal/vrp"
)

// Issue is one violation found while checking a solution.
type Issue struct {
	Kind    string // e.g. "uncovered_customer", "capacity_exceeded"
	Detail  string
}

// Report is the full result of validating a solution: OK is true when
// Issues holds nothing but advisory time-window notes.
type Report struct {
	Issues []Issue
	OK     bool
}

// Validate checks coverage (every customer appears in exactly one route),
// per-route capacity, per-vehicle max_distance/max_duration, and that no
// route carries a negative distance or duration. Time windows are checked
// advisorily only.
func Validate(inst *vrp.Instance, sol *vrp.Solution) *Report {
	report := &Report{}

	seen := make(map[int]int, len(inst.Locations))
	for _, route := range sol.Routes {
		for _, id := range route.Path {
			seen[id]++
		}
	}

	for _, loc := range inst.Locations[1:] {
		switch seen[loc.ID] {
		case 0:
			report.add(Issue{Kind: "uncovered_customer", Detail: fmt.Sprintf("customer %d is not visited by any route", loc.ID)})
		case 1:
		default:
			report.add(Issue{Kind: "duplicate_visit", Detail: fmt.Sprintf("customer %d is visited %d times", loc.ID, seen[loc.ID])})
		}
	}

	for _, route := range sol.Routes {
		validateRoute(inst, route, report)
	}

	report.OK = true
	for _, issue := range report.Issues {
		if issue.Kind != "advisory_time_window" {
			report.OK = false
		}
	}

	return report
}

func validateRoute(inst *vrp.Instance, route vrp.Route, report *Report) {
	if route.Distance < 0 {
		report.add(Issue{Kind: "negative_distance", Detail: fmt.Sprintf("vehicle %d has negative distance", route.VehicleID)})
	}
	if route.Duration < 0 {
		report.add(Issue{Kind: "negative_duration", Detail: fmt.Sprintf("vehicle %d has negative duration", route.VehicleID)})
	}

	if route.VehicleID < 0 || route.VehicleID >= len(inst.Vehicles) {
		report.add(Issue{Kind: "unknown_vehicle", Detail: fmt.Sprintf("vehicle id %d is out of range", route.VehicleID)})

		return
	}

	vehicle := inst.Vehicles[route.VehicleID]

	demand := 0.0
	for _, id := range route.Path {
		demand += inst.Locations[id].Demand
	}
	if demand > vehicle.Capacity {
		report.add(Issue{Kind: "capacity_exceeded", Detail: fmt.Sprintf("vehicle %d carries demand %.2f over capacity %.2f", vehicle.ID, demand, vehicle.Capacity)})
	}

	if vehicle.MaxDistance != nil && route.Distance > *vehicle.MaxDistance {
		report.add(Issue{Kind: "distance_exceeded", Detail: fmt.Sprintf("vehicle %d distance %.2f exceeds max %.2f", vehicle.ID, route.Distance, *vehicle.MaxDistance)})
	}

	if vehicle.MaxDuration != nil && route.Duration > *vehicle.MaxDuration {
		report.add(Issue{Kind: "duration_exceeded", Detail: fmt.Sprintf("vehicle %d duration %.2f exceeds max %.2f", vehicle.ID, route.Duration, *vehicle.MaxDuration)})
	}

	for _, id := range route.Path {
		loc := inst.Locations[id]
		if loc.TimeWindow != nil && !loc.TimeWindow.WellFormed() {
			report.add(Issue{Kind: "advisory_time_window", Detail: fmt.Sprintf("customer %d has a malformed time window", id)})
		}
	}
}

func (r *Report) add(i Issue) {
	r.Issues = append(r.Issues, i)
}
