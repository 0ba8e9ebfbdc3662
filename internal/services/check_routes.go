package services

import (
	"fmt"

	"irp-verifier/internal/domain"
)

// CheckDayRoutes validates one day's routes before their inventory effects
// are applied: vehicle reuse across routes, per-customer visit multiplicity,
// running load against vehicle capacity, and route duration when the
// instance declares a maximum. The first violation is returned.
func CheckDayRoutes(inst *domain.Instance, plan domain.DayPlan) error {
	usedBy := make(map[int]int, len(plan.Routes))
	for ri, route := range plan.Routes {
		if prev, ok := usedBy[route.Vehicle]; ok {
			return &domain.VehicleReuseError{
				Day: plan.Day, Route: ri + 1, Vehicle: route.Vehicle, PrevRoute: prev,
			}
		}
		usedBy[route.Vehicle] = ri + 1
	}

	visited := make(map[int]bool)
	for _, route := range plan.Routes {
		for _, v := range route.Visits {
			if visited[v.Customer] {
				return &domain.RepeatVisitError{Day: plan.Day, Customer: v.Customer}
			}
			visited[v.Customer] = true
		}
	}

	for ri, route := range plan.Routes {
		vehicle, ok := inst.VehicleByID(route.Vehicle)
		if !ok {
			return &domain.StructuralError{
				Msg: fmt.Sprintf("Day %d: Route %d: vehicle %d does not exist", plan.Day, ri+1, route.Vehicle),
			}
		}

		if err := checkRouteLoad(plan.Day, ri+1, vehicle, route); err != nil {
			return err
		}
		if inst.MaxRouteDuration > 0 {
			if err := checkRouteDuration(inst, plan.Day, ri+1, vehicle, route); err != nil {
				return err
			}
		}
	}

	return nil
}

// checkRouteLoad walks the route with its running load: the vehicle leaves
// the depot carrying every delivery of the route and hauls pickups back, so
// the load must stay within [0, capacity] at the depot and after each stop.
func checkRouteLoad(day, routeIdx int, vehicle *domain.Vehicle, route domain.Route) error {
	load := route.Volume()
	if load > vehicle.Capacity {
		return &domain.CapacityError{
			Day: day, Route: routeIdx, Vehicle: vehicle.ID, Load: load, Capacity: vehicle.Capacity,
		}
	}

	for _, v := range route.Visits {
		load -= v.Quantity
		if load < 0 {
			return &domain.CapacityError{
				Day: day, Route: routeIdx, Vehicle: vehicle.ID, Load: load, Capacity: vehicle.Capacity, Negative: true,
			}
		}
		if load > vehicle.Capacity {
			return &domain.CapacityError{
				Day: day, Route: routeIdx, Vehicle: vehicle.ID, Load: load, Capacity: vehicle.Capacity,
			}
		}
	}

	return nil
}

// checkRouteDuration sums the matrix legs depot -> visits -> depot and
// divides by the vehicle's speed. Empty routes never leave the depot.
func checkRouteDuration(inst *domain.Instance, day, routeIdx int, vehicle *domain.Vehicle, route domain.Route) error {
	if len(route.Visits) == 0 {
		return nil
	}

	dist := 0.0
	prev := 0
	for _, v := range route.Visits {
		dist += inst.Distance(prev, v.Customer)
		prev = v.Customer
	}
	dist += inst.Distance(prev, 0)

	duration := dist / vehicle.Speed
	if duration > inst.MaxRouteDuration {
		return &domain.RouteDurationError{
			Day: day, Route: routeIdx, Vehicle: vehicle.ID, Duration: duration, Limit: inst.MaxRouteDuration,
		}
	}

	return nil
}
