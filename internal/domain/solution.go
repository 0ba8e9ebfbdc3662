package domain

// Represents a single stop of a route: the customer visited and the signed
// quantity exchanged there (positive delivers stock to the customer,
// negative picks stock up).
type Visit struct {
	Customer int
	Quantity int
}

// Represents one vehicle's tour on a single day, starting and ending at the
// depot. An empty visit sequence means the vehicle stays at the depot.
type Route struct {
	Vehicle int
	Visits  []Visit
}

// Volume returns the load carried out of the depot: the sum of all
// delivered (positive) quantities on the route.
func (r Route) Volume() int {
	total := 0
	for _, v := range r.Visits {
		if v.Quantity > 0 {
			total += v.Quantity
		}
	}
	return total
}

// Net returns deliveries minus pickups, the net stock leaving the depot.
func (r Route) Net() int {
	total := 0
	for _, v := range r.Visits {
		total += v.Quantity
	}
	return total
}

// Represents the routes operated on one day of the horizon.
type DayPlan struct {
	Day    int
	Routes []Route
}

// Represents one candidate schedule to be verified against an Instance.
// The cost footer is carried verbatim from the solution file for reporting;
// feasibility verification never depends on it. ReportedTime is the solver's
// claimed wall-clock seconds for producing the schedule and Processor names
// the machine it ran on.
type Solution struct {
	Days []DayPlan

	TransportationCost    int
	CustomerInventoryCost float64
	DepotInventoryCost    float64
	TotalCost             float64
	Processor             string
	ReportedTime          float64
}
