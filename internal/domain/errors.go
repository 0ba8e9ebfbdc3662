package domain

import (
	"fmt"
	"strings"
)

// FailureKind classifies every verification failure the system can report.
type FailureKind string

const (
	KindStructural    FailureKind = "Structural"
	KindInventory     FailureKind = "Inventory"
	KindCapacity      FailureKind = "Capacity"
	KindRouteDuration FailureKind = "RouteDuration"
	KindTimeLimit     FailureKind = "TimeLimit"
)

// StructuralError reports malformed or cross-referencing-invalid instance or
// solution data. It is detected before any simulation and is fatal to the
// verification of the data it describes. File and Line locate the offending
// input when known.
type StructuralError struct {
	File string
	Line int
	Msg  string
}

func (e *StructuralError) Error() string {
	switch {
	case e.File != "" && e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
	case e.File != "":
		return fmt.Sprintf("%s: %s", e.File, e.Msg)
	default:
		return e.Msg
	}
}

func (e *StructuralError) Kind() FailureKind { return KindStructural }

// InventoryError reports a node whose post-day inventory level left its
// bounds. Node 0 is the depot. Route is the 1-based index of the route that
// last changed the node's level that day, or 0 when no route touched it.
type InventoryError struct {
	Day     int
	Route   int
	Node    int
	Level   int
	Bound   int
	TooHigh bool
}

func (e *InventoryError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Day %d: ", e.Day)
	if e.Route > 0 {
		fmt.Fprintf(&b, "Route %d: ", e.Route)
	}
	if e.Node == 0 {
		b.WriteString("inventory level of depot")
	} else {
		fmt.Fprintf(&b, "inventory level of customer %d", e.Node)
	}
	if e.TooHigh {
		fmt.Fprintf(&b, " too high; got %d, expected <= %d", e.Level, e.Bound)
	} else {
		fmt.Fprintf(&b, " too low; got %d, expected >= %d", e.Level, e.Bound)
	}
	return b.String()
}

func (e *InventoryError) Kind() FailureKind { return KindInventory }

// CapacityError reports a route whose running load exceeded the vehicle's
// capacity, or dropped below zero when pickups and deliveries mix.
type CapacityError struct {
	Day      int
	Route    int
	Vehicle  int
	Load     int
	Capacity int
	Negative bool
}

func (e *CapacityError) Error() string {
	if e.Negative {
		return fmt.Sprintf("Day %d: Route %d: load of vehicle %d negative; got %d, expected >= 0",
			e.Day, e.Route, e.Vehicle, e.Load)
	}
	return fmt.Sprintf("Day %d: Route %d: capacity of vehicle %d exceeded; got %d, expected <= %d",
		e.Day, e.Route, e.Vehicle, e.Load, e.Capacity)
}

func (e *CapacityError) Kind() FailureKind { return KindCapacity }

// RouteDurationError reports a route whose travel time exceeds the
// instance's maximum route duration.
type RouteDurationError struct {
	Day      int
	Route    int
	Vehicle  int
	Duration float64
	Limit    float64
}

func (e *RouteDurationError) Error() string {
	return fmt.Sprintf("Day %d: Route %d: duration of vehicle %d too long; got %.2f, expected <= %.2f",
		e.Day, e.Route, e.Vehicle, e.Duration, e.Limit)
}

func (e *RouteDurationError) Kind() FailureKind { return KindRouteDuration }

// VehicleReuseError reports a vehicle assigned to more than one route on
// the same day.
type VehicleReuseError struct {
	Day       int
	Route     int
	Vehicle   int
	PrevRoute int
}

func (e *VehicleReuseError) Error() string {
	return fmt.Sprintf("Day %d: Route %d: vehicle %d already used by route %d",
		e.Day, e.Route, e.Vehicle, e.PrevRoute)
}

func (e *VehicleReuseError) Kind() FailureKind { return KindStructural }

// RepeatVisitError reports a customer visited by more than one route on the
// same day.
type RepeatVisitError struct {
	Day      int
	Customer int
}

func (e *RepeatVisitError) Error() string {
	return fmt.Sprintf("Day %d: customer %d visited more than once", e.Day, e.Customer)
}

func (e *RepeatVisitError) Kind() FailureKind { return KindStructural }

// TimeLimitError reports a solution whose claimed computation time exceeds
// the benchmark-scaled budget. Both values are seconds.
type TimeLimitError struct {
	Reported float64
	Allowed  float64
}

func (e *TimeLimitError) Error() string {
	return fmt.Sprintf("Time verification error: computation time of %.2f seconds exceeds time limit of %.2f seconds",
		e.Reported, e.Allowed)
}

func (e *TimeLimitError) Kind() FailureKind { return KindTimeLimit }
