package domain

import (
	"errors"
	"fmt"
)

// Represents one customer node of an instance.
// Inventory bounds apply after every planning day, not only at the horizon.
// DailyChange is signed: consumption is negative, production positive.
type Customer struct {
	ID          int
	Pos         Point
	StartLevel  int
	MinLevel    int
	MaxLevel    int
	DailyChange int
	HoldingCost float64
}

// Represents the depot node (node 0).
// The depot produces DailyChange units per day; its inventory may not drop
// below zero and may not exceed StartLevel plus total production.
type Depot struct {
	Pos         Point
	StartLevel  int
	DailyChange int
	HoldingCost float64
}

// Represents a delivery vehicle. Speed divides route distance when a
// maximum route duration is declared by the instance.
type Vehicle struct {
	ID       int
	Capacity int
	Speed    float64
}

// Represents a parsed problem instance: depot, customers, vehicle fleet,
// planning horizon, time budget, and the node distance matrix.
// An Instance is immutable once constructed and safe to reuse across
// any number of candidate solutions.
type Instance struct {
	Name             string
	Depot            Depot
	Customers        []Customer
	Vehicles         []Vehicle
	Horizon          int
	BaseTimeLimit    float64
	MaxRouteDuration float64

	distances [][]float64
}

// DefaultBaseTimeLimit is the computation-time budget, in seconds on the
// reference machine, assumed when an instance does not declare one.
const DefaultBaseTimeLimit = 1800.0

// NewInstance validates and assembles an Instance, precomputing the
// Euclidean distance matrix over depot and customer coordinates.
func NewInstance(
	name string,
	depot Depot,
	customers []Customer,
	vehicles []Vehicle,
	horizon int,
	baseTimeLimit float64,
	maxRouteDuration float64,
) (*Instance, error) {
	if horizon < 1 {
		return nil, fmt.Errorf("new instance: horizon must be at least 1, got %d", horizon)
	}
	if len(vehicles) == 0 {
		return nil, errors.New("new instance: at least one vehicle is required")
	}
	if baseTimeLimit <= 0 {
		return nil, fmt.Errorf("new instance: base time limit must be positive, got %g", baseTimeLimit)
	}
	if maxRouteDuration < 0 {
		return nil, fmt.Errorf("new instance: max route duration must not be negative, got %g", maxRouteDuration)
	}
	if depot.StartLevel < 0 {
		return nil, fmt.Errorf("new instance: depot start level must not be negative, got %d", depot.StartLevel)
	}

	for i, c := range customers {
		if c.ID != i+1 {
			return nil, fmt.Errorf("new instance: customer ids must be contiguous from 1, got %d at position %d", c.ID, i+1)
		}
		if c.MinLevel < 0 {
			return nil, fmt.Errorf("new instance: customer %d: minimum level must not be negative, got %d", c.ID, c.MinLevel)
		}
		if c.MinLevel > c.MaxLevel {
			return nil, fmt.Errorf("new instance: customer %d: bounds inverted, min %d > max %d", c.ID, c.MinLevel, c.MaxLevel)
		}
		if c.StartLevel < c.MinLevel || c.StartLevel > c.MaxLevel {
			return nil, fmt.Errorf("new instance: customer %d: start level %d outside bounds [%d, %d]", c.ID, c.StartLevel, c.MinLevel, c.MaxLevel)
		}
	}

	for i, v := range vehicles {
		if v.ID != i+1 {
			return nil, fmt.Errorf("new instance: vehicle ids must be contiguous from 1, got %d at position %d", v.ID, i+1)
		}
		if v.Capacity <= 0 {
			return nil, fmt.Errorf("new instance: vehicle %d: capacity must be positive, got %d", v.ID, v.Capacity)
		}
		if v.Speed <= 0 {
			return nil, fmt.Errorf("new instance: vehicle %d: speed must be positive, got %g", v.ID, v.Speed)
		}
	}

	inst := &Instance{
		Name:             name,
		Depot:            depot,
		Customers:        customers,
		Vehicles:         vehicles,
		Horizon:          horizon,
		BaseTimeLimit:    baseTimeLimit,
		MaxRouteDuration: maxRouteDuration,
	}

	points := make([]Point, inst.NumNodes())
	points[0] = depot.Pos
	for _, c := range customers {
		points[c.ID] = c.Pos
	}

	inst.distances = make([][]float64, len(points))
	for i := range points {
		inst.distances[i] = make([]float64, len(points))
		for j := range points {
			inst.distances[i][j] = points[i].Distance(points[j])
		}
	}

	return inst, nil
}

// NumNodes returns the node count including the depot.
func (in *Instance) NumNodes() int { return 1 + len(in.Customers) }

// Distance returns the matrix entry between two node ids (0 is the depot).
func (in *Instance) Distance(i, j int) float64 { return in.distances[i][j] }

// CustomerByID returns the customer with the given node id.
func (in *Instance) CustomerByID(id int) (*Customer, bool) {
	if id < 1 || id > len(in.Customers) {
		return nil, false
	}
	return &in.Customers[id-1], true
}

// VehicleByID returns the vehicle with the given id.
func (in *Instance) VehicleByID(id int) (*Vehicle, bool) {
	if id < 1 || id > len(in.Vehicles) {
		return nil, false
	}
	return &in.Vehicles[id-1], true
}

// DepotMaxLevel returns the highest depot stock reachable over the horizon:
// the start level plus every day's production.
func (in *Instance) DepotMaxLevel() int {
	return in.Depot.StartLevel + in.Depot.DailyChange*in.Horizon
}
