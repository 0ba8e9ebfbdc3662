package services

import (
	"irp-verifier/internal/domain"
)

// Simulator replays candidate deliveries against an instance day by day,
// tracking every node's inventory level. Node 0 is the depot. State is
// transient per candidate: create a fresh Simulator (or Reset) before
// verifying another solution.
type Simulator struct {
	inst      *domain.Instance
	levels    []int
	lastRoute []int
}

func NewSimulator(inst *domain.Instance) *Simulator {
	s := &Simulator{
		inst:      inst,
		levels:    make([]int, inst.NumNodes()),
		lastRoute: make([]int, inst.NumNodes()),
	}
	s.Reset()
	return s
}

// Reset restores every node to its declared start level.
func (s *Simulator) Reset() {
	s.levels[0] = s.inst.Depot.StartLevel
	for _, c := range s.inst.Customers {
		s.levels[c.ID] = c.StartLevel
	}
}

// Level returns the current inventory level of a node.
func (s *Simulator) Level(node int) int { return s.levels[node] }

// ApplyDay advances the simulation by one day, in this fixed order: every
// node's daily rate first, then every delivery and pickup in route-then-visit
// order, then the bounds check. Bounds must hold after every day, not only
// at the horizon, which is why the full trajectory is simulated.
//
// The first node outside its bounds (in node id order, depot first) is
// returned as an InventoryError attributed to the last route that changed
// that node's level today; a node no route touched carries no attribution.
func (s *Simulator) ApplyDay(plan domain.DayPlan) error {
	for n := range s.lastRoute {
		s.lastRoute[n] = 0
	}

	s.levels[0] += s.inst.Depot.DailyChange
	for _, c := range s.inst.Customers {
		s.levels[c.ID] += c.DailyChange
	}

	for ri, route := range plan.Routes {
		if net := route.Net(); net != 0 {
			s.levels[0] -= net
			s.lastRoute[0] = ri + 1
		}
		for _, v := range route.Visits {
			if v.Quantity == 0 {
				continue
			}
			s.levels[v.Customer] += v.Quantity
			s.lastRoute[v.Customer] = ri + 1
		}
	}

	if s.levels[0] < 0 {
		return &domain.InventoryError{
			Day: plan.Day, Route: s.lastRoute[0], Node: 0, Level: s.levels[0], Bound: 0,
		}
	}
	if max := s.inst.DepotMaxLevel(); s.levels[0] > max {
		return &domain.InventoryError{
			Day: plan.Day, Route: s.lastRoute[0], Node: 0, Level: s.levels[0], Bound: max, TooHigh: true,
		}
	}

	for _, c := range s.inst.Customers {
		level := s.levels[c.ID]
		if level < c.MinLevel {
			return &domain.InventoryError{
				Day: plan.Day, Route: s.lastRoute[c.ID], Node: c.ID, Level: level, Bound: c.MinLevel,
			}
		}
		if level > c.MaxLevel {
			return &domain.InventoryError{
				Day: plan.Day, Route: s.lastRoute[c.ID], Node: c.ID, Level: level, Bound: c.MaxLevel, TooHigh: true,
			}
		}
	}

	return nil
}
