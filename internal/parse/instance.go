// Package parse reads the fixed text formats for problem instances and
// candidate solutions and produces validated domain models. Format
// violations are reported as domain.StructuralError values locating the
// offending line.
package parse

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"irp-verifier/internal/domain"
)

func structural(name string, line int, format string, args ...any) *domain.StructuralError {
	return &domain.StructuralError{File: name, Line: line, Msg: fmt.Sprintf(format, args...)}
}

func expectInt(name string, line int, desc, value string) (int, *domain.StructuralError) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, structural(name, line, "expected (integral) %s, got '%s'", desc, value)
	}
	return n, nil
}

func expectFloat(name string, line int, desc, value string) (float64, *domain.StructuralError) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, structural(name, line, "expected %s, got '%s'", desc, value)
	}
	return f, nil
}

// Instance reads an instance file. The format is line oriented and
// whitespace tokenized:
//
//	line 1:  numNodes numDays capacity numVehicles [baseTimeLimit [maxRouteDuration]]
//	line 2:  id x y startLevel dailyProduction holdingCost        (depot)
//	line 3+: id x y startLevel maxLevel minLevel dailyConsumption holdingCost
//
// Node ids must be contiguous; the file may number them from any base (the
// published instances start at 0 or 1), internally the depot is node 0 and
// customers are 1..n. Consumption is stored negated: a customer consuming
// 20 units per day has DailyChange -20. Content after the last customer
// line is ignored.
func Instance(name string, r io.Reader) (*domain.Instance, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	lineno := 0
	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		lineno++
		return sc.Text(), true
	}

	line, ok := next()
	if !ok {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("read instance %s: %w", name, err)
		}
		return nil, structural(name, 1, "missing line; expected instance header")
	}

	fields := strings.Fields(line)
	if len(fields) < 4 || len(fields) > 6 {
		return nil, structural(name, lineno, "expected 4 to 6 header fields, got %d", len(fields))
	}

	numNodes, serr := expectInt(name, lineno, "number of nodes", fields[0])
	if serr != nil {
		return nil, serr
	}
	horizon, serr := expectInt(name, lineno, "number of days", fields[1])
	if serr != nil {
		return nil, serr
	}
	capacity, serr := expectInt(name, lineno, "vehicle capacity", fields[2])
	if serr != nil {
		return nil, serr
	}
	numVehicles, serr := expectInt(name, lineno, "number of vehicles", fields[3])
	if serr != nil {
		return nil, serr
	}
	if numNodes < 1 {
		return nil, structural(name, lineno, "number of nodes must be at least 1, got %d", numNodes)
	}

	baseTimeLimit := domain.DefaultBaseTimeLimit
	if len(fields) >= 5 {
		baseTimeLimit, serr = expectFloat(name, lineno, "base time limit", fields[4])
		if serr != nil {
			return nil, serr
		}
	}

	maxRouteDuration := 0.0
	if len(fields) == 6 {
		maxRouteDuration, serr = expectFloat(name, lineno, "max route duration", fields[5])
		if serr != nil {
			return nil, serr
		}
	}

	line, ok = next()
	if !ok {
		return nil, structural(name, lineno+1, "missing line; expected depot")
	}
	fields = strings.Fields(line)
	if len(fields) < 6 {
		return nil, structural(name, lineno, "expected at least 6 depot fields, got %d", len(fields))
	}

	firstID, serr := expectInt(name, lineno, "depot id", fields[0])
	if serr != nil {
		return nil, serr
	}

	var depot domain.Depot
	if depot.Pos.X, serr = expectFloat(name, lineno, "depot x coordinate", fields[1]); serr != nil {
		return nil, serr
	}
	if depot.Pos.Y, serr = expectFloat(name, lineno, "depot y coordinate", fields[2]); serr != nil {
		return nil, serr
	}
	if depot.StartLevel, serr = expectInt(name, lineno, "depot start level", fields[3]); serr != nil {
		return nil, serr
	}
	if depot.DailyChange, serr = expectInt(name, lineno, "depot daily production", fields[4]); serr != nil {
		return nil, serr
	}
	if depot.HoldingCost, serr = expectFloat(name, lineno, "depot holding cost", fields[5]); serr != nil {
		return nil, serr
	}

	customers := make([]domain.Customer, 0, numNodes-1)
	for i := 1; i < numNodes; i++ {
		line, ok = next()
		if !ok {
			return nil, structural(name, lineno+1, "missing line; expected customer %d", i)
		}
		fields = strings.Fields(line)
		if len(fields) < 8 {
			return nil, structural(name, lineno, "expected at least 8 customer fields, got %d", len(fields))
		}

		id, serr := expectInt(name, lineno, "customer id", fields[0])
		if serr != nil {
			return nil, serr
		}
		// Ids must continue the depot's numbering without gaps.
		if id != firstID+i {
			return nil, structural(name, lineno, "expected customer id %d, got %d", firstID+i, id)
		}

		c := domain.Customer{ID: i}
		if c.Pos.X, serr = expectFloat(name, lineno, "customer x coordinate", fields[1]); serr != nil {
			return nil, serr
		}
		if c.Pos.Y, serr = expectFloat(name, lineno, "customer y coordinate", fields[2]); serr != nil {
			return nil, serr
		}
		if c.StartLevel, serr = expectInt(name, lineno, "customer start level", fields[3]); serr != nil {
			return nil, serr
		}
		if c.MaxLevel, serr = expectInt(name, lineno, "customer maximum level", fields[4]); serr != nil {
			return nil, serr
		}
		if c.MinLevel, serr = expectInt(name, lineno, "customer minimum level", fields[5]); serr != nil {
			return nil, serr
		}

		consumption, serr := expectInt(name, lineno, "customer daily consumption", fields[6])
		if serr != nil {
			return nil, serr
		}
		c.DailyChange = -consumption

		if c.HoldingCost, serr = expectFloat(name, lineno, "customer holding cost", fields[7]); serr != nil {
			return nil, serr
		}

		customers = append(customers, c)
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read instance %s: %w", name, err)
	}

	vehicles := make([]domain.Vehicle, numVehicles)
	for i := range vehicles {
		vehicles[i] = domain.Vehicle{ID: i + 1, Capacity: capacity, Speed: 1}
	}

	inst, err := domain.NewInstance(name, depot, customers, vehicles, horizon, baseTimeLimit, maxRouteDuration)
	if err != nil {
		return nil, &domain.StructuralError{File: name, Msg: err.Error()}
	}
	return inst, nil
}
