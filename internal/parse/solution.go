package parse

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"irp-verifier/internal/domain"
)

// Item is one element of the parsed solution stream, in file order: an
// annotation line, a parsed candidate solution, or a candidate whose parse
// failed. Annotations never contribute to solution structure.
type Item interface{ isItem() }

// Annotation is a '#' line carried verbatim for passthrough printing.
type Annotation string

func (Annotation) isItem() {}

// Candidate is a successfully parsed solution.
type Candidate struct {
	Solution *domain.Solution
}

func (Candidate) isItem() {}

// Malformed records a candidate that started but failed structural parsing.
// Later candidates in the same file are still parsed and verified.
type Malformed struct {
	Err *domain.StructuralError
}

func (Malformed) isItem() {}

// Solutions reads a solution file against its instance and returns the
// parsed stream.
//
// A file without '#' lines must contain exactly one solution and nothing
// else; any deviation is a StructuralError returned directly. When '#'
// lines are present the file may carry zero or more candidates: content
// between candidates is discarded, '#' lines become Annotation items at
// their position, and a candidate that fails to parse becomes a Malformed
// item after which scanning resumes at the next 'Day 1' line.
func Solutions(name string, r io.Reader, inst *domain.Instance) ([]Item, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read solution %s: %w", name, err)
	}

	annotated := false
	for _, line := range lines {
		if isAnnotation(line) {
			annotated = true
			break
		}
	}

	if !annotated {
		return singleSolution(name, lines, inst)
	}

	var items []Item
	i := 0
	for i < len(lines) {
		line := lines[i]
		switch {
		case isAnnotation(line):
			items = append(items, Annotation(line))
			i++
		case line == "Day 1":
			sol, next, serr := parseCandidate(name, lines, i, inst, func(a Annotation) {
				items = append(items, a)
			})
			if serr != nil {
				items = append(items, Malformed{Err: serr})
			} else {
				items = append(items, Candidate{Solution: sol})
			}
			i = next
		default:
			// Junk between candidates is discarded without error.
			i++
		}
	}
	return items, nil
}

// singleSolution enforces the strict one-candidate layout used when no
// annotation lines are present.
func singleSolution(name string, lines []string, inst *domain.Instance) ([]Item, error) {
	i := 0
	for i < len(lines) && strings.TrimSpace(lines[i]) == "" {
		i++
	}
	if i == len(lines) {
		return nil, structural(name, i+1, "missing line; expected 'Day 1'")
	}

	sol, next, serr := parseCandidate(name, lines, i, inst, nil)
	if serr != nil {
		return nil, serr
	}

	for j := next; j < len(lines); j++ {
		if strings.TrimSpace(lines[j]) != "" {
			return nil, structural(name, j+1, "line contains unexpected junk '%s', no more data expected", lines[j])
		}
	}

	return []Item{Candidate{Solution: sol}}, nil
}

// parseCandidate parses one candidate starting at index start. It returns
// the index of the first line it did not consume; on failure that is the
// offending line, so the caller can resynchronize from there. Annotation
// lines inside the candidate are passed to emit and skipped.
func parseCandidate(
	name string,
	lines []string,
	start int,
	inst *domain.Instance,
	emit func(Annotation),
) (*domain.Solution, int, *domain.StructuralError) {
	i := start

	next := func(expected string) (string, int, *domain.StructuralError) {
		for i < len(lines) {
			raw := lines[i]
			ln := i + 1
			i++
			if isAnnotation(raw) {
				if emit != nil {
					emit(Annotation(raw))
				}
				continue
			}
			return raw, ln, nil
		}
		return "", 0, structural(name, len(lines)+1, "missing line; expected %s", expected)
	}

	fail := func(serr *domain.StructuralError) (*domain.Solution, int, *domain.StructuralError) {
		// Back up onto the offending line so the caller can resync on it.
		stop := serr.Line - 1
		if stop < start+1 || stop > len(lines) {
			stop = i
		}
		return nil, stop, serr
	}

	days := make([]domain.DayPlan, 0, inst.Horizon)
	for day := 1; day <= inst.Horizon; day++ {
		line, ln, serr := next(fmt.Sprintf("'Day %d'", day))
		if serr != nil {
			return fail(serr)
		}
		if line != fmt.Sprintf("Day %d", day) {
			return fail(structural(name, ln, "expected 'Day %d', got '%s'", day, line))
		}

		routes := make([]domain.Route, 0, len(inst.Vehicles))
		for r := 1; r <= len(inst.Vehicles); r++ {
			line, ln, serr := next(fmt.Sprintf("'Route %d: <route>'", r))
			if serr != nil {
				return fail(serr)
			}

			label, rest, found := strings.Cut(line, ": ")
			if !found || label != fmt.Sprintf("Route %d", r) {
				return fail(structural(name, ln, "expected 'Route %d: <route>', got '%s'", r, line))
			}

			visits, serr := parseRouteBody(name, ln, rest, inst)
			if serr != nil {
				return fail(serr)
			}
			routes = append(routes, domain.Route{Vehicle: r, Visits: visits})
		}
		days = append(days, domain.DayPlan{Day: day, Routes: routes})
	}

	sol := &domain.Solution{Days: days}

	line, ln, serr := next("total transportation cost")
	if serr != nil {
		return fail(serr)
	}
	if sol.TransportationCost, serr = expectInt(name, ln, "total transportation cost", strings.TrimSpace(line)); serr != nil {
		return fail(serr)
	}

	line, ln, serr = next("total inventory cost at customers")
	if serr != nil {
		return fail(serr)
	}
	if sol.CustomerInventoryCost, serr = expectFloat(name, ln, "total inventory cost at customers", strings.TrimSpace(line)); serr != nil {
		return fail(serr)
	}

	line, ln, serr = next("total inventory cost at depot")
	if serr != nil {
		return fail(serr)
	}
	if sol.DepotInventoryCost, serr = expectFloat(name, ln, "total inventory cost at depot", strings.TrimSpace(line)); serr != nil {
		return fail(serr)
	}

	line, ln, serr = next("total solution cost")
	if serr != nil {
		return fail(serr)
	}
	if sol.TotalCost, serr = expectFloat(name, ln, "total solution cost", strings.TrimSpace(line)); serr != nil {
		return fail(serr)
	}

	line, _, serr = next("processor")
	if serr != nil {
		return fail(serr)
	}
	sol.Processor = line

	line, ln, serr = next("solution time in seconds")
	if serr != nil {
		return fail(serr)
	}
	if sol.ReportedTime, serr = expectFloat(name, ln, "solution time in seconds", strings.TrimSpace(line)); serr != nil {
		return fail(serr)
	}

	return sol, i, nil
}

// parseRouteBody decodes the visit sequence of one route line. The grammar
// is '0 - 0' for an empty route, otherwise '0 - c ( q ) - ... - 0' with
// exactly five tokens per visit.
func parseRouteBody(name string, ln int, rest string, inst *domain.Instance) ([]domain.Visit, *domain.StructuralError) {
	toks := strings.Split(rest, " ")
	if len(toks) < 3 {
		return nil, structural(name, ln, "route is too short to be valid; use '0 - 0' for an empty route")
	}
	if toks[0] != "0" {
		return nil, structural(name, ln, "route does not start at depot")
	}
	if toks[len(toks)-1] != "0" {
		return nil, structural(name, ln, "route does not end at depot")
	}
	if toks[1] != "-" {
		return nil, structural(name, ln, "expected first node delimiter '-' in route")
	}

	body := toks[2 : len(toks)-1]

	var visits []domain.Visit
	var current domain.Visit
	for idx, token := range body {
		switch idx % 5 {
		case 0:
			customer, serr := expectInt(name, ln, "customer in route", token)
			if serr != nil {
				return nil, serr
			}
			if customer == 0 {
				return nil, structural(name, ln, "route may not visit the depot")
			}
			if customer < 0 || customer >= inst.NumNodes() {
				return nil, structural(name, ln, "customer %d does not exist", customer)
			}
			current = domain.Visit{Customer: customer}
		case 1:
			if token != "(" {
				return nil, structural(name, ln, "expected '(' in route")
			}
		case 2:
			quantity, serr := expectInt(name, ln, "delivered quantity in route", token)
			if serr != nil {
				return nil, serr
			}
			current.Quantity = quantity
		case 3:
			if token != ")" {
				return nil, structural(name, ln, "expected ')' in route")
			}
		case 4:
			if token != "-" {
				return nil, structural(name, ln, "expected '-' delimiter in route")
			}
			visits = append(visits, current)
		}
	}

	if len(body)%5 != 0 {
		return nil, structural(name, ln, "route is invalid, check format")
	}

	return visits, nil
}

func isAnnotation(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "#")
}
