package services

import (
	"context"
	"fmt"
	"strings"

	"irp-verifier/internal/domain"
	"irp-verifier/internal/parse"
	"irp-verifier/internal/ports"
)

// Verifier checks candidate solutions against one instance. The instance is
// read-only and shared; simulation state is created fresh per candidate, so
// one Verifier serves any number of candidates and repeated verification of
// the same pair yields identical results.
type Verifier struct {
	Instance  *domain.Instance
	Benchmark ports.BenchmarkProvider
	// Scale overrides the default benchmark normalization when set.
	Scale ScaleFunc
}

// StreamResult is one verified element of a solution stream. Annotation is
// set for passthrough lines; otherwise Result holds the verdict and Ordinal
// numbers the candidate within the stream. Solution is nil for candidates
// that failed to parse.
type StreamResult struct {
	Annotation string
	Ordinal    int
	Solution   *domain.Solution
	Result     *domain.Result
}

// VerifySolution runs the feasibility phase day by day in lockstep, each
// day's routes checked before that day's inventory is applied, then the
// time phase. The first feasibility failure stops further simulation for
// this candidate; the time check still runs and its outcome is recorded,
// with the feasibility failure taking precedence in the verdict.
func (v *Verifier) VerifySolution(ctx context.Context, sol *domain.Solution) domain.Result {
	var res domain.Result

	if len(sol.Days) != v.Instance.Horizon {
		f := domain.Failure{
			Kind:    domain.KindStructural,
			Message: fmt.Sprintf("solution has %d day plans, expected %d", len(sol.Days), v.Instance.Horizon),
		}
		res.Feasibility = &f
	} else {
		sim := NewSimulator(v.Instance)
		for _, plan := range sol.Days {
			if err := CheckDayRoutes(v.Instance, plan); err != nil {
				f := domain.AsFailure(err)
				res.Feasibility = &f
				break
			}
			if err := sim.ApplyDay(plan); err != nil {
				f := domain.AsFailure(err)
				res.Feasibility = &f
				break
			}
		}
	}

	res.ReportedSeconds = sol.ReportedTime

	score, err := v.Benchmark.Score(ctx, sol.Processor)
	if err != nil {
		res.Time = &domain.Failure{
			Kind: domain.KindTimeLimit,
			Message: fmt.Sprintf("Time verification error: no benchmark score for processor '%s': %v",
				strings.TrimSpace(sol.Processor), err),
		}
		return res
	}

	allowed, err := CheckTime(v.Instance.BaseTimeLimit, score, sol.ReportedTime, v.Scale)
	res.AllowedSeconds = allowed
	if err != nil {
		f := domain.AsFailure(err)
		if f.Kind != domain.KindTimeLimit {
			f = domain.Failure{Kind: domain.KindTimeLimit, Message: "Time verification error: " + err.Error()}
		}
		res.Time = &f
	}

	return res
}

// VerifyStream verifies every candidate of a parsed stream in order.
// Annotations pass through at their positions, malformed candidates become
// structural failures, and one candidate's failure never stops the next:
// every candidate is fully and independently attempted.
func (v *Verifier) VerifyStream(ctx context.Context, items []parse.Item) []StreamResult {
	out := make([]StreamResult, 0, len(items))
	ordinal := 0

	for _, item := range items {
		switch it := item.(type) {
		case parse.Annotation:
			out = append(out, StreamResult{Annotation: string(it)})
		case parse.Candidate:
			ordinal++
			res := v.VerifySolution(ctx, it.Solution)
			out = append(out, StreamResult{Ordinal: ordinal, Solution: it.Solution, Result: &res})
		case parse.Malformed:
			ordinal++
			f := domain.AsFailure(it.Err)
			res := domain.Result{Feasibility: &f}
			out = append(out, StreamResult{Ordinal: ordinal, Result: &res})
		}
	}

	return out
}
