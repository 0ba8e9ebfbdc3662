package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"irp-verifier/internal/domain"
	"irp-verifier/internal/parse"
)

type stubBenchmark struct {
	mark  float64
	err   error
	calls int
}

func (s *stubBenchmark) Score(context.Context, string) (float64, error) {
	s.calls++
	if s.err != nil {
		return 0, s.err
	}
	return s.mark, nil
}

func oneDayInstance(t *testing.T) *domain.Instance {
	t.Helper()
	inst, err := domain.NewInstance(
		"verify",
		domain.Depot{StartLevel: 200, DailyChange: 50},
		[]domain.Customer{{ID: 1, StartLevel: 30, MinLevel: 10, MaxLevel: 60, DailyChange: -10}},
		[]domain.Vehicle{{ID: 1, Capacity: 100, Speed: 1}},
		1, 1800, 0,
	)
	require.NoError(t, err)
	return inst
}

func deliverySolution(quantity int, reported float64) *domain.Solution {
	return &domain.Solution{
		Days: []domain.DayPlan{{Day: 1, Routes: []domain.Route{
			{Vehicle: 1, Visits: []domain.Visit{{Customer: 1, Quantity: quantity}}},
		}}},
		Processor:    "cpu",
		ReportedTime: reported,
	}
}

func TestVerifySolutionSuccess(t *testing.T) {
	v := &Verifier{Instance: oneDayInstance(t), Benchmark: &stubBenchmark{mark: ReferenceScore}}

	res := v.VerifySolution(context.Background(), deliverySolution(20, 100))
	require.True(t, res.OK())
	require.Nil(t, res.First())
	require.Equal(t, 100.0, res.ReportedSeconds)
	require.Equal(t, 1800.0, res.AllowedSeconds)
}

func TestVerifySolutionInventoryFailure(t *testing.T) {
	v := &Verifier{Instance: oneDayInstance(t), Benchmark: &stubBenchmark{mark: ReferenceScore}}

	res := v.VerifySolution(context.Background(), deliverySolution(45, 100))
	require.NotNil(t, res.Feasibility)
	require.Equal(t, domain.KindInventory, res.Feasibility.Kind)
	require.Equal(t,
		"Day 1: Route 1: inventory level of customer 1 too high; got 65, expected <= 60",
		res.Feasibility.Message)

	// the time phase still ran and passed
	require.Nil(t, res.Time)
	require.Equal(t, 1800.0, res.AllowedSeconds)
}

func TestVerifySolutionDayCountMismatch(t *testing.T) {
	bench := &stubBenchmark{mark: ReferenceScore}
	v := &Verifier{Instance: oneDayInstance(t), Benchmark: bench}

	res := v.VerifySolution(context.Background(), &domain.Solution{Processor: "cpu", ReportedTime: 5})
	require.NotNil(t, res.Feasibility)
	require.Equal(t, domain.KindStructural, res.Feasibility.Kind)
	require.Equal(t, "solution has 0 day plans, expected 1", res.Feasibility.Message)

	// the time phase is evaluated regardless of feasibility
	require.Equal(t, 1, bench.calls)
	require.Equal(t, 1800.0, res.AllowedSeconds)
}

func TestVerifySolutionRoutesCheckedBeforeInventory(t *testing.T) {
	inst, err := domain.NewInstance(
		"verify",
		domain.Depot{StartLevel: 200, DailyChange: 50},
		[]domain.Customer{{ID: 1, StartLevel: 30, MinLevel: 10, MaxLevel: 60, DailyChange: -10}},
		[]domain.Vehicle{
			{ID: 1, Capacity: 100, Speed: 1},
			{ID: 2, Capacity: 100, Speed: 1},
		},
		1, 1800, 0,
	)
	require.NoError(t, err)
	v := &Verifier{Instance: inst, Benchmark: &stubBenchmark{mark: ReferenceScore}}

	// the same day holds both a structural route error and an inventory
	// breach; the route check comes first in the day's lockstep
	sol := &domain.Solution{
		Days: []domain.DayPlan{{Day: 1, Routes: []domain.Route{
			{Vehicle: 1, Visits: []domain.Visit{{Customer: 1, Quantity: 45}}},
			{Vehicle: 9},
		}}},
		Processor:    "cpu",
		ReportedTime: 5,
	}
	res := v.VerifySolution(context.Background(), sol)
	require.NotNil(t, res.Feasibility)
	require.Equal(t, "Day 1: Route 2: vehicle 9 does not exist", res.Feasibility.Message)
	require.Equal(t, domain.KindStructural, res.Feasibility.Kind)
}

func TestVerifySolutionFeasibilityPrecedesTime(t *testing.T) {
	v := &Verifier{Instance: oneDayInstance(t), Benchmark: &stubBenchmark{mark: ReferenceScore}}

	res := v.VerifySolution(context.Background(), deliverySolution(45, 5000))
	require.NotNil(t, res.Feasibility)
	require.NotNil(t, res.Time)
	require.Equal(t, res.Feasibility, res.First())
	require.Equal(t,
		"Time verification error: computation time of 5000.00 seconds exceeds time limit of 1800.00 seconds",
		res.Time.Message)
}

func TestVerifySolutionTimeLimitFailure(t *testing.T) {
	v := &Verifier{Instance: oneDayInstance(t), Benchmark: &stubBenchmark{mark: 2362}}

	res := v.VerifySolution(context.Background(), deliverySolution(20, 1612.42))
	require.Nil(t, res.Feasibility)
	require.NotNil(t, res.Time)
	require.Equal(t, domain.KindTimeLimit, res.Time.Kind)
	require.Equal(t,
		"Time verification error: computation time of 1612.42 seconds exceeds time limit of 1524.13 seconds",
		res.Time.Message)
	require.InDelta(t, 1524.1320914479, res.AllowedSeconds, 1e-6)
}

func TestVerifySolutionBenchmarkLookupFailure(t *testing.T) {
	bench := &stubBenchmark{err: errors.New("mark table empty")}
	v := &Verifier{Instance: oneDayInstance(t), Benchmark: bench}

	res := v.VerifySolution(context.Background(), deliverySolution(20, 100))
	require.Nil(t, res.Feasibility)
	require.NotNil(t, res.Time)
	require.Equal(t, domain.KindTimeLimit, res.Time.Kind)
	require.Equal(t,
		"Time verification error: no benchmark score for processor 'cpu': mark table empty",
		res.Time.Message)
	require.Equal(t, 0.0, res.AllowedSeconds)
	require.Equal(t, 100.0, res.ReportedSeconds)
}

func TestVerifySolutionIdempotent(t *testing.T) {
	v := &Verifier{Instance: oneDayInstance(t), Benchmark: &stubBenchmark{mark: ReferenceScore}}
	sol := deliverySolution(45, 100)

	first := v.VerifySolution(context.Background(), sol)
	second := v.VerifySolution(context.Background(), sol)
	require.Equal(t, first.First().Message, second.First().Message)
	require.Equal(t, first, second)
}

func TestVerifyStream(t *testing.T) {
	bench := &stubBenchmark{mark: ReferenceScore}
	v := &Verifier{Instance: oneDayInstance(t), Benchmark: bench}

	items := []parse.Item{
		parse.Annotation("# warmup"),
		parse.Candidate{Solution: deliverySolution(45, 100)},
		parse.Annotation("# second attempt"),
		parse.Candidate{Solution: deliverySolution(20, 100)},
		parse.Malformed{Err: &domain.StructuralError{File: "sol.txt", Line: 9, Msg: "customer 9 does not exist"}},
	}

	out := v.VerifyStream(context.Background(), items)
	require.Len(t, out, 5)

	require.Equal(t, "# warmup", out[0].Annotation)
	require.Nil(t, out[0].Result)

	require.Equal(t, 1, out[1].Ordinal)
	require.Equal(t, domain.KindInventory, out[1].Result.First().Kind)

	require.Equal(t, "# second attempt", out[2].Annotation)

	// one candidate's failure never taints the next
	require.Equal(t, 2, out[3].Ordinal)
	require.True(t, out[3].Result.OK())

	require.Equal(t, 3, out[4].Ordinal)
	require.Nil(t, out[4].Solution)
	mal := out[4].Result.First()
	require.Equal(t, domain.KindStructural, mal.Kind)
	require.Equal(t, "sol.txt", mal.File)
	require.Equal(t, 9, mal.Line)
	require.Equal(t, "sol.txt:9: customer 9 does not exist", mal.Message)

	// malformed candidates never reach the benchmark
	require.Equal(t, 2, bench.calls)
}
