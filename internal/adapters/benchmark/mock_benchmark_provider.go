package benchmark

import (
	"context"
	"fmt"
)

// MockBenchmarkProvider serves marks from an in-memory table. Useful for
// tests and air-gapped runs.
type MockBenchmarkProvider struct {
	m map[string]float64
}

// NewMockBenchmarkProvider builds a provider over the given table. Keys are
// normalized, so callers can use the raw processor strings.
func NewMockBenchmarkProvider(scores map[string]float64) *MockBenchmarkProvider {
	m := make(map[string]float64, len(scores))
	for name, mark := range scores {
		m[NormalizeProcessor(name)] = mark
	}
	return &MockBenchmarkProvider{m: m}
}

func (p *MockBenchmarkProvider) Score(ctx context.Context, processor string) (float64, error) {
	mark, ok := p.m[NormalizeProcessor(processor)]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownProcessor, processor)
	}
	return mark, nil
}

// FixedBenchmarkProvider reports the same mark for every processor. It
// backs the -score CLI flag and per-request overrides, where the caller
// already knows the machine's mark.
type FixedBenchmarkProvider struct {
	Mark float64
}

func (p FixedBenchmarkProvider) Score(ctx context.Context, processor string) (float64, error) {
	if p.Mark <= 0 {
		return 0, fmt.Errorf("fixed benchmark mark must be positive, got %g", p.Mark)
	}
	return p.Mark, nil
}
