package ports

import "context"

// Contract for resolving a processor name to its single-thread benchmark
// score. The verification core only ever sees the resulting scalar; where
// the score comes from (HTTP, cache, a fixed override) is the adapter's
// concern.
type BenchmarkProvider interface {
	// Return the single-thread mark for the given processor name.
	Score(ctx context.Context, processor string) (float64, error)
}
