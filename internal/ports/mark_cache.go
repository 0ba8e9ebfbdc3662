package ports

import "context"

// Port: a persistent store of processor benchmark marks. Keys are expected
// to be consistent (e.g., already normalized) by the caller.
type MarkCache interface {
	// Fetch cached marks for the given processor names; absent names are
	// simply missing from the result, not an error.
	GetMany(ctx context.Context, processors []string) (map[string]float64, error)
	// Store many marks, replacing existing entries.
	PutMany(ctx context.Context, marks map[string]float64) error
}
