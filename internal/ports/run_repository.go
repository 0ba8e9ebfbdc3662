package ports

import (
	"context"

	"irp-verifier/internal/domain"
)

// Port: a boundary for archiving verification outcomes. Archival is best
// effort everywhere it is wired; a failing repository never changes a
// verdict.
type RunRepository interface {
	// Persist one verification outcome.
	Save(ctx context.Context, run *domain.Run) error
	// Retrieve the most recent runs, newest first.
	ListRecent(ctx context.Context, limit int) ([]*domain.Run, error)
}
