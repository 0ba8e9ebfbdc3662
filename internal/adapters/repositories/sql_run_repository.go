package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"irp-verifier/internal/domain"
)

// PostgreSQL-backed implementation of the RunRepository port.
type SQLRunRepository struct{ DB *sql.DB }

func NewSQLRunRepository(db *sql.DB) *SQLRunRepository {
	return &SQLRunRepository{DB: db}
}

// Persist one verification outcome. The row id is written back into run.
func (s *SQLRunRepository) Save(ctx context.Context, run *domain.Run) error {
	if s.DB == nil {
		return errors.New("sql run repository: DB is nil")
	}

	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	query := `
	INSERT INTO verification_runs (
		instance,
		solution,
		ordinal,
		verdict,
		message,
		reported_seconds,
		allowed_seconds,
		created_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id;
	`
	err := s.DB.QueryRowContext(ctx, query,
		run.Instance,
		run.Solution,
		run.Ordinal,
		run.Verdict,
		run.Message,
		run.ReportedSeconds,
		run.AllowedSeconds,
		run.CreatedAt,
	).Scan(&run.ID)
	if err != nil {
		return fmt.Errorf("save run: insert verification_runs: %w", err)
	}

	return nil
}

// Return the most recent verification outcomes, newest first.
func (s *SQLRunRepository) ListRecent(ctx context.Context, limit int) ([]*domain.Run, error) {
	if s.DB == nil {
		return nil, errors.New("sql run repository: DB is nil")
	}

	if limit <= 0 {
		limit = 20
	}

	query := `
	SELECT
		id,
		instance,
		solution,
		ordinal,
		verdict,
		message,
		reported_seconds,
		allowed_seconds,
		created_at
	FROM verification_runs
	ORDER BY id DESC
	LIMIT $1;
	`
	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: query verification_runs table: %w", err)
	}
	defer rows.Close()

	runs := make([]*domain.Run, 0, limit)
	for rows.Next() {
		var r domain.Run
		err := rows.Scan(
			&r.ID,
			&r.Instance,
			&r.Solution,
			&r.Ordinal,
			&r.Verdict,
			&r.Message,
			&r.ReportedSeconds,
			&r.AllowedSeconds,
			&r.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("list runs: scan row: %w", err)
		}
		runs = append(runs, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: row iteration: %w", err)
	}

	return runs, nil
}
