package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"irp-verifier/internal/platform/obs"
)

// SQLMarkCache is a SQL-backed cache for processor benchmark marks,
// written against PostgreSQL placeholder syntax.
type SQLMarkCache struct {
	DB *sql.DB
}

func NewSQLMarkCache(db *sql.DB) *SQLMarkCache {
	return &SQLMarkCache{DB: db}
}

// Fetch cached marks for multiple processors.
func (s *SQLMarkCache) GetMany(
	ctx context.Context,
	processors []string,
) (_ map[string]float64, err error) {
	defer obs.Time(ctx, "benchmark.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("mark cache: db is nil")
	}

	if len(processors) == 0 {
		return map[string]float64{}, nil
	}

	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(processors))
	for _, p := range processors {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		uniq = append(uniq, p)
	}

	if len(uniq) == 0 {
		return map[string]float64{}, nil
	}

	q := `
	SELECT processor, mark
    FROM cpu_marks
    WHERE processor = ANY($1::text[]);
	`

	rows, err := s.DB.QueryContext(ctx, q, uniq)
	if err != nil {
		return nil, fmt.Errorf("get mark cache: query cpu_marks table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]float64, len(uniq))
	for rows.Next() {
		var proc string
		var mark float64
		if err := rows.Scan(&proc, &mark); err != nil {
			return nil, fmt.Errorf("get mark cache: scan rows: %w", err)
		}
		out[proc] = mark
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get mark cache: row iteration: %w", err)
	}

	return out, nil
}

// Store many marks keyed by processor name.
func (s *SQLMarkCache) PutMany(ctx context.Context, marks map[string]float64) error {
	if s.DB == nil {
		return errors.New("mark cache: db is nil")
	}

	if len(marks) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert mark cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO cpu_marks (processor, mark)
    VALUES ($1, $2)
	ON CONFLICT (processor) DO UPDATE
	SET mark = EXCLUDED.mark;
	`)
	if err != nil {
		return fmt.Errorf("insert mark cache: db prepare: %w", err)
	}
	defer stmt.Close()

	for proc, mark := range marks {
		if strings.TrimSpace(proc) == "" {
			return fmt.Errorf("insert mark cache: empty processor key")
		}

		if _, err := stmt.ExecContext(ctx, proc, mark); err != nil {
			return fmt.Errorf("insert mark cache processor=%q: %w", proc, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert mark cache commit: %w", err)
	}

	return nil
}
