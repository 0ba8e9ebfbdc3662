package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// SQLite backed cache for processor benchmark marks. Keys are expected to
// be consistent (e.g., already normalized) by the caller.
type SqliteMarkCache struct {
	DB *sql.DB
}

func NewSqliteMarkCache(db *sql.DB) *SqliteMarkCache {
	return &SqliteMarkCache{DB: db}
}

// Fetch cached marks for multiple processors. Processors without a cached
// mark are simply absent from the result.
func (s *SqliteMarkCache) GetMany(
	ctx context.Context,
	processors []string,
) (map[string]float64, error) {
	if s.DB == nil {
		return nil, errors.New("mark cache: db is nil")
	}

	if len(processors) == 0 {
		return map[string]float64{}, nil
	}

	seen := map[string]struct{}{}
	uniq := make([]string, 0, len(processors))
	ph := make([]string, 0, len(processors))
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
		ph = append(ph, "?")
	}

	if len(uniq) == 0 {
		return map[string]float64{}, nil
	}

	placeholders := strings.Join(ph, ",")
	args := make([]any, 0, len(uniq))
	for _, p := range uniq {
		args = append(args, p)
	}

	// SQLite does not support binding slices directly in an IN (...) clause.
	// Only the placeholder structure is interpolated; all values remain parameterized.
	q := fmt.Sprintf(`
	SELECT
        processor,
        mark
    FROM cpu_marks
    WHERE processor IN (%s);
	`, placeholders)

	rows, err := s.DB.QueryContext(ctx, q, args...)
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
func (s *SqliteMarkCache) PutMany(ctx context.Context, marks map[string]float64) error {
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
	INSERT OR REPLACE INTO cpu_marks (
        processor,
        mark
    )
    VALUES (?, ?)
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
