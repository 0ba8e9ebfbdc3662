package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"irp-verifier/internal/adapters/benchmark"
	"irp-verifier/internal/ports"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createMarksQuery := `
	CREATE TABLE IF NOT EXISTS cpu_marks (
        processor TEXT PRIMARY KEY,
        mark REAL NOT NULL
    );
	`

	createRunsQuery := `
	CREATE TABLE IF NOT EXISTS verification_runs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        instance TEXT NOT NULL,
        solution TEXT NOT NULL,
        ordinal INTEGER NOT NULL,
        verdict TEXT NOT NULL,
        message TEXT NOT NULL,
        reported_seconds REAL NOT NULL,
        allowed_seconds REAL NOT NULL,
        created_at TIMESTAMP NOT NULL
    );
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_verification_runs_instance
    ON verification_runs(instance, created_at);
	`

	statements := []string{
		createMarksQuery,
		createRunsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type MarkSeed struct {
	Processor string  `json:"processor"`
	Mark      float64 `json:"mark"`
}

// Populate the mark cache with benchmark data from a JSON file. Processor
// names are normalized on the way in, so seed files can carry the raw
// vendor strings.
func SeedMarksFromJSON(ctx context.Context, markCache ports.MarkCache, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed marks: read %q: %w", jsonPath, err)
	}

	var data []MarkSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed marks: parse json: %w", err)
	}

	marks := make(map[string]float64, len(data))
	for i, item := range data {
		if item.Mark <= 0 {
			return fmt.Errorf("seed marks: invalid mark at index %d: %g", i+1, item.Mark)
		}

		proc := benchmark.NormalizeProcessor(item.Processor)
		if strings.TrimSpace(proc) == "" {
			return fmt.Errorf("seed marks: item at index %d: processor cannot be empty", i+1)
		}
		marks[proc] = item.Mark
	}

	if err := markCache.PutMany(ctx, marks); err != nil {
		return fmt.Errorf("seed marks: store: %w", err)
	}

	return nil
}
