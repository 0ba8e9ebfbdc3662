package repositories

import (
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the PostgreSQL database schema.
func InitSchemaPostgres(db *sql.DB) error {
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
        mark DOUBLE PRECISION NOT NULL
    );
	`

	createRunsQuery := `
	CREATE TABLE IF NOT EXISTS verification_runs (
        id BIGSERIAL PRIMARY KEY,
        instance TEXT NOT NULL,
        solution TEXT NOT NULL,
        ordinal INTEGER NOT NULL,
        verdict TEXT NOT NULL,
        message TEXT NOT NULL,
        reported_seconds DOUBLE PRECISION NOT NULL,
        allowed_seconds DOUBLE PRECISION NOT NULL,
        created_at TIMESTAMPTZ NOT NULL
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
