package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"irp-verifier/internal/adapters/cache"
	"irp-verifier/internal/adapters/repositories"
	"irp-verifier/internal/config"
	"irp-verifier/internal/platform/db"
	"irp-verifier/internal/ports"
)

// dbtool initializes the schema and seeds the benchmark mark cache, against
// Postgres when DATABASE_URL is set and the local SQLite file otherwise.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	var conn *sql.DB
	var markCache ports.MarkCache
	var initSchema func(*sql.DB) error

	if databaseURL := os.Getenv("DATABASE_URL"); strings.TrimSpace(databaseURL) != "" {
		pg, err := db.Open(databaseURL)
		if err != nil {
			log.Fatal(err)
		}
		conn = pg
		markCache = cache.NewSQLMarkCache(pg)
		initSchema = repositories.InitSchemaPostgres
	} else {
		lite, err := db.OpenSQLite(config.Get("SQLITE_PATH", "data/verifier.db"))
		if err != nil {
			log.Fatal(err)
		}
		conn = lite
		markCache = cache.NewSqliteMarkCache(lite)
		initSchema = repositories.InitSchema
	}
	defer conn.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/cpu_marks.json")
	if err := initAndSeed(conn, markCache, initSchema, seedPath); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(conn *sql.DB, markCache ports.MarkCache, initSchema func(*sql.DB) error, seedPath string) error {
	log.Println("Initializing database schema...")
	if err := initSchema(conn); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	log.Println("Seeding database...")
	if err := repositories.SeedMarksFromJSON(context.Background(), markCache, seedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")

	return nil
}
