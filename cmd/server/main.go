//go:build !lambda

package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"irp-verifier/internal/adapters/benchmark"
	"irp-verifier/internal/adapters/cache"
	"irp-verifier/internal/adapters/repositories"
	"irp-verifier/internal/api"
	"irp-verifier/internal/config"
	"irp-verifier/internal/platform/db"
	"irp-verifier/internal/ports"
)

// main is the application composition root.
// It wires concrete adapters (SQLite or Postgres, PassMark) behind ports and
// starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := config.Get("PORT", "8080")

	markCache, runs := openStore()

	var provider ports.BenchmarkProvider
	if raw := os.Getenv("BENCHMARK_SCORE"); strings.TrimSpace(raw) != "" {
		mark, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || mark <= 0 {
			log.Fatalf("BENCHMARK_SCORE must be a positive number, got %q", raw)
		}
		provider = benchmark.FixedBenchmarkProvider{Mark: mark}
	} else {
		provider = benchmark.NewPassmarkProvider(config.Get("PASSMARK_URL", ""), markCache)
	}

	router := api.NewRouter(provider, runs)

	// Write timeout covers a cold-cache mark table fetch with retries.
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// openStore connects the mark cache and run archive, Postgres when
// DATABASE_URL is set and a local SQLite file otherwise. The handle stays
// open for the process lifetime.
func openStore() (ports.MarkCache, ports.RunRepository) {
	if databaseURL := os.Getenv("DATABASE_URL"); strings.TrimSpace(databaseURL) != "" {
		conn, err := db.Open(databaseURL)
		if err != nil {
			log.Fatal(err)
		}
		if err := repositories.InitSchemaPostgres(conn); err != nil {
			log.Fatal(err)
		}
		return cache.NewSQLMarkCache(conn), repositories.NewSQLRunRepository(conn)
	}

	conn, err := db.OpenSQLite(config.Get("SQLITE_PATH", "data/verifier.db"))
	if err != nil {
		log.Fatal(err)
	}
	if err := repositories.InitSchema(conn); err != nil {
		log.Fatal(err)
	}
	return cache.NewSqliteMarkCache(conn), repositories.NewSqliteRunRepository(conn)
}
