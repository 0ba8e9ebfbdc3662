package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"irp-verifier/internal/adapters/benchmark"
	"irp-verifier/internal/adapters/cache"
	"irp-verifier/internal/adapters/repositories"
	"irp-verifier/internal/config"
	"irp-verifier/internal/domain"
	"irp-verifier/internal/parse"
	"irp-verifier/internal/platform/db"
	"irp-verifier/internal/ports"
	"irp-verifier/internal/services"
)

// main is the command composition root. It wires the benchmark provider and
// optional storage behind ports, runs the verification, and maps the
// outcome to the exit code: 0 all solutions pass, 1 usage error, 2 any
// verification or read failure.
func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("verifier", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	score := fs.Float64("score", 0, "benchmark score of this machine; skips the mark table lookup")
	verbose := fs.Bool("verbose", false, "print instance and solution summaries")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: verifier [flags] <instance file> [<solution file or directory>]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 1
	}

	rest := fs.Args()
	if len(rest) < 1 || len(rest) > 2 {
		fs.Usage()
		return 1
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	instancePath := rest[0]
	solutionArg := ""
	if len(rest) == 2 {
		solutionArg = rest[1]
	}
	solutionPath := resolveSolutionPath(instancePath, solutionArg)

	instanceFile, err := os.Open(instancePath)
	if err != nil {
		fmt.Println(openFailure("instance", instancePath, err))
		return 2
	}
	defer instanceFile.Close()

	solutionFile, err := os.Open(solutionPath)
	if err != nil {
		fmt.Println(openFailure("solution", solutionPath, err))
		return 2
	}
	defer solutionFile.Close()

	inst, err := parse.Instance(instancePath, instanceFile)
	if err != nil {
		fmt.Printf("Failed to read instance file %s: %v\n", instancePath, err)
		return 2
	}

	if *verbose {
		printInstanceSummary(inst)
	}

	items, err := parse.Solutions(solutionPath, solutionFile, inst)
	if err != nil {
		fmt.Printf("Read error %v\n", err)
		return 2
	}

	ctx := context.Background()

	// Storage is optional: verification still runs without it, at the cost
	// of re-fetching marks and losing the run archive.
	markCache, runs, closeStore := openStore()
	defer closeStore()

	var provider ports.BenchmarkProvider
	if *score > 0 {
		provider = benchmark.FixedBenchmarkProvider{Mark: *score}
	} else {
		provider = benchmark.NewPassmarkProvider(config.Get("PASSMARK_URL", ""), markCache)
	}

	verifier := &services.Verifier{Instance: inst, Benchmark: provider}
	results := verifier.VerifyStream(ctx, items)

	failed := false
	for _, sr := range results {
		if sr.Result == nil {
			fmt.Println(sr.Annotation)
			continue
		}

		if *verbose && sr.Solution != nil {
			printSolutionSummary(sr.Solution)
		}

		if f := sr.Result.First(); f != nil {
			failed = true
			if f.Kind == domain.KindStructural && f.File != "" {
				fmt.Printf("Read error %v\n", f.Message)
			} else {
				fmt.Println(f.Message)
			}
		} else {
			fmt.Printf("Verification of %s successful\n", solutionPath)
		}

		archive(ctx, runs, instancePath, solutionPath, sr)
	}

	if failed {
		return 2
	}
	return 0
}

// resolveSolutionPath applies the out_<instance>.txt convention: with no
// argument the solution is looked up next to the instance; a directory
// argument is searched for the conventional name; anything else is taken as
// the solution file itself.
func resolveSolutionPath(instancePath, arg string) string {
	dir, file := filepath.Split(instancePath)
	base := strings.TrimSuffix(file, filepath.Ext(file))
	conventional := "out_" + base + ".txt"

	if arg == "" {
		return filepath.Join(dir, conventional)
	}
	if info, err := os.Stat(arg); err == nil && info.IsDir() {
		return filepath.Join(arg, conventional)
	}
	return arg
}

// openFailure renders a file-open failure with the OS cause text.
func openFailure(kind, path string, err error) string {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		err = pathErr.Err
	}
	return fmt.Sprintf("Failed to open %s file %s: %v", kind, path, err)
}

// openStore connects the local mark cache and run archive. Both are
// best-effort; any failure is logged and verification proceeds without
// persistence.
func openStore() (ports.MarkCache, ports.RunRepository, func()) {
	noop := func() {}

	if databaseURL := os.Getenv("DATABASE_URL"); strings.TrimSpace(databaseURL) != "" {
		conn, err := db.Open(databaseURL)
		if err != nil {
			log.Printf("database unavailable: %v", err)
			return nil, nil, noop
		}
		if err := repositories.InitSchemaPostgres(conn); err != nil {
			log.Printf("schema init failed: %v", err)
			conn.Close()
			return nil, nil, noop
		}
		return cache.NewSQLMarkCache(conn), repositories.NewSQLRunRepository(conn), func() { conn.Close() }
	}

	sqlitePath := config.Get("SQLITE_PATH", "data/verifier.db")
	conn, err := db.OpenSQLite(sqlitePath)
	if err != nil {
		log.Printf("local store unavailable: %v", err)
		return nil, nil, noop
	}
	if err := repositories.InitSchema(conn); err != nil {
		log.Printf("schema init failed: %v", err)
		conn.Close()
		return nil, nil, noop
	}
	return cache.NewSqliteMarkCache(conn), repositories.NewSqliteRunRepository(conn), func() { conn.Close() }
}

// archive persists one outcome when a repository is available.
func archive(ctx context.Context, runs ports.RunRepository, instancePath, solutionPath string, sr services.StreamResult) {
	if runs == nil || sr.Result == nil {
		return
	}

	verdict, message := domain.RunVerdict(*sr.Result)
	run := &domain.Run{
		Instance:        instancePath,
		Solution:        solutionPath,
		Ordinal:         sr.Ordinal,
		Verdict:         verdict,
		Message:         message,
		ReportedSeconds: sr.Result.ReportedSeconds,
		AllowedSeconds:  sr.Result.AllowedSeconds,
	}
	if err := runs.Save(ctx, run); err != nil {
		log.Printf("archive run failed: %v", err)
	}
}

func printInstanceSummary(inst *domain.Instance) {
	fmt.Println("Instance:")
	fmt.Printf("Number of nodes: %d\n", inst.NumNodes())
	fmt.Printf("Number of days: %d\n", inst.Horizon)
	fmt.Printf("Number of vehicles: %d\n", len(inst.Vehicles))
	fmt.Printf("Vehicle capacity: %d\n", inst.Vehicles[0].Capacity)
	fmt.Printf("Base time limit: %g\n", inst.BaseTimeLimit)
	fmt.Println()
}

func printSolutionSummary(sol *domain.Solution) {
	fmt.Println("Solution:")
	fmt.Printf("Total transportation cost: %d\n", sol.TransportationCost)
	fmt.Printf("Total inventory cost at customers: %g\n", sol.CustomerInventoryCost)
	fmt.Printf("Total inventory cost at depot: %g\n", sol.DepotInventoryCost)
	fmt.Printf("Total cost: %g\n", sol.TotalCost)
	fmt.Printf("Used processor: %s\n", sol.Processor)
	fmt.Printf("Time: %g\n", sol.ReportedTime)
}
