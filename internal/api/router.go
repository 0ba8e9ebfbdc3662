package api

import (
	"net/http"

	"irp-verifier/internal/api/handlers"
	"irp-verifier/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
// runs may be nil; the archive endpoint is only registered when a repository
// is available.
func NewRouter(provider ports.BenchmarkProvider, runs ports.RunRepository) http.Handler {
	mux := http.NewServeMux()

	verificationHandler := &handlers.VerificationHandler{
		Provider: provider,
		Runs:     runs,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/verifications", verificationHandler.Verify)

	if runs != nil {
		runsHandler := &handlers.RunsHandler{Runs: runs}
		mux.HandleFunc("/runs", runsHandler.List)
	}

	return loggingMiddleware(mux)
}
