package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"irp-verifier/internal/adapters/benchmark"
	"irp-verifier/internal/api/dto"
	"irp-verifier/internal/domain"
	"irp-verifier/internal/parse"
	"irp-verifier/internal/ports"
	"irp-verifier/internal/services"
)

type VerificationHandler struct {
	Provider ports.BenchmarkProvider
	Runs     ports.RunRepository
}

// Verify checks an inline candidate solution file against an inline
// instance file. It coordinates parsing, the per-solution verification
// phases, and archival of the outcomes.
//
// Instance parse failures are the caller's data being unusable (422);
// solution parse failures are verification outcomes and come back as
// failure items in a 200 response.
func (h *VerificationHandler) Verify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.VerificationRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	name := strings.TrimSpace(req.InstanceName)
	if name == "" {
		name = "instance"
	}

	if strings.TrimSpace(req.Instance) == "" {
		writeError(w, r, http.StatusBadRequest, "instance is required")
		return
	}
	if strings.TrimSpace(req.Solution) == "" {
		writeError(w, r, http.StatusBadRequest, "solution is required")
		return
	}

	provider := h.Provider
	if req.BenchmarkScore != nil {
		if *req.BenchmarkScore <= 0 {
			writeError(w, r, http.StatusBadRequest, "benchmark_score must be positive")
			return
		}
		provider = benchmark.FixedBenchmarkProvider{Mark: *req.BenchmarkScore}
	}

	inst, err := parse.Instance(name, strings.NewReader(req.Instance))
	if err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	res := dto.VerificationResponse{Instance: name}

	items, err := parse.Solutions("solution", strings.NewReader(req.Solution), inst)
	if err != nil {
		// Single-solution files reject as a whole; report the one candidate
		// as a structural failure.
		f := domain.AsFailure(err)
		res.Solutions = 1
		res.Items = []dto.VerificationItem{failureItem(&f)}
		h.archive(r.Context(), name, 1, domain.Result{Feasibility: &f})
		writeJSON(w, r, http.StatusOK, res)
		return
	}

	verifier := &services.Verifier{Instance: inst, Benchmark: provider}
	results := verifier.VerifyStream(r.Context(), items)

	res.Items = make([]dto.VerificationItem, 0, len(results))
	for _, sr := range results {
		if sr.Result == nil {
			res.Items = append(res.Items, dto.VerificationItem{Kind: "annotation", Message: sr.Annotation})
			continue
		}

		res.Solutions++
		if f := sr.Result.First(); f != nil {
			res.Items = append(res.Items, failureItem(f))
		} else {
			res.Items = append(res.Items, dto.VerificationItem{
				Kind:    "success",
				Message: fmt.Sprintf("Verification of %s successful", name),
			})
		}
		h.archive(r.Context(), name, sr.Ordinal, *sr.Result)
	}

	writeJSON(w, r, http.StatusOK, res)
}

// failureItem renders a failure for the response. Parse-phase failures
// carry their input position and keep the reader-facing prefix used by the
// command line transcript.
func failureItem(f *domain.Failure) dto.VerificationItem {
	msg := f.Message
	if f.Kind == domain.KindStructural && f.File != "" {
		msg = "Read error " + msg
	}
	return dto.VerificationItem{Kind: "failure", FailureKind: string(f.Kind), Message: msg}
}

// archive persists one outcome when a repository is wired; failures to
// archive never affect the response.
func (h *VerificationHandler) archive(ctx context.Context, instance string, ordinal int, res domain.Result) {
	if h.Runs == nil {
		return
	}

	verdict, message := domain.RunVerdict(res)
	run := &domain.Run{
		Instance:        instance,
		Solution:        "inline",
		Ordinal:         ordinal,
		Verdict:         verdict,
		Message:         message,
		ReportedSeconds: res.ReportedSeconds,
		AllowedSeconds:  res.AllowedSeconds,
	}
	if err := h.Runs.Save(ctx, run); err != nil {
		log.Printf("archive run failed: %v", err)
	}
}
