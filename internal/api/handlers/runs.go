package handlers

import (
	"log"
	"net/http"
	"strconv"

	"irp-verifier/internal/api/dto"
	"irp-verifier/internal/ports"
)

// RunsHandler exposes read-only access to archived verification outcomes.
type RunsHandler struct {
	Runs ports.RunRepository
}

func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	runs, err := h.Runs.ListRecent(r.Context(), limit)
	if err != nil {
		log.Printf("list runs failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListRunsResponse{
		Runs: make([]dto.RunResponse, 0, len(runs)),
	}
	for _, run := range runs {
		res.Runs = append(res.Runs, dto.RunResponse{
			ID:              run.ID,
			Instance:        run.Instance,
			Solution:        run.Solution,
			Ordinal:         run.Ordinal,
			Verdict:         run.Verdict,
			Message:         run.Message,
			ReportedSeconds: run.ReportedSeconds,
			AllowedSeconds:  run.AllowedSeconds,
			CreatedAt:       run.CreatedAt,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
