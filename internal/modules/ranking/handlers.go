package ranking

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/atlasbio/atlas/internal/domain"
	"github.com/atlasbio/atlas/internal/modules/analysis"
	"github.com/atlasbio/atlas/internal/modules/criteria"
	"github.com/rs/zerolog"
)

// Handlers contains HTTP handlers for the ranking API.
type Handlers struct {
	service      *Service
	orchestrator *analysis.Orchestrator
	log          zerolog.Logger

	mu      sync.Mutex
	results []domain.RankingResult
}

// NewHandlers creates ranking handlers.
func NewHandlers(service *Service, orchestrator *analysis.Orchestrator, log zerolog.Logger) *Handlers {
	return &Handlers{
		service:      service,
		orchestrator: orchestrator,
		log:          log.With().Str("module", "ranking_handlers").Logger(),
	}
}

// RunRequest is the body accepted when ranking the latest analyses.
type RunRequest struct {
	Weights       domain.EvaluationCriteria `json:"weights"`
	FocusAreas    []string                  `json:"focus_areas"`
	CustomWeights domain.EvaluationCriteria `json:"custom_weights"`
}

// HandleRun ranks the analyses from the latest batch run.
// POST /api/ranking/run
func (h *Handlers) HandleRun(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	analyses := h.orchestrator.Analyses()
	if len(analyses) == 0 {
		http.Error(w, "No analyses available, run an analysis batch first", http.StatusConflict)
		return
	}

	weights, err := criteria.Resolve(req.Weights, req.FocusAreas, req.CustomWeights)
	if err != nil {
		var verr *criteria.WeightValidationError
		if errors.As(err, &verr) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": verr.Error(),
				"sum":   verr.Sum,
			})
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	results, err := h.service.RankBatch(r.Context(), analyses, weights)
	if err != nil {
		var rerr *RankingRequestError
		if errors.As(err, &rerr) {
			h.log.Error().Err(err).Msg("Ranking batch abandoned")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error":   rerr.Error(),
				"company": rerr.CompanyName,
			})
			return
		}
		http.Error(w, "Ranking failed", http.StatusInternalServerError)
		return
	}

	h.mu.Lock()
	h.results = results
	h.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(results)
}

// HandleExportCSV downloads the latest ranking results as CSV.
// GET /api/ranking/export.csv
func (h *Handlers) HandleExportCSV(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	results := append([]domain.RankingResult(nil), h.results...)
	h.mu.Unlock()

	if len(results) == 0 {
		http.Error(w, "No ranking results to export", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="ranking.csv"`)
	_, _ = w.Write([]byte(ExportCSV(results)))
}

// Results returns a copy of the latest ranking results.
func (h *Handlers) Results() []domain.RankingResult {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]domain.RankingResult(nil), h.results...)
}
