package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atlasbio/atlas/internal/domain"
	"github.com/atlasbio/atlas/internal/modules/analysis/calculators"
	"github.com/atlasbio/atlas/internal/modules/companies"
	"github.com/rs/zerolog"
)

// Handlers contains HTTP handlers for the analysis API.
type Handlers struct {
	orchestrator *Orchestrator
	store        companies.Store
	log          zerolog.Logger
}

// NewHandlers creates analysis handlers.
func NewHandlers(orchestrator *Orchestrator, store companies.Store, log zerolog.Logger) *Handlers {
	return &Handlers{
		orchestrator: orchestrator,
		store:        store,
		log:          log.With().Str("module", "analysis_handlers").Logger(),
	}
}

// RunRequest is the body accepted when starting a batch run. An empty
// CompanyIDs list means the whole registry. Sliders default to 50.
type RunRequest struct {
	CompanyIDs []string             `json:"company_ids"`
	FocusAreas []string             `json:"focus_areas"`
	Sliders    *calculators.Sliders `json:"sliders"`
}

// RunResponse is the batch run output.
type RunResponse struct {
	Analyses []domain.CompanyAnalysis `json:"analyses"`
	Progress BatchProgress            `json:"progress"`
}

// HandleRun analyzes the selected companies in sequence. The run uses
// the request context, so a disconnected client stops the batch at
// the next company boundary.
// POST /api/analysis/run
func (h *Handlers) HandleRun(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	selected, err := h.selectCompanies(req.CompanyIDs)
	if err != nil {
		if errors.Is(err, companies.ErrNotFound) {
			http.Error(w, "Company not found", http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Msg("Failed to load companies for analysis")
		http.Error(w, "Failed to load companies", http.StatusInternalServerError)
		return
	}
	if len(selected) == 0 {
		http.Error(w, "No companies to analyze", http.StatusBadRequest)
		return
	}

	sliders := calculators.DefaultSliders()
	if req.Sliders != nil {
		sliders = *req.Sliders
	}

	analyses, err := h.orchestrator.Run(r.Context(), selected, req.FocusAreas, sliders)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		// Client is gone; nothing useful to write.
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(RunResponse{
		Analyses: analyses,
		Progress: h.orchestrator.Progress(),
	})
}

// HandleStatus returns the current batch progress.
// GET /api/analysis/status
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.orchestrator.Progress())
}

// HandleTable returns the latest analyses as formatted comparison rows.
// GET /api/analysis/table
func (h *Handlers) HandleTable(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(BuildTable(h.orchestrator.Analyses()))
}

func (h *Handlers) selectCompanies(ids []string) ([]domain.Company, error) {
	if len(ids) == 0 {
		return h.store.List()
	}
	selected := make([]domain.Company, 0, len(ids))
	for _, id := range ids {
		company, err := h.store.Get(id)
		if err != nil {
			return nil, err
		}
		selected = append(selected, *company)
	}
	return selected, nil
}
