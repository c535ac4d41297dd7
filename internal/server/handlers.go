package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/atlasbio/atlas/internal/clients/ctgov"
	"github.com/atlasbio/atlas/internal/clients/fmp"
)

// handleHealth reports service liveness.
// GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleGetProfile fetches a financial profile from the provider.
// GET /api/finance/profile/{ticker}
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "ticker")))

	profile, err := s.cfg.FMPClient.GetProfile(r.Context(), ticker)
	if errors.Is(err, fmp.ErrInvalidTicker) {
		http.Error(w, "Invalid ticker", http.StatusBadRequest)
		return
	}
	if errors.Is(err, fmp.ErrNotFound) {
		http.Error(w, "Company not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error().Err(err).Str("ticker", ticker).Msg("Failed to fetch profile")
		http.Error(w, "Failed to fetch profile", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(profile)
}

// handleSearch searches companies by free text.
// GET /api/finance/search?q=...
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	results, err := s.cfg.FMPClient.Search(r.Context(), query)
	if errors.Is(err, fmp.ErrShortQuery) {
		http.Error(w, "Query must be at least 2 characters", http.StatusBadRequest)
		return
	}
	if err != nil {
		s.log.Error().Err(err).Str("query", query).Msg("Company search failed")
		http.Error(w, "Search failed", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(results)
}

// handleGetTrials fetches clinical trials sponsored by a company.
// Optional filters: phase, status, intervention_type (comma lists).
// GET /api/clinical-trials/{company}
func (s *Server) handleGetTrials(w http.ResponseWriter, r *http.Request) {
	company := chi.URLParam(r, "company")

	var filters *ctgov.TrialFilters
	q := r.URL.Query()
	if q.Get("phase") != "" || q.Get("status") != "" || q.Get("intervention_type") != "" {
		filters = &ctgov.TrialFilters{
			Phase:            splitParam(q.Get("phase")),
			Status:           splitParam(q.Get("status")),
			InterventionType: splitParam(q.Get("intervention_type")),
		}
	}

	trials, err := s.cfg.CTGovClient.GetTrialsForCompany(r.Context(), company, filters)
	if err != nil {
		s.log.Error().Err(err).Str("company", company).Msg("Failed to fetch trials")
		http.Error(w, "Failed to fetch trials", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(trials)
}

// handleGetMolecule fetches compound data by identifier.
// GET /api/molecules/{id}
func (s *Server) handleGetMolecule(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	molecule, err := s.cfg.ChEMBLClient.GetMolecule(r.Context(), id)
	if err != nil {
		s.log.Error().Err(err).Str("compound", id).Msg("Failed to fetch molecule data")
		http.Error(w, "Failed to fetch molecule data", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(molecule)
}

func splitParam(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
