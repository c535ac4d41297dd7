package companies

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/atlasbio/atlas/internal/events"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handlers contains HTTP handlers for the company registry API.
type Handlers struct {
	store  Store
	events *events.Manager
	log    zerolog.Logger
}

// NewHandlers creates company handlers backed by the given store.
func NewHandlers(store Store, eventManager *events.Manager, log zerolog.Logger) *Handlers {
	return &Handlers{
		store:  store,
		events: eventManager,
		log:    log.With().Str("module", "companies_handlers").Logger(),
	}
}

// HandleList returns all registered companies.
// GET /api/companies
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	companies, err := h.store.List()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list companies")
		http.Error(w, "Failed to list companies", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(companies)
}

// HandleGet returns a single company by id.
// GET /api/companies/{id}
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	company, err := h.store.Get(id)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "Company not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("id", id).Msg("Failed to fetch company")
		http.Error(w, "Failed to fetch company", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(company)
}

// HandleCreate registers a new company.
// POST /api/companies
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	company, err := h.store.Create(input)
	if errors.Is(err, ErrMissingFields) {
		http.Error(w, "Name and ticker are required", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create company")
		http.Error(w, "Failed to create company", http.StatusInternalServerError)
		return
	}

	h.events.Emit(events.CompanyRegistered, "companies", map[string]interface{}{
		"id":     company.ID,
		"ticker": company.Ticker,
	})
	h.log.Info().Str("id", company.ID).Str("ticker", company.Ticker).Msg("Company registered")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(company)
}

// HandleUpdate applies a partial update to a company.
// PUT /api/companies/{id}
func (h *Handlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	company, err := h.store.Update(id, input)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "Company not found", http.StatusNotFound)
		return
	}
	if errors.Is(err, ErrMissingFields) {
		http.Error(w, "Name and ticker are required", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("id", id).Msg("Failed to update company")
		http.Error(w, "Failed to update company", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(company)
}

// HandleDelete removes a company from the registry.
// DELETE /api/companies/{id}
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	company, err := h.store.Delete(id)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "Company not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("id", id).Msg("Failed to delete company")
		http.Error(w, "Failed to delete company", http.StatusInternalServerError)
		return
	}

	h.log.Info().Str("id", id).Str("ticker", company.Ticker).Msg("Company removed")

	response := map[string]string{
		"message": fmt.Sprintf("Company %s removed", company.Ticker),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

// HandleBulkCreate registers several companies at once.
// POST /api/companies/bulk
func (h *Handlers) HandleBulkCreate(w http.ResponseWriter, r *http.Request) {
	var inputs []CreateInput
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(inputs) == 0 {
		http.Error(w, "No companies provided", http.StatusBadRequest)
		return
	}

	created, err := h.store.BulkCreate(inputs)
	if errors.Is(err, ErrMissingFields) {
		http.Error(w, "Name and ticker are required for every entry", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to bulk create companies")
		http.Error(w, "Failed to create companies", http.StatusInternalServerError)
		return
	}

	for _, company := range created {
		h.events.Emit(events.CompanyRegistered, "companies", map[string]interface{}{
			"id":     company.ID,
			"ticker": company.Ticker,
		})
	}
	h.log.Info().Int("count", len(created)).Msg("Companies registered in bulk")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(created)
}

// HandleClear removes every company from the registry.
// DELETE /api/companies
func (h *Handlers) HandleClear(w http.ResponseWriter, r *http.Request) {
	removed, err := h.store.Clear()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to clear companies")
		http.Error(w, "Failed to clear companies", http.StatusInternalServerError)
		return
	}

	h.log.Info().Int("removed", removed).Msg("Company registry cleared")

	response := map[string]any{
		"message": fmt.Sprintf("Removed %d companies", removed),
		"removed": removed,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}
