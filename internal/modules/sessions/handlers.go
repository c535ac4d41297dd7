package sessions

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atlasbio/atlas/internal/events"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handlers contains HTTP handlers for the session API.
type Handlers struct {
	repo   *Repository
	events *events.Manager
	log    zerolog.Logger
}

// NewHandlers creates session handlers.
func NewHandlers(repo *Repository, eventManager *events.Manager, log zerolog.Logger) *Handlers {
	return &Handlers{
		repo:   repo,
		events: eventManager,
		log:    log.With().Str("module", "sessions_handlers").Logger(),
	}
}

// HandleCreate starts a new empty session.
// POST /api/sessions
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	session, err := h.repo.Create()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create session")
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	h.log.Info().Str("session_id", session.ID).Msg("Session created")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(session)
}

// HandleGet loads a session by id.
// GET /api/sessions/{id}
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	session, err := h.repo.Load(id)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("session_id", id).Msg("Failed to load session")
		http.Error(w, "Failed to load session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(session)
}

// HandleSave replaces the stored state of a session.
// PUT /api/sessions/{id}
func (h *Handlers) HandleSave(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var session Session
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	session.ID = id

	if err := h.repo.Save(&session); err != nil {
		h.log.Error().Err(err).Str("session_id", id).Msg("Failed to save session")
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(session)
}

// HandleClear deletes a session so a new evaluation can start clean.
// DELETE /api/sessions/{id}
func (h *Handlers) HandleClear(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.repo.Clear(id); err != nil {
		h.log.Error().Err(err).Str("session_id", id).Msg("Failed to clear session")
		http.Error(w, "Failed to clear session", http.StatusInternalServerError)
		return
	}

	h.events.Emit(events.SessionCleared, "sessions", map[string]interface{}{
		"session_id": id,
	})
	h.log.Info().Str("session_id", id).Msg("Session cleared")

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "Session cleared"})
}
