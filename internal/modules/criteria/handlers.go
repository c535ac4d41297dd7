package criteria

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atlasbio/atlas/internal/domain"
	"github.com/rs/zerolog"
)

// Handlers contains HTTP handlers for the criteria API.
type Handlers struct {
	log zerolog.Logger
}

// NewHandlers creates criteria handlers.
func NewHandlers(log zerolog.Logger) *Handlers {
	return &Handlers{
		log: log.With().Str("module", "criteria_handlers").Logger(),
	}
}

// ResolveRequest is the body accepted when resolving a weight vector.
type ResolveRequest struct {
	Weights       domain.EvaluationCriteria `json:"weights"`
	FocusAreas    []string                  `json:"focus_areas"`
	CustomWeights domain.EvaluationCriteria `json:"custom_weights"`
}

// HandleDefaults returns the default weight vector.
// GET /api/criteria
func (h *Handlers) HandleDefaults(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(BaseWeights())
}

// HandleResolve resolves and validates a weight vector.
// POST /api/criteria
func (h *Handlers) HandleResolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	weights, err := Resolve(req.Weights, req.FocusAreas, req.CustomWeights)
	if err != nil {
		var verr *WeightValidationError
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

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(weights)
}
