// Package chembl is a ChEMBL API client used as the molecule provider.
package chembl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/atlasbio/atlas/internal/domain"
)

// Client is a ChEMBL API client
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new ChEMBL client
func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("client", "chembl").Logger(),
	}
}

// GetMolecule fetches compound data for a ChEMBL compound identifier.
func (c *Client) GetMolecule(ctx context.Context, compoundID string) (*domain.MoleculeData, error) {
	if compoundID == "" {
		return nil, fmt.Errorf("compound id is required")
	}

	reqURL := c.baseURL + "/molecule/" + url.PathEscape(compoundID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch molecule: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("provider returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Targets  []json.RawMessage `json:"targets"`
		MaxPhase int               `json:"max_phase"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to parse molecule response: %w", err)
	}

	return &domain.MoleculeData{
		DistinctTargets:    len(payload.Targets),
		MaxPhaseByMolecule: map[string]int{compoundID: payload.MaxPhase},
	}, nil
}
