// Package ctgov is a ClinicalTrials.gov v2 API client used as the
// clinical-trials provider.
package ctgov

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/atlasbio/atlas/internal/domain"
)

// TrialFilters narrows a trial lookup. Empty slices mean no filtering.
type TrialFilters struct {
	Phase            []string
	Status           []string
	InterventionType []string
}

// Client is a ClinicalTrials.gov API client
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new ClinicalTrials.gov client
func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("client", "ctgov").Logger(),
	}
}

// GetTrialsForCompany fetches clinical trials sponsored by a company.
func (c *Client) GetTrialsForCompany(ctx context.Context, companyName string, filters *TrialFilters) ([]domain.ClinicalTrial, error) {
	if strings.TrimSpace(companyName) == "" {
		return nil, fmt.Errorf("company name is required")
	}

	params := url.Values{}
	params.Set("query", fmt.Sprintf("sponsor:%q", companyName))
	params.Set("fields", "NCTId,BriefTitle,Phase,EnrollmentCount,LeadSponsorName,OverallStatus")

	reqURL := c.baseURL + "/studies?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trials: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("provider returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Studies []struct {
			Phase           string   `json:"phase"`
			BriefTitle      string   `json:"briefTitle"`
			Interventions   []string `json:"interventions"`
			EnrollmentCount int      `json:"enrollmentCount"`
			OverallStatus   string   `json:"overallStatus"`
			LeadSponsorName string   `json:"leadSponsorName"`
		} `json:"studies"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to parse trials response: %w", err)
	}

	trials := make([]domain.ClinicalTrial, 0, len(payload.Studies))
	for _, s := range payload.Studies {
		trials = append(trials, domain.ClinicalTrial{
			Phase:         s.Phase,
			Title:         s.BriefTitle,
			Interventions: s.Interventions,
			Enrollment:    s.EnrollmentCount,
			Status:        s.OverallStatus,
			Sponsor:       s.LeadSponsorName,
		})
	}

	trials = applyFilters(trials, filters)

	c.log.Info().
		Str("company", companyName).
		Int("count", len(trials)).
		Msg("Fetched clinical trials")

	return trials, nil
}

// applyFilters narrows trials by phase, status and intervention type.
func applyFilters(trials []domain.ClinicalTrial, filters *TrialFilters) []domain.ClinicalTrial {
	if filters == nil {
		return trials
	}

	var out []domain.ClinicalTrial
	for _, trial := range trials {
		if len(filters.Phase) > 0 && !containsFold(filters.Phase, trial.Phase) {
			continue
		}
		if len(filters.Status) > 0 && !containsFold(filters.Status, trial.Status) {
			continue
		}
		if len(filters.InterventionType) > 0 && !intersectsFold(filters.InterventionType, trial.Interventions) {
			continue
		}
		out = append(out, trial)
	}
	return out
}

func containsFold(haystack []string, needle string) bool {
	for _, h := range haystack {
		if strings.EqualFold(h, needle) {
			return true
		}
	}
	return false
}

func intersectsFold(wanted, have []string) bool {
	for _, h := range have {
		if containsFold(wanted, h) {
			return true
		}
	}
	return false
}
