// Package ranking is an HTTP client for the external analysis backend
// that scores companies on the maturity/differentiation plane.
package ranking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Client communicates with the ranking service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a new ranking service client.
func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second, // Ranking can take time
		},
		log: log.With().Str("client", "ranking").Logger(),
	}
}

// UserCriteria carries the criterion values forwarded to the service.
type UserCriteria struct {
	Partnerships  float64 `json:"partnerships"`
	FocusFitScore float64 `json:"focusFitScore"`
}

// UserWeights carries the axis weighting hints forwarded to the service.
type UserWeights struct {
	Maturity        float64 `json:"maturity"`
	Differentiation float64 `json:"differentiation"`
}

// RankRequest is the request payload for a single-company ranking.
type RankRequest struct {
	CompanyName  string       `json:"company_name"`
	Ticker       string       `json:"ticker"`
	UserCriteria UserCriteria `json:"user_criteria"`
	UserWeights  UserWeights  `json:"user_weights"`
}

// RankResponse is the two-dimensional score returned by the service.
type RankResponse struct {
	X         float64 `json:"x"` // Maturity (0-1)
	Y         float64 `json:"y"` // Differentiation (0-1)
	Rationale string  `json:"rationale"`
}

// Rank submits one company for ranking and returns the normalized
// response. One request, one response; callers drive sequencing.
func (c *Client) Rank(ctx context.Context, req RankRequest) (*RankResponse, error) {
	if req.CompanyName == "" {
		return nil, fmt.Errorf("company name is required")
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/ranking/company", c.baseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	c.log.Debug().
		Str("company", req.CompanyName).
		Msg("Sending ranking request")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ranking service returned status %d: %s", resp.StatusCode, string(body))
	}

	var response RankResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.log.Info().
		Str("company", req.CompanyName).
		Float64("x", response.X).
		Float64("y", response.Y).
		Float64("elapsed_seconds", time.Since(start).Seconds()).
		Msg("Ranking complete")

	return &response, nil
}
