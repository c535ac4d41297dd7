package ranking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	rankclient "github.com/atlasbio/atlas/internal/clients/ranking"
	"github.com/atlasbio/atlas/internal/domain"
	"github.com/atlasbio/atlas/internal/events"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAnalysis(id, name, ticker string, maturity, differentiation float64) domain.CompanyAnalysis {
	return domain.CompanyAnalysis{
		Company:              domain.Company{ID: id, Name: name, Ticker: ticker},
		Partnerships:         25,
		FocusAreaFit:         0.5,
		MaturityScore:        maturity,
		DifferentiationScore: differentiation,
	}
}

func testCriteria() domain.EvaluationCriteria {
	return domain.EvaluationCriteria{
		domain.CriterionPartnerships:  0.15,
		domain.CriterionFocusAreaFit:  0.30,
		domain.CriterionTrialPhaseMix: 0.10,
		domain.CriterionRDExpense:     0.20,
	}
}

func testService(backendURL string) *Service {
	log := zerolog.Nop()
	return NewService(rankclient.NewClient(backendURL, log), events.NewManager(log), log)
}

func TestRankBatch(t *testing.T) {
	var requests []rankclient.RankRequest
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/ranking/company", r.URL.Path)

		var req rankclient.RankRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		requests = append(requests, req)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(rankclient.RankResponse{
			X:         0.7,
			Y:         0.6,
			Rationale: "strong late-stage pipeline",
		})
	}))
	defer backend.Close()

	service := testService(backend.URL)

	analyses := []domain.CompanyAnalysis{
		testAnalysis("PFE-1", "Pfizer", "PFE", 0.879, 0.55),
		testAnalysis("MRNA-1", "Moderna", "MRNA", 0.42, 0.81),
	}
	results, err := service.RankBatch(context.Background(), analyses, testCriteria())
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Submission order is preserved.
	assert.Equal(t, "Pfizer", results[0].CompanyName)
	assert.Equal(t, "Moderna", results[1].CompanyName)
	assert.InDelta(t, 0.7, results[0].XMaturity, 1e-9)
	assert.InDelta(t, 0.879, results[0].RawScores.Maturity, 1e-9)

	// Request payload carries the resolved criteria weights.
	require.Len(t, requests, 2)
	assert.InDelta(t, 0.15, requests[0].UserCriteria.Partnerships, 1e-9)
	assert.InDelta(t, 0.30, requests[0].UserCriteria.FocusFitScore, 1e-9)
	assert.InDelta(t, 0.10, requests[0].UserWeights.Maturity, 1e-9)
	assert.InDelta(t, 0.20, requests[0].UserWeights.Differentiation, 1e-9)
}

func TestRankBatch_ZeroWeightsDefaultToOne(t *testing.T) {
	var req rankclient.RankRequest
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		_ = json.NewEncoder(w).Encode(rankclient.RankResponse{X: 0.5, Y: 0.5})
	}))
	defer backend.Close()

	service := testService(backend.URL)

	analyses := []domain.CompanyAnalysis{testAnalysis("PFE-1", "Pfizer", "PFE", 0.8, 0.5)}
	_, err := service.RankBatch(context.Background(), analyses, domain.EvaluationCriteria{})
	require.NoError(t, err)

	assert.InDelta(t, 0, req.UserCriteria.Partnerships, 1e-9)
	assert.InDelta(t, 0, req.UserCriteria.FocusFitScore, 1e-9)
	assert.InDelta(t, 1, req.UserWeights.Maturity, 1e-9)
	assert.InDelta(t, 1, req.UserWeights.Differentiation, 1e-9)
}

func TestRankBatch_AbortsOnFirstFailure(t *testing.T) {
	var calls int
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 2 {
			http.Error(w, "model error", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(rankclient.RankResponse{X: 0.5, Y: 0.5})
	}))
	defer backend.Close()

	service := testService(backend.URL)

	analyses := []domain.CompanyAnalysis{
		testAnalysis("PFE-1", "Pfizer", "PFE", 0.8, 0.5),
		testAnalysis("MRNA-1", "Moderna", "MRNA", 0.4, 0.8),
		testAnalysis("GILD-1", "Gilead", "GILD", 0.6, 0.4),
	}
	results, err := service.RankBatch(context.Background(), analyses, testCriteria())

	require.Error(t, err)
	var rerr *RankingRequestError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "Moderna", rerr.CompanyName)
	assert.Nil(t, results, "no partial results on failure")
	assert.Equal(t, 2, calls, "batch stops at the failed company")
}

func TestExportCSV(t *testing.T) {
	results := []domain.RankingResult{
		{
			CompanyName:      "Pfizer",
			XMaturity:        0.879,
			YDifferentiation: 0.55,
			Explanation:      "late-stage pipeline, strong revenue",
			RawScores:        domain.RawScores{Maturity: 0.8791, Differentiation: 0.5503},
		},
		{
			CompanyName:      "Moderna",
			XMaturity:        0.42,
			YDifferentiation: 0.81,
			Explanation:      `high R&D intensity, "platform" play`,
			RawScores:        domain.RawScores{Maturity: 0.4199, Differentiation: 0.8102},
		},
	}

	out := ExportCSV(results)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3, "header plus one row per result")

	assert.Equal(t, "Company,Maturity (X),Tech Differentiation (Y),Explanation,Raw Maturity,Raw Differentiation", lines[0])
	assert.Equal(t, `"Pfizer",0.879,0.550,"late-stage pipeline, strong revenue",0.879,0.550`, lines[1])
	assert.Equal(t, `"Moderna",0.420,0.810,"high R&D intensity, ""platform"" play",0.420,0.810`, lines[2])
}
