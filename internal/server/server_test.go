package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasbio/atlas/internal/clients/chembl"
	"github.com/atlasbio/atlas/internal/clients/ctgov"
	"github.com/atlasbio/atlas/internal/clients/fmp"
	rankclient "github.com/atlasbio/atlas/internal/clients/ranking"
	"github.com/atlasbio/atlas/internal/database"
	"github.com/atlasbio/atlas/internal/events"
	"github.com/atlasbio/atlas/internal/modules/analysis"
	"github.com/atlasbio/atlas/internal/modules/companies"
	"github.com/atlasbio/atlas/internal/modules/criteria"
	"github.com/atlasbio/atlas/internal/modules/ranking"
	"github.com/atlasbio/atlas/internal/modules/sessions"
)

// newTestServer wires the whole stack against an in-memory database.
// Provider URLs point at a dead endpoint, so analysis runs exercise
// the fallback path; the ranking backend is a live httptest server.
func newTestServer(t *testing.T) (http.Handler, *companies.Repository) {
	t.Helper()

	db, err := database.NewInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	deadProvider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	t.Cleanup(deadProvider.Close)

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(rankclient.RankResponse{X: 0.7, Y: 0.6, Rationale: "ok"})
	}))
	t.Cleanup(backend.Close)

	log := zerolog.Nop()

	companyRepo := companies.NewRepository(db.Conn())
	require.NoError(t, companyRepo.InitSchema())

	sessionRepo := sessions.NewRepository(db.Conn())
	require.NoError(t, sessionRepo.InitSchema())

	fmpClient := fmp.NewClient(deadProvider.URL, "", log)
	ctgovClient := ctgov.NewClient(deadProvider.URL, log)

	eventManager := events.NewManager(log)
	assembler := analysis.NewAssembler(fmpClient, ctgovClient, log)
	orchestrator := analysis.NewOrchestrator(assembler, eventManager, log)
	rankingService := ranking.NewService(rankclient.NewClient(backend.URL, log), eventManager, log)

	srv := New(Config{
		Port:    0,
		Log:     log,
		DevMode: true,

		FMPClient:    fmpClient,
		CTGovClient:  ctgovClient,
		ChEMBLClient: chembl.NewClient(deadProvider.URL, log),

		CompanyHandlers:  companies.NewHandlers(companyRepo, eventManager, log),
		AnalysisHandlers: analysis.NewHandlers(orchestrator, companyRepo, log),
		CriteriaHandlers: criteria.NewHandlers(log),
		RankingHandlers:  ranking.NewHandlers(rankingService, orchestrator, log),
		SessionHandlers:  sessions.NewHandlers(sessionRepo, eventManager, log),
	})
	return srv.Router(), companyRepo
}

func TestHealth(t *testing.T) {
	router, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestAnalysisAndRankingFlow(t *testing.T) {
	router, companyRepo := newTestServer(t)

	_, err := companyRepo.Create(companies.CreateInput{Name: "Pfizer", Ticker: "PFE"})
	require.NoError(t, err)
	_, err = companyRepo.Create(companies.CreateInput{Name: "Moderna", Ticker: "MRNA"})
	require.NoError(t, err)

	// Run the batch; dead providers mean every company uses fallback data.
	req := httptest.NewRequest(http.MethodPost, "/api/analysis/run", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var runResp analysis.RunResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runResp))
	assert.Len(t, runResp.Analyses, 2)
	assert.Equal(t, analysis.StatusCompleted, runResp.Progress.Status)

	// Rank on defaults; two focus areas keep the derived focus weight
	// at the default 0.20 so the vector sums to 1.0.
	req = httptest.NewRequest(http.MethodPost, "/api/ranking/run",
		strings.NewReader(`{"focus_areas":["oncology","vaccines"]}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Export the results.
	req = httptest.NewRequest(http.MethodGet, "/api/ranking/export.csv", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))

	lines := strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n")
	assert.Len(t, lines, 3)
}

func TestSearchRequiresTwoCharacters(t *testing.T) {
	router, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/finance/search?q=a", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCriteriaDefaults(t *testing.T) {
	router, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/criteria/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var weights map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &weights))
	assert.InDelta(t, 0.20, weights["rdExpense"], 1e-9)
}

func TestWriteTimeoutOutlastsBatchTimeout(t *testing.T) {
	srv := New(Config{Port: 0, Log: zerolog.Nop(), DevMode: true})

	// Sequential batch runs hold the connection for up to the 120s
	// route timeout; the write timeout must not cut them off earlier.
	assert.Greater(t, srv.server.WriteTimeout, 120*time.Second)
}

func TestRankingWithoutAnalyses(t *testing.T) {
	router, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/ranking/run", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)
}
