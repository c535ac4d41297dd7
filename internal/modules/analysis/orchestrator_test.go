package analysis

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/atlasbio/atlas/internal/clients/ctgov"
	"github.com/atlasbio/atlas/internal/domain"
	"github.com/atlasbio/atlas/internal/events"
	"github.com/atlasbio/atlas/internal/modules/analysis/calculators"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProfiles struct {
	failFor  map[string]bool
	profiles map[string]domain.FinancialProfile
	calls    []string
}

func (f *fakeProfiles) GetProfile(ctx context.Context, ticker string) (*domain.FinancialProfile, error) {
	f.calls = append(f.calls, ticker)
	if f.failFor[ticker] {
		return nil, errors.New("provider unavailable")
	}
	if p, ok := f.profiles[ticker]; ok {
		return &p, nil
	}
	return nil, errors.New("unknown ticker")
}

type fakeTrials struct {
	trials map[string][]domain.ClinicalTrial
	err    error
}

func (f *fakeTrials) GetTrialsForCompany(ctx context.Context, companyName string, filters *ctgov.TrialFilters) ([]domain.ClinicalTrial, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.trials[companyName], nil
}

func testCompany(name, ticker string) domain.Company {
	return domain.Company{ID: fmt.Sprintf("%s-1", ticker), Name: name, Ticker: ticker}
}

func newTestOrchestrator(profiles ProfileProvider, trials TrialsProvider) *Orchestrator {
	assembler := NewAssembler(profiles, trials, zerolog.Nop())
	return NewOrchestrator(assembler, events.NewManager(zerolog.Nop()), zerolog.Nop())
}

func TestAssembler_MissingIdentifier(t *testing.T) {
	assembler := NewAssembler(&fakeProfiles{}, &fakeTrials{}, zerolog.Nop())

	_, err := assembler.Analyze(context.Background(), domain.Company{ID: "X-1"}, nil, calculators.DefaultSliders())

	var missing *MissingIdentifierError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "X-1", missing.CompanyID)
}

func TestAssembler_ProviderFailureFallsBack(t *testing.T) {
	profiles := &fakeProfiles{failFor: map[string]bool{"PFE": true}}
	assembler := NewAssembler(profiles, &fakeTrials{err: errors.New("down")}, zerolog.Nop())

	result, err := assembler.Analyze(context.Background(), testCompany("Pfizer", "PFE"), nil, calculators.DefaultSliders())
	require.NoError(t, err)

	assert.Greater(t, result.Financial.Revenue, 0.0, "fallback profile should carry data")
	assert.NotEmpty(t, result.ClinicalTrials, "fallback trials exist for PFE")
	assert.GreaterOrEqual(t, result.MaturityScore, 0.0)
	assert.LessOrEqual(t, result.MaturityScore, 1.0)
}

func TestOrchestrator_ProviderFailureDoesNotFailBatch(t *testing.T) {
	// Three companies, financial provider down for the second one.
	profiles := &fakeProfiles{
		failFor: map[string]bool{"MRNA": true},
		profiles: map[string]domain.FinancialProfile{
			"PFE":  {MarketCap: 139_523_397_000, Revenue: 63_627_000_000, RDExpense: 10_738_000_000},
			"GILD": {MarketCap: 80_000_000_000, Revenue: 27_000_000_000, RDExpense: 5_000_000_000},
		},
	}
	orch := newTestOrchestrator(profiles, &fakeTrials{})

	companies := []domain.Company{
		testCompany("Pfizer", "PFE"),
		testCompany("Moderna", "MRNA"),
		testCompany("Gilead", "GILD"),
	}
	analyses, err := orch.Run(context.Background(), companies, nil, calculators.DefaultSliders())
	require.NoError(t, err)

	assert.Len(t, analyses, 3, "fallback data keeps the failed company in the batch")
	progress := orch.Progress()
	assert.Equal(t, StatusCompleted, progress.Status)
	assert.Empty(t, progress.Failures)
	assert.Equal(t, 3, progress.Processed)
}

func TestOrchestrator_SkipsCompanyWithoutIdentifier(t *testing.T) {
	profiles := &fakeProfiles{profiles: map[string]domain.FinancialProfile{
		"PFE": {MarketCap: 1e11, Revenue: 1e10},
	}}
	orch := newTestOrchestrator(profiles, &fakeTrials{})

	companies := []domain.Company{
		testCompany("Pfizer", "PFE"),
		{ID: "GHOST-1"},
	}
	analyses, err := orch.Run(context.Background(), companies, nil, calculators.DefaultSliders())
	require.NoError(t, err)

	assert.Len(t, analyses, 1)
	progress := orch.Progress()
	assert.Equal(t, StatusCompleted, progress.Status)
	require.Len(t, progress.Failures, 1)
	assert.Equal(t, "GHOST-1", progress.Failures[0].CompanyID)
}

func TestOrchestrator_ErrorWhenNothingAnalyzed(t *testing.T) {
	orch := newTestOrchestrator(&fakeProfiles{}, &fakeTrials{})

	analyses, err := orch.Run(context.Background(), []domain.Company{{ID: "A-1"}, {ID: "B-1"}}, nil, calculators.DefaultSliders())
	require.NoError(t, err)

	assert.Empty(t, analyses)
	assert.Equal(t, StatusError, orch.Progress().Status)
}

func TestOrchestrator_SequentialOrder(t *testing.T) {
	profiles := &fakeProfiles{profiles: map[string]domain.FinancialProfile{
		"PFE":  {MarketCap: 1e11},
		"MRNA": {MarketCap: 5e10},
		"GILD": {MarketCap: 8e10},
	}}
	orch := newTestOrchestrator(profiles, &fakeTrials{})

	companies := []domain.Company{
		testCompany("Pfizer", "PFE"),
		testCompany("Moderna", "MRNA"),
		testCompany("Gilead", "GILD"),
	}
	analyses, err := orch.Run(context.Background(), companies, nil, calculators.DefaultSliders())
	require.NoError(t, err)

	assert.Equal(t, []string{"PFE", "MRNA", "GILD"}, profiles.calls, "providers are called one at a time in input order")
	require.Len(t, analyses, 3)
	assert.Equal(t, "PFE", analyses[0].Company.Ticker)
	assert.Equal(t, "GILD", analyses[2].Company.Ticker)
}

func TestOrchestrator_CancellationStopsBetweenCompanies(t *testing.T) {
	profiles := &fakeProfiles{profiles: map[string]domain.FinancialProfile{
		"PFE": {MarketCap: 1e11},
	}}
	orch := newTestOrchestrator(profiles, &fakeTrials{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	analyses, err := orch.Run(ctx, []domain.Company{testCompany("Pfizer", "PFE")}, nil, calculators.DefaultSliders())
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, analyses)
	assert.Empty(t, profiles.calls, "no provider call after cancellation")
}
