package calculators

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atlasbio/atlas/internal/domain"
)

func TestFocusAreaFit(t *testing.T) {
	tests := []struct {
		name       string
		domainTags []string
		focusAreas []string
		want       float64
	}{
		{
			name:       "full overlap",
			domainTags: []string{"Oncology", "Cardiovascular"},
			focusAreas: []string{"oncology"},
			want:       1.0,
		},
		{
			name:       "partial overlap",
			domainTags: []string{"Oncology", "Neuroscience"},
			focusAreas: []string{"oncology", "vaccines"},
			want:       0.5,
		},
		{
			name:       "case insensitive substring match",
			domainTags: []string{"Infectious Disease Vaccines"},
			focusAreas: []string{"VACCINES", "rare-diseases"},
			want:       0.5,
		},
		{
			name:       "no overlap",
			domainTags: []string{"Consumer Electronics"},
			focusAreas: []string{"oncology", "vaccines"},
			want:       0,
		},
		{
			name:       "empty tags gets neutral default",
			domainTags: nil,
			focusAreas: []string{"oncology"},
			want:       0.5,
		},
		{
			name:       "empty focus areas",
			domainTags: []string{"Oncology"},
			focusAreas: nil,
			want:       0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FocusAreaFit(tt.domainTags, tt.focusAreas))
		})
	}
}

func TestFocusAreaFit_Bounded(t *testing.T) {
	// More matching tags than focus areas must not push the score past 1
	tags := []string{"Oncology", "Oncology Research", "Precision Oncology"}
	got := FocusAreaFit(tags, []string{"oncology"})
	assert.GreaterOrEqual(t, got, 0.0)
	assert.LessOrEqual(t, got, 1.0)
}

func TestTrialPhaseMix(t *testing.T) {
	tests := []struct {
		name   string
		phases []string
		want   float64
	}{
		{"no trials", nil, 0},
		{"single phase 3", []string{"Phase 3"}, 0.75},
		{"uppercase token", []string{"PHASE2"}, 0.5},
		{"mixed phases", []string{"Phase 1", "Phase 2", "Phase 3", "Phase 4"}, 0.625},
		{"unmatched defaults to phase 1", []string{"Early Feasibility"}, 0.25},
		{"out of range defaults to phase 1", []string{"Phase 9"}, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trials := make([]domain.ClinicalTrial, len(tt.phases))
			for i, p := range tt.phases {
				trials[i] = domain.ClinicalTrial{Phase: p, Title: "t"}
			}
			assert.InDelta(t, tt.want, TrialPhaseMix(trials), 1e-9)
		})
	}
}

func TestRDRatio(t *testing.T) {
	assert.Equal(t, 0.0, RDRatio(domain.FinancialProfile{Revenue: 0, RDExpense: 1e9}))

	p := domain.FinancialProfile{Revenue: 63_627_000_000, RDExpense: 11_400_000_000}
	assert.InDelta(t, 0.179, RDRatio(p), 0.001)
}

func TestPartnerships(t *testing.T) {
	assert.Equal(t, 0, Partnerships(0))
	assert.Equal(t, 0, Partnerships(-1))
	// log10(1e10)*2 + 5
	assert.Equal(t, 25, Partnerships(1e10))
	assert.Equal(t, 27, Partnerships(139_523_397_000))
}

func TestMaturityScore(t *testing.T) {
	pfe := domain.FinancialProfile{
		Revenue:   63_627_000_000,
		MarketCap: 139_523_397_000,
		Employees: 81_000,
		RDExpense: 11_400_000_000,
		NetIncome: 8_020_000_000,
	}
	assert.InDelta(t, 0.879, MaturityScore(pfe, 0.75), 0.001)
}

func TestMaturityScore_Clamped(t *testing.T) {
	tests := []struct {
		name string
		p    domain.FinancialProfile
		mix  float64
	}{
		{"zero profile", domain.FinancialProfile{}, 0},
		{"unbounded inputs", domain.FinancialProfile{
			Revenue:   1e15,
			MarketCap: 1e15,
			Employees: 10_000_000,
			RDExpense: 1.5e14,
			NetIncome: 1e14,
		}, 1},
		{"negative income", domain.FinancialProfile{
			Revenue:   13_140_000_000,
			MarketCap: 18_265_000_000,
			Employees: 4000,
			RDExpense: 4_200_000_000,
			NetIncome: -4_723_000_000,
		}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MaturityScore(tt.p, tt.mix)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestDifferentiationScore_Clamped(t *testing.T) {
	tests := []struct {
		name         string
		p            domain.FinancialProfile
		trials       int
		partnerships int
		focusFit     float64
	}{
		{"zero profile", domain.FinancialProfile{}, 0, 0, 0},
		{"unbounded inputs", domain.FinancialProfile{
			Revenue:   1e9,
			MarketCap: 1e9,
			RDExpense: 1e12,
			CAGR:      50,
		}, 100, 1000, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DifferentiationScore(tt.p, tt.trials, tt.partnerships, tt.focusFit)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestDifferentiationScore_NeutralGrowthDefault(t *testing.T) {
	// Unknown CAGR scores as the neutral midpoint
	unknown := domain.FinancialProfile{Revenue: 1e10, MarketCap: 1e10, RDExpense: 1e9}
	explicit := unknown
	explicit.CAGR = 0.5

	assert.InDelta(t,
		DifferentiationScore(explicit, 4, 10, 0.5),
		DifferentiationScore(unknown, 4, 10, 0.5),
		1e-9)
}

func TestAnalysisScore(t *testing.T) {
	p := domain.FinancialProfile{
		Revenue:         63_627_000_000,
		MarketCap:       139_523_397_000,
		Employees:       81_000,
		RDExpense:       11_400_000_000,
		EnterpriseValue: 191_000_000_000,
		CAGR:            0.08,
	}

	got := AnalysisScore(p, DefaultSliders())
	assert.Greater(t, got, 0.0)
	assert.LessOrEqual(t, got, 100.0)
}

func TestAnalysisScore_ZeroProfile(t *testing.T) {
	got := AnalysisScore(domain.FinancialProfile{}, DefaultSliders())
	// Partnerships and the neutral CAGR default still contribute
	assert.InDelta(t, 32.5/3.15, got, 0.001)
}
