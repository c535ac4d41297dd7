package analysis

import (
	"testing"

	"github.com/atlasbio/atlas/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTable(t *testing.T) {
	analyses := []domain.CompanyAnalysis{
		{
			Company: domain.Company{Name: "Pfizer Inc.", Ticker: "PFE"},
			Financial: domain.FinancialProfile{
				MarketCap: 139_523_397_000,
				Revenue:   63_627_000_000,
				RDExpense: 10_738_000_000,
				Employees: 81_000,
				CAGR:      0.05,
			},
			ClinicalTrials: []domain.ClinicalTrial{{Phase: "Phase 3"}},
			Partnerships:   27,
			FocusAreaFit:   0.5,
			TrialPhaseMix:  0.75,
			MaturityScore:  0.879,
		},
	}

	rows := BuildTable(analyses)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "$139.52B", row.MarketCap)
	assert.Equal(t, "$63.63B", row.Revenue)
	assert.Equal(t, "81,000", row.Employees)
	assert.Equal(t, "5.0%", row.CAGR)
	assert.Equal(t, "27", row.Partnerships)
	assert.Equal(t, "0.750", row.TrialPhaseMix)
	assert.Equal(t, "0.879", row.Maturity)
}

func TestBuildTable_Empty(t *testing.T) {
	rows := BuildTable(nil)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}
