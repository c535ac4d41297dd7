package analysis

import (
	"github.com/atlasbio/atlas/internal/domain"
	"github.com/atlasbio/atlas/pkg/formatters"
)

// TableRow is one formatted comparison-table row.
type TableRow struct {
	Company         string `json:"company"`
	Ticker          string `json:"ticker"`
	MarketCap       string `json:"market_cap"`
	Revenue         string `json:"revenue"`
	RDExpense       string `json:"rd_expense"`
	EnterpriseValue string `json:"enterprise_value"`
	Employees       string `json:"employees"`
	CAGR            string `json:"cagr"`
	TrialCount      string `json:"trial_count"`
	Partnerships    string `json:"partnerships"`
	FocusAreaFit    string `json:"focus_area_fit"`
	TrialPhaseMix   string `json:"trial_phase_mix"`
	Maturity        string `json:"maturity"`
	Differentiation string `json:"differentiation"`
	AnalysisScore   string `json:"analysis_score"`
}

// BuildTable renders analyses as display-ready rows, one per company
// in batch order.
func BuildTable(analyses []domain.CompanyAnalysis) []TableRow {
	rows := make([]TableRow, 0, len(analyses))
	for _, a := range analyses {
		rows = append(rows, TableRow{
			Company:         a.Company.Name,
			Ticker:          a.Company.Ticker,
			MarketCap:       formatters.Currency(a.Financial.MarketCap),
			Revenue:         formatters.Currency(a.Financial.Revenue),
			RDExpense:       formatters.Currency(a.Financial.RDExpense),
			EnterpriseValue: formatters.Currency(a.Financial.EnterpriseValue),
			Employees:       formatters.Count(a.Financial.Employees),
			CAGR:            formatters.Percentage(a.Financial.CAGR * 100),
			TrialCount:      formatters.Count(len(a.ClinicalTrials)),
			Partnerships:    formatters.Count(a.Partnerships),
			FocusAreaFit:    formatters.Score3(a.FocusAreaFit),
			TrialPhaseMix:   formatters.Score3(a.TrialPhaseMix),
			Maturity:        formatters.Score3(a.MaturityScore),
			Differentiation: formatters.Score3(a.DifferentiationScore),
			AnalysisScore:   formatters.Score3(a.AnalysisScore),
		})
	}
	return rows
}
