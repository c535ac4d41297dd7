package ctgov

import (
	"context"
	"strings"

	"github.com/atlasbio/atlas/internal/domain"
)

// FallbackTrials returns a deterministic placeholder trial set for a
// ticker, used when the provider is unavailable. Unknown tickers get an
// empty list.
func FallbackTrials(ticker string) []domain.ClinicalTrial {
	switch strings.ToUpper(ticker) {
	case "PFE":
		return []domain.ClinicalTrial{
			{Phase: "Phase 3", Title: "COVID-19 Vaccine Study", Interventions: []string{"BNT162b2"}, Enrollment: 44_000, Status: "Completed"},
			{Phase: "Phase 2", Title: "Oncology Drug Trial", Interventions: []string{"PF-07321332"}, Enrollment: 200, Status: "Active"},
			{Phase: "Phase 1", Title: "Cardiovascular Study", Interventions: []string{"PF-06882961"}, Enrollment: 50, Status: "Recruiting"},
			{Phase: "Phase 4", Title: "Post-Market Surveillance", Interventions: []string{"Paxlovid"}, Enrollment: 10_000, Status: "Active"},
		}
	case "MRNA":
		return []domain.ClinicalTrial{
			{Phase: "Phase 3", Title: "mRNA-1273 COVID-19 Vaccine", Interventions: []string{"mRNA-1273"}, Enrollment: 30_000, Status: "Completed"},
			{Phase: "Phase 2", Title: "RSV Vaccine Study", Interventions: []string{"mRNA-1345"}, Enrollment: 1000, Status: "Active"},
			{Phase: "Phase 1", Title: "Influenza Vaccine", Interventions: []string{"mRNA-1010"}, Enrollment: 100, Status: "Recruiting"},
			{Phase: "Phase 1", Title: "Cancer Vaccine", Interventions: []string{"mRNA-4157"}, Enrollment: 20, Status: "Active"},
		}
	case "LLY":
		return []domain.ClinicalTrial{
			{Phase: "Phase 3", Title: "Tirzepatide Diabetes Study", Interventions: []string{"Tirzepatide"}, Enrollment: 5000, Status: "Completed"},
			{Phase: "Phase 2", Title: "Alzheimer's Drug Trial", Interventions: []string{"Donanemab"}, Enrollment: 1200, Status: "Active"},
			{Phase: "Phase 1", Title: "Obesity Treatment Study", Interventions: []string{"Retatrutide"}, Enrollment: 200, Status: "Recruiting"},
			{Phase: "Phase 4", Title: "Trulicity Post-Market Study", Interventions: []string{"Dulaglutide"}, Enrollment: 8000, Status: "Active"},
		}
	case "AZN":
		return []domain.ClinicalTrial{
			{Phase: "Phase 3", Title: "COVID-19 Vaccine Study", Interventions: []string{"AZD1222"}, Enrollment: 32_000, Status: "Completed"},
			{Phase: "Phase 2", Title: "Lung Cancer Treatment", Interventions: []string{"Tagrisso"}, Enrollment: 800, Status: "Active"},
			{Phase: "Phase 1", Title: "Heart Disease Study", Interventions: []string{"Brilinta"}, Enrollment: 150, Status: "Recruiting"},
			{Phase: "Phase 4", Title: "Diabetes Drug Surveillance", Interventions: []string{"Farxiga"}, Enrollment: 5000, Status: "Active"},
		}
	default:
		return []domain.ClinicalTrial{}
	}
}

// StaticProvider serves the fallback trial sets without touching the
// network. Used when MOCK_PROVIDERS is set.
type StaticProvider struct{}

// GetTrialsForCompany returns the placeholder trials keyed by company
// name treated as a ticker, filtered like real provider results.
func (StaticProvider) GetTrialsForCompany(_ context.Context, companyName string, filters *TrialFilters) ([]domain.ClinicalTrial, error) {
	return applyFilters(FallbackTrials(companyName), filters), nil
}
