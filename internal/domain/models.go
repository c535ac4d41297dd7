package domain

import "time"

// Company represents a company in the research registry.
type Company struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Ticker      string    `json:"ticker"`
	Description string    `json:"description,omitempty"`
	CompanyType string    `json:"company_type,omitempty"`
	DomainTags  []string  `json:"domain_tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FinancialProfile is a snapshot of a company's financial data as returned
// by the financial-data provider. Missing provider fields are zero.
type FinancialProfile struct {
	// Basic company info
	CompanyName string `json:"company_name,omitempty"`
	Sector      string `json:"sector,omitempty"`
	Industry    string `json:"industry,omitempty"`
	Employees   int    `json:"employees"`

	// Market data
	Price         float64 `json:"price"`
	MarketCap     float64 `json:"market_cap"`
	Beta          float64 `json:"beta"`
	Volume        int64   `json:"volume"`
	AverageVolume int64   `json:"average_volume"`

	// Financial metrics
	Revenue    float64 `json:"revenue"`
	NetIncome  float64 `json:"net_income"`
	EPS        float64 `json:"eps"`
	EPSDiluted float64 `json:"eps_diluted"`
	PERatio    float64 `json:"pe_ratio"`

	// Balance sheet
	TotalDebt       float64 `json:"total_debt"`
	Cash            float64 `json:"cash"`
	EnterpriseValue float64 `json:"enterprise_value"`

	// Income statement
	RDExpense       float64 `json:"rd_expense"`
	GrossProfit     float64 `json:"gross_profit"`
	OperatingIncome float64 `json:"operating_income"`
	EBITDA          float64 `json:"ebitda"`
	EBIT            float64 `json:"ebit"`

	// Growth metrics
	CAGR            float64  `json:"cagr"`
	RevenueGrowth   *float64 `json:"revenue_growth,omitempty"`
	NetIncomeGrowth *float64 `json:"net_income_growth,omitempty"`
}

// ClinicalTrial represents one clinical-trial record for a company.
type ClinicalTrial struct {
	Phase         string   `json:"phase"`
	Title         string   `json:"title"`
	Interventions []string `json:"interventions"`
	Enrollment    int      `json:"enrollment"`
	Status        string   `json:"status,omitempty"`
	Sponsor       string   `json:"sponsor,omitempty"`
}

// MoleculeData summarizes compound data from the molecule provider.
type MoleculeData struct {
	DistinctTargets    int            `json:"distinct_targets"`
	MaxPhaseByMolecule map[string]int `json:"max_phase_by_molecule"`
}

// CompanyAnalysis is the assembled per-company analysis record. It is
// computed once per batch run and never mutated in place.
type CompanyAnalysis struct {
	Company              Company          `json:"company"`
	Financial            FinancialProfile `json:"financial"`
	ClinicalTrials       []ClinicalTrial  `json:"clinical_trials"`
	Molecules            *MoleculeData    `json:"molecules,omitempty"`
	Partnerships         int              `json:"partnerships"`
	FocusAreaFit         float64          `json:"focus_area_fit"`
	TrialPhaseMix        float64          `json:"trial_phase_mix"`
	MaturityScore        float64          `json:"maturity_score"`
	DifferentiationScore float64          `json:"differentiation_score"`
	AnalysisScore        float64          `json:"analysis_score"`
}

// EvaluationCriteria is the resolved flat weight vector that drives
// ranking. Weights sum to 1.0 within tolerance.
type EvaluationCriteria map[string]float64

// Standard criterion names.
const (
	CriterionCAGR            = "cagr"
	CriterionMarketCap       = "marketCap"
	CriterionEnterpriseValue = "enterpriseValue"
	CriterionRDExpense       = "rdExpense"
	CriterionPartnerships    = "partnerships"
	CriterionFocusAreaFit    = "focusAreaFit"
	CriterionTrialPhaseMix   = "trialPhaseMix"
)

// RawScores carries the unnormalized maturity/differentiation pair
// returned by the ranking service.
type RawScores struct {
	Maturity        float64 `json:"maturity"`
	Differentiation float64 `json:"differentiation"`
}

// RankingResult is the normalized per-company output of the ranking
// service. Ordering follows submission order, not score order.
type RankingResult struct {
	CompanyID        string    `json:"company_id"`
	CompanyName      string    `json:"company_name"`
	XMaturity        float64   `json:"x_maturity"`
	YDifferentiation float64   `json:"y_differentiation"`
	Explanation      string    `json:"explanation"`
	RawScores        RawScores `json:"raw_scores"`
}

// CompanySearchResult is one hit returned by the financial-data
// provider's free-text search.
type CompanySearchResult struct {
	Symbol            string `json:"symbol"`
	Name              string `json:"name"`
	Exchange          string `json:"exchange,omitempty"`
	ExchangeShortName string `json:"exchangeShortName,omitempty"`
	Type              string `json:"type,omitempty"`
}
