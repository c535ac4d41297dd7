package calculators

import (
	"math"

	"github.com/atlasbio/atlas/internal/domain"
)

// Sliders are the user-adjustable importance weights for the in-depth
// analysis score, each in the 0-100 range.
type Sliders struct {
	Partnerships           float64 `json:"partnerships"`
	CROCapabilities        float64 `json:"cro_capabilities"`
	CDMOCapabilities       float64 `json:"cdmo_capabilities"`
	CAGR                   float64 `json:"cagr"`
	MarketCap              float64 `json:"market_cap"`
	DilutedEnterpriseValue float64 `json:"diluted_enterprise_value"`
	RDExpense              float64 `json:"rd_expense"`
}

// DefaultSliders returns the neutral slider configuration.
func DefaultSliders() Sliders {
	return Sliders{
		Partnerships:           50,
		CROCapabilities:        50,
		CDMOCapabilities:       50,
		CAGR:                   50,
		MarketCap:              50,
		DilutedEnterpriseValue: 50,
		RDExpense:              50,
	}
}

// AnalysisScore combines per-criterion component scores, each capped at
// 100, weighted by the user's sliders and normalized against the sum of
// applied weights. Returns 0 when the total weight is 0.
func AnalysisScore(p domain.FinancialProfile, s Sliders) float64 {
	score := 0.0
	totalWeight := 0.0

	partnershipsScore := math.Min(100, s.Partnerships)
	score += partnershipsScore * 0.15
	totalWeight += 0.15

	// CRO capability proxy: R&D spend and market cap
	croScore := math.Min(100, p.RDExpense/1e9*50+p.MarketCap/1e10*50)
	score += croScore * (s.CROCapabilities / 100)
	totalWeight += s.CROCapabilities / 100

	// CDMO capability proxy: revenue and headcount
	cdmoScore := math.Min(100, p.Revenue/1e9*60+float64(p.Employees)/1e4*40)
	score += cdmoScore * (s.CDMOCapabilities / 100)
	totalWeight += s.CDMOCapabilities / 100

	cagrScore := 50.0
	if p.CAGR != 0 {
		cagrScore = math.Min(100, math.Max(0, p.CAGR*10))
	}
	score += cagrScore * (s.CAGR / 100)
	totalWeight += s.CAGR / 100

	marketCapScore := math.Min(100, p.MarketCap/1e11*100)
	score += marketCapScore * (s.MarketCap / 100)
	totalWeight += s.MarketCap / 100

	devScore := math.Min(100, p.EnterpriseValue/1e11*100)
	score += devScore * (s.DilutedEnterpriseValue / 100)
	totalWeight += s.DilutedEnterpriseValue / 100

	rdScore := math.Min(100, p.RDExpense/1e9*100)
	score += rdScore * (s.RDExpense / 100)
	totalWeight += s.RDExpense / 100

	if totalWeight == 0 {
		return 0
	}
	return score / totalWeight
}
