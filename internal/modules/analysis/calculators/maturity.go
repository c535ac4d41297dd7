package calculators

import (
	"math"

	"github.com/atlasbio/atlas/internal/domain"
)

// MaturityScore estimates a company's commercial/clinical development
// stage on a [0,1] scale.
//
// Components:
// - Revenue stability (20%): log-scaled revenue, capped at $1T
// - Market cap (20%): log-scaled, same cap
// - Employee count (15%): log-scaled
// - R&D ratio sweet spot (15%): peaks at 15% of revenue
// - Trial phase mix (15%): later phases indicate maturity
// - Profitability (15%): binary indicator
func MaturityScore(p domain.FinancialProfile, trialPhaseMix float64) float64 {
	score := 0.0
	weight := 0.0

	revenueScore := math.Min(1, math.Log10(p.Revenue+1)/12)
	score += revenueScore * 0.20
	weight += 0.20

	marketCapScore := math.Min(1, math.Log10(p.MarketCap+1)/12)
	score += marketCapScore * 0.20
	weight += 0.20

	employeeScore := math.Min(1, math.Log10(float64(p.Employees)+1)/6)
	score += employeeScore * 0.15
	weight += 0.15

	// Lower R&D share of revenue reads as mature, but not too low
	rdRatio := RDRatio(p)
	rdScore := 0.5
	if rdRatio > 0 {
		rdScore = math.Max(0, 1-math.Abs(rdRatio-0.15)*5)
	}
	score += rdScore * 0.15
	weight += 0.15

	score += trialPhaseMix * 0.15
	weight += 0.15

	profitScore := 0.0
	if p.NetIncome > 0 {
		profitScore = 1
	}
	score += profitScore * 0.15
	weight += 0.15

	if weight == 0 {
		return 0.5
	}
	return math.Min(1, score/weight)
}
