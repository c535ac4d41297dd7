package calculators

import (
	"math"

	"github.com/atlasbio/atlas/internal/domain"
)

// DifferentiationScore estimates a company's technological/competitive
// distinctiveness on a [0,1] scale.
//
// Components:
// - R&D intensity (25%): R&D ratio scaled up, capped
// - Growth rate (20%): CAGR clamped to [0,1], neutral 0.5 when unknown
// - Focus area fit (20%)
// - Trial diversity (15%): trial count against a 5-trial baseline
// - Partnership count (10%): against a 20-partnership baseline
// - Innovation ratio (10%): R&D spend relative to market cap
func DifferentiationScore(p domain.FinancialProfile, trialCount, partnerships int, focusAreaFit float64) float64 {
	score := 0.0
	weight := 0.0

	rdScore := math.Min(1, RDRatio(p)*10)
	score += rdScore * 0.25
	weight += 0.25

	growthScore := 0.5
	if p.CAGR != 0 {
		growthScore = math.Min(1, math.Max(0, p.CAGR))
	}
	score += growthScore * 0.20
	weight += 0.20

	score += focusAreaFit * 0.20
	weight += 0.20

	trialDiversity := 0.0
	if trialCount > 0 {
		trialDiversity = math.Min(1, float64(trialCount)/5)
	}
	score += trialDiversity * 0.15
	weight += 0.15

	partnershipScore := math.Min(1, float64(partnerships)/20)
	score += partnershipScore * 0.10
	weight += 0.10

	innovationScore := 0.0
	if p.MarketCap > 0 {
		innovationScore = math.Min(1, p.RDExpense/p.MarketCap*1000)
	}
	score += innovationScore * 0.10
	weight += 0.10

	if weight == 0 {
		return 0.5
	}
	return math.Min(1, score/weight)
}
