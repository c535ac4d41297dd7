// Package calculators holds the pure score arithmetic applied to a
// company's financial profile and clinical-trial records. All functions
// are deterministic and side-effect free; missing numeric inputs are
// treated as zero.
package calculators

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/atlasbio/atlas/internal/domain"
)

var phasePattern = regexp.MustCompile(`Phase (\d+)|PHASE(\d+)`)

// FocusAreaFit scores the overlap between a company's domain tags and the
// user's focus areas. Returns 0.5 when the company declares no tags
// (neutral default) and 0 when no focus areas are given.
func FocusAreaFit(domainTags, focusAreas []string) float64 {
	if len(domainTags) == 0 {
		return 0.5
	}
	if len(focusAreas) == 0 {
		return 0
	}

	matches := 0
	for _, tag := range domainTags {
		lowered := strings.ToLower(tag)
		for _, area := range focusAreas {
			if strings.Contains(lowered, strings.ToLower(area)) {
				matches++
				break
			}
		}
	}

	return math.Min(1, float64(matches)/float64(len(focusAreas)))
}

// TrialPhaseMix returns the average clinical-trial phase normalized to
// [0,1]. Phase is parsed from the record's phase string; unmatched phases
// weigh 1 (Phase 1 equivalent). Returns 0 when there are no trials.
func TrialPhaseMix(trials []domain.ClinicalTrial) float64 {
	if len(trials) == 0 {
		return 0
	}

	weights := make([]float64, len(trials))
	for i, trial := range trials {
		weights[i] = float64(phaseWeight(trial.Phase))
	}

	return stat.Mean(weights, nil) / 4
}

// phaseWeight extracts the phase number from a phase string, defaulting
// to 1 when the string does not match or names a phase outside 1-4.
func phaseWeight(phase string) int {
	m := phasePattern.FindStringSubmatch(phase)
	if m == nil {
		return 1
	}

	digits := m[1]
	if digits == "" {
		digits = m[2]
	}

	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 || n > 4 {
		return 1
	}
	return n
}

// RDRatio returns R&D expense as a fraction of revenue, guarding against
// division by zero.
func RDRatio(p domain.FinancialProfile) float64 {
	if p.Revenue <= 0 {
		return 0
	}
	return p.RDExpense / p.Revenue
}

// Partnerships estimates a partnership count from market capitalization:
// larger companies carry more collaborations.
func Partnerships(marketCap float64) int {
	if marketCap <= 0 {
		return 0
	}
	return int(math.Floor(math.Log10(marketCap)*2)) + 5
}
