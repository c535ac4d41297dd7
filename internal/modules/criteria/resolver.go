// Package criteria resolves the evaluation weight vector used by the
// ranking pipeline.
package criteria

import (
	"fmt"
	"strings"

	"github.com/atlasbio/atlas/internal/domain"
	"gonum.org/v1/gonum/floats"
)

// weightTolerance is the allowed deviation of the weight sum from 1.0.
const weightTolerance = 0.01

// WeightValidationError reports a weight vector whose sum falls
// outside the accepted tolerance around 1.0.
type WeightValidationError struct {
	Sum float64
}

func (e *WeightValidationError) Error() string {
	return fmt.Sprintf("criteria weights must sum to 1.0, got %.4f", e.Sum)
}

// BaseWeights returns the default evaluation weights.
func BaseWeights() domain.EvaluationCriteria {
	return domain.EvaluationCriteria{
		domain.CriterionCAGR:            0.15,
		domain.CriterionMarketCap:       0.10,
		domain.CriterionEnterpriseValue: 0.10,
		domain.CriterionRDExpense:       0.20,
		domain.CriterionPartnerships:    0.15,
		domain.CriterionFocusAreaFit:    0.20,
		domain.CriterionTrialPhaseMix:   0.10,
	}
}

// DeriveFocusAreaWeight scales the focus-area weight with the number
// of non-empty focus areas, capped at 0.5.
func DeriveFocusAreaWeight(focusAreas []string) float64 {
	count := 0
	for _, area := range focusAreas {
		if strings.TrimSpace(area) != "" {
			count++
		}
	}
	w := 0.1 * float64(count)
	if w > 0.5 {
		return 0.5
	}
	return w
}

// Resolve merges the user-adjusted base weights, the derived
// focus-area weight and any custom named weights into one flat
// vector, then validates it. A non-empty base map is taken as the
// complete slider state; keys it omits carry no weight. An empty base
// map starts from the defaults. The focusAreaFit entry is always
// replaced with the derived value before custom weights merge on top.
// The merged vector is validated as-is; an out-of-tolerance sum is
// rejected, never adjusted.
func Resolve(base domain.EvaluationCriteria, focusAreas []string, custom domain.EvaluationCriteria) (domain.EvaluationCriteria, error) {
	if len(base) == 0 {
		base = BaseWeights()
	}

	weights := make(domain.EvaluationCriteria, len(base)+len(custom))
	for name, w := range base {
		weights[name] = w
	}
	weights[domain.CriterionFocusAreaFit] = DeriveFocusAreaWeight(focusAreas)
	for name, w := range custom {
		weights[name] = w
	}

	for name, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("criterion %q has negative weight %.4f", name, w)
		}
	}
	if err := Validate(weights); err != nil {
		return nil, err
	}
	return weights, nil
}

// Validate checks that the weights sum to 1.0 within tolerance.
func Validate(weights domain.EvaluationCriteria) error {
	values := make([]float64, 0, len(weights))
	for _, w := range weights {
		values = append(values, w)
	}
	sum := floats.Sum(values)
	if sum < 1.0-weightTolerance || sum > 1.0+weightTolerance {
		return &WeightValidationError{Sum: sum}
	}
	return nil
}
