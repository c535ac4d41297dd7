// Package ranking submits analyses to the external ranking backend
// and exports the results.
package ranking

import (
	"context"
	"fmt"

	rankclient "github.com/atlasbio/atlas/internal/clients/ranking"
	"github.com/atlasbio/atlas/internal/domain"
	"github.com/atlasbio/atlas/internal/events"
	"github.com/rs/zerolog"
)

// RankingRequestError reports a failed ranking call for one company.
// The whole batch is abandoned on the first one.
type RankingRequestError struct {
	CompanyName string
	Err         error
}

func (e *RankingRequestError) Error() string {
	return fmt.Sprintf("ranking request failed for %s: %v", e.CompanyName, e.Err)
}

func (e *RankingRequestError) Unwrap() error {
	return e.Err
}

// Ranker is the ranking backend contract.
type Ranker interface {
	Rank(ctx context.Context, req rankclient.RankRequest) (*rankclient.RankResponse, error)
}

// Service ranks a batch of analyses through the backend.
type Service struct {
	client Ranker
	events *events.Manager
	log    zerolog.Logger
}

// NewService creates a ranking service.
func NewService(client Ranker, eventManager *events.Manager, log zerolog.Logger) *Service {
	return &Service{
		client: client,
		events: eventManager,
		log:    log.With().Str("module", "ranking_service").Logger(),
	}
}

// RankBatch submits one request per analysis, strictly in order, and
// returns results in submission order. The first failed request
// aborts the batch; no partial results are returned.
func (s *Service) RankBatch(ctx context.Context, analyses []domain.CompanyAnalysis, criteria domain.EvaluationCriteria) ([]domain.RankingResult, error) {
	results := make([]domain.RankingResult, 0, len(analyses))

	for _, analysis := range analyses {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		maturityWeight := criteria[domain.CriterionTrialPhaseMix]
		if maturityWeight == 0 {
			maturityWeight = 1
		}
		differentiationWeight := criteria[domain.CriterionRDExpense]
		if differentiationWeight == 0 {
			differentiationWeight = 1
		}

		req := rankclient.RankRequest{
			CompanyName: analysis.Company.Name,
			Ticker:      analysis.Company.Ticker,
			UserCriteria: rankclient.UserCriteria{
				Partnerships:  criteria[domain.CriterionPartnerships],
				FocusFitScore: criteria[domain.CriterionFocusAreaFit],
			},
			UserWeights: rankclient.UserWeights{
				Maturity:        maturityWeight,
				Differentiation: differentiationWeight,
			},
		}

		resp, err := s.client.Rank(ctx, req)
		if err != nil {
			s.log.Error().Err(err).Str("company", analysis.Company.Name).Msg("Ranking request failed, abandoning batch")
			s.events.EmitError("ranking", err, map[string]interface{}{
				"company": analysis.Company.Name,
			})
			return nil, &RankingRequestError{CompanyName: analysis.Company.Name, Err: err}
		}

		results = append(results, domain.RankingResult{
			CompanyID:        analysis.Company.ID,
			CompanyName:      analysis.Company.Name,
			XMaturity:        resp.X,
			YDifferentiation: resp.Y,
			Explanation:      resp.Rationale,
			RawScores: domain.RawScores{
				Maturity:        analysis.MaturityScore,
				Differentiation: analysis.DifferentiationScore,
			},
		})
	}

	s.events.Emit(events.RankingBatchComplete, "ranking", map[string]interface{}{
		"ranked": len(results),
	})
	s.log.Info().Int("ranked", len(results)).Msg("Ranking batch finished")
	return results, nil
}
