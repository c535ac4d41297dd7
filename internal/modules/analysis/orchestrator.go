package analysis

import (
	"context"
	"sync"

	"github.com/atlasbio/atlas/internal/domain"
	"github.com/atlasbio/atlas/internal/events"
	"github.com/atlasbio/atlas/internal/modules/analysis/calculators"
	"github.com/rs/zerolog"
)

// Orchestrator runs the assembler over a batch of companies, strictly
// one at a time. Progress is readable concurrently while a run is in
// flight.
type Orchestrator struct {
	assembler *Assembler
	events    *events.Manager
	log       zerolog.Logger

	mu       sync.Mutex
	progress BatchProgress
	analyses []domain.CompanyAnalysis
}

// NewOrchestrator creates a batch orchestrator.
func NewOrchestrator(assembler *Assembler, eventManager *events.Manager, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		assembler: assembler,
		events:    eventManager,
		log:       log.With().Str("module", "analysis_orchestrator").Logger(),
		progress:  BatchProgress{Status: StatusIdle},
	}
}

// Run analyzes every company in order. Companies without a usable
// identifier are skipped and recorded; provider failures never stop
// the batch. The run ends in StatusError only when no company at all
// produced an analysis. Cancellation is honored between companies, so
// analyses already produced survive an abandoned run.
func (o *Orchestrator) Run(ctx context.Context, companies []domain.Company, focusAreas []string, sliders calculators.Sliders) ([]domain.CompanyAnalysis, error) {
	o.mu.Lock()
	o.progress = BatchProgress{Status: StatusRunning, Total: len(companies)}
	o.analyses = nil
	o.mu.Unlock()

	o.log.Info().Int("companies", len(companies)).Msg("Starting batch analysis")
	o.events.Emit(events.AnalysisBatchStart, "analysis", map[string]interface{}{
		"companies": len(companies),
	})

	analyses := make([]domain.CompanyAnalysis, 0, len(companies))
	failures := make([]BatchFailure, 0)

	for i, company := range companies {
		if err := ctx.Err(); err != nil {
			o.log.Warn().Int("processed", i).Msg("Batch analysis cancelled")
			o.finish(analyses, failures)
			return analyses, err
		}

		result, err := o.assembler.Analyze(ctx, company, focusAreas, sliders)
		if err != nil {
			o.log.Warn().Err(err).Str("company_id", company.ID).Msg("Skipping company")
			o.events.Emit(events.CompanySkipped, "analysis", map[string]interface{}{
				"company_id": company.ID,
				"reason":     err.Error(),
			})
			failures = append(failures, BatchFailure{
				CompanyID:   company.ID,
				CompanyName: company.Name,
				Reason:      err.Error(),
			})
		} else {
			analyses = append(analyses, *result)
			o.events.Emit(events.CompanyAnalyzed, "analysis", map[string]interface{}{
				"company_id":     company.ID,
				"maturity":       result.MaturityScore,
				"analysis_score": result.AnalysisScore,
			})
		}

		o.mu.Lock()
		o.progress.Processed = i + 1
		o.progress.Analyzed = len(analyses)
		o.progress.Failures = append([]BatchFailure(nil), failures...)
		o.analyses = append([]domain.CompanyAnalysis(nil), analyses...)
		o.mu.Unlock()
	}

	o.finish(analyses, failures)

	o.log.Info().
		Int("analyzed", len(analyses)).
		Int("skipped", len(failures)).
		Msg("Batch analysis finished")
	o.events.Emit(events.AnalysisBatchComplete, "analysis", map[string]interface{}{
		"analyzed": len(analyses),
		"skipped":  len(failures),
	})

	return analyses, nil
}

// finish settles the terminal status: error only when the whole batch
// produced nothing.
func (o *Orchestrator) finish(analyses []domain.CompanyAnalysis, failures []BatchFailure) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if len(analyses) == 0 {
		o.progress.Status = StatusError
	} else {
		o.progress.Status = StatusCompleted
	}
	o.progress.Analyzed = len(analyses)
	o.progress.Failures = append([]BatchFailure(nil), failures...)
	o.analyses = append([]domain.CompanyAnalysis(nil), analyses...)
}

// Progress returns a snapshot of the current batch state.
func (o *Orchestrator) Progress() BatchProgress {
	o.mu.Lock()
	defer o.mu.Unlock()

	snapshot := o.progress
	snapshot.Failures = append([]BatchFailure(nil), o.progress.Failures...)
	return snapshot
}

// Analyses returns a copy of the analyses from the latest run.
func (o *Orchestrator) Analyses() []domain.CompanyAnalysis {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]domain.CompanyAnalysis(nil), o.analyses...)
}
