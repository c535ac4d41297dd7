package analysis

import (
	"context"
	"strings"

	"github.com/atlasbio/atlas/internal/clients/ctgov"
	"github.com/atlasbio/atlas/internal/clients/fmp"
	"github.com/atlasbio/atlas/internal/domain"
	"github.com/atlasbio/atlas/internal/modules/analysis/calculators"
	"github.com/rs/zerolog"
)

// ProfileProvider fetches a financial profile for a ticker.
type ProfileProvider interface {
	GetProfile(ctx context.Context, ticker string) (*domain.FinancialProfile, error)
}

// TrialsProvider fetches clinical trials sponsored by a company.
type TrialsProvider interface {
	GetTrialsForCompany(ctx context.Context, companyName string, filters *ctgov.TrialFilters) ([]domain.ClinicalTrial, error)
}

// Assembler builds one CompanyAnalysis from provider data. Provider
// failures degrade to deterministic fallback data; the only fatal
// input is a company with no usable identifier.
type Assembler struct {
	profiles ProfileProvider
	trials   TrialsProvider
	log      zerolog.Logger
}

// NewAssembler creates an analysis assembler.
func NewAssembler(profiles ProfileProvider, trials TrialsProvider, log zerolog.Logger) *Assembler {
	return &Assembler{
		profiles: profiles,
		trials:   trials,
		log:      log.With().Str("module", "analysis_assembler").Logger(),
	}
}

// Analyze assembles the analysis record for one company. Returns
// MissingIdentifierError when the company has neither ticker nor
// name; every other failure is absorbed into fallback data.
func (a *Assembler) Analyze(ctx context.Context, company domain.Company, focusAreas []string, sliders calculators.Sliders) (*domain.CompanyAnalysis, error) {
	ticker := strings.TrimSpace(company.Ticker)
	name := strings.TrimSpace(company.Name)
	if ticker == "" && name == "" {
		return nil, &MissingIdentifierError{CompanyID: company.ID}
	}

	profile := a.fetchProfile(ctx, ticker)
	trials := a.fetchTrials(ctx, name, ticker)

	partnerships := calculators.Partnerships(profile.MarketCap)
	focusFit := calculators.FocusAreaFit(company.DomainTags, focusAreas)
	phaseMix := calculators.TrialPhaseMix(trials)

	return &domain.CompanyAnalysis{
		Company:              company,
		Financial:            profile,
		ClinicalTrials:       trials,
		Partnerships:         partnerships,
		FocusAreaFit:         focusFit,
		TrialPhaseMix:        phaseMix,
		MaturityScore:        calculators.MaturityScore(profile, phaseMix),
		DifferentiationScore: calculators.DifferentiationScore(profile, len(trials), partnerships, focusFit),
		AnalysisScore:        calculators.AnalysisScore(profile, sliders),
	}, nil
}

// fetchProfile returns the provider profile, or the deterministic
// fallback profile when the ticker is empty or the provider fails.
func (a *Assembler) fetchProfile(ctx context.Context, ticker string) domain.FinancialProfile {
	if ticker == "" {
		return fmp.FallbackProfile(ticker)
	}
	profile, err := a.profiles.GetProfile(ctx, ticker)
	if err != nil {
		a.log.Warn().Err(err).Str("ticker", ticker).Msg("Financial provider failed, using fallback profile")
		return fmp.FallbackProfile(ticker)
	}
	return *profile
}

// fetchTrials returns the provider trials, or the fallback set when
// the name is empty or the provider fails.
func (a *Assembler) fetchTrials(ctx context.Context, name, ticker string) []domain.ClinicalTrial {
	if name == "" {
		return ctgov.FallbackTrials(ticker)
	}
	trials, err := a.trials.GetTrialsForCompany(ctx, name, nil)
	if err != nil {
		a.log.Warn().Err(err).Str("company", name).Msg("Trials provider failed, using fallback trials")
		return ctgov.FallbackTrials(ticker)
	}
	return trials
}
