package fmp

import (
	"context"
	"strings"

	"github.com/atlasbio/atlas/internal/domain"
)

// FallbackProfile returns a deterministic placeholder profile for a ticker,
// used when the provider is unavailable so an analysis run always produces
// a result.
func FallbackProfile(ticker string) domain.FinancialProfile {
	switch strings.ToUpper(ticker) {
	case "PFE":
		return domain.FinancialProfile{
			CompanyName:     "Pfizer Inc.",
			Sector:          "Healthcare",
			Industry:        "Drug Manufacturers - General",
			Employees:       81_000,
			Price:           24.54,
			MarketCap:       139_523_397_000,
			Beta:            0.44,
			Volume:          40_849_330,
			AverageVolume:   40_776_300,
			Revenue:         63_627_000_000,
			NetIncome:       8_020_000_000,
			EPS:             1.42,
			EPSDiluted:      1.41,
			PERatio:         17.31,
			TotalDebt:       63_649_000_000,
			Cash:            1_043_000_000,
			EnterpriseValue: 202_129_397_000,
			RDExpense:       10_738_000_000,
			GrossProfit:     41_846_000_000,
			OperatingIncome: 16_483_000_000,
			EBITDA:          18_127_000_000,
			EBIT:            11_114_000_000,
			CAGR:            0.08,
		}
	case "JNJ":
		return domain.FinancialProfile{
			CompanyName:     "Johnson & Johnson",
			Sector:          "Healthcare",
			Industry:        "Drug Manufacturers - General",
			Employees:       152_700,
			Price:           156.78,
			MarketCap:       413_000_000_000,
			Beta:            0.65,
			Volume:          8_500_000,
			AverageVolume:   8_500_000,
			Revenue:         94_943_000_000,
			NetIncome:       17_740_000_000,
			EPS:             6.73,
			EPSDiluted:      6.73,
			PERatio:         23.28,
			TotalDebt:       32_000_000_000,
			Cash:            25_000_000_000,
			EnterpriseValue: 420_000_000_000,
			RDExpense:       14_600_000_000,
			GrossProfit:     65_000_000_000,
			OperatingIncome: 25_000_000_000,
			EBITDA:          30_000_000_000,
			EBIT:            25_000_000_000,
			CAGR:            0.05,
		}
	case "MRNA":
		return domain.FinancialProfile{
			CompanyName:     "Moderna Inc.",
			Sector:          "Healthcare",
			Industry:        "Biotechnology",
			Employees:       4000,
			Price:           48.12,
			MarketCap:       18_265_000_000,
			Beta:            1.85,
			Volume:          12_500_000,
			AverageVolume:   15_800_000,
			Revenue:         13_140_000_000,
			NetIncome:       -4_723_000_000,
			EPS:             -12.45,
			EPSDiluted:      -12.45,
			PERatio:         -3.87,
			TotalDebt:       1_230_000_000,
			Cash:            7_500_000_000,
			EnterpriseValue: 11_995_000_000,
			RDExpense:       4_200_000_000,
			GrossProfit:     10_200_000_000,
			OperatingIncome: -3_850_000_000,
			EBITDA:          -3_200_000_000,
			EBIT:            -4_100_000_000,
			CAGR:            0.25,
		}
	case "GILD":
		return domain.FinancialProfile{
			CompanyName:     "Gilead Sciences Inc.",
			Sector:          "Healthcare",
			Industry:        "Biotechnology",
			Employees:       14_000,
			Price:           67.23,
			MarketCap:       85_000_000_000,
			Beta:            0.75,
			Volume:          6_000_000,
			AverageVolume:   6_000_000,
			Revenue:         27_000_000_000,
			NetIncome:       5_000_000_000,
			EPS:             3.95,
			EPSDiluted:      3.95,
			PERatio:         17.02,
			TotalDebt:       22_000_000_000,
			Cash:            8_000_000_000,
			EnterpriseValue: 99_000_000_000,
			RDExpense:       5_000_000_000,
			GrossProfit:     22_000_000_000,
			OperatingIncome: 8_000_000_000,
			EBITDA:          10_000_000_000,
			EBIT:            8_000_000_000,
			CAGR:            0.12,
		}
	case "AMGN":
		return domain.FinancialProfile{
			CompanyName:     "Amgen Inc.",
			Sector:          "Healthcare",
			Industry:        "Biotechnology",
			Employees:       25_000,
			Price:           245.67,
			MarketCap:       130_000_000_000,
			Beta:            0.85,
			Volume:          2_000_000,
			AverageVolume:   2_000_000,
			Revenue:         26_000_000_000,
			NetIncome:       7_000_000_000,
			EPS:             12.50,
			EPSDiluted:      12.50,
			PERatio:         19.65,
			TotalDebt:       35_000_000_000,
			Cash:            10_000_000_000,
			EnterpriseValue: 155_000_000_000,
			RDExpense:       4_500_000_000,
			GrossProfit:     20_000_000_000,
			OperatingIncome: 10_000_000_000,
			EBITDA:          12_000_000_000,
			EBIT:            10_000_000_000,
			CAGR:            0.08,
		}
	case "BIIB":
		return domain.FinancialProfile{
			CompanyName:     "Biogen Inc.",
			Sector:          "Healthcare",
			Industry:        "Biotechnology",
			Employees:       9000,
			Price:           234.56,
			MarketCap:       35_000_000_000,
			Beta:            1.15,
			Volume:          1_500_000,
			AverageVolume:   1_500_000,
			Revenue:         10_000_000_000,
			NetIncome:       2_000_000_000,
			EPS:             13.50,
			EPSDiluted:      13.50,
			PERatio:         17.37,
			TotalDebt:       6_000_000_000,
			Cash:            3_000_000_000,
			EnterpriseValue: 38_000_000_000,
			RDExpense:       2_500_000_000,
			GrossProfit:     8_000_000_000,
			OperatingIncome: 3_000_000_000,
			EBITDA:          4_000_000_000,
			EBIT:            3_000_000_000,
			CAGR:            0.15,
		}
	default:
		return domain.FinancialProfile{
			CompanyName:     "Generic Pharma Company",
			Sector:          "Healthcare",
			Industry:        "Pharmaceuticals",
			Employees:       10_000,
			Price:           50.00,
			MarketCap:       50_000_000_000,
			Beta:            1.0,
			Volume:          1_000_000,
			AverageVolume:   1_000_000,
			Revenue:         5_000_000_000,
			NetIncome:       500_000_000,
			EPS:             2.50,
			EPSDiluted:      2.50,
			PERatio:         20.0,
			TotalDebt:       10_000_000_000,
			Cash:            2_000_000_000,
			EnterpriseValue: 58_000_000_000,
			RDExpense:       1_000_000_000,
			GrossProfit:     4_000_000_000,
			OperatingIncome: 1_000_000_000,
			EBITDA:          1_500_000_000,
			EBIT:            1_000_000_000,
			CAGR:            0.1,
		}
	}
}

// StaticProvider serves the fallback profile table without touching
// the network. Used when MOCK_PROVIDERS is set.
type StaticProvider struct{}

// GetProfile returns the deterministic placeholder profile.
func (StaticProvider) GetProfile(_ context.Context, ticker string) (*domain.FinancialProfile, error) {
	p := FallbackProfile(ticker)
	return &p, nil
}
