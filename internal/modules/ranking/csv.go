package ranking

import (
	"fmt"
	"strings"

	"github.com/atlasbio/atlas/internal/domain"
	"github.com/atlasbio/atlas/pkg/formatters"
)

// csvHeader is the fixed export header.
const csvHeader = "Company,Maturity (X),Tech Differentiation (Y),Explanation,Raw Maturity,Raw Differentiation"

// ExportCSV renders ranking results as CSV, one row per result in
// order. Numeric fields carry exactly three decimals; the company and
// explanation fields are quoted so embedded commas survive.
func ExportCSV(results []domain.RankingResult) string {
	var b strings.Builder
	b.WriteString(csvHeader)
	b.WriteString("\n")

	for _, result := range results {
		b.WriteString(fmt.Sprintf("%s,%s,%s,%s,%s,%s\n",
			quoteField(result.CompanyName),
			formatters.Score3(result.XMaturity),
			formatters.Score3(result.YDifferentiation),
			quoteField(result.Explanation),
			formatters.Score3(result.RawScores.Maturity),
			formatters.Score3(result.RawScores.Differentiation),
		))
	}
	return b.String()
}

// quoteField wraps a value in double quotes, doubling any embedded
// quotes per RFC 4180.
func quoteField(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}
