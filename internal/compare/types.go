package compare

import (
	"fmt"

	"github.com/rgehrsitz/itax/internal/domain"
	"github.com/rgehrsitz/itax/pkg/money"
	"github.com/shopspring/decimal"
)

// YearResult summarises one fiscal year's regime comparison
type YearResult struct {
	FiscalYear domain.FiscalYear        `json:"fiscalYear"`
	Result     *domain.ComparisonResult `json:"result"`

	// Key Metrics
	OldRegimeTax  decimal.Decimal `json:"oldRegimeTax"`
	NewRegimeTax  decimal.Decimal `json:"newRegimeTax"`
	BestRegime    domain.Regime   `json:"bestRegime"`
	BestTax       decimal.Decimal `json:"bestTax"`
	EffectiveRate decimal.Decimal `json:"effectiveRate"` // percent of gross total income

	// Comparison to Base
	TaxDiffFromBase decimal.Decimal `json:"taxDiffFromBase"`
	TaxPctFromBase  decimal.Decimal `json:"taxPctFromBase"`
}

// ComparisonSet represents one profile evaluated across several fiscal years
type ComparisonSet struct {
	BaseFiscalYear     domain.FiscalYear `json:"baseFiscalYear"`
	BaseResult         *YearResult       `json:"baseResult"`
	AlternativeResults []YearResult      `json:"alternativeResults"`
	Recommendations    []string          `json:"recommendations"`
	ProfilePath        string            `json:"profilePath"`
}

// MetricsCalculator extracts key metrics from regime comparisons
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes the comparison metrics for one fiscal year
func (mc *MetricsCalculator) CalculateMetrics(result *domain.ComparisonResult) YearResult {
	yr := YearResult{
		FiscalYear:   result.FiscalYear,
		Result:       result,
		OldRegimeTax: result.Old.TotalTax,
		NewRegimeTax: result.New.TotalTax,
		BestRegime:   result.Cheaper,
		BestTax:      decimal.Min(result.Old.TotalTax, result.New.TotalTax),
	}
	yr.EffectiveRate = money.EffectiveRate(yr.BestTax, result.GrossTotalIncome)
	return yr
}

// CalculateComparison computes deltas between a fiscal year and the base
func (mc *MetricsCalculator) CalculateComparison(year, base YearResult) YearResult {
	year.TaxDiffFromBase = year.BestTax.Sub(base.BestTax)
	if !base.BestTax.IsZero() {
		year.TaxPctFromBase = year.TaxDiffFromBase.
			Div(base.BestTax).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	return year
}

// RegimeRecommendations explains which regime to choose for a single result
func RegimeRecommendations(result *domain.ComparisonResult) []string {
	recommendations := []string{}

	switch result.Cheaper {
	case domain.RegimeEither:
		recommendations = append(recommendations,
			"Both regimes result in the same tax of "+money.FormatINR(result.New.TotalTax))
	default:
		other := domain.RegimeOld
		if result.Cheaper == domain.RegimeOld {
			other = domain.RegimeNew
		}
		recommendations = append(recommendations,
			fmt.Sprintf("%s saves %s compared to the %s", result.Cheaper.Label(), money.FormatINR(result.Difference), other.Label()))
	}

	if result.PreferredRegime != "" && result.Cheaper != domain.RegimeEither {
		if result.PreferredRegime == result.Cheaper {
			recommendations = append(recommendations, "Your preferred regime is also the cheaper one")
		} else {
			recommendations = append(recommendations,
				fmt.Sprintf("Your preferred %s costs %s more", result.PreferredRegime.Label(), money.FormatINR(result.Difference)))
		}
	}

	if result.Residency.IsNonResident() {
		recommendations = append(recommendations,
			"Non-residents do not get the 87A rebate or most old-regime deductions")
	}

	return recommendations
}

// GenerateRecommendations creates recommendations across fiscal years
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}
	if compSet.BaseResult == nil {
		return recommendations
	}

	recommendations = append(recommendations,
		fmt.Sprintf("FY %s: %s", compSet.BaseFiscalYear, RegimeRecommendations(compSet.BaseResult.Result)[0]))

	lowest := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		recommendations = append(recommendations,
			fmt.Sprintf("FY %s: %s", alt.FiscalYear, RegimeRecommendations(alt.Result)[0]))
		if alt.BestTax.LessThan(lowest.BestTax) {
			lowest = alt
		}
		if alt.BestRegime != compSet.BaseResult.BestRegime && alt.BestRegime != domain.RegimeEither && compSet.BaseResult.BestRegime != domain.RegimeEither {
			recommendations = append(recommendations,
				fmt.Sprintf("Regime choice changes in FY %s: switch to the %s", alt.FiscalYear, alt.BestRegime.Label()))
		}
	}

	if lowest != compSet.BaseResult {
		savings := compSet.BaseResult.BestTax.Sub(lowest.BestTax)
		recommendations = append(recommendations,
			fmt.Sprintf("Lowest Tax: FY %s costs %s less than FY %s", lowest.FiscalYear, money.FormatINR(savings), compSet.BaseFiscalYear))
	}

	return recommendations
}
