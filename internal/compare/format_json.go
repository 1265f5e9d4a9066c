package compare

import (
	"encoding/json"

	"github.com/rgehrsitz/itax/internal/domain"
	"github.com/shopspring/decimal"
)

// JSONFormatter formats fiscal year comparisons as JSON. The comparison set is
// emitted as-is with a summary block added for consumers that only need the
// per-year regime choice and the cheapest year.
type JSONFormatter struct {
	Pretty bool
}

// YearSummary condenses a comparison set to one regime and tax per fiscal year.
type YearSummary struct {
	FiscalYears      []domain.FiscalYear                   `json:"fiscalYears"`
	BestRegimeByYear map[domain.FiscalYear]domain.Regime   `json:"bestRegimeByYear"`
	BestTaxByYear    map[domain.FiscalYear]decimal.Decimal `json:"bestTaxByYear"`
	LowestTaxYear    domain.FiscalYear                     `json:"lowestTaxYear"`
	LowestTax        decimal.Decimal                       `json:"lowestTax"`
	SavingsVsBase    decimal.Decimal                       `json:"savingsVsBase"`
	RegimeChanges    bool                                  `json:"regimeChanges"`
}

type jsonReport struct {
	*ComparisonSet
	Summary YearSummary `json:"summary"`
}

// Summarize builds the per-year summary. Years appear base first, then in
// the order they were compared.
func Summarize(compSet *ComparisonSet) YearSummary {
	s := YearSummary{
		BestRegimeByYear: map[domain.FiscalYear]domain.Regime{},
		BestTaxByYear:    map[domain.FiscalYear]decimal.Decimal{},
	}
	if compSet.BaseResult == nil {
		return s
	}

	years := append([]YearResult{*compSet.BaseResult}, compSet.AlternativeResults...)
	lowest := years[0]
	for _, yr := range years {
		s.FiscalYears = append(s.FiscalYears, yr.FiscalYear)
		s.BestRegimeByYear[yr.FiscalYear] = yr.BestRegime
		s.BestTaxByYear[yr.FiscalYear] = yr.BestTax
		if yr.BestTax.LessThan(lowest.BestTax) {
			lowest = yr
		}
		if yr.BestRegime != years[0].BestRegime {
			s.RegimeChanges = true
		}
	}
	s.LowestTaxYear = lowest.FiscalYear
	s.LowestTax = lowest.BestTax
	s.SavingsVsBase = years[0].BestTax.Sub(lowest.BestTax)
	return s
}

// Format generates JSON output for comparison results
func (jf *JSONFormatter) Format(compSet *ComparisonSet) (string, error) {
	report := jsonReport{ComparisonSet: compSet, Summary: Summarize(compSet)}

	var data []byte
	var err error
	if jf.Pretty {
		data, err = json.MarshalIndent(report, "", "  ")
	} else {
		data, err = json.Marshal(report)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
