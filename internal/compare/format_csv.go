package compare

import (
	"encoding/csv"
	"strings"
)

// CSVFormatter formats fiscal year comparisons as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Fiscal Year",
		"Type",
		"Old Regime Tax",
		"New Regime Tax",
		"Best Regime",
		"Best Tax",
		"Effective Rate",
		"Tax Diff from Base",
		"Tax % Change",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}

	for _, alt := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&alt, "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a fiscal year result as a CSV row
func (cf *CSVFormatter) formatRow(result *YearResult, rowType string) []string {
	return []string{
		string(result.FiscalYear),
		rowType,
		result.OldRegimeTax.StringFixed(2),
		result.NewRegimeTax.StringFixed(2),
		string(result.BestRegime),
		result.BestTax.StringFixed(2),
		result.EffectiveRate.StringFixed(2),
		result.TaxDiffFromBase.StringFixed(2),
		result.TaxPctFromBase.StringFixed(2),
	}
}
