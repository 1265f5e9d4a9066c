package compare

import (
	"fmt"
	"strings"

	"github.com/rgehrsitz/itax/pkg/money"
	"github.com/shopspring/decimal"
)

// TableFormatter formats fiscal year comparisons as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing fiscal years
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	// Header
	sb.WriteString("FISCAL YEAR TAX COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Base Fiscal Year: %s\n", compSet.BaseFiscalYear))
	if compSet.ProfilePath != "" {
		sb.WriteString(fmt.Sprintf("Profile: %s\n", compSet.ProfilePath))
	}
	sb.WriteString("\n")

	nameWidth := 16
	numWidth := 15

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, "Fiscal Year",
		numWidth, "Old Regime",
		numWidth, "New Regime",
		numWidth, "Best",
		numWidth, "Effective Rate"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))
	}

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&alt, nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 80) + "\n")

	// Deltas from base
	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\nFY %s:\n", alt.FiscalYear))
			sb.WriteString(fmt.Sprintf("  Tax Impact:       %s%s (%s%%)\n",
				tf.deltaSymbol(alt.TaxDiffFromBase),
				money.FormatINR(alt.TaxDiffFromBase.Abs()),
				alt.TaxPctFromBase.StringFixed(1)))
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single fiscal year row
func (tf *TableFormatter) formatRow(result *YearResult, nameWidth, numWidth int, isBase bool) string {
	name := string(result.FiscalYear)
	if isBase {
		name += " (base)"
	}

	return fmt.Sprintf("%-*s %*s %*s %*s %*s\n",
		nameWidth, name,
		numWidth, tf.formatDecimal(result.OldRegimeTax),
		numWidth, tf.formatDecimal(result.NewRegimeTax),
		numWidth, result.BestRegime,
		numWidth, result.EffectiveRate.StringFixed(2)+"%")
}

// formatDecimal formats amounts in lakh and crore
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	crore := decimal.NewFromInt(10000000)
	lakh := decimal.NewFromInt(100000)
	if d.Abs().GreaterThanOrEqual(crore) {
		return d.Div(crore).StringFixed(2) + " Cr"
	} else if d.Abs().GreaterThanOrEqual(lakh) {
		return d.Div(lakh).StringFixed(2) + " L"
	}
	return d.StringFixed(0)
}

// deltaSymbol returns the sign for a tax delta
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	} else if delta.IsNegative() {
		return "-"
	}
	return " "
}
