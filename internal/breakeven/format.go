package breakeven

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rgehrsitz/itax/pkg/money"
)

// TableFormatter formats break-even results as a console table
type TableFormatter struct{}

// Format generates a formatted table for a break-even result
func (tf *TableFormatter) Format(result *Result) string {
	var sb strings.Builder

	sb.WriteString("REGIME BREAK-EVEN\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n")
	sb.WriteString(fmt.Sprintf("Fiscal Year:         %s\n", result.FiscalYear))
	sb.WriteString(fmt.Sprintf("Status:              %s\n", tf.formatStatus(result.Success)))
	sb.WriteString(fmt.Sprintf("Iterations:          %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:         %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	if result.Base != nil {
		sb.WriteString("CURRENT POSITION\n")
		sb.WriteString(strings.Repeat("-", 60) + "\n")
		sb.WriteString(fmt.Sprintf("Old Regime Tax:      %s\n", money.FormatINR(result.Base.Old.TotalTax)))
		sb.WriteString(fmt.Sprintf("New Regime Tax:      %s\n", money.FormatINR(result.Base.New.TotalTax)))
		sb.WriteString(fmt.Sprintf("Old Regime Claims:   %s\n", money.FormatINR(result.CurrentClaims)))
		sb.WriteString("\n")
	}

	if result.Success && !result.AlreadyCheaper {
		sb.WriteString("BREAK-EVEN POINT\n")
		sb.WriteString(strings.Repeat("-", 60) + "\n")
		sb.WriteString(fmt.Sprintf("Extra Deductions:    %s\n", money.FormatRupees(result.ExtraDeduction)))
		sb.WriteString(fmt.Sprintf("Total Claims:        %s\n", money.FormatRupees(result.RequiredClaims())))
		if result.AtBreakEven != nil {
			sb.WriteString(fmt.Sprintf("Old Regime Tax:      %s\n", money.FormatINR(result.AtBreakEven.Old.TotalTax)))
		}
	}

	return sb.String()
}

// FormatYears generates a table for a multi-year run
func (tf *TableFormatter) FormatYears(yr *YearsResult) string {
	var sb strings.Builder
	for i := range yr.Results {
		sb.WriteString(tf.Format(&yr.Results[i]))
		sb.WriteString("\n")
	}
	if len(yr.Recommendations) > 0 {
		sb.WriteString("RECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 60) + "\n")
		for _, rec := range yr.Recommendations {
			sb.WriteString("• " + rec + "\n")
		}
	}
	return sb.String()
}

func (tf *TableFormatter) formatStatus(success bool) string {
	if success {
		return "✓ Break-even found"
	}
	return "✗ No break-even"
}

// JSONFormatter formats break-even results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output for any break-even result value
func (jf *JSONFormatter) Format(v any) (string, error) {
	var data []byte
	var err error
	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
