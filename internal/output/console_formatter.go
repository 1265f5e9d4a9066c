package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgehrsitz/itax/internal/compare"
	"github.com/rgehrsitz/itax/internal/domain"
	"github.com/rgehrsitz/itax/pkg/money"
)

// ConsoleFormatter renders a side-by-side breakdown of both regimes.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(result *domain.ComparisonResult) ([]byte, error) {
	var buf bytes.Buffer
	rule := strings.Repeat("=", 72)

	fmt.Fprintln(&buf, rule)
	fmt.Fprintf(&buf, "INCOME TAX REGIME COMPARISON  FY %s\n", result.FiscalYear)
	fmt.Fprintln(&buf, rule)
	fmt.Fprintf(&buf, "Residency:           %s\n", result.Residency.Description())
	fmt.Fprintf(&buf, "Age Band:            %s\n", result.AgeBand)
	fmt.Fprintf(&buf, "Gross Total Income:  %s\n", money.FormatINR(result.GrossTotalIncome))
	if result.CapitalGainsAmount.IsPositive() {
		fmt.Fprintf(&buf, "Capital Gains:       %s\n", money.FormatINR(result.CapitalGainsAmount))
	}
	fmt.Fprintln(&buf)

	fmt.Fprintf(&buf, "%-28s %20s %20s\n", "", "OLD REGIME", "NEW REGIME")
	fmt.Fprintln(&buf, strings.Repeat("-", 72))
	row := func(label string, pick func(*domain.RegimeResult) string) {
		fmt.Fprintf(&buf, "%-28s %20s %20s\n", label, pick(&result.Old), pick(&result.New))
	}
	row("Total Deductions", func(r *domain.RegimeResult) string { return money.FormatINR(r.TotalDeductions) })
	row("Taxable Income", func(r *domain.RegimeResult) string { return money.FormatINR(r.TaxableIncome) })
	row("Slab Tax", func(r *domain.RegimeResult) string { return money.FormatINR(r.GeneralIncomeTax) })
	row("Capital Gains Tax", func(r *domain.RegimeResult) string { return money.FormatINR(r.CapitalGainsTax) })
	row("Rebate u/s 87A", func(r *domain.RegimeResult) string { return money.FormatINR(r.Rebate) })
	row("Surcharge", func(r *domain.RegimeResult) string { return money.FormatINR(r.Surcharge) })
	row("Cess", func(r *domain.RegimeResult) string { return money.FormatINR(r.Cess) })
	fmt.Fprintln(&buf, strings.Repeat("-", 72))
	row("TOTAL TAX", func(r *domain.RegimeResult) string { return money.FormatINR(r.TotalTax) })
	fmt.Fprintln(&buf)

	for _, rr := range []*domain.RegimeResult{&result.Old, &result.New} {
		writeRegimeDetail(&buf, rr)
	}

	fmt.Fprintln(&buf, "RECOMMENDATION")
	fmt.Fprintln(&buf, strings.Repeat("-", 72))
	for _, rec := range compare.RegimeRecommendations(result) {
		fmt.Fprintf(&buf, "• %s\n", rec)
	}
	for _, note := range result.Notes {
		fmt.Fprintf(&buf, "Note: %s\n", note)
	}
	return buf.Bytes(), nil
}

func writeRegimeDetail(buf *bytes.Buffer, rr *domain.RegimeResult) {
	fmt.Fprintf(buf, "%s\n", strings.ToUpper(rr.Regime.Label()))
	fmt.Fprintln(buf, strings.Repeat("-", 72))

	if len(rr.Deductions) > 0 {
		fmt.Fprintln(buf, "Deductions:")
		for _, li := range rr.Deductions {
			if li.IsNote() {
				fmt.Fprintf(buf, "  Note: %s\n", li.Label)
				continue
			}
			fmt.Fprintf(buf, "  %-44s %20s\n", li.Label, money.FormatINR(li.Amount))
		}
	}

	fmt.Fprintln(buf, "Tax:")
	for _, li := range rr.TaxLines {
		fmt.Fprintf(buf, "  %-44s %20s\n", li.Label, money.FormatINR(li.Amount))
	}

	for _, cg := range rr.CapitalGains {
		fmt.Fprintf(buf, "  CG #%d %s-term (%s) %s @ %s  %s\n",
			cg.TransactionID, cg.Term, cg.Bucket.Label(),
			money.FormatINR(cg.Amount.Sub(cg.Exemption)), money.FormatPercent(cg.Rate), money.FormatINR(cg.Tax))
	}
	fmt.Fprintln(buf)
}
