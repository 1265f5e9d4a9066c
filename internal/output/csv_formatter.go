package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rgehrsitz/itax/internal/domain"
)

// CSVFormatter writes one row per line item of both regimes.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(result *domain.ComparisonResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Regime", "Section", "Kind", "Label", "Amount"}); err != nil {
		return nil, err
	}

	for _, rr := range []*domain.RegimeResult{&result.Old, &result.New} {
		rows := [][]string{}
		for _, li := range rr.Deductions {
			rows = append(rows, lineRow(rr.Regime, "deduction", li))
		}
		rows = append(rows,
			[]string{string(rr.Regime), "summary", "total_deductions", "Total Deductions", rr.TotalDeductions.StringFixed(2)},
			[]string{string(rr.Regime), "summary", "taxable_income", "Taxable Income", rr.TaxableIncome.StringFixed(2)},
		)
		for _, li := range rr.TaxLines {
			rows = append(rows, lineRow(rr.Regime, "tax", li))
		}
		rows = append(rows, []string{string(rr.Regime), "summary", "total_tax", "Total Tax", rr.TotalTax.StringFixed(2)})
		if err := w.WriteAll(rows); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func lineRow(regime domain.Regime, section string, li domain.LineItem) []string {
	amount := li.Amount.StringFixed(2)
	if li.IsNote() {
		amount = ""
	}
	return []string{string(regime), section, string(li.Kind), li.Label, amount}
}
