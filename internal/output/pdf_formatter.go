package output

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/rgehrsitz/itax/internal/compare"
	"github.com/rgehrsitz/itax/internal/domain"
	"github.com/rgehrsitz/itax/pkg/money"
)

const (
	pdfMarginLeft   = 15.0
	pdfMarginTop    = 15.0
	pdfMarginRight  = 15.0
	pdfMarginBottom = 15.0
	pdfContentWidth = 210.0 - pdfMarginLeft - pdfMarginRight
)

// PDFFormatter renders a printable regime comparison report.
type PDFFormatter struct {
	// Now stamps the report; defaults to time.Now.
	Now func() time.Time
}

func (p PDFFormatter) Name() string { return "pdf" }

// pdfText replaces characters the standard PDF fonts cannot encode.
func pdfText(s string) string {
	return strings.NewReplacer(money.Rupee, money.RupeeASCII, "•", "-").Replace(s)
}

func (p PDFFormatter) Format(result *domain.ComparisonResult) ([]byte, error) {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMarginLeft, pdfMarginTop, pdfMarginRight)
	pdf.SetAutoPageBreak(true, pdfMarginBottom)
	pdf.SetTitle(fmt.Sprintf("Income Tax Regime Comparison FY %s", result.FiscalYear), false)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(pdfContentWidth, 10, fmt.Sprintf("Income Tax Regime Comparison - FY %s", result.FiscalYear), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "I", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.CellFormat(pdfContentWidth, 6, fmt.Sprintf("Generated: %s", now().Format("2 January 2006")), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(50, 50, 50)
	pdf.CellFormat(pdfContentWidth, 6, "Residency: "+result.Residency.Description(), "", 1, "L", false, 0, "")
	pdf.CellFormat(pdfContentWidth, 6, "Age band: "+string(result.AgeBand), "", 1, "L", false, 0, "")
	pdf.CellFormat(pdfContentWidth, 6, "Gross total income: "+money.FormatASCII(result.GrossTotalIncome), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Summary table
	labelWidth := pdfContentWidth * 0.4
	valueWidth := pdfContentWidth * 0.3
	pdf.SetFillColor(245, 247, 250)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(labelWidth, 8, "", "1", 0, "L", true, 0, "")
	pdf.CellFormat(valueWidth, 8, "Old Regime", "1", 0, "R", true, 0, "")
	pdf.CellFormat(valueWidth, 8, "New Regime", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	summary := []struct {
		label    string
		old, new string
	}{
		{"Total Deductions", money.FormatASCII(result.Old.TotalDeductions), money.FormatASCII(result.New.TotalDeductions)},
		{"Taxable Income", money.FormatASCII(result.Old.TaxableIncome), money.FormatASCII(result.New.TaxableIncome)},
		{"Slab Tax", money.FormatASCII(result.Old.GeneralIncomeTax), money.FormatASCII(result.New.GeneralIncomeTax)},
		{"Capital Gains Tax", money.FormatASCII(result.Old.CapitalGainsTax), money.FormatASCII(result.New.CapitalGainsTax)},
		{"Rebate u/s 87A", money.FormatASCII(result.Old.Rebate), money.FormatASCII(result.New.Rebate)},
		{"Surcharge", money.FormatASCII(result.Old.Surcharge), money.FormatASCII(result.New.Surcharge)},
		{"Cess", money.FormatASCII(result.Old.Cess), money.FormatASCII(result.New.Cess)},
		{"Total Tax", money.FormatASCII(result.Old.TotalTax), money.FormatASCII(result.New.TotalTax)},
	}
	for i, row := range summary {
		if i == len(summary)-1 {
			pdf.SetFont("Arial", "B", 10)
		}
		pdf.CellFormat(labelWidth, 7, row.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(valueWidth, 7, row.old, "1", 0, "R", false, 0, "")
		pdf.CellFormat(valueWidth, 7, row.new, "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	for _, rr := range []*domain.RegimeResult{&result.Old, &result.New} {
		pdfRegimeDetail(pdf, rr)
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(pdfContentWidth, 8, "Recommendation", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(50, 50, 50)
	for _, rec := range compare.RegimeRecommendations(result) {
		pdf.MultiCell(pdfContentWidth, 5, pdfText("- "+rec), "", "L", false)
	}
	for _, note := range result.Notes {
		pdf.MultiCell(pdfContentWidth, 5, pdfText("Note: "+note), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func pdfRegimeDetail(pdf *fpdf.Fpdf, rr *domain.RegimeResult) {
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(pdfContentWidth, 8, rr.Regime.Label(), "B", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(50, 50, 50)

	for _, li := range rr.Deductions {
		if li.IsNote() {
			pdf.SetFont("Arial", "I", 9)
			pdf.MultiCell(pdfContentWidth, 5, pdfText(li.Label), "", "L", false)
			pdf.SetFont("Arial", "", 10)
			continue
		}
		pdf.CellFormat(pdfContentWidth*0.7, 6, li.Label, "", 0, "L", false, 0, "")
		pdf.CellFormat(pdfContentWidth*0.3, 6, money.FormatASCII(li.Amount), "", 1, "R", false, 0, "")
	}
	for _, li := range rr.TaxLines {
		pdf.CellFormat(pdfContentWidth*0.7, 6, li.Label, "", 0, "L", false, 0, "")
		pdf.CellFormat(pdfContentWidth*0.3, 6, money.FormatASCII(li.Amount), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
}
