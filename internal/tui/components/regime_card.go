package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/itax/internal/domain"
	"github.com/rgehrsitz/itax/internal/tui/tuistyles"
)

// RegimeCard displays one regime's computation
type RegimeCard struct {
	Result     *domain.RegimeResult
	IsCheaper  bool
	ShowDetail bool
	Width      int
}

// NewRegimeCard creates a card for result
func NewRegimeCard(result *domain.RegimeResult) *RegimeCard {
	return &RegimeCard{
		Result: result,
		Width:  44,
	}
}

// SetCheaper highlights the card as the cheaper regime
func (r *RegimeCard) SetCheaper(cheaper bool) *RegimeCard {
	r.IsCheaper = cheaper
	return r
}

// WithDetail includes the deduction and tax line items
func (r *RegimeCard) WithDetail(detail bool) *RegimeCard {
	r.ShowDetail = detail
	return r
}

// WithWidth sets the card width
func (r *RegimeCard) WithWidth(width int) *RegimeCard {
	r.Width = width
	return r
}

// Render returns the styled regime card
func (r *RegimeCard) Render() string {
	res := r.Result
	var b strings.Builder

	title := tuistyles.TitleStyle.Render(res.Regime.Label())
	if r.IsCheaper {
		title += " " + tuistyles.MetricPositiveStyle.Render("✓ cheaper")
	}
	b.WriteString(title + "\n\n")

	inner := r.Width - 4
	line := func(label, value string) {
		pad := inner - lipgloss.Width(label) - lipgloss.Width(value)
		if pad < 1 {
			pad = 1
		}
		b.WriteString(tuistyles.MetricLabelStyle.Render(label) + strings.Repeat(" ", pad) + value + "\n")
	}

	if r.ShowDetail {
		for _, li := range res.Deductions {
			if li.IsNote() {
				b.WriteString(tuistyles.InfoStyle.Width(inner).Render(li.Label) + "\n")
				continue
			}
			line(li.Label, tuistyles.FormatCurrency(li.Amount))
		}
	}
	line("Total deductions", tuistyles.FormatCurrency(res.TotalDeductions))
	line("Taxable income", tuistyles.FormatCurrency(res.TaxableIncome))
	b.WriteString("\n")

	if r.ShowDetail {
		for _, li := range res.TaxLines {
			line(li.Label, tuistyles.FormatCurrency(li.Amount))
		}
	} else {
		line("Slab tax", tuistyles.FormatCurrency(res.GeneralIncomeTax))
		if res.CapitalGainsTax.IsPositive() {
			line("Capital gains tax", tuistyles.FormatCurrency(res.CapitalGainsTax))
		}
		if res.Rebate.IsPositive() {
			line("Rebate u/s 87A", "-"+tuistyles.FormatCurrency(res.Rebate))
		}
		if res.Surcharge.IsPositive() {
			line(fmt.Sprintf("Surcharge (%s%%)", res.SurchargeRate.Mul(hundred).String()), tuistyles.FormatCurrency(res.Surcharge))
		}
		line("Cess", tuistyles.FormatCurrency(res.Cess))
	}
	b.WriteString("\n")
	line("TOTAL TAX", tuistyles.MetricValueStyle.Render(tuistyles.FormatCurrency(res.TotalTax)))

	style := tuistyles.BorderStyle
	if r.IsCheaper {
		style = tuistyles.ActiveBorderStyle
	}
	return style.Width(r.Width).Render(strings.TrimRight(b.String(), "\n"))
}

// RegimeCards renders both regimes side by side
func RegimeCards(result *domain.ComparisonResult, width int, detail bool) string {
	cardWidth := width/2 - 1
	if cardWidth < 36 {
		cardWidth = 36
	}
	oldCard := NewRegimeCard(&result.Old).
		SetCheaper(result.Cheaper == domain.RegimeOld).
		WithDetail(detail).
		WithWidth(cardWidth)
	newCard := NewRegimeCard(&result.New).
		SetCheaper(result.Cheaper == domain.RegimeNew).
		WithDetail(detail).
		WithWidth(cardWidth)
	return lipgloss.JoinHorizontal(lipgloss.Top, oldCard.Render(), " ", newCard.Render())
}
