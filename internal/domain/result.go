package domain

import (
	"github.com/shopspring/decimal"
)

// LineKind tags a line item so callers can style or filter it without parsing labels.
type LineKind string

const (
	KindStandardDeduction LineKind = "standard_deduction"
	KindHRAExemption      LineKind = "hra_exemption"
	KindSec80C            LineKind = "sec_80c"
	KindSec80D            LineKind = "sec_80d"
	KindSec80E            LineKind = "sec_80e"
	KindSec80G            LineKind = "sec_80g"
	KindSec80TTA          LineKind = "sec_80tta"
	KindEmployerNPS       LineKind = "employer_nps"
	KindHomeLoanInterest  LineKind = "home_loan_interest"
	KindNote              LineKind = "note"

	KindSlabTax         LineKind = "slab_tax"
	KindCapitalGainsTax LineKind = "capital_gains_tax"
	KindRebate          LineKind = "rebate"
	KindSurcharge       LineKind = "surcharge"
	KindCess            LineKind = "cess"
)

// LineItem is one labelled amount in a breakdown. Notes carry a zero amount.
type LineItem struct {
	Kind   LineKind        `json:"kind"`
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// IsNote reports whether the item is an explanatory note.
func (li LineItem) IsNote() bool { return li.Kind == KindNote }

// SlabLine records the income taxed within one slab.
type SlabLine struct {
	Lower decimal.Decimal  `json:"lower"`
	Upper *decimal.Decimal `json:"upper,omitempty"`
	Rate  decimal.Decimal  `json:"rate"`
	Taxed decimal.Decimal  `json:"taxed"`
	Tax   decimal.Decimal  `json:"tax"`
}

// UpperLabel renders the upper bound, or "above" for the open top slab.
func (s SlabLine) UpperLabel() string {
	if s.Upper == nil {
		return "above"
	}
	return s.Upper.StringFixed(0)
}

// CapitalGainsLine records the tax on one transaction.
type CapitalGainsLine struct {
	TransactionID int             `json:"transaction_id"`
	Term          Term            `json:"term"`
	Bucket        DateBucket      `json:"bucket"`
	Amount        decimal.Decimal `json:"amount"`
	Exemption     decimal.Decimal `json:"exemption"`
	Rate          decimal.Decimal `json:"rate"`
	Tax           decimal.Decimal `json:"tax"`
}

// RegimeResult is the full computation for one regime.
// TaxLines are ordered slab tax, capital gains, rebate, surcharge, cess.
// Every amount is rounded on its own from the exact value, TotalTax included,
// so the rounded components may differ from TotalTax by a few paise.
type RegimeResult struct {
	Regime           Regime             `json:"regime"`
	TotalDeductions  decimal.Decimal    `json:"total_deductions"`
	TaxableIncome    decimal.Decimal    `json:"taxable_income"`
	GeneralIncomeTax decimal.Decimal    `json:"general_income_tax"`
	CapitalGainsTax  decimal.Decimal    `json:"capital_gains_tax"`
	Rebate           decimal.Decimal    `json:"rebate"`
	TaxAfterRebate   decimal.Decimal    `json:"tax_after_rebate"`
	SurchargeRate    decimal.Decimal    `json:"surcharge_rate"`
	Surcharge        decimal.Decimal    `json:"surcharge"`
	Cess             decimal.Decimal    `json:"cess"`
	TotalTax         decimal.Decimal    `json:"total_tax"`
	Deductions       []LineItem         `json:"deductions"`
	TaxLines         []LineItem         `json:"tax_lines"`
	Slabs            []SlabLine         `json:"slabs"`
	CapitalGains     []CapitalGainsLine `json:"capital_gains,omitempty"`
}

// ComparisonResult holds both regimes for one set of inputs.
type ComparisonResult struct {
	FiscalYear         FiscalYear      `json:"fiscal_year"`
	AgeBand            AgeBand         `json:"age_band"`
	Residency          ResidencyStatus `json:"residency"`
	GrossTotalIncome   decimal.Decimal `json:"gross_total_income"`
	CapitalGainsAmount decimal.Decimal `json:"capital_gains_amount"`
	Old                RegimeResult    `json:"old"`
	New                RegimeResult    `json:"new"`
	Difference         decimal.Decimal `json:"difference"`
	Cheaper            Regime          `json:"cheaper"`
	PreferredRegime    Regime          `json:"preferred_regime,omitempty"`
	Notes              []string        `json:"notes,omitempty"`
}

// Result returns the computation for regime.
func (cr *ComparisonResult) Result(regime Regime) *RegimeResult {
	if regime == RegimeNew {
		return &cr.New
	}
	return &cr.Old
}
