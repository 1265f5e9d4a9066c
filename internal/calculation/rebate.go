package calculation

import (
	"github.com/rgehrsitz/itax/internal/domain"
	"github.com/shopspring/decimal"
)

// Rebate87A returns the §87A rebate against slab tax. It must be computed after
// slab tax, on post-deduction taxable income. Non-residents get nothing.
//
// In capped mode the rebate is min(tax, amount) at or below the threshold. In
// marginal-relief mode the whole tax is rebated at or below the threshold, and
// above it the tax payable is limited to the income over the threshold.
func Rebate87A(generalTax, taxableIncome decimal.Decimal, rule domain.RebateRule, residency domain.ResidencyStatus) decimal.Decimal {
	if residency.IsNonResident() || !generalTax.IsPositive() {
		return decimal.Zero
	}

	switch rule.Mode {
	case domain.RebateMarginalRelief:
		if taxableIncome.LessThanOrEqual(rule.Threshold) {
			return generalTax
		}
		excess := taxableIncome.Sub(rule.Threshold)
		if generalTax.GreaterThan(excess) {
			return generalTax.Sub(excess)
		}
		return decimal.Zero
	default:
		if taxableIncome.LessThanOrEqual(rule.Threshold) {
			return decimal.Min(generalTax, rule.Amount)
		}
		return decimal.Zero
	}
}

// TaxAfterRebate combines slab and capital gains tax and subtracts the rebate,
// floored at zero.
func TaxAfterRebate(generalTax, capitalGainsTax, rebate decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, generalTax.Add(capitalGainsTax).Sub(rebate))
}
