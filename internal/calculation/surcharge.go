package calculation

import (
	"github.com/rgehrsitz/itax/internal/domain"
	"github.com/shopspring/decimal"
)

// SurchargeAndCess is the final layer of one regime's tax.
type SurchargeAndCess struct {
	Rate      decimal.Decimal
	Surcharge decimal.Decimal
	Cess      decimal.Decimal
	Total     decimal.Decimal
}

// SurchargeRate returns the rate of the highest tier whose threshold gross
// total income strictly exceeds. Tiers must be ascending.
func SurchargeRate(grossTotalIncome decimal.Decimal, tiers []domain.SurchargeTier) decimal.Decimal {
	rate := decimal.Zero
	for _, tier := range tiers {
		if grossTotalIncome.GreaterThan(tier.Above) {
			rate = tier.Rate
		}
	}
	return rate
}

// ApplySurchargeAndCess adds surcharge on the post-rebate tax and cess on both.
// No marginal relief is applied at surcharge thresholds.
func ApplySurchargeAndCess(taxAfterRebate, grossTotalIncome decimal.Decimal, tiers []domain.SurchargeTier, cessRate decimal.Decimal) SurchargeAndCess {
	rate := SurchargeRate(grossTotalIncome, tiers)
	surcharge := taxAfterRebate.Mul(rate)
	cess := taxAfterRebate.Add(surcharge).Mul(cessRate)
	return SurchargeAndCess{
		Rate:      rate,
		Surcharge: surcharge,
		Cess:      cess,
		Total:     taxAfterRebate.Add(surcharge).Add(cess),
	}
}
