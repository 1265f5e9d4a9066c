package domain

import (
	"github.com/shopspring/decimal"
)

// RuleTable contains the statutory figures for one fiscal year.
// It is loaded from YAML and treated as read-only afterwards.
type RuleTable struct {
	FiscalYear   FiscalYear                         `yaml:"-" json:"fiscal_year"`
	Description  string                             `yaml:"description" json:"description"`
	OldSlabs     map[AgeBand]SlabTable              `yaml:"old_slabs" json:"old_slabs"`
	NewSlabs     SlabTable                          `yaml:"new_slabs" json:"new_slabs"`
	Deductions   DeductionLimits                    `yaml:"deduction_limits" json:"deduction_limits"`
	Rebate       RebateRules                        `yaml:"rebate_87a" json:"rebate_87a"`
	CapitalGains map[DateBucket]CapitalGainsRateSet `yaml:"capital_gains" json:"capital_gains"`
	Surcharge    SurchargeRules                     `yaml:"surcharge" json:"surcharge"`
	CessRate     decimal.Decimal                    `yaml:"cess_rate" json:"cess_rate"`
}

// Slab is one band of a progressive schedule. A nil UpTo marks the open top band.
type Slab struct {
	UpTo *decimal.Decimal `yaml:"up_to,omitempty" json:"up_to,omitempty"`
	Rate decimal.Decimal  `yaml:"rate" json:"rate"`
}

// SlabTable is an ascending list of slabs starting at zero.
type SlabTable []Slab

// DeductionLimits contains the caps applied by the deduction aggregator.
type DeductionLimits struct {
	StandardOld             decimal.Decimal `yaml:"standard_old" json:"standard_old"`
	StandardNew             decimal.Decimal `yaml:"standard_new" json:"standard_new"`
	Sec80C                  decimal.Decimal `yaml:"sec_80c" json:"sec_80c"`
	Sec80CCD1B              decimal.Decimal `yaml:"sec_80ccd_1b" json:"sec_80ccd_1b"`
	Sec80DSelf              decimal.Decimal `yaml:"sec_80d_self" json:"sec_80d_self"`
	Sec80DSelfSenior        decimal.Decimal `yaml:"sec_80d_self_senior" json:"sec_80d_self_senior"`
	Sec80DParents           decimal.Decimal `yaml:"sec_80d_parents" json:"sec_80d_parents"`
	Sec80DParentsSenior     decimal.Decimal `yaml:"sec_80d_parents_senior" json:"sec_80d_parents_senior"`
	Sec80TTA                decimal.Decimal `yaml:"sec_80tta" json:"sec_80tta"`
	Sec80TTB                decimal.Decimal `yaml:"sec_80ttb" json:"sec_80ttb"`
	Sec24bSelfOccupied      decimal.Decimal `yaml:"sec_24b_self_occupied" json:"sec_24b_self_occupied"`
	EmployerNPSRate         decimal.Decimal `yaml:"employer_nps_rate" json:"employer_nps_rate"`
	HousePropertyLossSetOff decimal.Decimal `yaml:"house_property_loss_setoff" json:"house_property_loss_setoff"`
}

// RebateMode selects how the §87A rebate behaves above its threshold.
type RebateMode string

const (
	// RebateCapped grants min(tax, amount) up to the threshold and nothing above it.
	RebateCapped RebateMode = "capped"
	// RebateMarginalRelief grants the full tax up to the threshold and limits
	// tax just above it to the income in excess of the threshold.
	RebateMarginalRelief RebateMode = "marginal_relief"
)

// RebateRule is the §87A rebate for one regime.
type RebateRule struct {
	Threshold decimal.Decimal `yaml:"threshold" json:"threshold"`
	Amount    decimal.Decimal `yaml:"amount" json:"amount"`
	Mode      RebateMode      `yaml:"mode" json:"mode"`
}

// RebateRules holds the rebate for each regime.
type RebateRules struct {
	Old RebateRule `yaml:"old" json:"old"`
	New RebateRule `yaml:"new" json:"new"`
}

// CapitalGainsRateSet holds the special rates for one date bucket.
type CapitalGainsRateSet struct {
	ShortTermRate     decimal.Decimal `yaml:"short_term_rate" json:"short_term_rate"`
	LongTermRate      decimal.Decimal `yaml:"long_term_rate" json:"long_term_rate"`
	LongTermExemption decimal.Decimal `yaml:"long_term_exemption" json:"long_term_exemption"`
}

// SurchargeTier applies Rate when gross total income exceeds Above.
type SurchargeTier struct {
	Above decimal.Decimal `yaml:"above" json:"above"`
	Rate  decimal.Decimal `yaml:"rate" json:"rate"`
}

// SurchargeRules holds ascending surcharge tiers per regime.
type SurchargeRules struct {
	Old []SurchargeTier `yaml:"old" json:"old"`
	New []SurchargeTier `yaml:"new" json:"new"`
}

// SlabsFor returns the schedule for regime and age band.
func (rt *RuleTable) SlabsFor(regime Regime, age AgeBand) (SlabTable, error) {
	if regime == RegimeNew {
		return rt.NewSlabs, nil
	}
	slabs, ok := rt.OldSlabs[age]
	if !ok {
		return nil, NewConfigError("age_band", string(age), ErrUnknownAgeBand)
	}
	return slabs, nil
}

// RebateFor returns the §87A rule for regime.
func (rt *RuleTable) RebateFor(regime Regime) RebateRule {
	if regime == RegimeNew {
		return rt.Rebate.New
	}
	return rt.Rebate.Old
}

// SurchargeFor returns the surcharge tiers for regime.
func (rt *RuleTable) SurchargeFor(regime Regime) []SurchargeTier {
	if regime == RegimeNew {
		return rt.Surcharge.New
	}
	return rt.Surcharge.Old
}

// CapitalGainsRates returns the rate set for bucket.
func (rt *RuleTable) CapitalGainsRates(bucket DateBucket) (CapitalGainsRateSet, error) {
	rates, ok := rt.CapitalGains[bucket]
	if !ok {
		return CapitalGainsRateSet{}, NewConfigError("capital_gains.bucket", string(bucket), ErrUnknownDateBucket)
	}
	return rates, nil
}
