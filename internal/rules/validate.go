package rules

import (
	"fmt"

	"github.com/rgehrsitz/itax/internal/domain"
	"github.com/shopspring/decimal"
)

// Validate checks the structural invariants of a rule table: every schedule
// starts at zero, has strictly increasing bounds ending in an open band and
// non-decreasing rates; all age bands and date buckets are present.
func Validate(rt *domain.RuleTable) error {
	for _, age := range domain.AgeBands {
		slabs, ok := rt.OldSlabs[age]
		if !ok {
			return fmt.Errorf("old_slabs: missing age band %s", age)
		}
		if err := validateSlabs(slabs); err != nil {
			return fmt.Errorf("old_slabs.%s: %w", age, err)
		}
	}
	for age := range rt.OldSlabs {
		if !age.Valid() {
			return domain.NewConfigError("old_slabs", string(age), domain.ErrUnknownAgeBand)
		}
	}
	if err := validateSlabs(rt.NewSlabs); err != nil {
		return fmt.Errorf("new_slabs: %w", err)
	}

	for _, bucket := range domain.DateBuckets {
		rates, ok := rt.CapitalGains[bucket]
		if !ok {
			return fmt.Errorf("capital_gains: missing date bucket %s", bucket)
		}
		if rates.ShortTermRate.IsNegative() || rates.LongTermRate.IsNegative() || rates.LongTermExemption.IsNegative() {
			return fmt.Errorf("capital_gains.%s: rates and exemption must not be negative", bucket)
		}
	}
	for bucket := range rt.CapitalGains {
		if bucket != domain.BucketBeforeCutoff && bucket != domain.BucketAfterCutoff {
			return domain.NewConfigError("capital_gains", string(bucket), domain.ErrUnknownDateBucket)
		}
	}

	if err := validateRebate("rebate_87a.old", rt.Rebate.Old); err != nil {
		return err
	}
	if err := validateRebate("rebate_87a.new", rt.Rebate.New); err != nil {
		return err
	}

	if err := validateTiers(rt.Surcharge.Old); err != nil {
		return fmt.Errorf("surcharge.old: %w", err)
	}
	if err := validateTiers(rt.Surcharge.New); err != nil {
		return fmt.Errorf("surcharge.new: %w", err)
	}

	if rt.CessRate.IsNegative() {
		return fmt.Errorf("cess_rate must not be negative")
	}
	return nil
}

func validateSlabs(slabs domain.SlabTable) error {
	if len(slabs) == 0 {
		return fmt.Errorf("schedule is empty")
	}
	lower := decimal.Zero
	prevRate := decimal.Zero
	for i, s := range slabs {
		if s.Rate.IsNegative() || s.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("slab %d: rate %s outside [0, 1]", i, s.Rate)
		}
		if s.Rate.LessThan(prevRate) {
			return fmt.Errorf("slab %d: rate %s below previous rate %s", i, s.Rate, prevRate)
		}
		prevRate = s.Rate

		last := i == len(slabs)-1
		if s.UpTo == nil {
			if !last {
				return fmt.Errorf("slab %d: only the final slab may be unbounded", i)
			}
			continue
		}
		if last {
			return fmt.Errorf("slab %d: final slab must be unbounded", i)
		}
		if !s.UpTo.GreaterThan(lower) {
			return fmt.Errorf("slab %d: bound %s must exceed %s", i, s.UpTo, lower)
		}
		lower = *s.UpTo
	}
	return nil
}

func validateRebate(field string, r domain.RebateRule) error {
	switch r.Mode {
	case domain.RebateCapped, domain.RebateMarginalRelief:
	default:
		return fmt.Errorf("%s: unknown mode %q", field, r.Mode)
	}
	if r.Threshold.IsNegative() || r.Amount.IsNegative() {
		return fmt.Errorf("%s: threshold and amount must not be negative", field)
	}
	return nil
}

func validateTiers(tiers []domain.SurchargeTier) error {
	for i := 1; i < len(tiers); i++ {
		if !tiers[i].Above.GreaterThan(tiers[i-1].Above) {
			return fmt.Errorf("tier %d: threshold %s must exceed %s", i, tiers[i].Above, tiers[i-1].Above)
		}
	}
	return nil
}
