package transform

import (
	"fmt"

	"github.com/rgehrsitz/itax/internal/domain"
	"github.com/rgehrsitz/itax/pkg/money"
	"github.com/shopspring/decimal"
)

// SetFiscalYear evaluates the request under another year's rules.
type SetFiscalYear struct {
	FiscalYear domain.FiscalYear
}

func (sf *SetFiscalYear) Name() string {
	return "set_fiscal_year"
}

func (sf *SetFiscalYear) Description() string {
	return fmt.Sprintf("Evaluate under FY %s rules", sf.FiscalYear)
}

func (sf *SetFiscalYear) Validate(base domain.TaxRequest) error {
	if sf.FiscalYear == "" {
		return NewTransformError(sf.Name(), "validate", "fiscal year cannot be empty", nil)
	}
	return nil
}

func (sf *SetFiscalYear) Apply(base domain.TaxRequest) (domain.TaxRequest, error) {
	modified := Clone(base)
	modified.FiscalYear = sf.FiscalYear
	return modified, nil
}

// SetResidency overrides the residential status.
type SetResidency struct {
	Status domain.ResidencyStatus
}

func (sr *SetResidency) Name() string {
	return "set_residency"
}

func (sr *SetResidency) Description() string {
	return fmt.Sprintf("Treat the taxpayer as %s", sr.Status.Description())
}

func (sr *SetResidency) Validate(base domain.TaxRequest) error {
	if _, err := domain.ParseResidencyStatus(string(sr.Status)); err != nil {
		return NewTransformError(sr.Name(), "validate", "invalid residency status", err)
	}
	return nil
}

func (sr *SetResidency) Apply(base domain.TaxRequest) (domain.TaxRequest, error) {
	modified := Clone(base)
	modified.Residency, _ = domain.ParseResidencyStatus(string(sr.Status))
	return modified, nil
}

// SetAgeBand overrides the age band.
type SetAgeBand struct {
	Band domain.AgeBand
}

func (sa *SetAgeBand) Name() string {
	return "set_age_band"
}

func (sa *SetAgeBand) Description() string {
	return fmt.Sprintf("Use the %s age band", sa.Band)
}

func (sa *SetAgeBand) Validate(base domain.TaxRequest) error {
	if _, err := domain.ParseAgeBand(string(sa.Band)); err != nil {
		return NewTransformError(sa.Name(), "validate", "invalid age band", err)
	}
	return nil
}

func (sa *SetAgeBand) Apply(base domain.TaxRequest) (domain.TaxRequest, error) {
	modified := Clone(base)
	modified.AgeBand, _ = domain.ParseAgeBand(string(sa.Band))
	return modified, nil
}

// AddCapitalGain appends a transaction with the next free id.
type AddCapitalGain struct {
	Term   domain.Term
	Amount decimal.Decimal
	Bucket domain.DateBucket
}

func (ac *AddCapitalGain) Name() string {
	return "add_capital_gain"
}

func (ac *AddCapitalGain) Description() string {
	return fmt.Sprintf("Add a %s-term gain of %s (%s)", ac.Term, money.FormatRupees(ac.Amount), ac.Bucket)
}

func (ac *AddCapitalGain) Validate(base domain.TaxRequest) error {
	if _, err := domain.ParseTerm(string(ac.Term)); err != nil {
		return NewTransformError(ac.Name(), "validate", "invalid term", err)
	}
	if _, err := domain.ParseDateBucket(string(ac.Bucket)); err != nil {
		return NewTransformError(ac.Name(), "validate", "invalid date bucket", err)
	}
	return nil
}

func (ac *AddCapitalGain) Apply(base domain.TaxRequest) (domain.TaxRequest, error) {
	modified := Clone(base)
	term, _ := domain.ParseTerm(string(ac.Term))
	bucket, _ := domain.ParseDateBucket(string(ac.Bucket))

	nextID := 1
	for _, tx := range modified.CapitalGains.All() {
		if tx.ID >= nextID {
			nextID = tx.ID + 1
		}
	}
	tx := domain.Transaction{ID: nextID, Amount: ac.Amount, Bucket: bucket, Term: term}
	if term == domain.ShortTerm {
		modified.CapitalGains.STCG = append(modified.CapitalGains.STCG, tx)
	} else {
		modified.CapitalGains.LTCG = append(modified.CapitalGains.LTCG, tx)
	}
	return modified, nil
}
