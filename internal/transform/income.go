package transform

import (
	"fmt"
	"sort"

	"github.com/rgehrsitz/itax/internal/domain"
	"github.com/rgehrsitz/itax/pkg/money"
	"github.com/shopspring/decimal"
)

type amountField func(in *domain.IncomeInputs) *decimal.Decimal

// incomeHeads are the fields AdjustIncome may change.
var incomeHeads = map[string]amountField{
	"gross_salary":                     func(in *domain.IncomeInputs) *decimal.Decimal { return &in.GrossSalary },
	"other_income":                     func(in *domain.IncomeInputs) *decimal.Decimal { return &in.OtherIncome },
	"house_property":                   func(in *domain.IncomeInputs) *decimal.Decimal { return &in.HouseProperty },
	"hra_received":                     func(in *domain.IncomeInputs) *decimal.Decimal { return &in.HRAReceived },
	"rent_paid":                        func(in *domain.IncomeInputs) *decimal.Decimal { return &in.RentPaid },
	"home_loan_interest_let_out":       func(in *domain.IncomeInputs) *decimal.Decimal { return &in.HomeLoanInterestLetOut },
	"home_loan_interest_self_occupied": func(in *domain.IncomeInputs) *decimal.Decimal { return &in.HomeLoanInterestSelfOccupied },
}

// deductionSections are the claims AddDeduction may change.
var deductionSections = map[string]amountField{
	"sec_80c":      func(in *domain.IncomeInputs) *decimal.Decimal { return &in.Sec80C },
	"sec_80d":      func(in *domain.IncomeInputs) *decimal.Decimal { return &in.Sec80D },
	"sec_80e":      func(in *domain.IncomeInputs) *decimal.Decimal { return &in.Sec80E },
	"sec_80g":      func(in *domain.IncomeInputs) *decimal.Decimal { return &in.Sec80G },
	"sec_80tta":    func(in *domain.IncomeInputs) *decimal.Decimal { return &in.Sec80TTA },
	"nps_employee": func(in *domain.IncomeInputs) *decimal.Decimal { return &in.NPSEmployee },
	"nps_employer": func(in *domain.IncomeInputs) *decimal.Decimal { return &in.NPSEmployer },
}

func fieldNames(fields map[string]amountField) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// adjust validates and applies delta to the named field.
func adjust(transform, field string, fields map[string]amountField, base domain.TaxRequest, delta decimal.Decimal, apply bool) (domain.TaxRequest, error) {
	get, ok := fields[field]
	if !ok {
		return base, NewTransformError(transform, "validate",
			fmt.Sprintf("unknown field %q (one of %v)", field, fieldNames(fields)), nil)
	}
	current := *get(&base.Income)
	next := current.Add(delta)
	if next.IsNegative() {
		return base, NewTransformError(transform, "validate",
			fmt.Sprintf("%s would become negative (%s)", field, next.String()), nil)
	}
	if apply {
		*get(&base.Income) = next
	}
	return base, nil
}

// AdjustIncome changes an income head by Delta, which may be negative.
type AdjustIncome struct {
	Head  string
	Delta decimal.Decimal
}

func (ai *AdjustIncome) Name() string {
	return "adjust_income"
}

func (ai *AdjustIncome) Description() string {
	verb := "Increase"
	if ai.Delta.IsNegative() {
		verb = "Decrease"
	}
	return fmt.Sprintf("%s %s by %s", verb, ai.Head, money.FormatRupees(ai.Delta.Abs()))
}

func (ai *AdjustIncome) Validate(base domain.TaxRequest) error {
	_, err := adjust(ai.Name(), ai.Head, incomeHeads, base, ai.Delta, false)
	return err
}

func (ai *AdjustIncome) Apply(base domain.TaxRequest) (domain.TaxRequest, error) {
	return adjust(ai.Name(), ai.Head, incomeHeads, Clone(base), ai.Delta, true)
}

// AddDeduction adds Amount to a claimed deduction before caps are applied.
type AddDeduction struct {
	Section string
	Amount  decimal.Decimal
}

func (ad *AddDeduction) Name() string {
	return "add_deduction"
}

func (ad *AddDeduction) Description() string {
	return fmt.Sprintf("Claim %s more under %s", money.FormatRupees(ad.Amount), ad.Section)
}

func (ad *AddDeduction) Validate(base domain.TaxRequest) error {
	_, err := adjust(ad.Name(), ad.Section, deductionSections, base, ad.Amount, false)
	return err
}

func (ad *AddDeduction) Apply(base domain.TaxRequest) (domain.TaxRequest, error) {
	return adjust(ad.Name(), ad.Section, deductionSections, Clone(base), ad.Amount, true)
}
