package calculation

import (
	"github.com/rgehrsitz/itax/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	nriOldRegimeNote = "Note: Most deductions and 87A rebate are not applicable for Non-Residents (NRI)."
	nriNewRegimeNote = "Note: Standard deduction and 87A rebate are not applicable for Non-Residents (NRI) in New Regime."
)

var (
	hraRentFloorRate = decimal.NewFromFloat(0.10)
	hraMetroRate     = decimal.NewFromFloat(0.50)
	hraNonMetroRate  = decimal.NewFromFloat(0.40)
)

// DeductionSummary is the aggregated deduction for one regime.
type DeductionSummary struct {
	Total decimal.Decimal
	Lines []domain.LineItem
}

func (ds *DeductionSummary) add(kind domain.LineKind, label string, amount decimal.Decimal) {
	if !amount.IsPositive() {
		return
	}
	ds.Total = ds.Total.Add(amount)
	ds.Lines = append(ds.Lines, domain.LineItem{Kind: kind, Label: label, Amount: amount})
}

func (ds *DeductionSummary) note(text string) {
	ds.Lines = append(ds.Lines, domain.LineItem{Kind: domain.KindNote, Label: text, Amount: decimal.Zero})
}

// HRAExemption returns the least of HRA received, rent in excess of 10% of
// salary, and 50% (metro) or 40% of salary. Dearness allowance is taken as zero.
func HRAExemption(hra, rent, salary decimal.Decimal, isMetro bool) decimal.Decimal {
	if !hra.IsPositive() || !rent.IsPositive() {
		return decimal.Zero
	}
	rentExcess := decimal.Max(decimal.Zero, rent.Sub(salary.Mul(hraRentFloorRate)))
	rate := hraNonMetroRate
	if isMetro {
		rate = hraMetroRate
	}
	return decimal.Max(decimal.Zero, decimal.Min(hra, rentExcess, salary.Mul(rate)))
}

// OldRegimeDeductions aggregates the old-regime deductions. Non-residents keep
// only self-occupied home-loan interest and employer NPS.
func OldRegimeDeductions(in domain.IncomeInputs, age domain.AgeBand, residency domain.ResidencyStatus, isMetro bool, limits domain.DeductionLimits) DeductionSummary {
	var ds DeductionSummary

	if residency.IsNonResident() {
		ds.note(nriOldRegimeNote)
	}
	ds.add(domain.KindHomeLoanInterest, "Home Loan Interest (Self-occupied)",
		decimal.Min(in.HomeLoanInterestSelfOccupied, limits.Sec24bSelfOccupied))

	if !residency.IsNonResident() {
		ds.add(domain.KindStandardDeduction, "Standard Deduction",
			decimal.Min(in.GrossSalary, limits.StandardOld))
		ds.add(domain.KindHRAExemption, "HRA Exemption",
			HRAExemption(in.HRAReceived, in.RentPaid, in.GrossSalary, isMetro))

		sec80C := decimal.Min(in.Sec80C, limits.Sec80C)
		sec80CCD1B := decimal.Min(in.NPSEmployee, limits.Sec80CCD1B)
		ds.add(domain.KindSec80C, "Deductions u/s 80C/80CCD(1B)",
			decimal.Min(sec80C.Add(sec80CCD1B), limits.Sec80C.Add(limits.Sec80CCD1B)))

		ds.add(domain.KindSec80D, "Deductions u/s 80D",
			decimal.Min(in.Sec80D, sec80DCap(age, limits)))
		ds.add(domain.KindSec80E, "Deductions u/s 80E", in.Sec80E)
		ds.add(domain.KindSec80G, "Deductions u/s 80G", in.Sec80G)

		if age.IsSenior() {
			ds.add(domain.KindSec80TTA, "Deductions u/s 80TTB", decimal.Min(in.Sec80TTA, limits.Sec80TTB))
		} else {
			ds.add(domain.KindSec80TTA, "Deductions u/s 80TTA", decimal.Min(in.Sec80TTA, limits.Sec80TTA))
		}
	}

	ds.add(domain.KindEmployerNPS, "Employer NPS Contribution u/s 80CCD(2)", employerNPS(in, limits))
	return ds
}

// NewRegimeDeductions aggregates the new-regime deductions: the standard
// deduction and employer NPS, neither of which applies to non-residents.
func NewRegimeDeductions(in domain.IncomeInputs, residency domain.ResidencyStatus, limits domain.DeductionLimits) DeductionSummary {
	var ds DeductionSummary
	if residency.IsNonResident() {
		ds.note(nriNewRegimeNote)
		return ds
	}
	ds.add(domain.KindStandardDeduction, "Standard Deduction",
		decimal.Min(in.GrossSalary, limits.StandardNew))
	ds.add(domain.KindEmployerNPS, "Employer NPS Contribution u/s 80CCD(2)", employerNPS(in, limits))
	return ds
}

// TaxableIncome is salary plus other income plus net house property, less
// deductions, floored at zero. Capital gains are taxed separately.
func TaxableIncome(in domain.IncomeInputs, deductions decimal.Decimal) decimal.Decimal {
	income := in.GrossSalary.
		Add(in.OtherIncome).
		Add(in.HouseProperty.Sub(in.HomeLoanInterestLetOut)).
		Sub(deductions)
	return decimal.Max(decimal.Zero, income)
}

// GrossTotalIncome sums every income head before deductions, including the
// total capital gains amount. It drives the surcharge tier.
func GrossTotalIncome(in domain.IncomeInputs, capitalGains decimal.Decimal) decimal.Decimal {
	return in.GrossSalary.Add(in.OtherIncome).Add(in.HouseProperty).Add(capitalGains)
}

func sec80DCap(age domain.AgeBand, limits domain.DeductionLimits) decimal.Decimal {
	if age.IsSenior() {
		return limits.Sec80DSelfSenior.Add(limits.Sec80DParentsSenior)
	}
	return limits.Sec80DSelf.Add(limits.Sec80DParents)
}

func employerNPS(in domain.IncomeInputs, limits domain.DeductionLimits) decimal.Decimal {
	return decimal.Min(in.NPSEmployer, in.GrossSalary.Mul(limits.EmployerNPSRate))
}
