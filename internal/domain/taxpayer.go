package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FiscalYear identifies an Indian fiscal year, e.g. "2025-26".
type FiscalYear string

// AgeBand selects age-dependent slabs and limits.
type AgeBand string

const (
	AgeBelow60 AgeBand = "below60"
	Age60To80  AgeBand = "60to80"
	AgeAbove80 AgeBand = "above80"
)

// AgeBands lists the supported bands in ascending order.
var AgeBands = []AgeBand{AgeBelow60, Age60To80, AgeAbove80}

// IsSenior reports whether the band uses senior-citizen limits.
func (a AgeBand) IsSenior() bool {
	return a == Age60To80 || a == AgeAbove80
}

// Valid reports whether a is a known age band.
func (a AgeBand) Valid() bool {
	for _, b := range AgeBands {
		if a == b {
			return true
		}
	}
	return false
}

// ParseAgeBand resolves user text such as "below60", "60-80" or "80+".
func ParseAgeBand(s string) (AgeBand, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	switch n {
	case "below60", "below_60", "<60", "under60":
		return AgeBelow60, nil
	case "60to80", "60_to_80", "60-80", "senior":
		return Age60To80, nil
	case "above80", "above_80", "80+", "super_senior", "supersenior":
		return AgeAbove80, nil
	}
	return "", NewConfigError("age_band", s, ErrUnknownAgeBand)
}

// ResidencyStatus is the statutory residential status for a fiscal year.
type ResidencyStatus string

const (
	ResidentOrdinary    ResidencyStatus = "ROR"
	ResidentNotOrdinary ResidencyStatus = "RNOR"
	NonResident         ResidencyStatus = "NRI"
)

// IsNonResident reports whether most deductions and the rebate are withdrawn.
func (r ResidencyStatus) IsNonResident() bool { return r == NonResident }

// Description returns the long form of the status.
func (r ResidencyStatus) Description() string {
	switch r {
	case ResidentOrdinary:
		return "Resident and Ordinarily Resident"
	case ResidentNotOrdinary:
		return "Resident but Not Ordinarily Resident"
	case NonResident:
		return "Non-Resident"
	}
	return string(r)
}

// ParseResidencyStatus resolves "ROR", "RNOR" or "NRI" (case-insensitive).
func ParseResidencyStatus(s string) (ResidencyStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ROR":
		return ResidentOrdinary, nil
	case "RNOR":
		return ResidentNotOrdinary, nil
	case "NRI", "NR":
		return NonResident, nil
	}
	return "", NewConfigError("residency.status", s, ErrUnknownResidency)
}

// Regime is one of the two statutory tax regimes.
type Regime string

const (
	RegimeOld Regime = "old"
	RegimeNew Regime = "new"
	// RegimeEither marks a comparison where both regimes cost the same.
	RegimeEither Regime = "equal"
)

// ParseRegime resolves "old" or "new". Empty input yields an empty regime.
func ParseRegime(s string) (Regime, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "old":
		return RegimeOld, nil
	case "new":
		return RegimeNew, nil
	}
	return "", NewConfigError("preferred_regime", s, ErrUnknownRegime)
}

// Label returns a display title for the regime.
func (r Regime) Label() string {
	switch r {
	case RegimeOld:
		return "Old Regime"
	case RegimeNew:
		return "New Regime"
	}
	return "Either Regime"
}

// ResidencyInput carries the day counts used by the residency tests.
type ResidencyInput struct {
	DaysCurrentFY   int  `yaml:"days_current_fy" json:"days_current_fy"`
	DaysPrev4FY     int  `yaml:"days_prev_4_fy" json:"days_prev_4_fy"`
	DaysPrev7FY     int  `yaml:"days_prev_7_fy" json:"days_prev_7_fy"`
	ResidentIn2Of10 bool `yaml:"resident_2_of_10" json:"resident_2_of_10"`
}

// IncomeInputs holds all monetary inputs for one evaluation.
// Sec80TTA carries savings interest for both §80TTA and §80TTB; the age band picks the cap.
type IncomeInputs struct {
	GrossSalary                  decimal.Decimal `json:"gross_salary"`
	OtherIncome                  decimal.Decimal `json:"other_income"`
	HouseProperty                decimal.Decimal `json:"house_property"`
	HomeLoanInterestSelfOccupied decimal.Decimal `json:"home_loan_interest_self_occupied"`
	HomeLoanInterestLetOut       decimal.Decimal `json:"home_loan_interest_let_out"`
	HRAReceived                  decimal.Decimal `json:"hra_received"`
	RentPaid                     decimal.Decimal `json:"rent_paid"`
	Sec80C                       decimal.Decimal `json:"sec_80c"`
	Sec80D                       decimal.Decimal `json:"sec_80d"`
	Sec80E                       decimal.Decimal `json:"sec_80e"`
	Sec80G                       decimal.Decimal `json:"sec_80g"`
	Sec80TTA                     decimal.Decimal `json:"sec_80tta"`
	NPSEmployee                  decimal.Decimal `json:"nps_employee"`
	NPSEmployer                  decimal.Decimal `json:"nps_employer"`
}

// HasIncome reports whether any income head carries a non-zero amount.
func (in IncomeInputs) HasIncome() bool {
	return !in.GrossSalary.IsZero() || !in.OtherIncome.IsZero() || !in.HouseProperty.IsZero()
}

// TaxRequest is the complete, validated input to one comparison.
type TaxRequest struct {
	FiscalYear      FiscalYear      `json:"fiscal_year"`
	AgeBand         AgeBand         `json:"age_band"`
	Residency       ResidencyStatus `json:"residency"`
	IsMetro         bool            `json:"is_metro"`
	PreferredRegime Regime          `json:"preferred_regime,omitempty"`
	Income          IncomeInputs    `json:"income"`
	CapitalGains    CapitalGains    `json:"capital_gains"`
}
