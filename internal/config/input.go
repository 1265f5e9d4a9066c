package config

import (
	"fmt"
	"os"

	"github.com/rgehrsitz/itax/internal/calculation"
	"github.com/rgehrsitz/itax/internal/domain"
	"github.com/rgehrsitz/itax/internal/rules"
	"gopkg.in/yaml.v3"
)

// Profile is a taxpayer profile as written in a YAML or JSON file or posted
// to the HTTP API. Enum fields stay as text until validation.
type Profile struct {
	FiscalYear      string               `yaml:"fiscal_year" json:"fiscal_year"`
	AgeBand         string               `yaml:"age_band" json:"age_band"`
	IsMetro         bool                 `yaml:"metro" json:"metro"`
	PreferredRegime string               `yaml:"preferred_regime,omitempty" json:"preferred_regime,omitempty"`
	Residency       ResidencyProfile     `yaml:"residency" json:"residency"`
	Income          IncomeProfile        `yaml:"income" json:"income"`
	Deductions      DeductionProfile     `yaml:"deductions" json:"deductions"`
	CapitalGains    []TransactionProfile `yaml:"capital_gains,omitempty" json:"capital_gains,omitempty"`
}

// ResidencyProfile gives either an explicit status or the day counts to
// classify. An explicit status wins.
type ResidencyProfile struct {
	Status                string `yaml:"status,omitempty" json:"status,omitempty"`
	domain.ResidencyInput `yaml:",inline"`
}

// IncomeProfile holds the income heads.
type IncomeProfile struct {
	GrossSalary                  Amount `yaml:"gross_salary" json:"gross_salary"`
	OtherIncome                  Amount `yaml:"other_income" json:"other_income"`
	HouseProperty                Amount `yaml:"house_property" json:"house_property"`
	HomeLoanInterestSelfOccupied Amount `yaml:"home_loan_interest_self_occupied" json:"home_loan_interest_self_occupied"`
	HomeLoanInterestLetOut       Amount `yaml:"home_loan_interest_let_out" json:"home_loan_interest_let_out"`
	HRAReceived                  Amount `yaml:"hra_received" json:"hra_received"`
	RentPaid                     Amount `yaml:"rent_paid" json:"rent_paid"`
}

// DeductionProfile holds the claimed deductions before caps.
type DeductionProfile struct {
	Sec80C      Amount `yaml:"sec_80c" json:"sec_80c"`
	Sec80D      Amount `yaml:"sec_80d" json:"sec_80d"`
	Sec80E      Amount `yaml:"sec_80e" json:"sec_80e"`
	Sec80G      Amount `yaml:"sec_80g" json:"sec_80g"`
	Sec80TTA    Amount `yaml:"sec_80tta" json:"sec_80tta"`
	NPSEmployee Amount `yaml:"nps_employee" json:"nps_employee"`
	NPSEmployer Amount `yaml:"nps_employer" json:"nps_employer"`
}

// TransactionProfile is one capital gain entry.
type TransactionProfile struct {
	Term   string `yaml:"term" json:"term"`
	Amount Amount `yaml:"amount" json:"amount"`
	Bucket string `yaml:"bucket,omitempty" json:"bucket,omitempty"`
}

// InputParser handles parsing and validation of taxpayer profiles
type InputParser struct {
	Rules *rules.Registry
}

// NewInputParser creates a parser that validates against the embedded rules
func NewInputParser() *InputParser {
	return &InputParser{Rules: rules.Default()}
}

// NewInputParserWithRules creates a parser that validates against reg
func NewInputParserWithRules(reg *rules.Registry) *InputParser {
	return &InputParser{Rules: reg}
}

// LoadFromFile loads a profile from a YAML or JSON file
func (ip *InputParser) LoadFromFile(filename string) (*Profile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	profile, err := ip.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return profile, nil
}

// Parse decodes and validates a profile document
func (ip *InputParser) Parse(data []byte) (*Profile, error) {
	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := ip.ValidateProfile(&profile); err != nil {
		return nil, fmt.Errorf("profile validation failed: %w", err)
	}
	return &profile, nil
}

// ValidateProfile checks every enum field and fills defaults: the latest
// fiscal year when none is given and the below-60 age band.
func (ip *InputParser) ValidateProfile(p *Profile) error {
	reg := ip.Rules
	if reg == nil {
		reg = rules.Default()
	}

	if p.FiscalYear == "" {
		p.FiscalYear = string(reg.Latest())
	}
	if _, err := reg.Lookup(domain.FiscalYear(p.FiscalYear)); err != nil {
		return err
	}

	if p.AgeBand == "" {
		p.AgeBand = string(domain.AgeBelow60)
	}
	band, err := domain.ParseAgeBand(p.AgeBand)
	if err != nil {
		return err
	}
	p.AgeBand = string(band)

	if _, err := domain.ParseRegime(p.PreferredRegime); err != nil {
		return err
	}

	if p.Residency.Status != "" {
		if _, err := domain.ParseResidencyStatus(p.Residency.Status); err != nil {
			return err
		}
	}

	for i, tx := range p.CapitalGains {
		if _, err := domain.ParseTerm(tx.Term); err != nil {
			return fmt.Errorf("capital_gains[%d]: %w", i, err)
		}
		if _, err := domain.ParseDateBucket(tx.Bucket); err != nil {
			return fmt.Errorf("capital_gains[%d]: %w", i, err)
		}
	}
	return nil
}

// ResidencyStatus returns the explicit status or classifies the day counts.
// Day counts are never rejected; the classifier treats out-of-range values
// like any other count.
func (p *Profile) ResidencyStatus() (domain.ResidencyStatus, error) {
	if p.Residency.Status != "" {
		return domain.ParseResidencyStatus(p.Residency.Status)
	}
	return calculation.ClassifyResidency(p.Residency.ResidencyInput), nil
}

// ToRequest converts a validated profile into an engine request. Capital
// gains receive ids in file order.
func (p *Profile) ToRequest() (domain.TaxRequest, error) {
	band, err := domain.ParseAgeBand(p.AgeBand)
	if err != nil {
		return domain.TaxRequest{}, err
	}
	regime, err := domain.ParseRegime(p.PreferredRegime)
	if err != nil {
		return domain.TaxRequest{}, err
	}
	status, err := p.ResidencyStatus()
	if err != nil {
		return domain.TaxRequest{}, err
	}

	txs := domain.NewTransactionList()
	for i, tx := range p.CapitalGains {
		term, err := domain.ParseTerm(tx.Term)
		if err != nil {
			return domain.TaxRequest{}, fmt.Errorf("capital_gains[%d]: %w", i, err)
		}
		bucket, err := domain.ParseDateBucket(tx.Bucket)
		if err != nil {
			return domain.TaxRequest{}, fmt.Errorf("capital_gains[%d]: %w", i, err)
		}
		txs.Add(term, tx.Amount.Decimal, bucket)
	}

	return domain.TaxRequest{
		FiscalYear:      domain.FiscalYear(p.FiscalYear),
		AgeBand:         band,
		Residency:       status,
		IsMetro:         p.IsMetro,
		PreferredRegime: regime,
		Income: domain.IncomeInputs{
			GrossSalary:                  p.Income.GrossSalary.Decimal,
			OtherIncome:                  p.Income.OtherIncome.Decimal,
			HouseProperty:                p.Income.HouseProperty.Decimal,
			HomeLoanInterestSelfOccupied: p.Income.HomeLoanInterestSelfOccupied.Decimal,
			HomeLoanInterestLetOut:       p.Income.HomeLoanInterestLetOut.Decimal,
			HRAReceived:                  p.Income.HRAReceived.Decimal,
			RentPaid:                     p.Income.RentPaid.Decimal,
			Sec80C:                       p.Deductions.Sec80C.Decimal,
			Sec80D:                       p.Deductions.Sec80D.Decimal,
			Sec80E:                       p.Deductions.Sec80E.Decimal,
			Sec80G:                       p.Deductions.Sec80G.Decimal,
			Sec80TTA:                     p.Deductions.Sec80TTA.Decimal,
			NPSEmployee:                  p.Deductions.NPSEmployee.Decimal,
			NPSEmployer:                  p.Deductions.NPSEmployer.Decimal,
		},
		CapitalGains: txs.CapitalGains(),
	}, nil
}
