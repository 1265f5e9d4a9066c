package calculation

import (
	"fmt"

	"github.com/rgehrsitz/itax/internal/domain"
	"github.com/rgehrsitz/itax/internal/rules"
	"github.com/shopspring/decimal"
)

// reportPlaces is the precision every reported amount is rounded to.
const reportPlaces = 2

// Engine computes both regimes for a request against a rule registry.
// It holds no per-call state and may be shared between goroutines.
type Engine struct {
	Rules  *rules.Registry
	Logger Logger
}

// NewEngine creates an engine over reg, or over the embedded rules when reg is nil.
func NewEngine(reg *rules.Registry) *Engine {
	if reg == nil {
		reg = rules.Default()
	}
	return &Engine{Rules: reg, Logger: NopLogger{}}
}

// SetLogger sets the engine logger; nil resets it to a no-op logger.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// Compute evaluates the old and new regimes for req. It returns either a
// complete result or an error, never a partial result.
func (e *Engine) Compute(req domain.TaxRequest) (result *domain.ComparisonResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("tax computation failed: %v", r)
		}
	}()

	rt, err := e.Rules.Lookup(req.FiscalYear)
	if err != nil {
		return nil, err
	}
	if !req.AgeBand.Valid() {
		return nil, domain.NewConfigError("age_band", string(req.AgeBand), domain.ErrUnknownAgeBand)
	}
	switch req.Residency {
	case domain.ResidentOrdinary, domain.ResidentNotOrdinary, domain.NonResident:
	default:
		return nil, domain.NewConfigError("residency", string(req.Residency), domain.ErrUnknownResidency)
	}

	cg, err := CapitalGainsTax(req.CapitalGains.All(), rt)
	if err != nil {
		return nil, fmt.Errorf("capital gains: %w", err)
	}
	gti := GrossTotalIncome(req.Income, cg.Amount)
	e.Logger.Debugf("FY %s: gross total income %s, capital gains %s taxed %s", rt.FiscalYear, gti, cg.Amount, cg.Tax)

	oldResult, err := e.computeRegime(req, rt, domain.RegimeOld, cg, gti)
	if err != nil {
		return nil, err
	}
	newResult, err := e.computeRegime(req, rt, domain.RegimeNew, cg, gti)
	if err != nil {
		return nil, err
	}

	result = &domain.ComparisonResult{
		FiscalYear:         rt.FiscalYear,
		AgeBand:            req.AgeBand,
		Residency:          req.Residency,
		GrossTotalIncome:   round(gti),
		CapitalGainsAmount: round(cg.Amount),
		Old:                oldResult,
		New:                newResult,
		PreferredRegime:    req.PreferredRegime,
		Notes:              housePropertyNotes(req.Income, rt.Deductions),
	}
	result.Difference = oldResult.TotalTax.Sub(newResult.TotalTax).Abs()
	switch oldResult.TotalTax.Cmp(newResult.TotalTax) {
	case -1:
		result.Cheaper = domain.RegimeOld
	case 1:
		result.Cheaper = domain.RegimeNew
	default:
		result.Cheaper = domain.RegimeEither
	}

	e.Logger.Infof("FY %s: old regime %s, new regime %s, cheaper %s by %s",
		rt.FiscalYear, oldResult.TotalTax, newResult.TotalTax, result.Cheaper, result.Difference)
	return result, nil
}

// computeRegime runs deductions, slab tax, rebate, surcharge and cess for one regime.
func (e *Engine) computeRegime(req domain.TaxRequest, rt *domain.RuleTable, regime domain.Regime, cg CapitalGainsSummary, gti decimal.Decimal) (domain.RegimeResult, error) {
	slabs, err := rt.SlabsFor(regime, req.AgeBand)
	if err != nil {
		return domain.RegimeResult{}, err
	}

	var ded DeductionSummary
	if regime == domain.RegimeOld {
		ded = OldRegimeDeductions(req.Income, req.AgeBand, req.Residency, req.IsMetro, rt.Deductions)
	} else {
		ded = NewRegimeDeductions(req.Income, req.Residency, rt.Deductions)
	}
	taxable := TaxableIncome(req.Income, ded.Total)

	generalTax, slabLines := SlabTax(taxable, slabs)
	rebate := Rebate87A(generalTax, taxable, rt.RebateFor(regime), req.Residency)
	afterRebate := TaxAfterRebate(generalTax, cg.Tax, rebate)
	final := ApplySurchargeAndCess(afterRebate, gti, rt.SurchargeFor(regime), rt.CessRate)

	e.Logger.Debugf("%s regime: deductions %s, taxable %s, slab tax %s, rebate %s, surcharge %s, cess %s",
		regime, ded.Total, taxable, generalTax, rebate, final.Surcharge, final.Cess)

	res := domain.RegimeResult{
		Regime:           regime,
		TotalDeductions:  round(ded.Total),
		TaxableIncome:    round(taxable),
		GeneralIncomeTax: round(generalTax),
		CapitalGainsTax:  round(cg.Tax),
		Rebate:           round(rebate),
		TaxAfterRebate:   round(afterRebate),
		SurchargeRate:    final.Rate,
		Surcharge:        round(final.Surcharge),
		Cess:             round(final.Cess),
		// exact total, not the sum of the rounded parts
		TotalTax:         round(final.Total),
		Deductions:       roundLines(ded.Lines),
	}

	for _, line := range slabLines {
		res.TaxLines = append(res.TaxLines, domain.LineItem{Kind: domain.KindSlabTax, Label: slabLabel(line), Amount: round(line.Tax)})
		line.Taxed = round(line.Taxed)
		line.Tax = round(line.Tax)
		res.Slabs = append(res.Slabs, line)
	}
	if cg.Tax.IsPositive() {
		res.TaxLines = append(res.TaxLines, domain.LineItem{Kind: domain.KindCapitalGainsTax, Label: "Capital Gains Tax", Amount: round(cg.Tax)})
	}
	if rebate.IsPositive() {
		res.TaxLines = append(res.TaxLines, domain.LineItem{Kind: domain.KindRebate, Label: "Less: Rebate u/s 87A", Amount: round(rebate).Neg()})
	}
	if final.Surcharge.IsPositive() {
		res.TaxLines = append(res.TaxLines, domain.LineItem{Kind: domain.KindSurcharge, Label: fmt.Sprintf("Surcharge (%s)", percentLabel(final.Rate)), Amount: round(final.Surcharge)})
	}
	res.TaxLines = append(res.TaxLines, domain.LineItem{Kind: domain.KindCess, Label: fmt.Sprintf("Health & Education Cess (%s)", percentLabel(rt.CessRate)), Amount: round(final.Cess)})

	for _, line := range cg.Lines {
		line.Exemption = round(line.Exemption)
		line.Tax = round(line.Tax)
		res.CapitalGains = append(res.CapitalGains, line)
	}
	return res, nil
}

// housePropertyNotes flags a house-property loss beyond the set-off limit. The
// loss is not capped in the computation.
func housePropertyNotes(in domain.IncomeInputs, limits domain.DeductionLimits) []string {
	loss := in.HomeLoanInterestLetOut.Sub(in.HouseProperty)
	if limits.HousePropertyLossSetOff.IsPositive() && loss.GreaterThan(limits.HousePropertyLossSetOff) {
		return []string{fmt.Sprintf("House property loss of %s exceeds the set-off limit of %s; the full loss is used in this estimate.",
			loss.StringFixed(0), limits.HousePropertyLossSetOff.StringFixed(0))}
	}
	return nil
}

// round applies the single reporting rounding: two places, half away from zero.
func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(reportPlaces)
}

func roundLines(lines []domain.LineItem) []domain.LineItem {
	out := make([]domain.LineItem, len(lines))
	for i, l := range lines {
		l.Amount = round(l.Amount)
		out[i] = l
	}
	return out
}
