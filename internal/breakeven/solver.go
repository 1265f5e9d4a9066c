package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/itax/internal/calculation"
	"github.com/rgehrsitz/itax/internal/domain"
	"github.com/rgehrsitz/itax/internal/transform"
	"github.com/rgehrsitz/itax/pkg/money"
	"github.com/shopspring/decimal"
)

// Solver finds the point at which the old regime stops costing more than the
// new regime.
type Solver struct {
	CalcEngine *calculation.Engine
	Options    SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(calcEngine *calculation.Engine, options SolverOptions) *Solver {
	return &Solver{
		CalcEngine: calcEngine,
		Options:    options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(calcEngine *calculation.Engine) *Solver {
	return NewSolver(calcEngine, DefaultSolverOptions())
}

// Solve runs the search described by req.
func (s *Solver) Solve(ctx context.Context, req Request) (*Result, error) {
	if req.MaxIterations <= 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if !req.Tolerance.IsPositive() {
		req.Tolerance = s.Options.Tolerance
	}
	if req.Target == "" {
		req.Target = TargetOldRegimeDeduction
	}
	if len(req.Transforms) > 0 {
		base, err := transform.ApplyTransforms(req.Base, req.Transforms)
		if err != nil {
			return nil, &BreakEvenError{Operation: "solve", Message: "failed to apply transforms", Cause: err}
		}
		req.Base = base
	}

	switch req.Target {
	case TargetOldRegimeDeduction:
		return s.solveOldRegimeDeduction(ctx, req)
	default:
		return nil, &BreakEvenError{
			Operation: "solve",
			Message:   fmt.Sprintf("unsupported break-even target: %s", req.Target),
		}
	}
}

// solveOldRegimeDeduction bisects over an extra uncapped old-regime claim.
// The new regime ignores the claim, and old-regime tax never rises as
// deductions grow, so the first point where old <= new is well defined.
func (s *Solver) solveOldRegimeDeduction(ctx context.Context, req Request) (*Result, error) {
	base, err := s.CalcEngine.Compute(req.Base)
	if err != nil {
		return nil, &BreakEvenError{Operation: "solve_old_regime_deduction", Message: "failed to compute base request", Cause: err}
	}

	result := &Result{
		FiscalYear:     base.FiscalYear,
		Target:         req.Target,
		Base:           base,
		CurrentClaims:  base.Old.TotalDeductions,
		ExtraDeduction: decimal.Zero,
	}

	if base.Old.TotalTax.LessThanOrEqual(base.New.TotalTax) {
		result.Success = true
		result.AlreadyCheaper = true
		result.AtBreakEven = base
		result.ConvergenceInfo = "Old Regime already costs no more than the New Regime"
		return result, nil
	}
	if base.Residency.IsNonResident() {
		result.ConvergenceInfo = "Non-residents cannot claim the old-regime deductions needed to break even"
		return result, nil
	}

	// Search whole rupees: old(lo) > new and old(hi) <= new throughout.
	lo := decimal.Zero
	hi := req.Upper.Ceil()
	if !hi.IsPositive() {
		hi = base.Old.TaxableIncome.Ceil()
	}

	at, err := s.evaluate(req.Base, hi)
	if err != nil {
		return nil, err
	}
	if at.Old.TotalTax.GreaterThan(at.New.TotalTax) {
		result.ConvergenceInfo = fmt.Sprintf("Old Regime still costs more with %s of extra deductions", money.FormatRupees(hi))
		return result, nil
	}

	two := decimal.NewFromInt(2)
	for result.Iterations < req.MaxIterations && hi.Sub(lo).GreaterThan(req.Tolerance) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		result.Iterations++

		mid := lo.Add(hi).Div(two).Floor()
		cr, err := s.evaluate(req.Base, mid)
		if err != nil {
			return nil, err
		}
		if cr.Old.TotalTax.LessThanOrEqual(cr.New.TotalTax) {
			hi = mid
			at = cr
		} else {
			lo = mid
		}
	}

	result.Success = true
	result.ExtraDeduction = hi
	result.AtBreakEven = at
	if hi.Sub(lo).GreaterThan(req.Tolerance) {
		result.ConvergenceInfo = fmt.Sprintf("Max iterations (%d) reached", req.MaxIterations)
	} else {
		result.ConvergenceInfo = "Binary search converged"
	}
	return result, nil
}

// evaluate computes req with extra added to the uncapped old-regime claims.
func (s *Solver) evaluate(req domain.TaxRequest, extra decimal.Decimal) (*domain.ComparisonResult, error) {
	req, err := transform.ApplyTransforms(req, []transform.RequestTransform{
		&transform.AddDeduction{Section: "sec_80g", Amount: extra},
	})
	if err != nil {
		return nil, &BreakEvenError{Operation: "evaluate", Message: "failed to apply extra deductions", Cause: err}
	}
	cr, err := s.CalcEngine.Compute(req)
	if err != nil {
		return nil, &BreakEvenError{
			Operation: "evaluate",
			Message:   fmt.Sprintf("failed to compute with %s extra deductions", extra.StringFixed(2)),
			Cause:     err,
		}
	}
	return cr, nil
}
