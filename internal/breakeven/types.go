package breakeven

import (
	"github.com/rgehrsitz/itax/internal/domain"
	"github.com/rgehrsitz/itax/internal/transform"
	"github.com/shopspring/decimal"
)

// Target defines what quantity the solver searches for
type Target string

const (
	// TargetOldRegimeDeduction searches for the additional old-regime
	// deductions at which the old regime costs no more than the new one.
	TargetOldRegimeDeduction Target = "old_regime_deduction"
)

// Request defines the parameters for a break-even run
type Request struct {
	Base          domain.TaxRequest `json:"-"`
	Target        Target            `json:"target"`
	MaxIterations int               `json:"max_iterations"`
	Tolerance     decimal.Decimal   `json:"tolerance"`
	// Upper bounds the search; zero means the old regime's taxable income.
	Upper decimal.Decimal `json:"upper"`
	// Transforms are applied to Base before solving.
	Transforms []transform.RequestTransform `json:"-"`
}

// Result contains the outcome of a break-even run
type Result struct {
	FiscalYear      domain.FiscalYear `json:"fiscal_year"`
	Target          Target            `json:"target"`
	Success         bool              `json:"success"`
	AlreadyCheaper  bool              `json:"already_cheaper"`
	Iterations      int               `json:"iterations"`
	ConvergenceInfo string            `json:"convergence_info"`

	// ExtraDeduction is rounded up to the whole rupee.
	ExtraDeduction decimal.Decimal `json:"extra_deduction"`
	// CurrentClaims are the old-regime deductions already claimed.
	CurrentClaims decimal.Decimal `json:"current_claims"`

	Base        *domain.ComparisonResult `json:"base"`
	AtBreakEven *domain.ComparisonResult `json:"at_break_even,omitempty"`
}

// RequiredClaims is the total old-regime deduction needed to break even.
func (r *Result) RequiredClaims() decimal.Decimal {
	return r.CurrentClaims.Add(r.ExtraDeduction)
}

// SolverOptions configures the solver algorithm
type SolverOptions struct {
	Tolerance     decimal.Decimal // Convergence tolerance in rupees
	MaxIterations int             // Maximum bisection steps
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:     decimal.NewFromInt(1),
		MaxIterations: 64,
	}
}

// BreakEvenError represents errors from break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
