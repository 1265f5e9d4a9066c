package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/itax/internal/domain"
	"github.com/rgehrsitz/itax/pkg/money"
)

// YearsResult holds a break-even result per fiscal year
type YearsResult struct {
	Results         []Result `json:"results"`
	Recommendations []string `json:"recommendations"`
}

// SolveYears runs req against each fiscal year, or every year in the rule
// registry when years is empty.
func (s *Solver) SolveYears(ctx context.Context, req Request, years []domain.FiscalYear) (*YearsResult, error) {
	if len(years) == 0 {
		years = s.CalcEngine.Rules.FiscalYears()
	}

	out := &YearsResult{}
	for _, fy := range years {
		yearReq := req
		yearReq.Base.FiscalYear = fy
		res, err := s.Solve(ctx, yearReq)
		if err != nil {
			return nil, fmt.Errorf("fiscal year %s: %w", fy, err)
		}
		out.Results = append(out.Results, *res)
	}
	out.Recommendations = generateRecommendations(out.Results)
	return out, nil
}

func generateRecommendations(results []Result) []string {
	recommendations := []string{}
	for _, r := range results {
		switch {
		case r.AlreadyCheaper:
			recommendations = append(recommendations,
				fmt.Sprintf("FY %s: the Old Regime is already at least as cheap", r.FiscalYear))
		case r.Success:
			recommendations = append(recommendations,
				fmt.Sprintf("FY %s: claim %s more in old-regime deductions (%s in total) to break even",
					r.FiscalYear, money.FormatRupees(r.ExtraDeduction), money.FormatRupees(r.RequiredClaims())))
		default:
			recommendations = append(recommendations,
				fmt.Sprintf("FY %s: stay with the New Regime (%s)", r.FiscalYear, r.ConvergenceInfo))
		}
	}
	return recommendations
}
