package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/itax/internal/calculation"
	"github.com/rgehrsitz/itax/internal/domain"
	"github.com/rgehrsitz/itax/internal/transform"
)

// CompareEngine evaluates one request across several fiscal years
type CompareEngine struct {
	CalcEngine        *calculation.Engine
	MetricsCalculator *MetricsCalculator
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.Engine) *CompareEngine {
	return &CompareEngine{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	BaseFiscalYear domain.FiscalYear   // defaults to the request's fiscal year
	FiscalYears    []domain.FiscalYear // defaults to every year in the rule registry
	ProfilePath    string
	// Transforms are applied to the request before each fiscal year is set.
	Transforms []transform.RequestTransform
}

// Compare runs the request against the base year and each alternative year
func (ce *CompareEngine) Compare(ctx context.Context, req domain.TaxRequest, options CompareOptions) (*ComparisonSet, error) {
	base := options.BaseFiscalYear
	if base == "" {
		base = req.FiscalYear
	}
	years := options.FiscalYears
	if len(years) == 0 {
		years = ce.CalcEngine.Rules.FiscalYears()
	}

	baseResult, err := ce.run(ctx, req, base, options.Transforms)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base fiscal year %s: %w", base, err)
	}
	baseMetrics := ce.MetricsCalculator.CalculateMetrics(baseResult)

	alternatives := []YearResult{}
	for _, fy := range years {
		if fy == base {
			continue
		}
		result, err := ce.run(ctx, req, fy, options.Transforms)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate fiscal year %s: %w", fy, err)
		}
		metrics := ce.MetricsCalculator.CalculateMetrics(result)
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(metrics, baseMetrics))
	}

	compSet := &ComparisonSet{
		BaseFiscalYear:     base,
		BaseResult:         &baseMetrics,
		AlternativeResults: alternatives,
		ProfilePath:        options.ProfilePath,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)
	return compSet, nil
}

func (ce *CompareEngine) run(ctx context.Context, req domain.TaxRequest, fy domain.FiscalYear, transforms []transform.RequestTransform) (*domain.ComparisonResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	steps := append(append([]transform.RequestTransform(nil), transforms...), &transform.SetFiscalYear{FiscalYear: fy})
	yearReq, err := transform.ApplyTransforms(req, steps)
	if err != nil {
		return nil, err
	}
	return ce.CalcEngine.Compute(yearReq)
}
