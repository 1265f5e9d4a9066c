package compare

import (
	"testing"

	"github.com/rgehrsitz/itax/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func comparison(fy domain.FiscalYear, oldTax, newTax int64) *domain.ComparisonResult {
	r := &domain.ComparisonResult{
		FiscalYear:       fy,
		Residency:        domain.ResidentOrdinary,
		GrossTotalIncome: decimal.NewFromInt(1000000),
		Old:              domain.RegimeResult{Regime: domain.RegimeOld, TotalTax: decimal.NewFromInt(oldTax)},
		New:              domain.RegimeResult{Regime: domain.RegimeNew, TotalTax: decimal.NewFromInt(newTax)},
	}
	r.Difference = r.Old.TotalTax.Sub(r.New.TotalTax).Abs()
	switch {
	case oldTax < newTax:
		r.Cheaper = domain.RegimeOld
	case oldTax > newTax:
		r.Cheaper = domain.RegimeNew
	default:
		r.Cheaper = domain.RegimeEither
	}
	return r
}

func TestMetricsCalculator_CalculateMetrics(t *testing.T) {
	mc := NewMetricsCalculator()

	yr := mc.CalculateMetrics(comparison("2024-25", 80000, 60000))

	assert.Equal(t, domain.FiscalYear("2024-25"), yr.FiscalYear)
	assert.Equal(t, domain.RegimeNew, yr.BestRegime)
	assert.True(t, yr.BestTax.Equal(decimal.NewFromInt(60000)))
	assert.True(t, yr.EffectiveRate.Equal(decimal.NewFromInt(6)))
}

func TestMetricsCalculator_CalculateComparison(t *testing.T) {
	mc := NewMetricsCalculator()

	t.Run("percentage against base", func(t *testing.T) {
		base := mc.CalculateMetrics(comparison("2024-25", 80000, 60000))
		year := mc.CalculateComparison(mc.CalculateMetrics(comparison("2025-26", 80000, 45000)), base)

		assert.True(t, year.TaxDiffFromBase.Equal(decimal.NewFromInt(-15000)))
		assert.True(t, year.TaxPctFromBase.Equal(decimal.NewFromInt(-25)))
	})

	t.Run("zero base tax", func(t *testing.T) {
		base := mc.CalculateMetrics(comparison("2024-25", 10000, 0))
		year := mc.CalculateComparison(mc.CalculateMetrics(comparison("2025-26", 10000, 5000)), base)

		assert.True(t, year.TaxDiffFromBase.Equal(decimal.NewFromInt(5000)))
		assert.True(t, year.TaxPctFromBase.IsZero())
	})
}

func TestRegimeRecommendations(t *testing.T) {
	tests := []struct {
		name        string
		description string
		result      func() *domain.ComparisonResult
		contains    []string
	}{
		{
			name:        "new cheaper",
			description: "Names the cheaper regime and the saving",
			result:      func() *domain.ComparisonResult { return comparison("2025-26", 80000, 60000) },
			contains:    []string{"New Regime saves ₹20,000.00 compared to the Old Regime"},
		},
		{
			name:        "equal",
			description: "Reports equal tax",
			result:      func() *domain.ComparisonResult { return comparison("2025-26", 0, 0) },
			contains:    []string{"Both regimes result in the same tax of ₹0.00"},
		},
		{
			name:        "preferred regime costs more",
			description: "Warns when the preferred regime is the expensive one",
			result: func() *domain.ComparisonResult {
				r := comparison("2025-26", 50000, 60000)
				r.PreferredRegime = domain.RegimeNew
				return r
			},
			contains: []string{"Old Regime saves", "Your preferred New Regime costs ₹10,000.00 more"},
		},
		{
			name:        "preferred regime matches",
			description: "Confirms the preferred regime",
			result: func() *domain.ComparisonResult {
				r := comparison("2025-26", 50000, 60000)
				r.PreferredRegime = domain.RegimeOld
				return r
			},
			contains: []string{"Your preferred regime is also the cheaper one"},
		},
		{
			name:        "non-resident",
			description: "Adds the non-resident note",
			result: func() *domain.ComparisonResult {
				r := comparison("2025-26", 50000, 60000)
				r.Residency = domain.NonResident
				return r
			},
			contains: []string{"Non-residents do not get the 87A rebate"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := RegimeRecommendations(tt.result())
			joined := ""
			for _, r := range recs {
				joined += r + "\n"
			}
			for _, want := range tt.contains {
				assert.Contains(t, joined, want, tt.description)
			}
		})
	}
}

func TestGenerateRecommendations(t *testing.T) {
	mc := NewMetricsCalculator()

	t.Run("nil base", func(t *testing.T) {
		assert.Empty(t, GenerateRecommendations(&ComparisonSet{}))
	})

	t.Run("regime switch and lowest tax", func(t *testing.T) {
		base := mc.CalculateMetrics(comparison("2024-25", 50000, 60000))
		alt := mc.CalculateComparison(mc.CalculateMetrics(comparison("2025-26", 50000, 20000)), base)
		compSet := &ComparisonSet{
			BaseFiscalYear:     "2024-25",
			BaseResult:         &base,
			AlternativeResults: []YearResult{alt},
		}

		recs := GenerateRecommendations(compSet)
		require.Len(t, recs, 4)
		assert.Equal(t, "FY 2024-25: Old Regime saves ₹10,000.00 compared to the New Regime", recs[0])
		assert.Equal(t, "FY 2025-26: New Regime saves ₹30,000.00 compared to the Old Regime", recs[1])
		assert.Equal(t, "Regime choice changes in FY 2025-26: switch to the New Regime", recs[2])
		assert.Equal(t, "Lowest Tax: FY 2025-26 costs ₹30,000.00 less than FY 2024-25", recs[3])
	})
}
