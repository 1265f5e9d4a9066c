package compare

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/rgehrsitz/itax/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSet() *ComparisonSet {
	mc := NewMetricsCalculator()
	base := mc.CalculateMetrics(comparison("2024-25", 257400, 130000))
	alt := mc.CalculateComparison(mc.CalculateMetrics(comparison("2025-26", 257400, 97500)), base)
	compSet := &ComparisonSet{
		BaseFiscalYear:     "2024-25",
		BaseResult:         &base,
		AlternativeResults: []YearResult{alt},
		ProfilePath:        "/path/to/profile.yaml",
	}
	compSet.Recommendations = GenerateRecommendations(compSet)
	return compSet
}

func TestTableFormatter_Format(t *testing.T) {
	formatter := &TableFormatter{}

	result := formatter.Format(sampleSet())

	assert.Contains(t, result, "FISCAL YEAR TAX COMPARISON")
	assert.Contains(t, result, "Base Fiscal Year: 2024-25")
	assert.Contains(t, result, "Profile: /path/to/profile.yaml")
	assert.Contains(t, result, "2024-25 (base)")
	assert.Contains(t, result, "2.57 L")
	assert.Contains(t, result, "COMPARISON TO BASE")
	assert.Contains(t, result, "-₹32,500.00 (-25.0%)")
	assert.Contains(t, result, "RECOMMENDATIONS")
}

func TestTableFormatter_Format_EmptyAlternatives(t *testing.T) {
	formatter := &TableFormatter{}
	compSet := sampleSet()
	compSet.AlternativeResults = nil
	compSet.Recommendations = nil

	result := formatter.Format(compSet)

	assert.Contains(t, result, "2024-25 (base)")
	assert.NotContains(t, result, "COMPARISON TO BASE")
	assert.NotContains(t, result, "RECOMMENDATIONS")
}

func TestTableFormatter_FormatDecimal(t *testing.T) {
	formatter := &TableFormatter{}

	tests := []struct {
		input    int64
		expected string
	}{
		{500, "500"},
		{130000, "1.30 L"},
		{12500000, "1.25 Cr"},
		{-250000, "-2.50 L"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, formatter.formatDecimal(decimal.NewFromInt(tt.input)))
	}
}

func TestCSVFormatter_Format(t *testing.T) {
	formatter := &CSVFormatter{}

	result, err := formatter.Format(sampleSet())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(result), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Fiscal Year,Type,Old Regime Tax"))
	assert.Equal(t, "2024-25,base,257400.00,130000.00,new,130000.00,13.00,0.00,0.00", lines[1])
	assert.Equal(t, "2025-26,alternative,257400.00,97500.00,new,97500.00,9.75,-32500.00,-25.00", lines[2])
}

func TestJSONFormatter_Format(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		formatter := &JSONFormatter{Pretty: pretty}

		result, err := formatter.Format(sampleSet())
		require.NoError(t, err)
		assert.Equal(t, pretty, strings.Contains(result, "\n  "))

		var decoded map[string]any
		require.NoError(t, json.Unmarshal([]byte(result), &decoded))
		assert.Equal(t, "2024-25", decoded["baseFiscalYear"])
		assert.Len(t, decoded["alternativeResults"], 1)

		summary, ok := decoded["summary"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "2025-26", summary["lowestTaxYear"])
		assert.Equal(t, "32500", summary["savingsVsBase"])
		assert.Equal(t, false, summary["regimeChanges"])
	}
}

func TestSummarize(t *testing.T) {
	summary := Summarize(sampleSet())

	assert.Equal(t, []domain.FiscalYear{"2024-25", "2025-26"}, summary.FiscalYears)
	assert.Equal(t, domain.RegimeNew, summary.BestRegimeByYear["2024-25"])
	assert.True(t, summary.BestTaxByYear["2025-26"].Equal(decimal.NewFromInt(97500)))
	assert.Equal(t, domain.FiscalYear("2025-26"), summary.LowestTaxYear)
	assert.True(t, summary.LowestTax.Equal(decimal.NewFromInt(97500)))
	assert.True(t, summary.SavingsVsBase.Equal(decimal.NewFromInt(32500)))
	assert.False(t, summary.RegimeChanges)

	mc := NewMetricsCalculator()
	base := mc.CalculateMetrics(comparison("2024-25", 100000, 130000))
	switched := &ComparisonSet{
		BaseFiscalYear:     "2024-25",
		BaseResult:         &base,
		AlternativeResults: []YearResult{mc.CalculateComparison(mc.CalculateMetrics(comparison("2025-26", 100000, 97500)), base)},
	}
	summary = Summarize(switched)
	assert.True(t, summary.RegimeChanges)
	assert.Equal(t, domain.RegimeOld, summary.BestRegimeByYear["2024-25"])

	empty := Summarize(&ComparisonSet{})
	assert.Empty(t, empty.FiscalYears)
	assert.True(t, empty.LowestTax.IsZero())
}
