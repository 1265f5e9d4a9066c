package money

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatINR_Small(t *testing.T) {
	assert.Equal(t, "₹999.00", FormatINR(decimal.NewFromInt(999)))
	assert.Equal(t, "₹0.00", FormatINR(decimal.Zero))
	assert.Equal(t, "-₹5.50", FormatINR(decimal.RequireFromString("-5.5")))
	assert.Equal(t, "₹0.13", FormatINR(decimal.RequireFromString("0.125")))
}

func TestFormatINR_Grouping(t *testing.T) {
	got := FormatINR(decimal.NewFromInt(1250000))

	assert.True(t, strings.HasPrefix(got, "₹"))
	assert.True(t, strings.HasSuffix(got, ".00"))
	assert.Contains(t, []string{"₹12,50,000.00", "₹1,250,000.00"}, got)
}

func TestFormatRupeesAndASCII(t *testing.T) {
	assert.Equal(t, "₹750", FormatRupees(decimal.RequireFromString("750.4")))
	assert.Equal(t, "Rs. 120.00", FormatASCII(decimal.NewFromInt(120)))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "12.5%", FormatPercent(decimal.RequireFromString("0.125")))
	assert.Equal(t, "37%", FormatPercent(decimal.RequireFromString("0.37")))
	assert.Equal(t, "0%", FormatPercent(decimal.Zero))
}

func TestEffectiveRate(t *testing.T) {
	assert.True(t, EffectiveRate(decimal.NewFromInt(52000), decimal.NewFromInt(1250000)).Equal(decimal.RequireFromString("4.16")))
	assert.True(t, EffectiveRate(decimal.NewFromInt(100), decimal.Zero).IsZero())
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "New Regime", Title("new regime"))
	assert.Equal(t, "Old Regime", Title("OLD REGIME"))
}
