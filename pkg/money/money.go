package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Rupee is the currency marker used in terminal and JSON-adjacent output.
const Rupee = "₹"

// RupeeASCII is used where the output encoding cannot carry the rupee sign.
const RupeeASCII = "Rs. "

var indianEnglish = language.MustParse("en-IN")

// FormatINR formats an amount with Indian digit grouping and two decimals,
// e.g. ₹12,50,000.00.
func FormatINR(d decimal.Decimal) string {
	return format(d, Rupee, 2)
}

// FormatRupees formats a whole-rupee amount, e.g. ₹12,50,000.
func FormatRupees(d decimal.Decimal) string {
	return format(d, Rupee, 0)
}

// FormatASCII formats like FormatINR but with an ASCII currency marker.
func FormatASCII(d decimal.Decimal) string {
	return format(d, RupeeASCII, 2)
}

func format(d decimal.Decimal, symbol string, places int) string {
	d = d.Round(int32(places))
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	p := message.NewPrinter(indianEnglish)
	return sign + symbol + p.Sprint(number.Decimal(d.InexactFloat64(), number.Scale(places)))
}

// FormatPercent renders a fractional rate as a percentage with up to two
// decimals, e.g. 0.125 -> "12.5%".
func FormatPercent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).Round(2).String() + "%"
}

// EffectiveRate returns tax as a percentage of income, or zero for no income.
func EffectiveRate(tax, income decimal.Decimal) decimal.Decimal {
	if !income.IsPositive() {
		return decimal.Zero
	}
	return tax.Div(income).Mul(decimal.NewFromInt(100)).Round(2)
}

// Title capitalises each word of a label such as "new regime".
func Title(s string) string {
	return cases.Title(language.English).String(strings.ToLower(s))
}
