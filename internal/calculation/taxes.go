package calculation

import (
	"fmt"

	"github.com/rgehrsitz/itax/internal/domain"
	"github.com/shopspring/decimal"
)

// SlabTax applies a progressive schedule to income and returns the tax with a
// line per slab that taxed a non-zero portion, in ascending order.
func SlabTax(income decimal.Decimal, slabs domain.SlabTable) (decimal.Decimal, []domain.SlabLine) {
	var totalTax decimal.Decimal
	var lines []domain.SlabLine

	lower := decimal.Zero
	for _, slab := range slabs {
		if income.LessThanOrEqual(lower) {
			break
		}
		upper := income
		if slab.UpTo != nil {
			upper = decimal.Min(income, *slab.UpTo)
		}
		portion := upper.Sub(lower)
		if portion.GreaterThan(decimal.Zero) {
			tax := portion.Mul(slab.Rate)
			totalTax = totalTax.Add(tax)
			line := domain.SlabLine{Lower: lower, Rate: slab.Rate, Taxed: portion, Tax: tax}
			if slab.UpTo != nil {
				bound := *slab.UpTo
				line.Upper = &bound
			}
			lines = append(lines, line)
		}
		if slab.UpTo == nil {
			break
		}
		lower = *slab.UpTo
	}

	return totalTax, lines
}

// slabLabel renders a slab line such as "300000 - 700000 @ 5%".
func slabLabel(line domain.SlabLine) string {
	return fmt.Sprintf("%s - %s @ %s", line.Lower.StringFixed(0), line.UpperLabel(), percentLabel(line.Rate))
}

// percentLabel renders a fractional rate as a percentage, e.g. 0.125 -> "12.5%".
func percentLabel(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).String() + "%"
}
