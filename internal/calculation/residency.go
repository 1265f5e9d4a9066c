package calculation

import "github.com/rgehrsitz/itax/internal/domain"

const (
	basicDaysCurrentYear   = 182
	extendedDaysCurrent    = 60
	extendedDaysPrev4Years = 365
	ordinaryDaysPrev7Years = 730
)

// ClassifyResidency applies the two basic residency tests and, for residents,
// the ordinarily-resident test. Negative day counts behave like zero.
func ClassifyResidency(in domain.ResidencyInput) domain.ResidencyStatus {
	basic1 := in.DaysCurrentFY >= basicDaysCurrentYear
	basic2 := in.DaysCurrentFY >= extendedDaysCurrent && in.DaysPrev4FY >= extendedDaysPrev4Years
	if !basic1 && !basic2 {
		return domain.NonResident
	}
	if in.ResidentIn2Of10 && in.DaysPrev7FY >= ordinaryDaysPrev7Years {
		return domain.ResidentOrdinary
	}
	return domain.ResidentNotOrdinary
}
