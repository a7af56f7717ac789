package validate

import "math"

// GrowthRate returns the year-over-year change as a percentage:
// (current - prior) / prior * 100. A zero prior with a non-zero current is
// infinite growth; callers guard for it before presenting the figure.
func GrowthRate(current, prior float64) float64 {
	if prior == 0 {
		if current == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return (current - prior) / prior * 100
}

// CAGR returns the compound annual growth rate as a percentage over the
// given number of years.
func CAGR(startValue, endValue float64, years int) float64 {
	if startValue <= 0 || years <= 0 {
		return 0
	}
	return (math.Pow(endValue/startValue, 1.0/float64(years)) - 1) * 100
}
