package service

import "math"

// RoundingPrecision is the scale applied to float64 values returned by the
// service layer (two decimal places).
const RoundingPrecision = 100

// round rounds a float64 value to two decimal places using the package RoundingPrecision constant.
// It is applied to the display-only statistics of the performance series.
//
// The rounding uses the standard "round half up" approach via math.Round.
//
// Example:
//
//	round(123.456789)  // returns 123.46
//	round(1.994)       // returns 1.99
func round(value float64) float64 {
	return math.Round(value*RoundingPrecision) / RoundingPrecision
}

// roundStats rounds every float statistic of a performance series.
func roundStats(s PerformanceStats) PerformanceStats {
	s.First = round(s.First)
	s.Last = round(s.Last)
	s.Change = round(s.Change)
	s.ChangePercent = round(s.ChangePercent)
	s.MaxDrawdownPercent = round(s.MaxDrawdownPercent)
	s.Volatility = round(s.Volatility)
	return s
}
