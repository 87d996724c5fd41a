// Package services implements the quotation pricing and aggregation core:
// contractor quote pricing, tax regimes, management markup, and work-level
// aggregation, plus the export builders that consume the computed figures.
package services

import "math"

// DefaultVATRate is the flat VAT (IVA) percentage applied by the vat regime
// and to the profit component of the AIU regime.
const DefaultVATRate = 19.0

// Round2 rounds to 2 decimal places. Used for per-line totals, which keep
// cents; aggregates do not.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// RoundUnit rounds half-up to the nearest whole currency unit. Applied only
// when computing tax-inclusive totals and AG values, never on intermediate
// per-line figures.
func RoundUnit(v float64) float64 {
	return math.Floor(v + 0.5)
}

// ValidPercentage reports whether p is a usable percentage in [0, 100].
func ValidPercentage(p float64) bool {
	return p >= 0 && p <= 100
}
