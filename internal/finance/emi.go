// Package finance holds the closed-form estimators shown next to listings.
package finance

import "math"

const (
	// DefaultLoanRatio is the share of the price offered as the default loan amount
	DefaultLoanRatio = 0.8
	// MaxTenureYears is the longest loan tenure offered
	MaxTenureYears = 30
	// MaxRatePct caps the annual rate accepted by EMI
	MaxRatePct = 50.0
	// MaxAmount bounds loan amounts and prices
	MaxAmount = 1e12
)

// ValidAmount reports whether v is a finite amount in (0, MaxAmount]
func ValidAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0 && v <= MaxAmount
}

// ValidRate reports whether pct is a finite annual rate in [0, MaxRatePct]
func ValidRate(pct float64) bool {
	return !math.IsNaN(pct) && pct >= 0 && pct <= MaxRatePct
}

// BankRate is an indicative annual home-loan rate in percent
type BankRate struct {
	Name string  `json:"name"`
	Rate float64 `json:"rate"`
}

// BankRates lists indicative home-loan rates; the first entry is the default.
var BankRates = []BankRate{
	{Name: "Standard Market Rate", Rate: 8.50},
	{Name: "SBI Home Loan", Rate: 8.40},
	{Name: "HDFC Bank", Rate: 8.55},
	{Name: "ICICI Bank", Rate: 8.75},
	{Name: "Axis Bank", Rate: 8.85},
	{Name: "Kotak Mahindra", Rate: 8.90},
	{Name: "LIC Housing", Rate: 8.65},
}

// EMI returns the rounded monthly instalment for a loan:
// E = P·r·(1+r)^n / ((1+r)^n − 1) with r the monthly rate and n the number of months.
// A zero rate spreads the principal evenly. Out-of-range principal, rate or tenure
// (outside 1..MaxTenureYears) gives 0.
func EMI(principal, annualRatePct float64, tenureYears int) float64 {
	if !ValidAmount(principal) || !ValidRate(annualRatePct) || tenureYears < 1 || tenureYears > MaxTenureYears {
		return 0
	}
	n := float64(tenureYears * 12)
	r := annualRatePct / 12 / 100
	if r == 0 {
		return math.Round(principal / n)
	}
	growth := math.Pow(1+r, n)
	return math.Round(principal * r * growth / (growth - 1))
}
