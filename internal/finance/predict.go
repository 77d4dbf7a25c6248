package finance

import "math"

const (
	defaultGrowthRate = 0.06
	villaPremium      = 0.01
	minYears          = 1
	maxYears          = 15
)

// cityGrowthRates are assumed annual appreciation rates by city
var cityGrowthRates = map[string]float64{
	"Mumbai":    0.08,
	"Bangalore": 0.09,
	"Delhi":     0.07,
	"Goa":       0.10,
	"Pune":      0.075,
}

// Prediction is a compound-growth price estimate
type Prediction struct {
	Years          int     `json:"years"`
	GrowthRate     float64 `json:"growth_rate"`
	PredictedPrice float64 `json:"predicted_price"`
	Appreciation   float64 `json:"appreciation"`
}

// GrowthRate returns the assumed annual rate for a city and property type
func GrowthRate(city, propertyType string) float64 {
	rate, ok := cityGrowthRates[city]
	if !ok {
		rate = defaultGrowthRate
	}
	if propertyType == "Villa" {
		rate += villaPremium
	}
	return rate
}

// Predict compounds currentPrice at the city rate for years, clamped to 1..15.
// A price rejected by ValidAmount gives a zero prediction.
func Predict(currentPrice float64, city, propertyType string, years int) Prediction {
	years = max(minYears, min(maxYears, years))
	rate := GrowthRate(city, propertyType)
	if !ValidAmount(currentPrice) {
		return Prediction{Years: years, GrowthRate: rate}
	}
	future := math.Round(currentPrice * math.Pow(1+rate, float64(years)))
	return Prediction{
		Years:          years,
		GrowthRate:     rate,
		PredictedPrice: future,
		Appreciation:   future - math.Round(currentPrice),
	}
}
