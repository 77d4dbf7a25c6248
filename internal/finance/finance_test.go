package finance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEMI(t *testing.T) {
	// 40 lakh at 8.5% for 20 years
	assert.Equal(t, 34713.0, EMI(4_000_000, 8.5, 20))
	// one year, 12% → r = 1%
	want := math.Round(120000 * 0.01 * math.Pow(1.01, 12) / (math.Pow(1.01, 12) - 1))
	assert.Equal(t, want, EMI(120000, 12, 1))
}

func TestEMI_Edges(t *testing.T) {
	assert.Equal(t, 1000.0, EMI(120000, 0, 10))
	assert.Zero(t, EMI(0, 8.5, 20))
	assert.Zero(t, EMI(100000, 8.5, 0))
	assert.Zero(t, EMI(100000, -1, 5))
}

func TestBankRates_DefaultFirst(t *testing.T) {
	assert.Equal(t, "Standard Market Rate", BankRates[0].Name)
	assert.Equal(t, 8.50, BankRates[0].Rate)
	assert.Len(t, BankRates, 7)
}

func TestGrowthRate(t *testing.T) {
	assert.Equal(t, 0.08, GrowthRate("Mumbai", "Apartment"))
	assert.InDelta(t, 0.11, GrowthRate("Goa", "Villa"), 1e-9)
	assert.Equal(t, 0.06, GrowthRate("Nagpur", "Apartment"))
	assert.InDelta(t, 0.07, GrowthRate("Nagpur", "Villa"), 1e-9)
}

func TestPredict(t *testing.T) {
	p := Predict(10_000_000, "Mumbai", "Apartment", 5)
	assert.Equal(t, 5, p.Years)
	assert.Equal(t, math.Round(10_000_000*math.Pow(1.08, 5)), p.PredictedPrice)
	assert.Equal(t, p.PredictedPrice-10_000_000, p.Appreciation)
}

func TestPredict_ClampsYears(t *testing.T) {
	assert.Equal(t, 1, Predict(100, "Pune", "Plot", 0).Years)
	assert.Equal(t, 15, Predict(100, "Pune", "Plot", 40).Years)
}

func TestEMI_RejectsOutOfRangeInputs(t *testing.T) {
	cases := []struct {
		name      string
		principal float64
		rate      float64
		years     int
	}{
		{"infinite principal", math.Inf(1), 8.5, 20},
		{"nan principal", math.NaN(), 8.5, 20},
		{"huge principal", 1e308, 8.5, 20},
		{"nan rate", 100000, math.NaN(), 20},
		{"infinite rate", 100000, math.Inf(1), 20},
		{"rate above cap", 100000, MaxRatePct + 1, 20},
		{"tenure above cap", 100000, 8.5, MaxTenureYears + 1},
		{"huge tenure", 100000, 8.5, 100000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Zero(t, EMI(tc.principal, tc.rate, tc.years))
		})
	}
}

func TestEMI_FiniteAtLimits(t *testing.T) {
	e := EMI(MaxAmount, MaxRatePct, MaxTenureYears)
	assert.False(t, math.IsInf(e, 0) || math.IsNaN(e))
	assert.Positive(t, e)
}

func TestPredict_RejectsNonFinitePrice(t *testing.T) {
	for _, price := range []float64{math.Inf(1), math.NaN(), 1e308} {
		p := Predict(price, "Goa", "Villa", 15)
		assert.Zero(t, p.PredictedPrice)
		assert.Zero(t, p.Appreciation)
	}
	p := Predict(MaxAmount, "Goa", "Villa", 15)
	assert.False(t, math.IsInf(p.PredictedPrice, 0))
}
