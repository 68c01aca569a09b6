// Package analysis derives descriptive statistics and rule-based trading
// signals from historical price series. Everything in this package is a pure
// function: no clock, no randomness, no external state.
package analysis

import (
	"math"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"
	"github.com/coindash/coindash-go/internal/models"
)

// Time frame buckets accepted by the calculators.
const (
	TimeFrame1h  = "1h"
	TimeFrame24h = "24h"
	TimeFrame7d  = "7d"
	TimeFrame30d = "30d"
)

// smaWindow maps a time frame to the SMA lookback, before capping at the
// series length.
func smaWindow(timeFrame string) int {
	switch timeFrame {
	case TimeFrame1h:
		return 6
	case TimeFrame24h:
		return 12
	default:
		return 24
	}
}

// CalculateMetrics computes the metrics bundle for an ordered price series.
// Returns nil when the series has fewer than two points: there is no change
// to measure, and an explicit absence beats a fabricated zero.
func CalculateMetrics(points []models.PricePoint, timeFrame string) *models.TradingMetrics {
	if len(points) < 2 {
		return nil
	}

	prices := make([]float64, len(points))
	for i, p := range points {
		prices[i] = p.Price.InexactFloat64()
	}

	first := prices[0]
	last := prices[len(prices)-1]
	if first == 0 {
		return nil
	}

	minPrice := prices[0]
	maxPrice := prices[0]
	sum := 0.0
	for _, p := range prices {
		sum += p
		if p < minPrice {
			minPrice = p
		}
		if p > maxPrice {
			maxPrice = p
		}
	}

	window := smaWindow(timeFrame)
	if window > len(prices) {
		window = len(prices)
	}

	return &models.TradingMetrics{
		TimeFrame:          timeFrame,
		PriceChangePercent: (last - first) / first * 100,
		MeanPrice:          sum / float64(len(prices)),
		MinPrice:           minPrice,
		MaxPrice:           maxPrice,
		SMA:                latestSMA(prices, window),
		Volatility:         returnVolatility(prices),
		FirstPrice:         first,
		LastPrice:          last,
		DataPoints:         len(prices),
	}
}

// latestSMA returns the last value of the simple moving average over the
// given window.
func latestSMA(prices []float64, window int) float64 {
	sma := trend.NewSmaWithPeriod[float64](window)
	values := helper.ChanToSlice(sma.Compute(helper.SliceToChan(prices)))
	if len(values) == 0 {
		return 0
	}
	return values[len(values)-1]
}

// returnVolatility is the population standard deviation of successive
// percent changes.
func returnVolatility(prices []float64) float64 {
	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			continue
		}
		returns = append(returns, (prices[i]-prices[i-1])/prices[i-1]*100)
	}
	if len(returns) == 0 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns))

	return math.Sqrt(variance)
}
