package analysis

import (
	"fmt"
	"math"

	"github.com/coindash/coindash-go/internal/models"
	"github.com/shopspring/decimal"
)

// Signal thresholds. Percent change beyond ±trendThreshold with calm
// volatility flips the label; beyond ±strongTrendThreshold the direction
// wins even in a volatile market.
const (
	trendThreshold       = 5.0
	strongTrendThreshold = 10.0
	calmVolatility       = 8.0

	minStrength = 0.10
	maxStrength = 0.95
)

// GenerateSignals evaluates the fixed rule set over a metrics bundle.
// Deterministic: the same metrics and time frame always yield the same
// signal.
func GenerateSignals(metrics *models.TradingMetrics, timeFrame string) models.TradingSignal {
	change := metrics.PriceChangePercent
	volatility := metrics.Volatility

	label := models.SignalHold
	var reasons []string
	var strength float64

	switch {
	case change >= trendThreshold && volatility < calmVolatility:
		label = models.SignalBuy
		strength = 0.3 + math.Abs(change)/20 - volatility/40
		reasons = append(reasons,
			fmt.Sprintf("price up %.2f%% over %s window", change, timeFrame),
			fmt.Sprintf("volatility %.2f below %.1f threshold", volatility, calmVolatility))
	case change <= -trendThreshold && volatility < calmVolatility:
		label = models.SignalSell
		strength = 0.3 + math.Abs(change)/20 - volatility/40
		reasons = append(reasons,
			fmt.Sprintf("price down %.2f%% over %s window", change, timeFrame),
			fmt.Sprintf("volatility %.2f below %.1f threshold", volatility, calmVolatility))
	case math.Abs(change) >= strongTrendThreshold:
		// Strong trend overrides a noisy market, at reduced strength.
		if change > 0 {
			label = models.SignalBuy
		} else {
			label = models.SignalSell
		}
		strength = 0.2 + math.Abs(change)/40
		reasons = append(reasons,
			fmt.Sprintf("strong move of %.2f%% despite volatility %.2f", change, volatility))
	default:
		strength = 0.5 - math.Abs(change)/20
		reasons = append(reasons,
			fmt.Sprintf("no clear trend: change %.2f%%, volatility %.2f", change, volatility))
	}

	strength = math.Min(maxStrength, math.Max(minStrength, strength))

	return models.TradingSignal{
		Signal:    label,
		Strength:  decimal.NewFromFloat(strength).Round(4),
		Reasons:   reasons,
		TimeFrame: timeFrame,
	}
}
