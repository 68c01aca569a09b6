package models

import "github.com/shopspring/decimal"

// TradingMetrics holds descriptive statistics derived from a historical
// price series. Values are plain floats: these are derived statistics,
// not money amounts.
type TradingMetrics struct {
	TimeFrame          string  `json:"time_frame"`
	PriceChangePercent float64 `json:"price_change_percent"`
	MeanPrice          float64 `json:"mean_price"`
	MinPrice           float64 `json:"min_price"`
	MaxPrice           float64 `json:"max_price"`
	SMA                float64 `json:"sma"`
	Volatility         float64 `json:"volatility"`
	FirstPrice         float64 `json:"first_price"`
	LastPrice          float64 `json:"last_price"`
	DataPoints         int     `json:"data_points"`
}

// Signal labels.
const (
	SignalBuy  = "buy"
	SignalSell = "sell"
	SignalHold = "hold"
)

// TradingSignal is a discrete recommendation derived from a metrics bundle.
// It carries no timestamp: the same metrics and time frame always produce
// the same signal.
type TradingSignal struct {
	Signal    string          `json:"signal"`
	Strength  decimal.Decimal `json:"strength"`
	Reasons   []string        `json:"reasons"`
	TimeFrame string          `json:"time_frame"`
}
