package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is a single entry of a historical price series.
type PricePoint struct {
	Timestamp time.Time       `json:"timestamp"`
	Price     decimal.Decimal `json:"price"`
}

// CoinSummary identifies a coin in the upstream API's namespace.
type CoinSummary struct {
	ID            string `json:"id"`
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	MarketCapRank int    `json:"market_cap_rank"`
}

// CoinMarket is one row of a market listing.
type CoinMarket struct {
	ID                       string          `json:"id"`
	Symbol                   string          `json:"symbol"`
	Name                     string          `json:"name"`
	Image                    string          `json:"image,omitempty"`
	CurrentPrice             decimal.Decimal `json:"current_price"`
	MarketCap                decimal.Decimal `json:"market_cap"`
	MarketCapRank            int             `json:"market_cap_rank"`
	TotalVolume              decimal.Decimal `json:"total_volume"`
	High24h                  decimal.Decimal `json:"high_24h"`
	Low24h                   decimal.Decimal `json:"low_24h"`
	PriceChangePercentage24h float64         `json:"price_change_percentage_24h"`
	LastUpdated              string          `json:"last_updated,omitempty"`
}

// MarketPerformance aggregates global market totals.
type MarketPerformance struct {
	TotalMarketCap         decimal.Decimal `json:"total_market_cap"`
	TotalVolume            decimal.Decimal `json:"total_volume"`
	VolumeMarketCapRatio   float64         `json:"volume_market_cap_ratio"`
	MarketCapChange24h     float64         `json:"market_cap_change_24h"`
	ActiveCryptocurrencies int             `json:"active_cryptocurrencies"`
	UpcomingICOs           int             `json:"upcoming_icos"`
	OngoingICOs            int             `json:"ongoing_icos"`
	EndedICOs              int             `json:"ended_icos"`
	Markets                int             `json:"markets"`
	BitcoinDominance       float64         `json:"bitcoin_dominance"`
	EthereumDominance      float64         `json:"ethereum_dominance"`
	LastUpdated            int64           `json:"last_updated"`
}

// TrendingCoin is one entry of the trending search list.
type TrendingCoin struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Symbol        string          `json:"symbol"`
	MarketCapRank int             `json:"market_cap_rank"`
	Thumb         string          `json:"thumb,omitempty"`
	PriceBTC      decimal.Decimal `json:"price_btc"`
}
