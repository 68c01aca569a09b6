package coingecko

import (
	"github.com/shopspring/decimal"
)

// PingResponse is the payload of GET /ping.
type PingResponse struct {
	GeckoSays string `json:"gecko_says"`
}

// SimplePriceResponse maps coin id -> currency -> price.
type SimplePriceResponse map[string]map[string]decimal.Decimal

// MarketChartResponse is the payload of GET /coins/{id}/market_chart.
// Each entry is a [unix_ms, value] pair.
type MarketChartResponse struct {
	Prices       [][]float64 `json:"prices"`
	MarketCaps   [][]float64 `json:"market_caps"`
	TotalVolumes [][]float64 `json:"total_volumes"`
}

// GlobalResponse is the payload of GET /global.
type GlobalResponse struct {
	Data GlobalData `json:"data"`
}

type GlobalData struct {
	ActiveCryptocurrencies          int                        `json:"active_cryptocurrencies"`
	UpcomingICOs                    int                        `json:"upcoming_icos"`
	OngoingICOs                     int                        `json:"ongoing_icos"`
	EndedICOs                       int                        `json:"ended_icos"`
	Markets                         int                        `json:"markets"`
	TotalMarketCap                  map[string]decimal.Decimal `json:"total_market_cap"`
	TotalVolume                     map[string]decimal.Decimal `json:"total_volume"`
	MarketCapPercentage             map[string]float64         `json:"market_cap_percentage"`
	MarketCapChangePercentage24hUSD float64                    `json:"market_cap_change_percentage_24h_usd"`
	UpdatedAt                       int64                      `json:"updated_at"`
}

// TrendingResponse is the payload of GET /search/trending.
type TrendingResponse struct {
	Coins []TrendingEntry `json:"coins"`
}

type TrendingEntry struct {
	Item TrendingItem `json:"item"`
}

type TrendingItem struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Symbol        string          `json:"symbol"`
	MarketCapRank int             `json:"market_cap_rank"`
	Thumb         string          `json:"thumb"`
	PriceBTC      decimal.Decimal `json:"price_btc"`
}

// ErrorResponse is the error body CoinGecko returns on failed requests.
type ErrorResponse struct {
	Status struct {
		ErrorCode    int    `json:"error_code"`
		ErrorMessage string `json:"error_message"`
	} `json:"status"`
	Error string `json:"error"`
}

// MarketsRequest holds the query parameters of GET /coins/markets.
type MarketsRequest struct {
	VsCurrency            string
	IDs                   []string
	Order                 string
	PerPage               int
	Page                  int
	PriceChangePercentage string
}

// Market listing sort orders.
const (
	OrderMarketCapDesc = "market_cap_desc"
	OrderChange24hDesc = "price_change_percentage_24h_desc"
	OrderChange24hAsc  = "price_change_percentage_24h_asc"
)
