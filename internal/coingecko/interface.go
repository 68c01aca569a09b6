package coingecko

import (
	"context"

	"github.com/coindash/coindash-go/internal/models"
	"github.com/shopspring/decimal"
)

// MarketDataService is the outbound boundary to the market-data API.
// Handlers and services depend on this interface so they can be tested
// against a fake without network access.
type MarketDataService interface {
	// Ping checks upstream reachability.
	Ping(ctx context.Context) error

	// GetCurrentPrice returns the current price of a coin in the given
	// currency. Returns market.ErrDataUnavailable when the upstream has no
	// price for the pair.
	GetCurrentPrice(ctx context.Context, coinID, vsCurrency string) (decimal.Decimal, error)

	// GetCoinMarkets returns market listing rows per the request.
	GetCoinMarkets(ctx context.Context, req MarketsRequest) ([]models.CoinMarket, error)

	// GetHistoricalSeries returns the ordered price series of a coin over
	// the given number of days. An empty series is returned as-is; callers
	// decide whether that is an error.
	GetHistoricalSeries(ctx context.Context, coinID string, days int) ([]models.PricePoint, error)

	// GetGlobalSummary returns aggregate market totals.
	GetGlobalSummary(ctx context.Context) (*models.MarketPerformance, error)

	// GetTrending returns currently trending coins.
	GetTrending(ctx context.Context) ([]models.TrendingCoin, error)

	// GetAvailableCoins returns known coins ordered by market cap rank.
	GetAvailableCoins(ctx context.Context) ([]models.CoinSummary, error)
}
