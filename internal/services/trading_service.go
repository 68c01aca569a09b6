package services

import (
	"context"
	"fmt"

	"github.com/coindash/coindash-go/internal/analysis"
	"github.com/coindash/coindash-go/internal/cache"
	"github.com/coindash/coindash-go/internal/coingecko"
	"github.com/coindash/coindash-go/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// TradingService orchestrates the market-data client and the optional
// response cache. It owns the fallback policy for the available-coins
// listing and the time-frame to history-window mapping.
type TradingService struct {
	client coingecko.MarketDataService
	cache  *cache.MarketCache
	logger *logrus.Logger
}

// NewTradingService creates a new trading service.
func NewTradingService(client coingecko.MarketDataService, marketCache *cache.MarketCache, logger *logrus.Logger) *TradingService {
	if logger == nil {
		logger = logrus.New()
	}
	return &TradingService{
		client: client,
		cache:  marketCache,
		logger: logger,
	}
}

// Initialize pings the upstream API. A failure leaves the service usable:
// endpoints that need the upstream fail per-request instead.
func (s *TradingService) Initialize(ctx context.Context) error {
	if err := s.client.Ping(ctx); err != nil {
		return fmt.Errorf("upstream ping failed: %w", err)
	}
	return nil
}

// HistoryWindowDays maps a requested time frame to the history window used
// for signal generation: 7 days for 1h, 30 for 24h, 90 otherwise.
func HistoryWindowDays(timeFrame string) int {
	switch timeFrame {
	case analysis.TimeFrame1h:
		return 7
	case analysis.TimeFrame24h:
		return 30
	default:
		return 90
	}
}

// PopularCoins is the fixed fallback list served when the upstream cannot
// produce the available-coins listing. Prices and signals never fall back.
func PopularCoins() []models.CoinSummary {
	return []models.CoinSummary{
		{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", MarketCapRank: 1},
		{ID: "ethereum", Symbol: "eth", Name: "Ethereum", MarketCapRank: 2},
		{ID: "tether", Symbol: "usdt", Name: "Tether", MarketCapRank: 3},
		{ID: "binancecoin", Symbol: "bnb", Name: "BNB", MarketCapRank: 4},
		{ID: "solana", Symbol: "sol", Name: "Solana", MarketCapRank: 5},
		{ID: "ripple", Symbol: "xrp", Name: "XRP", MarketCapRank: 6},
		{ID: "usd-coin", Symbol: "usdc", Name: "USD Coin", MarketCapRank: 7},
		{ID: "cardano", Symbol: "ada", Name: "Cardano", MarketCapRank: 8},
		{ID: "dogecoin", Symbol: "doge", Name: "Dogecoin", MarketCapRank: 9},
		{ID: "avalanche-2", Symbol: "avax", Name: "Avalanche", MarketCapRank: 10},
	}
}

// AvailableCoins returns the known coins. The boolean reports whether the
// fixed fallback list was substituted because the upstream failed.
func (s *TradingService) AvailableCoins(ctx context.Context) ([]models.CoinSummary, bool) {
	cacheKey := "available_coins"
	var cached []models.CoinSummary
	if s.cache.Get(ctx, cacheKey, &cached) {
		return cached, false
	}

	coins, err := s.client.GetAvailableCoins(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("Available coins unavailable upstream, serving fallback list")
		return PopularCoins(), true
	}

	s.cache.Set(ctx, cacheKey, coins)
	return coins, false
}

// CurrentPrice returns the current USD price of a coin.
func (s *TradingService) CurrentPrice(ctx context.Context, coinID string) (decimal.Decimal, error) {
	return s.client.GetCurrentPrice(ctx, coinID, "usd")
}

// PriceIn returns the current price of a coin in an arbitrary currency.
func (s *TradingService) PriceIn(ctx context.Context, coinID, vsCurrency string) (decimal.Decimal, error) {
	return s.client.GetCurrentPrice(ctx, coinID, vsCurrency)
}

// MarketSnapshot returns the market listing row of a single coin, or nil
// when the upstream has none.
func (s *TradingService) MarketSnapshot(ctx context.Context, coinID string) (*models.CoinMarket, error) {
	cacheKey := "snapshot:" + coinID
	var cached models.CoinMarket
	if s.cache.Get(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	rows, err := s.client.GetCoinMarkets(ctx, coingecko.MarketsRequest{
		VsCurrency: "usd",
		IDs:        []string{coinID},
		PerPage:    1,
		Page:       1,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	s.cache.Set(ctx, cacheKey, rows[0])
	return &rows[0], nil
}

// HistoricalSeries returns the ordered USD price series over the window.
func (s *TradingService) HistoricalSeries(ctx context.Context, coinID string, days int) ([]models.PricePoint, error) {
	return s.client.GetHistoricalSeries(ctx, coinID, days)
}

// GlobalSummary returns aggregate market totals.
func (s *TradingService) GlobalSummary(ctx context.Context) (*models.MarketPerformance, error) {
	cacheKey := "global_summary"
	var cached models.MarketPerformance
	if s.cache.Get(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	summary, err := s.client.GetGlobalSummary(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, cacheKey, summary)
	return summary, nil
}

// TopMovers returns the market listing sorted by 24h percent change.
func (s *TradingService) TopMovers(ctx context.Context, limit int, gainers bool) ([]models.CoinMarket, error) {
	order := coingecko.OrderChange24hDesc
	direction := "gainers"
	if !gainers {
		order = coingecko.OrderChange24hAsc
		direction = "losers"
	}

	cacheKey := fmt.Sprintf("top_movers:%s:%d", direction, limit)
	var cached []models.CoinMarket
	if s.cache.Get(ctx, cacheKey, &cached) {
		return cached, nil
	}

	rows, err := s.client.GetCoinMarkets(ctx, coingecko.MarketsRequest{
		VsCurrency:            "usd",
		Order:                 order,
		PerPage:               limit,
		Page:                  1,
		PriceChangePercentage: "24h",
	})
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, cacheKey, rows)
	return rows, nil
}

// Trending returns at most limit currently trending coins.
func (s *TradingService) Trending(ctx context.Context, limit int) ([]models.TrendingCoin, error) {
	cacheKey := "trending"
	var coins []models.TrendingCoin
	if !s.cache.Get(ctx, cacheKey, &coins) {
		fetched, err := s.client.GetTrending(ctx)
		if err != nil {
			return nil, err
		}
		coins = fetched
		s.cache.Set(ctx, cacheKey, coins)
	}

	if len(coins) > limit {
		coins = coins[:limit]
	}
	return coins, nil
}

// UpstreamHealthy reports whether the market-data API answers a ping.
func (s *TradingService) UpstreamHealthy(ctx context.Context) bool {
	return s.client.Ping(ctx) == nil
}

// CacheStats exposes cache counters for the health endpoint.
func (s *TradingService) CacheStats() cache.Stats {
	return s.cache.GetStats()
}

// CacheHealthy reports whether the response cache is attached and reachable.
func (s *TradingService) CacheHealthy(ctx context.Context) bool {
	return s.cache.Enabled() && s.cache.HealthCheck(ctx) == nil
}
