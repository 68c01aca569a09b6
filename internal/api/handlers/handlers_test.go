package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coindash/coindash-go/internal/cache"
	"github.com/coindash/coindash-go/internal/coingecko"
	"github.com/coindash/coindash-go/internal/models"
	"github.com/coindash/coindash-go/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeMarketData implements coingecko.MarketDataService with overridable
// behavior per test.
type fakeMarketData struct {
	pingFn      func(ctx context.Context) error
	priceFn     func(ctx context.Context, coinID, vsCurrency string) (decimal.Decimal, error)
	marketsFn   func(ctx context.Context, req coingecko.MarketsRequest) ([]models.CoinMarket, error)
	seriesFn    func(ctx context.Context, coinID string, days int) ([]models.PricePoint, error)
	globalFn    func(ctx context.Context) (*models.MarketPerformance, error)
	trendingFn  func(ctx context.Context) ([]models.TrendingCoin, error)
	availableFn func(ctx context.Context) ([]models.CoinSummary, error)

	marketsCalls   int
	availableCalls int
}

func (f *fakeMarketData) Ping(ctx context.Context) error {
	if f.pingFn != nil {
		return f.pingFn(ctx)
	}
	return nil
}

func (f *fakeMarketData) GetCurrentPrice(ctx context.Context, coinID, vsCurrency string) (decimal.Decimal, error) {
	if f.priceFn != nil {
		return f.priceFn(ctx, coinID, vsCurrency)
	}
	return decimal.Zero, nil
}

func (f *fakeMarketData) GetCoinMarkets(ctx context.Context, req coingecko.MarketsRequest) ([]models.CoinMarket, error) {
	f.marketsCalls++
	if f.marketsFn != nil {
		return f.marketsFn(ctx, req)
	}
	return nil, nil
}

func (f *fakeMarketData) GetHistoricalSeries(ctx context.Context, coinID string, days int) ([]models.PricePoint, error) {
	if f.seriesFn != nil {
		return f.seriesFn(ctx, coinID, days)
	}
	return nil, nil
}

func (f *fakeMarketData) GetGlobalSummary(ctx context.Context) (*models.MarketPerformance, error) {
	if f.globalFn != nil {
		return f.globalFn(ctx)
	}
	return &models.MarketPerformance{}, nil
}

func (f *fakeMarketData) GetTrending(ctx context.Context) ([]models.TrendingCoin, error) {
	if f.trendingFn != nil {
		return f.trendingFn(ctx)
	}
	return nil, nil
}

func (f *fakeMarketData) GetAvailableCoins(ctx context.Context) ([]models.CoinSummary, error) {
	f.availableCalls++
	if f.availableFn != nil {
		return f.availableFn(ctx)
	}
	return nil, nil
}

var _ coingecko.MarketDataService = (*fakeMarketData)(nil)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func newTestService(client coingecko.MarketDataService) *services.TradingService {
	marketCache := cache.NewMarketCache(nil, time.Minute, quietLogger())
	return services.NewTradingService(client, marketCache, quietLogger())
}

// newTestRouter wires the handlers onto a bare engine, mirroring the
// production route table for the paths under test.
func newTestRouter(client coingecko.MarketDataService) *gin.Engine {
	service := newTestService(client)
	trading := NewTradingHandler(service, quietLogger())
	market := NewMarketHandler(service, quietLogger())
	health := NewHealthHandler(service, quietLogger())

	router := gin.New()
	router.GET("/api/health", health.HealthCheck)
	router.GET("/api/v1/trading/test", trading.Test)
	router.GET("/api/v1/trading/coins/available", trading.AvailableCoins)
	router.GET("/api/v1/trading/:coin_id/price", trading.CurrentPrice)
	router.GET("/api/v1/trading/:coin_id/signals", trading.Signals)
	router.GET("/api/v1/trading/:coin_id/metrics", trading.Metrics)
	router.GET("/api/v1/trading/:coin_id/calculate", trading.Calculate)
	router.GET("/api/v1/market/performance", market.Performance)
	router.GET("/api/v1/coins/top-gainers", market.TopGainers)
	router.GET("/api/v1/coins/top-losers", market.TopLosers)
	router.GET("/api/v1/coins/trending", market.Trending)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body),
		"body: %s", recorder.Body.String())
	return recorder, body
}
