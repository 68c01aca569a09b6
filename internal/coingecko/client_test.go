package coingecko

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coindash/coindash-go/internal/config"
	"github.com/coindash/coindash-go/internal/market"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	return NewClient(&config.CoinGeckoConfig{
		BaseURL:      server.URL,
		Timeout:      5,
		MaxRetries:   2,
		RetryBackoff: "1ms",
	}, logger)
}

func TestPing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ping", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"gecko_says":"(V3) To the Moon!"}`))
	})

	assert.NoError(t, client.Ping(context.Background()))
}

func TestGetCurrentPrice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "bitcoin", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		w.Write([]byte(`{"bitcoin":{"usd":45123.45}}`))
	})

	price, err := client.GetCurrentPrice(context.Background(), "bitcoin", "usd")
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromFloat(45123.45)), "got %s", price)
}

func TestGetCurrentPrice_MissingCoin(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	_, err := client.GetCurrentPrice(context.Background(), "no-such-coin", "usd")
	assert.ErrorIs(t, err, market.ErrDataUnavailable)
}

func TestGetCoinMarkets(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/markets", r.URL.Path)
		query := r.URL.Query()
		assert.Equal(t, "usd", query.Get("vs_currency"))
		assert.Equal(t, "bitcoin,ethereum", query.Get("ids"))
		assert.Equal(t, OrderMarketCapDesc, query.Get("order"))
		assert.Equal(t, "2", query.Get("per_page"))
		w.Write([]byte(`[
			{"id":"bitcoin","symbol":"btc","name":"Bitcoin","current_price":45000,
			 "market_cap":880000000000,"market_cap_rank":1,"total_volume":25000000000,
			 "high_24h":45500,"low_24h":44000,"price_change_percentage_24h":2.5},
			{"id":"ethereum","symbol":"eth","name":"Ethereum","current_price":2400,
			 "market_cap":290000000000,"market_cap_rank":2,"total_volume":12000000000,
			 "high_24h":2450,"low_24h":2350,"price_change_percentage_24h":-1.2}
		]`))
	})

	rows, err := client.GetCoinMarkets(context.Background(), MarketsRequest{
		VsCurrency: "usd",
		IDs:        []string{"bitcoin", "ethereum"},
		Order:      OrderMarketCapDesc,
		PerPage:    2,
		Page:       1,
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "bitcoin", rows[0].ID)
	assert.Equal(t, 1, rows[0].MarketCapRank)
	assert.Equal(t, 2.5, rows[0].PriceChangePercentage24h)
	assert.Equal(t, "ethereum", rows[1].ID)
	assert.True(t, rows[1].CurrentPrice.Equal(decimal.NewFromInt(2400)))
}

func TestGetHistoricalSeries(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/bitcoin/market_chart", r.URL.Path)
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currency"))
		assert.Equal(t, "7", r.URL.Query().Get("days"))
		w.Write([]byte(`{"prices":[
			[1700000000000, 100.5],
			[1700086400000, 102.25],
			[1700172800000]
		],"market_caps":[],"total_volumes":[]}`))
	})

	points, err := client.GetHistoricalSeries(context.Background(), "bitcoin", 7)
	require.NoError(t, err)

	// The malformed single-element entry is skipped.
	require.Len(t, points, 2)
	assert.True(t, points[0].Price.Equal(decimal.NewFromFloat(100.5)))
	assert.True(t, points[1].Price.Equal(decimal.NewFromFloat(102.25)))
	assert.True(t, points[0].Timestamp.Before(points[1].Timestamp))
}

func TestGetGlobalSummary(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/global", r.URL.Path)
		w.Write([]byte(`{"data":{
			"active_cryptocurrencies": 10000,
			"upcoming_icos": 0,
			"ongoing_icos": 49,
			"ended_icos": 3376,
			"markets": 800,
			"total_market_cap": {"usd": 2000000000000},
			"total_volume": {"usd": 100000000000},
			"market_cap_percentage": {"btc": 48.5, "eth": 17.2},
			"market_cap_change_percentage_24h_usd": 1.8,
			"updated_at": 1700000000
		}}`))
	})

	summary, err := client.GetGlobalSummary(context.Background())
	require.NoError(t, err)

	assert.True(t, summary.TotalMarketCap.Equal(decimal.NewFromInt(2000000000000)))
	assert.InDelta(t, 5.0, summary.VolumeMarketCapRatio, 1e-9)
	assert.Equal(t, 1.8, summary.MarketCapChange24h)
	assert.Equal(t, 10000, summary.ActiveCryptocurrencies)
	assert.Equal(t, 48.5, summary.BitcoinDominance)
	assert.Equal(t, 17.2, summary.EthereumDominance)
	assert.Equal(t, int64(1700000000), summary.LastUpdated)
}

func TestGetTrending(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/trending", r.URL.Path)
		w.Write([]byte(`{"coins":[
			{"item":{"id":"pepe","name":"Pepe","symbol":"PEPE","market_cap_rank":40,
			         "thumb":"https://example.com/pepe.png","price_btc":0.00000001}},
			{"item":{"id":"sui","name":"Sui","symbol":"SUI","market_cap_rank":20,
			         "thumb":"https://example.com/sui.png","price_btc":0.00004}}
		]}`))
	})

	coins, err := client.GetTrending(context.Background())
	require.NoError(t, err)
	require.Len(t, coins, 2)

	assert.Equal(t, "pepe", coins[0].ID)
	assert.Equal(t, 40, coins[0].MarketCapRank)
	assert.Equal(t, "sui", coins[1].ID)
}

func TestGetAvailableCoins(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/markets", r.URL.Path)
		assert.Equal(t, OrderMarketCapDesc, r.URL.Query().Get("order"))
		assert.Equal(t, "250", r.URL.Query().Get("per_page"))
		w.Write([]byte(`[
			{"id":"bitcoin","symbol":"btc","name":"Bitcoin","market_cap_rank":1,
			 "current_price":45000,"market_cap":0,"total_volume":0,"high_24h":0,"low_24h":0,
			 "price_change_percentage_24h":0}
		]`))
	})

	coins, err := client.GetAvailableCoins(context.Background())
	require.NoError(t, err)
	require.Len(t, coins, 1)
	assert.Equal(t, "bitcoin", coins[0].ID)
	assert.Equal(t, "btc", coins[0].Symbol)
	assert.Equal(t, 1, coins[0].MarketCapRank)
}

func TestRetry_ServerErrorsThenSuccess(t *testing.T) {
	hits := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"upstream exploded"}`))
			return
		}
		w.Write([]byte(`{"gecko_says":"(V3) To the Moon!"}`))
	})

	assert.NoError(t, client.Ping(context.Background()))
	assert.Equal(t, 3, hits)
}

func TestRetry_RateLimitExhausted(t *testing.T) {
	hits := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"status":{"error_code":429,"error_message":"You've exceeded the Rate Limit"}}`))
	})

	err := client.Ping(context.Background())
	require.Error(t, err)

	// Initial attempt plus MaxRetries.
	assert.Equal(t, 3, hits)

	var upstreamErr *market.UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Equal(t, http.StatusTooManyRequests, upstreamErr.StatusCode)
	assert.Contains(t, upstreamErr.Error(), "Rate Limit")
}

func TestNotFound_NeverRetried(t *testing.T) {
	hits := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"coin not found"}`))
	})

	_, err := client.GetCurrentPrice(context.Background(), "no-such-coin", "usd")
	assert.ErrorIs(t, err, market.ErrDataUnavailable)
	assert.Equal(t, 1, hits)
}

func TestBadRequest_NotRetried(t *testing.T) {
	hits := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid vs_currency"}`))
	})

	err := client.Ping(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, hits)

	var upstreamErr *market.UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Equal(t, http.StatusBadRequest, upstreamErr.StatusCode)
}

func TestAPIKeyHeader(t *testing.T) {
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-cg-demo-api-key")
		w.Write([]byte(`{"gecko_says":"(V3) To the Moon!"}`))
	}))
	defer server.Close()

	client := NewClient(&config.CoinGeckoConfig{
		BaseURL: server.URL,
		APIKey:  "demo-key-123",
		Timeout: 5,
	}, nil)

	require.NoError(t, client.Ping(context.Background()))
	assert.Equal(t, "demo-key-123", gotKey)
}

func TestMalformedJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	})

	err := client.Ping(context.Background())
	require.Error(t, err)

	var upstreamErr *market.UpstreamError
	assert.True(t, errors.As(err, &upstreamErr))
}
