package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/coindash/coindash-go/internal/config"
	"github.com/coindash/coindash-go/internal/market"
	"github.com/coindash/coindash-go/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Client is the HTTP implementation of MarketDataService against the
// CoinGecko v3 API.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	apiKey     string
	maxRetries int
	backoff    time.Duration
	logger     *logrus.Logger
}

var _ MarketDataService = (*Client)(nil)

// NewClient creates a new CoinGecko client instance.
func NewClient(cfg *config.CoinGeckoConfig, logger *logrus.Logger) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &Client{
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		BaseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.RetryBackoffDuration(),
		logger:     logger,
	}
}

// Ping checks whether the upstream API is reachable.
func (c *Client) Ping(ctx context.Context) error {
	var response PingResponse
	return c.makeRequest(ctx, "/ping", nil, &response)
}

// GetCurrentPrice retrieves the current price for a coin in a currency.
func (c *Client) GetCurrentPrice(ctx context.Context, coinID, vsCurrency string) (decimal.Decimal, error) {
	params := url.Values{}
	params.Set("ids", coinID)
	params.Set("vs_currencies", vsCurrency)

	var response SimplePriceResponse
	if err := c.makeRequest(ctx, "/simple/price", params, &response); err != nil {
		return decimal.Zero, err
	}

	price, ok := response[coinID][vsCurrency]
	if !ok {
		return decimal.Zero, fmt.Errorf("no %s price for %q: %w", vsCurrency, coinID, market.ErrDataUnavailable)
	}
	return price, nil
}

// GetCoinMarkets retrieves market listing rows.
func (c *Client) GetCoinMarkets(ctx context.Context, req MarketsRequest) ([]models.CoinMarket, error) {
	params := url.Values{}
	vsCurrency := req.VsCurrency
	if vsCurrency == "" {
		vsCurrency = "usd"
	}
	params.Set("vs_currency", vsCurrency)
	if len(req.IDs) > 0 {
		params.Set("ids", strings.Join(req.IDs, ","))
	}
	if req.Order != "" {
		params.Set("order", req.Order)
	}
	if req.PerPage > 0 {
		params.Set("per_page", strconv.Itoa(req.PerPage))
	}
	if req.Page > 0 {
		params.Set("page", strconv.Itoa(req.Page))
	}
	if req.PriceChangePercentage != "" {
		params.Set("price_change_percentage", req.PriceChangePercentage)
	}

	var rows []models.CoinMarket
	if err := c.makeRequest(ctx, "/coins/markets", params, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// GetHistoricalSeries retrieves the daily price series of a coin.
func (c *Client) GetHistoricalSeries(ctx context.Context, coinID string, days int) ([]models.PricePoint, error) {
	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("days", strconv.Itoa(days))

	var response MarketChartResponse
	path := fmt.Sprintf("/coins/%s/market_chart", url.PathEscape(coinID))
	if err := c.makeRequest(ctx, path, params, &response); err != nil {
		return nil, err
	}

	points := make([]models.PricePoint, 0, len(response.Prices))
	for _, entry := range response.Prices {
		if len(entry) < 2 {
			continue
		}
		points = append(points, models.PricePoint{
			Timestamp: time.UnixMilli(int64(entry[0])).UTC(),
			Price:     decimal.NewFromFloat(entry[1]),
		})
	}
	return points, nil
}

// GetGlobalSummary retrieves aggregate market totals.
func (c *Client) GetGlobalSummary(ctx context.Context) (*models.MarketPerformance, error) {
	var response GlobalResponse
	if err := c.makeRequest(ctx, "/global", nil, &response); err != nil {
		return nil, err
	}

	data := response.Data
	totalMarketCap := data.TotalMarketCap["usd"]
	totalVolume := data.TotalVolume["usd"]

	ratio := 0.0
	if totalMarketCap.IsPositive() {
		ratio, _ = totalVolume.Div(totalMarketCap).Mul(decimal.NewFromInt(100)).Float64()
	}

	return &models.MarketPerformance{
		TotalMarketCap:         totalMarketCap,
		TotalVolume:            totalVolume,
		VolumeMarketCapRatio:   ratio,
		MarketCapChange24h:     data.MarketCapChangePercentage24hUSD,
		ActiveCryptocurrencies: data.ActiveCryptocurrencies,
		UpcomingICOs:           data.UpcomingICOs,
		OngoingICOs:            data.OngoingICOs,
		EndedICOs:              data.EndedICOs,
		Markets:                data.Markets,
		BitcoinDominance:       data.MarketCapPercentage["btc"],
		EthereumDominance:      data.MarketCapPercentage["eth"],
		LastUpdated:            data.UpdatedAt,
	}, nil
}

// GetTrending retrieves currently trending coins from the search endpoint.
func (c *Client) GetTrending(ctx context.Context) ([]models.TrendingCoin, error) {
	var response TrendingResponse
	if err := c.makeRequest(ctx, "/search/trending", nil, &response); err != nil {
		return nil, err
	}

	coins := make([]models.TrendingCoin, 0, len(response.Coins))
	for _, entry := range response.Coins {
		coins = append(coins, models.TrendingCoin{
			ID:            entry.Item.ID,
			Name:          entry.Item.Name,
			Symbol:        entry.Item.Symbol,
			MarketCapRank: entry.Item.MarketCapRank,
			Thumb:         entry.Item.Thumb,
			PriceBTC:      entry.Item.PriceBTC,
		})
	}
	return coins, nil
}

// GetAvailableCoins retrieves known coins ordered by market cap rank. The
// markets endpoint is used instead of /coins/list because it carries ranks.
func (c *Client) GetAvailableCoins(ctx context.Context) ([]models.CoinSummary, error) {
	rows, err := c.GetCoinMarkets(ctx, MarketsRequest{
		VsCurrency: "usd",
		Order:      OrderMarketCapDesc,
		PerPage:    250,
		Page:       1,
	})
	if err != nil {
		return nil, err
	}

	coins := make([]models.CoinSummary, 0, len(rows))
	for _, row := range rows {
		coins = append(coins, models.CoinSummary{
			ID:            row.ID,
			Symbol:        row.Symbol,
			Name:          row.Name,
			MarketCapRank: row.MarketCapRank,
		})
	}
	return coins, nil
}

// makeRequest performs a GET against the CoinGecko API with bounded retry.
// Transport errors, 429 and 5xx responses are retried with doubling backoff;
// 404 maps to market.ErrDataUnavailable and is never retried.
func (c *Client) makeRequest(ctx context.Context, path string, params url.Values, result interface{}) error {
	requestURL := c.BaseURL + path
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	var lastErr error
	backoff := c.backoff
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.WithFields(logrus.Fields{
				"path":    path,
				"attempt": attempt,
			}).Warn("Retrying CoinGecko request")
			select {
			case <-ctx.Done():
				return market.NewUpstreamError(path, 0, ctx.Err())
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		retryable, err := c.doRequest(ctx, requestURL, path, result)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable {
			return err
		}
	}
	return lastErr
}

// doRequest performs a single request. The boolean reports whether the
// failure is worth retrying.
func (c *Client) doRequest(ctx context.Context, requestURL, path string, result interface{}) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return false, market.NewUpstreamError(path, 0, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "coindash-go/2.0")
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return true, market.NewUpstreamError(path, 0, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.WithError(err).Warn("Error closing response body")
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return true, market.NewUpstreamError(path, resp.StatusCode, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, fmt.Errorf("%s: %w", path, market.ErrDataUnavailable)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return true, market.NewUpstreamError(path, resp.StatusCode, upstreamBodyError(respBody))
	case resp.StatusCode >= 400:
		return false, market.NewUpstreamError(path, resp.StatusCode, upstreamBodyError(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return false, market.NewUpstreamError(path, resp.StatusCode,
				fmt.Errorf("failed to unmarshal response: %w", err))
		}
	}
	return false, nil
}

func upstreamBodyError(body []byte) error {
	var errorResp ErrorResponse
	if err := json.Unmarshal(body, &errorResp); err == nil {
		if errorResp.Status.ErrorMessage != "" {
			return fmt.Errorf("%s", errorResp.Status.ErrorMessage)
		}
		if errorResp.Error != "" {
			return fmt.Errorf("%s", errorResp.Error)
		}
	}
	return fmt.Errorf("%s", string(body))
}
