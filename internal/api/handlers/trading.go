package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/coindash/coindash-go/internal/analysis"
	"github.com/coindash/coindash-go/internal/models"
	"github.com/coindash/coindash-go/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Version reported by informational endpoints.
const Version = "2.0.0"

var minAmount = decimal.NewFromFloat(0.00000001)

var signalTimeFrames = map[string]bool{
	analysis.TimeFrame1h:  true,
	analysis.TimeFrame24h: true,
	analysis.TimeFrame7d:  true,
	analysis.TimeFrame30d: true,
}

var metricsTimeFrames = map[string]bool{
	analysis.TimeFrame1h:  true,
	analysis.TimeFrame24h: true,
	analysis.TimeFrame7d:  true,
}

// TradingHandler serves the /api/v1/trading endpoints.
type TradingHandler struct {
	service *services.TradingService
	logger  *logrus.Logger
}

// NewTradingHandler creates a new trading handler.
func NewTradingHandler(service *services.TradingService, logger *logrus.Logger) *TradingHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &TradingHandler{service: service, logger: logger}
}

// Test answers the trading-group liveness probe.
func (h *TradingHandler) Test(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "Trading endpoint is working",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   Version,
	})
}

// AvailableCoins lists known coins with pagination. On upstream failure the
// fixed popular-coin list is substituted and flagged with a note.
func (h *TradingHandler) AvailableCoins(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 100, 1, 500)
	if !ok {
		return
	}

	coins, fallback := h.service.AvailableCoins(c.Request.Context())

	response := gin.H{
		"total_coins": len(coins),
		"coins":       trimCoins(coins, limit),
		"limit":       limit,
		"page":        1,
		"has_more":    !fallback && len(coins) > limit,
		"timestamp":   time.Now().Format(time.RFC3339),
	}
	if fallback {
		response["note"] = "Using popular coins list (fallback mode)"
	}
	c.JSON(http.StatusOK, response)
}

// CurrentPrice returns the current price with extended market metadata.
func (h *TradingHandler) CurrentPrice(c *gin.Context) {
	coinID := c.Param("coin_id")
	ctx := c.Request.Context()

	price, err := h.service.CurrentPrice(ctx, coinID)
	if err != nil {
		abortWithMarketError(c, err, "price not available")
		return
	}

	// Market metadata is best-effort enrichment; an empty snapshot just
	// leaves the defaults in place.
	var snapshot models.CoinMarket
	row, err := h.service.MarketSnapshot(ctx, coinID)
	if err != nil {
		h.logger.WithError(err).WithField("coin_id", coinID).Warn("Market snapshot unavailable")
	} else if row != nil {
		snapshot = *row
	}

	name := snapshot.Name
	if name == "" {
		name = coinID
	}
	lastUpdated := snapshot.LastUpdated
	if lastUpdated == "" {
		lastUpdated = time.Now().Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, gin.H{
		"coin_id":          coinID,
		"name":             name,
		"symbol":           strings.ToUpper(snapshot.Symbol),
		"price_usd":        price,
		"price_change_24h": snapshot.PriceChangePercentage24h,
		"market_cap":       snapshot.MarketCap,
		"market_cap_rank":  snapshot.MarketCapRank,
		"volume_24h":       snapshot.TotalVolume,
		"high_24h":         snapshot.High24h,
		"low_24h":          snapshot.Low24h,
		"timestamp":        time.Now().Format(time.RFC3339),
		"last_updated":     lastUpdated,
	})
}

// Signals computes the rule-based trading signal over recent history.
func (h *TradingHandler) Signals(c *gin.Context) {
	coinID := c.Param("coin_id")
	timeFrame := c.DefaultQuery("time_frame", analysis.TimeFrame24h)
	if !signalTimeFrames[timeFrame] {
		abortWithError(c, http.StatusUnprocessableEntity,
			"time_frame must be one of: 1h, 24h, 7d, 30d")
		return
	}

	ctx := c.Request.Context()
	days := services.HistoryWindowDays(timeFrame)

	series, err := h.service.HistoricalSeries(ctx, coinID, days)
	if err != nil {
		abortWithMarketError(c, err, "historical data not available")
		return
	}
	if len(series) == 0 {
		abortWithError(c, http.StatusNotFound, "historical data not available")
		return
	}

	metrics := analysis.CalculateMetrics(series, timeFrame)
	if metrics == nil {
		abortWithError(c, http.StatusNotFound, "metrics could not be calculated")
		return
	}

	signals := analysis.GenerateSignals(metrics, timeFrame)

	price, err := h.service.CurrentPrice(ctx, coinID)
	if err != nil {
		abortWithMarketError(c, err, "price not available")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"signals":       signals,
		"metrics":       metrics,
		"current_price": price,
		"coin_id":       coinID,
		"time_frame":    timeFrame,
		"timestamp":     time.Now().Format(time.RFC3339),
		"data_points":   len(series),
	})
}

// Metrics returns the metrics bundle over a caller-chosen day window.
func (h *TradingHandler) Metrics(c *gin.Context) {
	coinID := c.Param("coin_id")

	days, ok := queryInt(c, "days", 7, 1, 365)
	if !ok {
		return
	}
	timeFrame := c.DefaultQuery("time_frame", analysis.TimeFrame24h)
	if !metricsTimeFrames[timeFrame] {
		abortWithError(c, http.StatusUnprocessableEntity,
			"time_frame must be one of: 1h, 24h, 7d")
		return
	}

	ctx := c.Request.Context()
	series, err := h.service.HistoricalSeries(ctx, coinID, days)
	if err != nil {
		abortWithMarketError(c, err, "historical data not available")
		return
	}
	if len(series) == 0 {
		abortWithError(c, http.StatusNotFound, "historical data not available")
		return
	}

	metrics := analysis.CalculateMetrics(series, timeFrame)
	if metrics == nil {
		abortWithError(c, http.StatusNotFound, "metrics could not be calculated")
		return
	}

	price, err := h.service.CurrentPrice(ctx, coinID)
	if err != nil {
		abortWithMarketError(c, err, "price not available")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"coin_id":       coinID,
		"time_frame":    timeFrame,
		"days_analyzed": days,
		"current_price": price,
		"metrics":       metrics,
		"timestamp":     time.Now().Format(time.RFC3339),
		"data_points":   len(series),
	})
}

// Calculate converts an amount of a coin into a target currency. A failed
// conversion falls back to the already-fetched USD price.
func (h *TradingHandler) Calculate(c *gin.Context) {
	coinID := c.Param("coin_id")

	amountStr := c.Query("amount")
	if amountStr == "" {
		abortWithError(c, http.StatusUnprocessableEntity, "amount is required")
		return
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil || amount.LessThan(minAmount) {
		abortWithError(c, http.StatusUnprocessableEntity,
			"amount must be a number >= 0.00000001")
		return
	}

	vsCurrency := strings.ToLower(c.DefaultQuery("vs_currency", "usd"))

	ctx := c.Request.Context()
	priceUSD, err := h.service.CurrentPrice(ctx, coinID)
	if err != nil {
		abortWithMarketError(c, err, "price not available")
		return
	}

	price := priceUSD
	if vsCurrency != "usd" {
		converted, err := h.service.PriceIn(ctx, coinID, vsCurrency)
		if err != nil {
			h.logger.WithError(err).WithFields(logrus.Fields{
				"coin_id":     coinID,
				"vs_currency": vsCurrency,
			}).Warn("Currency conversion failed, falling back to USD price")
		} else {
			price = converted
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"coin_id":        coinID,
		"amount":         amount,
		"price_per_coin": price,
		"total_value":    amount.Mul(price),
		"currency":       strings.ToUpper(vsCurrency),
		"timestamp":      time.Now().Format(time.RFC3339),
		"exchange_rate":  price,
	})
}

// queryInt parses an integer query parameter against its declared range,
// writing the 422 envelope itself on violation.
func queryInt(c *gin.Context, name string, def, min, max int) (int, bool) {
	raw := c.DefaultQuery(name, strconv.Itoa(def))
	value, err := strconv.Atoi(raw)
	if err != nil || value < min || value > max {
		abortWithError(c, http.StatusUnprocessableEntity,
			name+" must be an integer between "+strconv.Itoa(min)+" and "+strconv.Itoa(max))
		return 0, false
	}
	return value, true
}

func trimCoins(coins []models.CoinSummary, limit int) []models.CoinSummary {
	if len(coins) > limit {
		return coins[:limit]
	}
	return coins
}
