package handlers

import (
	"net/http"
	"time"

	"github.com/coindash/coindash-go/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// MarketHandler serves global market and coin listing endpoints.
type MarketHandler struct {
	service *services.TradingService
	logger  *logrus.Logger
}

// NewMarketHandler creates a new market handler.
func NewMarketHandler(service *services.TradingService, logger *logrus.Logger) *MarketHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &MarketHandler{service: service, logger: logger}
}

// Performance returns aggregate market totals.
func (h *MarketHandler) Performance(c *gin.Context) {
	summary, err := h.service.GlobalSummary(c.Request.Context())
	if err != nil {
		abortWithMarketError(c, err, "global market data not available")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_market_cap":        summary.TotalMarketCap,
		"total_volume":            summary.TotalVolume,
		"volume_market_cap_ratio": summary.VolumeMarketCapRatio,
		"market_cap_change_24h":   summary.MarketCapChange24h,
		"active_cryptocurrencies": summary.ActiveCryptocurrencies,
		"upcoming_icos":           summary.UpcomingICOs,
		"ongoing_icos":            summary.OngoingICOs,
		"ended_icos":              summary.EndedICOs,
		"markets":                 summary.Markets,
		"bitcoin_dominance":       summary.BitcoinDominance,
		"ethereum_dominance":      summary.EthereumDominance,
		"timestamp":               time.Now().Format(time.RFC3339),
		"last_updated":            summary.LastUpdated,
	})
}

// TopGainers lists the coins with the largest 24h gains.
func (h *MarketHandler) TopGainers(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 10, 1, 50)
	if !ok {
		return
	}

	rows, err := h.service.TopMovers(c.Request.Context(), limit, true)
	if err != nil {
		abortWithMarketError(c, err, "market data not available")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"gainers":   rows,
		"limit":     limit,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// TopLosers lists the coins with the largest 24h losses.
func (h *MarketHandler) TopLosers(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 10, 1, 50)
	if !ok {
		return
	}

	rows, err := h.service.TopMovers(c.Request.Context(), limit, false)
	if err != nil {
		abortWithMarketError(c, err, "market data not available")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"losers":    rows,
		"limit":     limit,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// Trending lists currently trending coins.
func (h *MarketHandler) Trending(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 10, 1, 20)
	if !ok {
		return
	}

	coins, err := h.service.Trending(c.Request.Context(), limit)
	if err != nil {
		abortWithMarketError(c, err, "trending data not available")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trending":  coins,
		"limit":     limit,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
