package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// PagesHandler serves the server-rendered HTML views.
type PagesHandler struct{}

// NewPagesHandler creates a new pages handler.
func NewPagesHandler() *PagesHandler {
	return &PagesHandler{}
}

// Dashboard renders the main dashboard view.
func (h *PagesHandler) Dashboard(c *gin.Context) {
	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"version":   Version,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// Simulation renders the trading simulation view.
func (h *PagesHandler) Simulation(c *gin.Context) {
	c.HTML(http.StatusOK, "simulacion.html", gin.H{
		"version":   Version,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// APIInfo returns the API directory payload.
func (h *PagesHandler) APIInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "CoinDash API Dashboard",
		"version": Version,
		"endpoints": gin.H{
			"health":      "/api/health",
			"dashboard":   "/dashboard",
			"simulacion":  "/simulacion",
			"trading":     "/api/v1/trading/test",
			"market_data": "/api/v1/market/performance",
			"coins":       "/api/v1/trading/coins/available",
			"top_gainers": "/api/v1/coins/top-gainers",
			"top_losers":  "/api/v1/coins/top-losers",
			"trending":    "/api/v1/coins/trending",
		},
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
