package api

import (
	"net/http"
	"sort"

	"github.com/coindash/coindash-go/internal/api/handlers"
	"github.com/coindash/coindash-go/internal/config"
	"github.com/coindash/coindash-go/internal/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SetupRoutes registers middleware, API routes and HTML views.
func SetupRoutes(router *gin.Engine, cfg *config.ServerConfig, service *services.TradingService, logger *logrus.Logger) {
	tradingHandler := handlers.NewTradingHandler(service, logger)
	marketHandler := handlers.NewMarketHandler(service, logger)
	healthHandler := handlers.NewHealthHandler(service, logger)
	pagesHandler := handlers.NewPagesHandler()

	router.Use(RequestID())
	router.Use(RequestLogger(logger))
	router.Use(corsMiddleware(cfg))

	// HTML views (templates are loaded by the caller so tests can skip them)
	router.GET("/", pagesHandler.Dashboard)
	router.GET("/dashboard", pagesHandler.Dashboard)
	router.GET("/simulacion", pagesHandler.Simulation)

	router.GET("/api", pagesHandler.APIInfo)
	router.GET("/api/health", healthHandler.HealthCheck)
	router.GET("/api/debug/routes", debugRoutes(router))

	v1 := router.Group("/api/v1")
	{
		trading := v1.Group("/trading")
		{
			trading.GET("/test", tradingHandler.Test)
			trading.GET("/coins/available", tradingHandler.AvailableCoins)
			trading.GET("/:coin_id/price", tradingHandler.CurrentPrice)
			trading.GET("/:coin_id/signals", tradingHandler.Signals)
			trading.GET("/:coin_id/metrics", tradingHandler.Metrics)
			trading.GET("/:coin_id/calculate", tradingHandler.Calculate)
		}

		market := v1.Group("/market")
		{
			market.GET("/performance", marketHandler.Performance)
		}

		coins := v1.Group("/coins")
		{
			coins.GET("/top-gainers", marketHandler.TopGainers)
			coins.GET("/top-losers", marketHandler.TopLosers)
			coins.GET("/trending", marketHandler.Trending)
		}
	}
}

func corsMiddleware(cfg *config.ServerConfig) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowHeaders = []string{"*"}
	corsConfig.ExposeHeaders = []string{"*"}
	return cors.New(corsConfig)
}

// debugRoutes lists the registered route table, sorted by path.
func debugRoutes(router *gin.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		routes := router.Routes()
		sort.Slice(routes, func(i, j int) bool { return routes[i].Path < routes[j].Path })

		table := make([]gin.H, 0, len(routes))
		for _, route := range routes {
			table = append(table, gin.H{
				"path":    route.Path,
				"method":  route.Method,
				"handler": route.Handler,
			})
		}
		c.JSON(http.StatusOK, gin.H{"routes": table})
	}
}
