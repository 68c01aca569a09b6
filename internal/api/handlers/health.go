package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/coindash/coindash-go/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/sirupsen/logrus"
)

var startTime = time.Now()

// HealthHandler serves the service health endpoint.
type HealthHandler struct {
	service *services.TradingService
	logger  *logrus.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(service *services.TradingService, logger *logrus.Logger) *HealthHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &HealthHandler{service: service, logger: logger}
}

// HealthCheck reports upstream and cache status plus process resource use.
// The API itself stays "operational" even when the upstream is down: those
// endpoints fail per-request.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	servicesStatus := gin.H{
		"trading": "operational",
		"api":     "operational",
	}
	if h.service.UpstreamHealthy(ctx) {
		servicesStatus["upstream"] = "operational"
	} else {
		servicesStatus["upstream"] = "degraded"
	}
	if h.service.CacheHealthy(ctx) {
		servicesStatus["cache"] = "operational"
	} else {
		servicesStatus["cache"] = "disabled"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().Format(time.RFC3339),
		"version":     Version,
		"uptime":      time.Since(startTime).String(),
		"services":    servicesStatus,
		"system":      h.systemStats(),
		"cache_stats": h.service.CacheStats(),
	})
}

// systemStats collects best-effort process resource figures.
func (h *HealthHandler) systemStats() gin.H {
	stats := gin.H{}

	if vm, err := mem.VirtualMemory(); err == nil {
		stats["memory_used_percent"] = vm.UsedPercent
	} else {
		h.logger.WithError(err).Debug("Memory stats unavailable")
	}
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		stats["cpu_percent"] = percents[0]
	} else if err != nil {
		h.logger.WithError(err).Debug("CPU stats unavailable")
	}

	return stats
}
