package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RecoveryHandler turns a panic into the unhandled-failure envelope so a
// stack never leaks without it.
func RecoveryHandler(logger *logrus.Logger) gin.RecoveryFunc {
	return func(c *gin.Context, recovered interface{}) {
		detail := "unexpected failure"
		switch v := recovered.(type) {
		case error:
			detail = v.Error()
		case string:
			detail = v
		}
		logger.WithFields(logrus.Fields{
			"path":   c.Request.URL.Path,
			"detail": detail,
		}).Error("Panic recovered in handler")

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"detail":    detail,
			"timestamp": time.Now().Format(time.RFC3339),
			"path":      c.Request.URL.Path,
		})
	}
}

// RequestID attaches a request identifier, preserving one supplied by the
// caller.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

// RequestLogger logs one line per request with latency and status.
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"request_id": c.GetString("request_id"),
		}).Info("Request completed")
	}
}
