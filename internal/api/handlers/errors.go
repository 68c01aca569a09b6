package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/coindash/coindash-go/internal/market"
	"github.com/gin-gonic/gin"
)

// ErrorEnvelope is the body of every declared HTTP error.
type ErrorEnvelope struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
}

// InternalErrorEnvelope is the body of unhandled failures; it additionally
// carries the stringified cause.
type InternalErrorEnvelope struct {
	Error     string `json:"error"`
	Detail    string `json:"detail"`
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
}

// abortWithError writes the declared error envelope and stops the chain.
func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error:     message,
		Timestamp: time.Now().Format(time.RFC3339),
		Path:      c.Request.URL.Path,
	})
}

// abortWithMarketError maps the error taxonomy to HTTP statuses:
// data unavailable -> 404, validation -> 422, anything else -> 500.
func abortWithMarketError(c *gin.Context, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, market.ErrDataUnavailable):
		abortWithError(c, http.StatusNotFound, notFoundMessage)
	case market.IsValidation(err):
		abortWithError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, InternalErrorEnvelope{
			Error:     "Internal server error",
			Detail:    err.Error(),
			Timestamp: time.Now().Format(time.RFC3339),
			Path:      c.Request.URL.Path,
		})
	}
}
