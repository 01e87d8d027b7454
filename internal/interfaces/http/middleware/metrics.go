// Package middleware provides the HTTP middleware chain for the requisition API.
package middleware

import (
	"time"

	"github.com/erp/requisition/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// HTTPMetrics returns a Gin middleware that records request counts and latency.
// Routes are labelled by their pattern (e.g. "/api/v1/draft/lines/:line") so the
// label set stays bounded. A nil collector disables the middleware.
func HTTPMetrics(m *telemetry.HTTPMetrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		start := time.Now()
		done := m.Begin()

		c.Next()

		done(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

// StatusClass groups status codes into 2xx/3xx/4xx/5xx
func StatusClass(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500:
		return "5xx"
	default:
		return "other"
	}
}
