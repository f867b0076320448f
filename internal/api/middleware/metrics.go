package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"caltrack-baseline/internal/metrics"
)

// Metrics instruments request counts and latencies.
func Metrics(collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		collector.APIRequestsTotal.WithLabelValues(
			endpoint,
			c.Request.Method,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		collector.APIRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}
}
