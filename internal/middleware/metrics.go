package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/psyline/psyline-api/internal/monitoring"
)

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		monitoring.RequestsTotal.WithLabelValues(
			c.Request.Method,
			path,
			status,
		).Inc()

		monitoring.RequestDuration.WithLabelValues(
			c.Request.Method,
			path,
		).Observe(duration)
	}
}
