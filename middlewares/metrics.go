package middlewares

import (
	"github.com/gin-gonic/gin"

	"civicreporter-be/metrics"
)

// RequestMetrics counts every handled request by route template.
func RequestMetrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordRequest(c.Request.Method, route, c.Writer.Status())
	}
}
