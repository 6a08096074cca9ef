package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"threat-radar/internal/monitoring"
)

// RequestMetrics 请求指标中间件，记录每个API请求的方法、路径、状态码和耗时
func RequestMetrics(monitor *monitoring.Monitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if monitor != nil {
			monitor.RecordRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
		}
	}
}
