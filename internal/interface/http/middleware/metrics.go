package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/library/pkg/metrics"
)

// Metrics HTTP指标采集中间件
//
// 采集三类指标：
// 1. http_requests_total: 请求总数(按方法、路径、状态码)
// 2. http_request_duration_seconds: 请求耗时分布
// 3. http_requests_in_progress: 正在处理的请求数
//
// 注意:path标签使用路由模板(c.FullPath())而非实际URL,
// 避免/api/v1/books/1、/api/v1/books/2产生高基数标签
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		metrics.IncGauge(metrics.HTTPRequestsInProgress)
		defer metrics.DecGauge(metrics.HTTPRequestsInProgress)

		c.Next()

		// 未匹配到路由时FullPath为空,归入unknown
		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}

		metrics.IncCounterVec(metrics.HTTPRequestsTotal, map[string]string{
			"method": c.Request.Method,
			"path":   path,
			"status": strconv.Itoa(c.Writer.Status()),
		})

		metrics.ObserveHistogramVec(metrics.HTTPRequestDuration, map[string]string{
			"method": c.Request.Method,
			"path":   path,
		}, time.Since(start).Seconds())
	}
}
