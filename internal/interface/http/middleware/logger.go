package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/xiebiao/bookcatalog/pkg/tracing"
)

const (
	// HeaderRequestID 请求ID头(客户端传入时沿用,否则生成)
	HeaderRequestID = "X-Request-ID"

	requestIDKey = "request_id"

	// DefaultSlowThreshold 慢请求阈值
	DefaultSlowThreshold = 3 * time.Second
)

// Logger 请求日志中间件
//
// 1. 生成请求ID并写入响应头和Context
// 2. 记录方法、路由、状态码、耗时、客户端IP
// 3. 超过阈值的请求额外输出警告
//
// 不记录请求体(评论内容可能很长)。
func Logger(log *logrus.Logger, slowThreshold time.Duration) gin.HandlerFunc {
	if slowThreshold <= 0 {
		slowThreshold = DefaultSlowThreshold
	}

	return func(c *gin.Context) {
		// 步骤1: 请求ID
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(requestIDKey, requestID)
		c.Header(HeaderRequestID, requestID)

		// 步骤2: 处理请求
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		// 步骤3: 结构化输出
		fields := logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    latency.String(),
			"client_ip":  c.ClientIP(),
		}
		if traceID := tracing.ExtractTraceID(c.Request.Context()); traceID != "" {
			fields["trace_id"] = traceID
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}
		entry := log.WithFields(fields)

		switch {
		case c.Writer.Status() >= 500:
			entry.Error("request failed")
		case latency > slowThreshold:
			entry.Warn("slow request")
		default:
			entry.Info("request completed")
		}
	}
}

// GetRequestID 从Context获取请求ID(未经过Logger中间件时返回空串)
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
