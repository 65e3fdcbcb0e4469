package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"ambeauty/internal/observability/metrics"
	"ambeauty/internal/pkg/logging"
	"ambeauty/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDKey = "request_id"

// RequestLogger assigns a request id, logs every request once it completes
// and records HTTP metrics. Errors attached with c.Error are logged too.
func RequestLogger(logger *logging.Logger, m *metrics.HTTPMetrics) gin.HandlerFunc {
	if logger == nil {
		logger = logging.Default()
	}
	return func(c *gin.Context) {
		start := time.Now()
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(requestIDKey, reqID)
		c.Writer.Header().Set("X-Request-ID", reqID)

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		m.ObserveRequest(c.Request.Method, c.FullPath(), status, latency.Seconds())

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"request_id", reqID,
			"client_ip", c.ClientIP(),
			"duration_ms", latency.Milliseconds(),
		}
		if p, ok := CurrentPrincipal(c); ok {
			attrs = append(attrs, "user_id", p.UserID, "role", string(p.Role))
		}

		if len(c.Errors) > 0 {
			logger.Error("request failed", append(attrs, "error", c.Errors.String())...)
			return
		}
		if status >= http.StatusInternalServerError {
			logger.Error("request completed", attrs...)
			return
		}
		logger.Info("request completed", attrs...)
	}
}

// Recovery turns a panic into a logged 500 without leaking details.
func Recovery(logger *logging.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = logging.Default()
	}
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				logger.Error("panic recovered",
					"error", fmt.Sprintf("%v", recovered),
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"request_id", c.GetString(requestIDKey),
					"stack", string(debug.Stack()),
				)
				response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
				c.Abort()
			}
		}()

		c.Next()
	}
}
