package middleware

import (
	"log/slog"
	"time"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/log_messages"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// AttachRequestDetails stores a request id as the logger trace id and logs one line per request.
func AttachRequestDetails() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestTime := time.Now().UTC()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		ctx := logger.WithTraceID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		logger.CtxInfo(ctx, log_messages.RequestCompleted,
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("route", c.FullPath()),
			slog.String("ip", c.ClientIP()),
			slog.String("user_agent", c.Request.UserAgent()),
			slog.Int("status", c.Writer.Status()),
			slog.Int64("latency_ms", time.Since(requestTime).Milliseconds()),
		)
	}
}
