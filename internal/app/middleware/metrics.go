package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

func NewMetricMiddleware(meter metric.Meter) gin.HandlerFunc {
	durationHistogram, _ := meter.Int64Histogram(
		"http.server.latency",
		metric.WithUnit("ms"),
		metric.WithDescription("The latency of HTTP requests."),
	)

	requestCounter, _ := meter.Int64Counter(
		"http.server.requests_total",
		metric.WithDescription("The total number of HTTP requests."),
	)

	successCounter, _ := meter.Int64Counter(
		"http.server.success_requests_total",
		metric.WithDescription("The total number of successful HTTP requests."),
	)

	errorCounter, _ := meter.Int64Counter(
		"http.server.error_requests_total",
		metric.WithDescription("The total number of failed HTTP requests."),
	)

	responseSizeHistogram, _ := meter.Int64Histogram(
		"http.server.response_size_bytes",
		metric.WithUnit("bytes"),
		metric.WithDescription("The size of HTTP responses in bytes."),
	)

	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		duration := time.Since(startTime).Milliseconds()
		statusCode := c.Writer.Status()

		attributes := metric.WithAttributes(
			attribute.String("http.route", c.FullPath()),
			attribute.String("http.method", c.Request.Method),
			attribute.Int("http.status_code", statusCode),
		)
		ctx := c.Request.Context()

		durationHistogram.Record(ctx, duration, attributes)
		requestCounter.Add(ctx, 1, attributes)
		// gin reports -1 until something is written
		if size := c.Writer.Size(); size > 0 {
			responseSizeHistogram.Record(ctx, int64(size), attributes)
		}

		if statusCode >= 200 && statusCode < 400 {
			successCounter.Add(ctx, 1, attributes)
		} else {
			errorCounter.Add(ctx, 1, attributes)
		}
	}
}
