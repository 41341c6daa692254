package router

import (
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/app/handlers"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/app/middleware"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/chalan"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/defaulters"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/feeschedule"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/ledger"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/ledger_events"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
)

// Services are the handler-facing services the router exposes.
type Services struct {
	FeeSchedules feeschedule.ServiceInterface
	Chalans      chalan.ServiceInterface
	Ledger       ledger.ServiceInterface
	Defaulters   defaulters.ServiceInterface
	EventRetry   ledger_events.RetryServiceInterface
}

func SetupRouter(serviceName string, svc Services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(middleware.NewMetricMiddleware(otel.Meter(serviceName)))
	r.Use(middleware.AttachRequestDetails())

	healthCheckHandler := handlers.NewHealthCheckHandler()
	feeScheduleHandler := handlers.NewFeeScheduleHandler(svc.FeeSchedules)
	chalanHandler := handlers.NewChalanHandler(svc.Chalans)
	paymentHandler := handlers.NewPaymentHandler(svc.Ledger)
	defaulterHandler := handlers.NewDefaulterHandler(svc.Defaulters)
	retryHandler := handlers.NewLedgerEventRetryHandler(svc.EventRetry)

	api := r.Group("/api/v1")
	api.GET("/health", healthCheckHandler.HealthCheck)

	schedules := api.Group("/fee-schedules")
	schedules.GET("/standard", feeScheduleHandler.GetStandard)
	schedules.PUT("/standard", feeScheduleHandler.UpsertStandard)
	schedules.GET("/classes", feeScheduleHandler.ListClasses)
	schedules.GET("/classes/:classId", feeScheduleHandler.GetClass)
	schedules.PUT("/classes/:classId", feeScheduleHandler.UpsertClass)
	schedules.DELETE("/classes/:classId", feeScheduleHandler.DeleteClass)
	schedules.GET("/classes/:classId/resolved", feeScheduleHandler.ResolveClass)

	chalans := api.Group("/chalans")
	chalans.POST("", chalanHandler.Generate)
	chalans.POST("/bulk", chalanHandler.GenerateBulk)
	chalans.GET("", chalanHandler.List)
	chalans.GET("/:id", chalanHandler.Get)
	chalans.PATCH("/:id/status", chalanHandler.UpdateStatus)
	chalans.GET("/:id/fine", paymentHandler.PreviewFine)
	chalans.POST("/:id/payments", paymentHandler.RecordPayment)
	chalans.GET("/:id/payments", paymentHandler.History)

	api.GET("/defaulters", defaulterHandler.Report)
	api.POST("/defaulters/export", defaulterHandler.Export)

	api.POST("/ledger-events/retry", retryHandler.Retry)

	return r
}
