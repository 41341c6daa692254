package cleanup

import (
	"context"
	"net/http"
	"time"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/db/mongo"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/db/redis"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/log_messages"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/logger"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/interfaces"
)

// Closer is satisfied by the Kafka producer and the Pub/Sub publisher.
type Closer interface {
	Close() error
}

// Scheduler is satisfied by *cron.Cron.
type Scheduler interface {
	Stop() context.Context
}

// Resources is everything the runtime releases on shutdown. Nil members are skipped.
type Resources struct {
	Scheduler       Scheduler
	Server          *http.Server
	KafkaProducer   Closer
	PubSubPublisher Closer
	MongoClient     *mongo.MongoClient
	RedisClient     *redis.RedisClient
	GCSClient       interfaces.ReportUploaderInterface
	TracerShutdown  func(context.Context) error
}

// CleanupResources stops intake first (cron, HTTP), then flushes producers, then closes stores.
func CleanupResources(ctx context.Context, res Resources) {
	logger.CtxInfo(ctx, log_messages.CleanupStarted)

	cleanupScheduler(res.Scheduler, ctx)
	cleanupHTTPServer(res.Server, ctx)

	cleanupCloser(res.KafkaProducer, "Kafka producer", ctx)
	cleanupCloser(res.PubSubPublisher, "PubSub publisher", ctx)

	cleanupMongoResource(res.MongoClient, ctx)
	cleanupRedisResource(res.RedisClient, ctx)
	cleanupGCSResource(res.GCSClient, ctx)
	cleanupTracer(res.TracerShutdown, ctx)

	logger.CtxInfo(ctx, log_messages.CleanupCompleted)
}

func cleanupScheduler(scheduler Scheduler, ctx context.Context) {
	if scheduler == nil {
		return
	}
	stopped := scheduler.Stop()
	waitCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	select {
	case <-stopped.Done():
		logger.CtxInfo(ctx, log_messages.CronSchedulerStopped)
	case <-waitCtx.Done():
		logger.CtxWarn(ctx, "Timed out waiting for running cron jobs")
	}
}

func cleanupHTTPServer(server *http.Server, ctx context.Context) {
	if server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 8*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.CtxError(ctx, "Failed to shutdown HTTP server", err)
	} else {
		logger.CtxInfo(ctx, "HTTP server shutdown successfully")
	}
}

func cleanupCloser(resource Closer, resourceName string, ctx context.Context) {
	if resource == nil {
		return
	}
	if err := resource.Close(); err != nil {
		logger.CtxError(ctx, "Failed to close "+resourceName, err)
	} else {
		logger.CtxInfo(ctx, resourceName+" closed successfully")
	}
}

func cleanupMongoResource(mongoClient *mongo.MongoClient, ctx context.Context) {
	if mongoClient == nil || mongoClient.Client == nil {
		return
	}
	mongoCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongo.Disconnect(mongoCtx, mongoClient.Client); err != nil {
		logger.CtxError(mongoCtx, "Failed to disconnect MongoDB client", err)
	} else {
		logger.CtxInfo(mongoCtx, "MongoDB client disconnected successfully")
	}
}

func cleanupRedisResource(redisClient *redis.RedisClient, ctx context.Context) {
	if redisClient == nil || redisClient.Client == nil {
		return
	}
	if err := redis.Disconnect(redisClient.Client); err != nil {
		logger.CtxError(ctx, "Failed to close Redis client", err)
	} else {
		logger.CtxInfo(ctx, "Redis client closed successfully")
	}
}

func cleanupGCSResource(gcsClient interfaces.ReportUploaderInterface, ctx context.Context) {
	if gcsClient == nil {
		return
	}
	gcsClient.Close(ctx)
	logger.CtxInfo(ctx, log_messages.GCSClientClosedSuccessfully)
}

func cleanupTracer(shutdown func(context.Context) error, ctx context.Context) {
	if shutdown == nil {
		return
	}
	if err := shutdown(ctx); err != nil {
		logger.CtxError(ctx, "Failed to shutdown tracer provider", err)
	} else {
		logger.CtxInfo(ctx, log_messages.TracerProviderShutdown)
	}
}
