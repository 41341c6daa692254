package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/app/jobs"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/app/router"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/chalannumber"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/cleanup"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/config"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/db/mongo"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/db/redis"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/gcs"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/kafka"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/log_messages"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/logger"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/otel"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/pubsub"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/store/impl/chalan_generation_in_progress"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/store/impl/class_fee_amounts"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/store/impl/fee_chalans"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/store/impl/fee_payment_events"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/store/impl/fee_schedule_cache"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/store/impl/standard_fees"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/store/repository"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/chalan"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/defaulters"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/feeschedule"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/ledger"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/ledger_events"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

var (
	loadConfig     = config.LoadFromConfig
	setupTracing   = otel.Setup
	connectMongoDB = mongo.ConnectToMongoDB
	connectRedisDB = func(ctx context.Context, cfg config.RedisConfig) (*redis.RedisClient, error) {
		return redis.ConnectToRedis(ctx, cfg, nil)
	}
	newKafkaProducer = kafka.NewKafkaProducer
	newGCSClient     = gcs.NewGCSClient
)

type indexEnsurer interface {
	EnsureIndexes(ctx context.Context) error
}

// App encapsulates application resources and lifecycle.
type App struct {
	Cfg             *config.AppConfig
	MongoClient     *mongo.MongoClient
	RedisClient     *redis.RedisClient
	KafkaProducer   *kafka.KafkaProducer
	PubSubPublisher *pubsub.PubSubPublisher
	GcsClient       *gcs.GCSClient
	TracerShutdown  otel.ShutdownFunc
	Engine          *gin.Engine
	Scheduler       *cron.Cron
	HTTPServer      *http.Server
}

// nolint: funlen
func New(ctx context.Context) (*App, error) {
	cfg, err := loadConfig()
	if err != nil {
		logger.CtxError(ctx, log_messages.FailedLoadingConfiguration, err)
		return nil, err
	}
	logger.Init(cfg.Logging.LogLevel)

	a := &App{Cfg: cfg}

	a.TracerShutdown, err = setupTracing(ctx, cfg.Otel)
	if err != nil {
		logger.CtxError(ctx, log_messages.FailedToSetupTracing, err)
		return nil, err
	}

	a.MongoClient, err = connectMongoDB(ctx, cfg.Mongo)
	if err != nil {
		logger.CtxError(ctx, log_messages.FailedToConnectMongo, err)
		a.Shutdown(ctx)
		return nil, err
	}

	a.RedisClient, err = connectRedisDB(ctx, cfg.Redis)
	if err != nil {
		logger.CtxError(ctx, log_messages.FailedToConnectRedis, err)
		a.Shutdown(ctx)
		return nil, err
	}

	a.KafkaProducer, err = newKafkaProducer(cfg.Kafka)
	if err != nil {
		logger.CtxError(ctx, log_messages.FailureInKafkaProducer, err)
		a.Shutdown(ctx)
		return nil, err
	}

	a.PubSubPublisher, err = pubsub.NewPubSubPublisher(ctx, cfg.PubSub.ProjectID)
	if err != nil {
		logger.CtxError(ctx, log_messages.FailureInPubsubPublisher, err)
		a.Shutdown(ctx)
		return nil, err
	}

	a.GcsClient, err = newGCSClient(ctx, cfg.GCS.BucketName)
	if err != nil {
		logger.CtxError(ctx, log_messages.FailedToCreateGCSClient, err)
		a.Shutdown(ctx)
		return nil, err
	}

	if err := a.wire(ctx); err != nil {
		a.Shutdown(ctx)
		return nil, err
	}
	return a, nil
}

// wire builds repositories and services on top of the connected clients.
func (a *App) wire(ctx context.Context) error {
	cfg := a.Cfg

	numbers, err := chalannumber.NewGenerator(cfg.Ledger.ChalanNodeID)
	if err != nil {
		logger.CtxError(ctx, log_messages.FailedToCreateChalanNumbers, err)
		return err
	}

	classRepo := class_fee_amounts.NewClassFeeAmountsRepository(a.MongoClient)
	standardRepo := standard_fees.NewStandardFeesRepository(a.MongoClient)
	chalanRepo := fee_chalans.NewFeeChalansRepository(a.MongoClient)
	markerRepo := chalan_generation_in_progress.NewChalanGenerationInProgressRepository(a.MongoClient,
		cfg.Ledger.GenerationMarkerTTL)
	eventRepo := fee_payment_events.NewFeePaymentEventsRepository(a.MongoClient)

	for _, r := range []interface{}{chalanRepo, markerRepo} {
		ensurer, ok := r.(indexEnsurer)
		if !ok {
			continue
		}
		if err := ensurer.EnsureIndexes(ctx); err != nil {
			logger.CtxError(ctx, log_messages.FailedToEnsureIndexes, err)
			return err
		}
	}

	redisAdapter := repository.NewRedisStoreAdapter(a.RedisClient.Client)
	scheduleCache := fee_schedule_cache.NewFeeScheduleCache(redisAdapter, classRepo, standardRepo,
		cfg.Ledger.ScheduleCacheTTL)
	tx := mongo.NewTransactionRunner(a.MongoClient.Client, cfg.Ledger.TransactionTimeout)

	defaulterService := defaulters.NewService(chalanRepo, a.GcsClient)
	services := router.Services{
		FeeSchedules: feeschedule.NewService(classRepo, standardRepo, scheduleCache),
		Chalans: chalan.NewService(feeschedule.NewResolver(scheduleCache), chalanRepo, markerRepo, numbers,
			cfg.Ledger, cfg.BulkGeneration),
		Ledger: ledger.NewService(chalanRepo, eventRepo, scheduleCache, tx, a.KafkaProducer, a.PubSubPublisher,
			cfg.PubSub.NotificationTopic, cfg.Ledger),
		Defaulters: defaulterService,
		EventRetry: ledger_events.NewRetryService(eventRepo, a.KafkaProducer, cfg.EventRetry),
	}
	a.Engine = router.SetupRouter(cfg.Otel.ServiceName, services)

	a.Scheduler, err = jobs.NewScheduler(ctx, cfg.Reports.DefaulterExportCron, defaulterService)
	return err
}

// Run starts the cron scheduler and HTTP server, then blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	a.Scheduler.Start()

	a.HTTPServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", a.Cfg.Server.Port),
		Handler:           a.Engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.CtxInfo(ctx, log_messages.ServerStarting, slog.String("addr", a.HTTPServer.Addr))
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.CtxError(ctx, log_messages.ServerStartFailure, err)
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var runErr error
	select {
	case <-quit:
	case <-ctx.Done():
	case runErr = <-serverErr:
	}

	logger.CtxInfo(ctx, log_messages.ServerShutdown)
	a.Shutdown(context.WithoutCancel(ctx))
	logger.CtxInfo(ctx, log_messages.ServerExiting)
	return runErr
}

// Shutdown gracefully closes all resources with bounded timeouts.
func (a *App) Shutdown(ctx context.Context) {
	cleanup.CleanupResources(ctx, a.resources())
}

// resources leaves unset clients out so no typed nil reaches an interface field.
func (a *App) resources() cleanup.Resources {
	res := cleanup.Resources{
		Server:         a.HTTPServer,
		MongoClient:    a.MongoClient,
		RedisClient:    a.RedisClient,
		TracerShutdown: a.TracerShutdown,
	}
	if a.Scheduler != nil {
		res.Scheduler = a.Scheduler
	}
	if a.KafkaProducer != nil {
		res.KafkaProducer = a.KafkaProducer
	}
	if a.PubSubPublisher != nil {
		res.PubSubPublisher = a.PubSubPublisher
	}
	if a.GcsClient != nil {
		res.GCSClient = a.GcsClient
	}
	return res
}
