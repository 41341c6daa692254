package log_messages

const (
	ServerStartFailure         = "failed to start server"
	ServerStarting             = "Starting HTTP server"
	ServerShutdown             = "Shutting down server..."
	ServerForcedShutdown       = "Server forced to shutdown"
	ServerExiting              = "Server exiting"
	FailedLoadingConfiguration = "Failed to load configuration"
	CleanupStarted             = "Starting cleanup of resources..."
	CleanupCompleted           = "All resources cleaned up successfully"

	// Fee schedules
	FeeScheduleResolved          = "Fee schedule resolved"
	FeeScheduleSaved             = "Fee schedule saved"
	FeeScheduleDeleted           = "Class fee schedule deleted"
	FeeScheduleValidationFailed  = "Fee schedule validation failed"
	ScheduleCacheReadFailed      = "Fee schedule cache read failed, falling back to store"
	ScheduleCacheWriteFailed     = "Fee schedule cache write failed"
	ScheduleCacheInvalidateError = "Fee schedule cache invalidation failed"

	// Chalans
	ChalanCreated                  = "Fee chalan created"
	ChalanCreateFailed             = "Failed to create fee chalan"
	ChalanGenerationBusy           = "Chalan generation already in progress for student"
	ChalanGenerationLockReleaseErr = "Failed to release chalan generation marker"
	ChalanGenerationMarkerStale    = "Took over stale chalan generation marker"
	ChalanGenerationTTLReplaced    = "Replaced chalan generation marker TTL index"
	BulkGenerationStarted          = "Bulk chalan generation started"
	BulkGenerationCompleted        = "Bulk chalan generation completed"
	BulkGenerationStudentFailed    = "Bulk chalan generation failed for student"
	ClassesWithoutFeeConfig        = "Classes without fee configuration will use standard or default amounts"
	ChalanStatusUpdated            = "Fee chalan status updated"

	// Payments
	PaymentRecorded           = "Payment recorded against chalan"
	PaymentWriteConflict      = "Write conflict while recording payment, retrying"
	PaymentRetriesExhausted   = "Payment write retries exhausted"
	PaymentTransactionFailed  = "Payment transaction failed"
	PaymentEventPublishFailed = "Failed to publish payment ledger event"
	PaymentEventMarkFailed    = "Failed to mark payment event as published"
	PaymentNotificationFailed = "Failed to publish payment notification"
	PaymentNotificationSent   = "Payment notification published"

	// Defaulters
	DefaulterReportBuilt       = "Defaulter report built"
	DefaulterReportExported    = "Defaulter report exported"
	DefaulterReportExportError = "Failed to export defaulter report"

	// Event retry
	EventRetryStarted    = "Payment event retry started"
	EventRetryCompleted  = "Payment event retry completed"
	EventRetryBatchError = "Failed to mark payment event batch as published"
	EventRetryCursorErr  = "Failed to iterate unpublished payment events"

	// Infrastructure
	KafkaProducerCreated      = "Kafka producer created"
	PubsubPublisherCreated    = "PubSub publisher created"
	ErrorClosingGCSClient     = "Error closing GCS client"
	ErrorMarshallingJSON      = "Error marshalling JSON"
	ErrorUploadingToGCSBucket = "Error uploading to GCS bucket"
	ErrorClosingGCSWriter     = "Error closing GCS writer"
	UploadedToGCSBucket       = "Uploaded object to GCS bucket"
	IndexesEnsured            = "MongoDB indexes ensured"
	CronJobRegistered         = "Cron job registered"
	CronJobFailed             = "Cron job failed"
)

const (
	GCSClientClosedSuccessfully = "GCS client closed successfully"
	CronSchedulerStopped        = "Cron scheduler stopped"
	TracerProviderShutdown      = "Tracer provider shut down"
)

const (
	NoWorkerConfigured             = "no event retry workers configured"
	ErrorDecodingPaymentEvent      = "Error decoding payment event"
	ErrorClosingCursor             = "Error closing cursor"
	NoUnpublishedPaymentEvents     = "No unpublished payment events since threshold"
	PaymentEventsPublished         = "Payment events published to Kafka"
	PaymentEventsFailedToPublish   = "Payment events failed to publish to Kafka"
	SomePaymentEventsNotMarked     = "Some payment events were published but not marked"
	MultipleErrorsDuringEventRetry = "Multiple errors occurred during payment event retry"
)

const (
	UnhandledRequestError       = "Unhandled error while serving request"
	RequestCompleted            = "Request completed"
	FailureInKafkaProducer      = "Failure in Kafka producer creation"
	FailureInPubsubPublisher    = "Failure in PubSub publisher creation"
	FailedToConnectMongo        = "Failed to connect to MongoDB"
	FailedToConnectRedis        = "Failed to connect to Redis"
	FailedToCreateGCSClient     = "Failed to create GCS client"
	FailedToEnsureIndexes       = "Failed to ensure MongoDB indexes"
	FailedToSetupTracing        = "Failed to set up tracing"
	FailedToCreateChalanNumbers = "Failed to create chalan number generator"
	FailedToRegisterCronJob     = "Failed to register cron job"
	DefaulterExportJobStarted   = "Scheduled defaulter export started"
)
