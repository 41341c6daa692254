// Package ledger_events re-publishes payment outbox events that never reached Kafka.
package ledger_events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/config"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/log_messages"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/logger"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/store/models"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/interfaces"

	"go.mongodb.org/mongo-driver/mongo"
)

type RetryServiceInterface interface {
	Retry(ctx context.Context, since string) *RetryResponse
}

type RetryService struct {
	eventRepo     interfaces.FeePaymentEventsRepoInterface
	kafkaProducer interfaces.KafkaPublisherInterface
	workerConfig  config.EventRetryConfig
}

var _ RetryServiceInterface = (*RetryService)(nil)

type batchResult struct {
	successIDs []string
	failedIDs  []string
	err        error
}

func NewRetryService(
	eventRepo interfaces.FeePaymentEventsRepoInterface,
	kafkaProducer interfaces.KafkaPublisherInterface,
	workerConfig config.EventRetryConfig,
) *RetryService {
	return &RetryService{
		eventRepo:     eventRepo,
		kafkaProducer: kafkaProducer,
		workerConfig:  workerConfig,
	}
}

// Retry publishes every unpublished event created on or after since (YYYY-MM-DD, defaulting to
// the configured start date) and marks the published ones in batches.
func (rs *RetryService) Retry(ctx context.Context, since string) *RetryResponse {
	response := &RetryResponse{
		SuccessIDs: []string{},
		FailedIDs:  []string{},
	}
	if rs.workerConfig.WorkerCount <= 0 {
		err := errors.New(log_messages.NoWorkerConfigured)
		logger.CtxError(ctx, log_messages.NoWorkerConfigured, err)
		response.SetError(err)
		return response
	}
	if since == "" {
		since = rs.workerConfig.RetryStartDate
	}

	logger.CtxInfo(ctx, log_messages.EventRetryStarted, slog.String("since", since))

	cursor, err := rs.eventRepo.GetUnpublishedCursor(ctx, since, rs.workerConfig.MongoBatchSize)
	if err != nil {
		response.SetError(err)
		return response
	}
	if cursor == nil {
		logger.CtxInfo(ctx, log_messages.NoUnpublishedPaymentEvents)
		return response
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			logger.CtxError(ctx, log_messages.ErrorClosingCursor, err)
		}
	}()

	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	docChan := make(chan models.FeePaymentEvent, rs.bufferSize())
	results := make(chan batchResult, rs.bufferSize())

	var wg sync.WaitGroup
	for i := 0; i < rs.workerConfig.WorkerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rs.processEventsWorker(workerCtx, docChan, results)
		}()
	}

	var resultErrors []error
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for result := range results {
			response.SuccessIDs = append(response.SuccessIDs, result.successIDs...)
			response.FailedIDs = append(response.FailedIDs, result.failedIDs...)
			if result.err != nil {
				resultErrors = append(resultErrors, result.err)
				if response.ErrorMsg == "" {
					response.SetError(result.err)
				}
			}
		}
	}()

	if err := rs.streamEvents(workerCtx, cursor, docChan); err != nil {
		results <- batchResult{err: err}
	}
	wg.Wait()
	close(results)
	<-collected

	logger.CtxInfo(ctx, log_messages.EventRetryCompleted,
		slog.Int("successCount", len(response.SuccessIDs)),
		slog.Int("failureCount", len(response.FailedIDs)),
		slog.Int("errorCount", len(resultErrors)))
	if len(resultErrors) > 1 {
		logger.CtxWarn(ctx, log_messages.MultipleErrorsDuringEventRetry, slog.Int("errorCount", len(resultErrors)))
	}
	return response
}

// streamEvents decodes the cursor into docChan and closes it when the cursor is drained.
func (rs *RetryService) streamEvents(ctx context.Context, cursor *mongo.Cursor,
	docChan chan<- models.FeePaymentEvent) error {
	defer close(docChan)

	hasDocuments := false
	for cursor.Next(ctx) {
		hasDocuments = true
		var event models.FeePaymentEvent
		if err := cursor.Decode(&event); err != nil {
			logger.CtxError(ctx, log_messages.ErrorDecodingPaymentEvent, err)
			continue
		}
		select {
		case docChan <- event:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if !hasDocuments {
		logger.CtxInfo(ctx, log_messages.NoUnpublishedPaymentEvents)
	}
	if err := cursor.Err(); err != nil {
		logger.CtxError(ctx, log_messages.EventRetryCursorErr, err)
		return fmt.Errorf("%s: %w", log_messages.EventRetryCursorErr, err)
	}
	return nil
}

func (rs *RetryService) processEventsWorker(
	ctx context.Context,
	docChan <-chan models.FeePaymentEvent,
	results chan<- batchResult,
) {
	maxBatchSize := rs.workerConfig.MaxBatchSize
	if maxBatchSize <= 0 {
		maxBatchSize = 1
	}
	flushInterval := rs.workerConfig.FlushInterval
	if flushInterval <= 0 {
		flushInterval = time.Second
	}
	batch := make([]models.FeePaymentEvent, 0, maxBatchSize)

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-docChan:
			if !ok {
				rs.publishBatch(ctx, batch, results)
				return
			}
			batch = append(batch, event)
			if len(batch) >= maxBatchSize {
				rs.publishBatch(ctx, batch, results)
				batch = batch[:0]
			}

		case <-ticker.C:
			if len(batch) > 0 {
				rs.publishBatch(ctx, batch, results)
				batch = batch[:0]
			}

		case <-ctx.Done():
			rs.publishBatch(ctx, batch, results)
			return
		}
	}
}

func (rs *RetryService) publishBatch(ctx context.Context, batch []models.FeePaymentEvent, results chan<- batchResult) {
	if len(batch) == 0 {
		return
	}

	result := batchResult{
		successIDs: make([]string, 0, len(batch)),
		failedIDs:  make([]string, 0, len(batch)),
	}
	for _, event := range batch {
		payload, err := json.Marshal(event)
		if err != nil {
			logger.CtxError(ctx, log_messages.ErrorMarshallingJSON, err, slog.String("eventId", event.ID.Hex()))
			result.failedIDs = append(result.failedIDs, event.ID.Hex())
			continue
		}
		if err := rs.kafkaProducer.Publish(ctx, event.ChalanID.Hex(), payload); err != nil {
			logger.CtxError(ctx, log_messages.PaymentEventPublishFailed, err, slog.String("eventId", event.ID.Hex()))
			result.failedIDs = append(result.failedIDs, event.ID.Hex())
			if result.err == nil {
				result.err = err
			}
			continue
		}
		result.successIDs = append(result.successIDs, event.ID.Hex())
	}

	if len(result.successIDs) > 0 {
		logger.CtxInfo(ctx, log_messages.PaymentEventsPublished, slog.Any("successIDs", result.successIDs))
		unmarked, err := rs.eventRepo.MarkPublishedInBulk(ctx, result.successIDs)
		if err != nil {
			logger.CtxError(ctx, log_messages.EventRetryBatchError, err, slog.Any("successIDs", result.successIDs))
			result.err = fmt.Errorf("%s: %w", log_messages.EventRetryBatchError, err)
		} else if len(unmarked) > 0 {
			logger.CtxWarn(ctx, log_messages.SomePaymentEventsNotMarked,
				slog.Any("unmarkedIDs", unmarked),
				slog.Int("totalUnmarked", len(unmarked)),
			)
		}
	}
	if len(result.failedIDs) > 0 {
		logger.CtxWarn(ctx, log_messages.PaymentEventsFailedToPublish, slog.Any("failedIDs", result.failedIDs))
	}

	results <- result
}

func (rs *RetryService) bufferSize() int {
	if rs.workerConfig.BufferSize <= 0 {
		return 1
	}
	return rs.workerConfig.BufferSize
}
