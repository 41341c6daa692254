// Package jobs registers the scheduled, read-only background work of the service.
package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/log_messages"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/logger"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/defaulters"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

const defaulterExportJob = "defaulter-export"

// Exporter is satisfied by defaulters.ServiceInterface.
type Exporter interface {
	Export(ctx context.Context, classID string) (*defaulters.ExportResult, error)
}

// DefaulterExportJob archives the school-wide defaulter report.
type DefaulterExportJob struct {
	exporter Exporter
	ctx      context.Context
}

func NewDefaulterExportJob(ctx context.Context, exporter Exporter) *DefaulterExportJob {
	return &DefaulterExportJob{exporter: exporter, ctx: ctx}
}

// Run implements cron.Job.
func (j *DefaulterExportJob) Run() {
	ctx := logger.WithTraceID(j.ctx, uuid.New().String())
	logger.CtxInfo(ctx, log_messages.DefaulterExportJobStarted)

	result, err := j.exporter.Export(ctx, "")
	if err != nil {
		logger.CtxError(ctx, log_messages.CronJobFailed, err, slog.String("job", defaulterExportJob))
		return
	}
	logger.CtxInfo(ctx, log_messages.DefaulterReportExported,
		slog.String("object", result.ObjectName),
		slog.Int("defaulters", result.DefaultersCount))
}

// NewScheduler returns a cron scheduler with the export registered on schedule. An empty schedule
// registers nothing.
func NewScheduler(ctx context.Context, schedule string, exporter Exporter) (*cron.Cron, error) {
	scheduler := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))
	if schedule == "" {
		return scheduler, nil
	}
	if _, err := scheduler.AddJob(schedule, NewDefaulterExportJob(ctx, exporter)); err != nil {
		logger.CtxError(ctx, log_messages.FailedToRegisterCronJob, err, slog.String("schedule", schedule))
		return nil, fmt.Errorf("%s: %w", log_messages.FailedToRegisterCronJob, err)
	}
	logger.CtxInfo(ctx, log_messages.CronJobRegistered,
		slog.String("job", defaulterExportJob), slog.String("schedule", schedule))
	return scheduler, nil
}
