package defaulters

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/apperr"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/consts"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/log_messages"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/logger"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/money"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/store/models"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/interfaces"
)

// ServiceInterface is what the HTTP handlers and the export job depend on.
type ServiceInterface interface {
	Report(ctx context.Context, classID string) (*models.DefaulterReport, error)
	Export(ctx context.Context, classID string) (*ExportResult, error)
}

type ExportResult struct {
	ObjectName      string `json:"objectName"`
	DefaultersCount int    `json:"defaultersCount"`
}

type Service struct {
	chalanRepo interfaces.FeeChalansRepoInterface
	uploader   interfaces.ReportUploaderInterface
	now        func() time.Time
}

var _ ServiceInterface = (*Service)(nil)

func NewService(chalanRepo interfaces.FeeChalansRepoInterface, uploader interfaces.ReportUploaderInterface) *Service {
	return &Service{chalanRepo: chalanRepo, uploader: uploader, now: time.Now}
}

// Report aggregates every chalan, or a single class when classID is set.
func (s *Service) Report(ctx context.Context, classID string) (*models.DefaulterReport, error) {
	chalans, err := s.chalanRepo.Find(ctx, models.ChalanFilter{ClassID: classID})
	if err != nil {
		return nil, apperr.FromMongo("list fee chalans", err)
	}

	entries := Aggregate(chalans)
	outstanding := make([]float64, 0, len(entries))
	paid := make([]float64, 0, len(entries))
	for _, e := range entries {
		outstanding = append(outstanding, e.TotalOutstanding)
		paid = append(paid, e.TotalPaid)
	}

	report := &models.DefaulterReport{
		GeneratedAt:      s.now().UTC(),
		ClassID:          classID,
		DefaultersCount:  len(entries),
		TotalOutstanding: money.Sum(outstanding...),
		TotalPaid:        money.Sum(paid...),
		Defaulters:       entries,
	}
	logger.CtxInfo(ctx, log_messages.DefaulterReportBuilt,
		slog.String("classId", classID),
		slog.Int("defaulters", report.DefaultersCount),
		slog.Float64("totalOutstanding", report.TotalOutstanding),
	)
	return report, nil
}

// Export uploads the current report to object storage as JSON. Objects are never overwritten.
func (s *Service) Export(ctx context.Context, classID string) (*ExportResult, error) {
	report, err := s.Report(ctx, classID)
	if err != nil {
		return nil, err
	}

	objectName := ObjectName(report.GeneratedAt, classID)
	if err := s.uploader.UploadJSON(ctx, objectName, report); err != nil {
		logger.CtxError(ctx, log_messages.DefaulterReportExportError, err, slog.String("object", objectName))
		return nil, fmt.Errorf("export defaulter report: %w", err)
	}

	logger.CtxInfo(ctx, log_messages.DefaulterReportExported, slog.String("object", objectName))
	return &ExportResult{ObjectName: objectName, DefaultersCount: report.DefaultersCount}, nil
}

// ObjectName is defaulter-reports/<unix>_<classId|all>.json.
func ObjectName(generatedAt time.Time, classID string) string {
	scope := classID
	if scope == "" {
		scope = consts.DefaulterReportAllScope
	}
	return fmt.Sprintf("%s/%d_%s.json", consts.DefaulterReportFolder, generatedAt.Unix(), scope)
}
