package feeschedule

import (
	"context"
	"log/slog"
	"time"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/apperr"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/consts"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/log_messages"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/logger"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/store/models"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/interfaces"

	"github.com/go-playground/validator/v10"
)

// ServiceInterface is what the HTTP handlers depend on.
type ServiceInterface interface {
	GetClassSchedule(ctx context.Context, classID string) (*models.ClassFeeAmounts, error)
	ListClassSchedules(ctx context.Context) ([]models.ClassFeeAmounts, error)
	UpsertClassSchedule(ctx context.Context, req UpsertClassScheduleRequest) (*models.ClassFeeAmounts, error)
	DeleteClassSchedule(ctx context.Context, classID string) error
	GetStandardSchedule(ctx context.Context) (*models.StandardFees, error)
	UpsertStandardSchedule(ctx context.Context, req UpsertStandardScheduleRequest) (*models.StandardFees, error)
	ResolveForClass(ctx context.Context, classID string) (ResolvedResponse, error)
}

type UpsertClassScheduleRequest struct {
	ClassID   string             `json:"-" validate:"required"`
	ClassName string             `json:"className"`
	Schedule  models.FeeSchedule `json:"schedule"`
	UpdatedBy string             `json:"updatedBy"`
}

type UpsertStandardScheduleRequest struct {
	Schedule  models.FeeSchedule `json:"schedule"`
	UpdatedBy string             `json:"updatedBy"`
}

type ResolvedResponse struct {
	ClassID   string                     `json:"classId"`
	FeeSource models.FeeSource           `json:"feeSource"`
	Fees      models.ResolvedFeeSchedule `json:"fees"`
}

type Service struct {
	classRepo interfaces.ClassFeeAmountsRepoInterface
	stdRepo   interfaces.StandardFeesRepoInterface
	cache     interfaces.FeeScheduleCacheInterface
	resolver  *Resolver
	validate  *validator.Validate
	now       func() time.Time
}

var _ ServiceInterface = (*Service)(nil)

func NewService(
	classRepo interfaces.ClassFeeAmountsRepoInterface,
	stdRepo interfaces.StandardFeesRepoInterface,
	cache interfaces.FeeScheduleCacheInterface,
) *Service {
	return &Service{
		classRepo: classRepo,
		stdRepo:   stdRepo,
		cache:     cache,
		resolver:  NewResolver(cache),
		validate:  validator.New(),
		now:       time.Now,
	}
}

func (s *Service) GetClassSchedule(ctx context.Context, classID string) (*models.ClassFeeAmounts, error) {
	entry, err := s.classRepo.Get(ctx, classID)
	if err != nil {
		return nil, apperr.FromMongo("get class fee schedule", err)
	}
	if entry == nil {
		return nil, apperr.NewNotFound("class fee schedule", classID)
	}
	return entry, nil
}

func (s *Service) ListClassSchedules(ctx context.Context) ([]models.ClassFeeAmounts, error) {
	entries, err := s.classRepo.List(ctx)
	if err != nil {
		return nil, apperr.FromMongo("list class fee schedules", err)
	}
	return entries, nil
}

func (s *Service) UpsertClassSchedule(ctx context.Context, req UpsertClassScheduleRequest) (*models.ClassFeeAmounts, error) {
	if err := s.validate.Struct(req); err != nil {
		logger.CtxWarn(ctx, log_messages.FeeScheduleValidationFailed, slog.String("class_id", req.ClassID))
		return nil, apperr.FromValidator(err)
	}

	existing, err := s.classRepo.Get(ctx, req.ClassID)
	if err != nil {
		return nil, apperr.FromMongo("get class fee schedule", err)
	}

	entry := &models.ClassFeeAmounts{
		ClassID:     req.ClassID,
		ClassName:   req.ClassName,
		FeeSchedule: req.Schedule,
		Version:     1,
		UpdatedAt:   s.now().UTC(),
		UpdatedBy:   orString(req.UpdatedBy, consts.DefaultCreatedBy),
	}
	if existing != nil {
		entry.Version = existing.Version + 1
		if entry.ClassName == "" {
			entry.ClassName = existing.ClassName
		}
	}

	if err := s.classRepo.Upsert(ctx, entry); err != nil {
		return nil, apperr.FromMongo("save class fee schedule", err)
	}
	s.cache.InvalidateClass(ctx, req.ClassID)

	logger.CtxInfo(ctx, log_messages.FeeScheduleSaved,
		slog.String("class_id", req.ClassID),
		slog.Int64("version", entry.Version),
	)
	return entry, nil
}

func (s *Service) DeleteClassSchedule(ctx context.Context, classID string) error {
	deleted, err := s.classRepo.Delete(ctx, classID)
	if err != nil {
		return apperr.FromMongo("delete class fee schedule", err)
	}
	if !deleted {
		return apperr.NewNotFound("class fee schedule", classID)
	}
	s.cache.InvalidateClass(ctx, classID)
	logger.CtxInfo(ctx, log_messages.FeeScheduleDeleted, slog.String("class_id", classID))
	return nil
}

func (s *Service) GetStandardSchedule(ctx context.Context) (*models.StandardFees, error) {
	entry, err := s.stdRepo.Get(ctx)
	if err != nil {
		return nil, apperr.FromMongo("get standard fee schedule", err)
	}
	if entry == nil {
		return nil, apperr.NewNotFound("standard fee schedule", consts.StandardFeesDocumentID)
	}
	return entry, nil
}

func (s *Service) UpsertStandardSchedule(ctx context.Context, req UpsertStandardScheduleRequest) (*models.StandardFees, error) {
	if err := s.validate.Struct(req); err != nil {
		logger.CtxWarn(ctx, log_messages.FeeScheduleValidationFailed, slog.String("class_id", consts.StandardFeesDocumentID))
		return nil, apperr.FromValidator(err)
	}

	existing, err := s.stdRepo.Get(ctx)
	if err != nil {
		return nil, apperr.FromMongo("get standard fee schedule", err)
	}

	entry := &models.StandardFees{
		ID:          consts.StandardFeesDocumentID,
		FeeSchedule: req.Schedule,
		Version:     1,
		UpdatedAt:   s.now().UTC(),
		UpdatedBy:   orString(req.UpdatedBy, consts.DefaultCreatedBy),
	}
	if existing != nil {
		entry.Version = existing.Version + 1
	}

	if err := s.stdRepo.Upsert(ctx, entry); err != nil {
		return nil, apperr.FromMongo("save standard fee schedule", err)
	}
	s.cache.InvalidateStandard(ctx)

	logger.CtxInfo(ctx, log_messages.FeeScheduleSaved,
		slog.String("class_id", consts.StandardFeesDocumentID),
		slog.Int64("version", entry.Version),
	)
	return entry, nil
}

func (s *Service) ResolveForClass(ctx context.Context, classID string) (ResolvedResponse, error) {
	fees, source, err := s.resolver.Resolve(ctx, classID)
	if err != nil {
		return ResolvedResponse{}, err
	}
	return ResolvedResponse{ClassID: classID, FeeSource: source, Fees: fees}, nil
}

func orString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
