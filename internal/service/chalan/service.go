package chalan

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/apperr"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/config"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/consts"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/log_messages"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/logger"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/store/models"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/interfaces"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const chalanResource = "fee chalan"

// ServiceInterface is what the HTTP handlers depend on.
type ServiceInterface interface {
	Generate(ctx context.Context, req GenerateRequest) (*models.FeeChalan, error)
	GenerateBulk(ctx context.Context, req BulkGenerateRequest) (*BulkGenerationResult, error)
	Get(ctx context.Context, id string) (*models.FeeChalan, error)
	List(ctx context.Context, filter models.ChalanFilter) ([]models.FeeChalan, error)
	UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (*models.FeeChalan, error)
}

// FeeResolver is satisfied by *feeschedule.Resolver.
type FeeResolver interface {
	Resolve(ctx context.Context, classID string) (models.ResolvedFeeSchedule, models.FeeSource, error)
	ResolveStandard(ctx context.Context) (models.ResolvedFeeSchedule, models.FeeSource, error)
}

// NumberGenerator is satisfied by *chalannumber.Generator.
type NumberGenerator interface {
	Next() string
}

type GenerationOptions struct {
	AcademicYear string           `json:"academicYear"`
	DueDate      string           `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
	Remarks      string           `json:"remarks" validate:"max=500"`
	CreatedBy    string           `json:"createdBy"`
	FeeSource    models.FeeSource `json:"feeSource" validate:"omitempty,oneof=class standard"`
}

type GenerateRequest struct {
	StudentRef
	GenerationOptions
}

type UpdateStatusRequest struct {
	Status  models.ChalanStatus `json:"status" validate:"required"`
	Remarks string              `json:"remarks" validate:"max=500"`
}

type Service struct {
	resolver   FeeResolver
	chalanRepo interfaces.FeeChalansRepoInterface
	markerRepo interfaces.ChalanGenerationInProgressRepoInterface
	numbers    NumberGenerator
	ledgerCfg  config.LedgerConfig
	bulkCfg    config.BulkGenerationConfig
	validate   *validator.Validate
	now        func() time.Time
	sleep      func(ctx context.Context, d time.Duration) error
}

var _ ServiceInterface = (*Service)(nil)

func NewService(
	resolver FeeResolver,
	chalanRepo interfaces.FeeChalansRepoInterface,
	markerRepo interfaces.ChalanGenerationInProgressRepoInterface,
	numbers NumberGenerator,
	ledgerCfg config.LedgerConfig,
	bulkCfg config.BulkGenerationConfig,
) *Service {
	return &Service{
		resolver:   resolver,
		chalanRepo: chalanRepo,
		markerRepo: markerRepo,
		numbers:    numbers,
		ledgerCfg:  ledgerCfg,
		bulkCfg:    bulkCfg,
		validate:   validator.New(),
		now:        time.Now,
		sleep:      sleepCtx,
	}
}

func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*models.FeeChalan, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperr.FromValidator(err)
	}
	return s.generate(ctx, req.StudentRef, req.GenerationOptions)
}

// generate runs one generation while holding the student's generation marker.
func (s *Service) generate(ctx context.Context, student StudentRef, opts GenerationOptions) (*models.FeeChalan, error) {
	// Step 1: serialize per student
	if err := s.acquireMarker(ctx, student.StudentID); err != nil {
		return nil, err
	}
	defer func() {
		if err := s.markerRepo.DeleteEntry(context.WithoutCancel(ctx), student.StudentID); err != nil {
			logger.CtxError(ctx, log_messages.ChalanGenerationLockReleaseErr, err,
				slog.String("studentId", student.StudentID))
		}
	}()

	// Step 2: resolve fees for the requested source
	var (
		fees   models.ResolvedFeeSchedule
		source models.FeeSource
		err    error
	)
	if opts.FeeSource == models.FeeSourceStandard {
		fees, source, err = s.resolver.ResolveStandard(ctx)
	} else {
		fees, source, err = s.resolver.Resolve(ctx, student.ClassID)
	}
	if err != nil {
		return nil, err
	}

	// Step 3: build and persist
	params, err := s.params(opts, fees, source)
	if err != nil {
		return nil, err
	}
	chalan := Build(student, fees, params, s.now().UTC())
	if _, err := s.chalanRepo.Create(ctx, &chalan); err != nil {
		return nil, apperr.FromMongo("create fee chalan", err)
	}
	return &chalan, nil
}

func (s *Service) params(opts GenerationOptions, fees models.ResolvedFeeSchedule,
	source models.FeeSource) (GenerationParams, error) {
	today := s.now().In(s.ledgerCfg.Location())

	params := GenerationParams{
		ChalanNumber: s.numbers.Next(),
		AcademicYear: opts.AcademicYear,
		Remarks:      opts.Remarks,
		CreatedBy:    opts.CreatedBy,
		FeeSource:    source,
	}
	if params.AcademicYear == "" {
		params.AcademicYear = AcademicYear(today)
	}
	if params.CreatedBy == "" {
		params.CreatedBy = consts.DefaultCreatedBy
	}

	var due time.Time
	if opts.DueDate != "" {
		parsed, err := time.ParseInLocation(consts.DateLayout, opts.DueDate, s.ledgerCfg.Location())
		if err != nil {
			return GenerationParams{}, apperr.NewFieldValidation("dueDate", "must be a date in YYYY-MM-DD format")
		}
		due = parsed
	} else {
		due = DefaultDueDate(today, fees.FineThresholdDay)
	}
	params.DueDate = &due
	return params, nil
}

// acquireMarker waits out a concurrent generation for the same student, up to the configured
// number of attempts.
func (s *Service) acquireMarker(ctx context.Context, studentID string) error {
	attempts := s.ledgerCfg.GenerationLockRetries
	if attempts <= 0 {
		attempts = 1
	}
	for attempt := 1; attempt <= attempts; attempt++ {
		err := s.markerRepo.CreateEntry(ctx, studentID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, apperr.ErrGenerationInProgress) {
			return apperr.FromMongo("create chalan generation marker", err)
		}
		logger.CtxInfo(ctx, log_messages.ChalanGenerationBusy,
			slog.String("studentId", studentID), slog.Int("attempt", attempt))
		if attempt < attempts {
			if err := s.sleep(ctx, s.ledgerCfg.GenerationLockBackoff*time.Duration(attempt)); err != nil {
				return err
			}
		}
	}
	return &apperr.WriteConflictError{Resource: "chalan generation", ID: studentID, Attempts: attempts}
}

func (s *Service) Get(ctx context.Context, id string) (*models.FeeChalan, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	chalan, err := s.chalanRepo.GetByID(ctx, oid)
	if err != nil {
		return nil, apperr.FromMongo("get fee chalan", err)
	}
	return chalan, nil
}

func (s *Service) List(ctx context.Context, filter models.ChalanFilter) ([]models.FeeChalan, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperr.NewFieldValidation("status", "must be one of pending partial paid overdue")
	}
	chalans, err := s.chalanRepo.Find(ctx, filter)
	if err != nil {
		return nil, apperr.FromMongo("list fee chalans", err)
	}
	return chalans, nil
}

// UpdateStatus marks an unpaid chalan overdue, or clears overdue back to the status its amounts
// imply. Paid is only ever reached through a payment.
func (s *Service) UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (*models.FeeChalan, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperr.FromValidator(err)
	}
	if !req.Status.Valid() {
		return nil, apperr.NewFieldValidation("status", "must be one of pending partial overdue")
	}
	if req.Status == models.ChalanStatusPaid {
		return nil, apperr.NewFieldValidation("status", "paid is set by recording a payment")
	}
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	attempts := maxAttempts(s.ledgerCfg.MaxWriteRetries)
	for attempt := 1; attempt <= attempts; attempt++ {
		chalan, err := s.chalanRepo.GetByID(ctx, oid)
		if err != nil {
			return nil, apperr.FromMongo("get fee chalan", err)
		}
		if chalan.Status == models.ChalanStatusPaid {
			return nil, apperr.NewValidation("a paid chalan cannot be edited")
		}

		expected := chalan.Version
		chalan.Status = derivedStatus(*chalan, req.Status)
		if req.Remarks != "" {
			chalan.Remarks = req.Remarks
		}
		chalan.Version = expected + 1
		chalan.UpdatedAt = s.now().UTC()

		ok, err := s.chalanRepo.ReplaceIfVersion(ctx, chalan, expected)
		if err != nil {
			if apperr.IsWriteConflict(err) {
				continue
			}
			return nil, apperr.FromMongo("update fee chalan status", err)
		}
		if ok {
			logger.CtxInfo(ctx, log_messages.ChalanStatusUpdated,
				slog.String("chalanId", id), slog.String("status", string(chalan.Status)))
			return chalan, nil
		}
	}
	return nil, &apperr.WriteConflictError{Resource: chalanResource, ID: id, Attempts: attempts}
}

func derivedStatus(chalan models.FeeChalan, requested models.ChalanStatus) models.ChalanStatus {
	if requested == models.ChalanStatusOverdue {
		return models.ChalanStatusOverdue
	}
	if chalan.TotalPaidAmount > 0 {
		return models.ChalanStatusPartial
	}
	return models.ChalanStatusPending
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperr.NewFieldValidation("id", "must be a valid chalan id")
	}
	return oid, nil
}

func maxAttempts(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
