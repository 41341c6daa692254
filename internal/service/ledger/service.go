package ledger

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
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/money"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/otel"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/store/models"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/fine"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/interfaces"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const chalanResource = "fee chalan"

var errVersionMoved = errors.New("fee chalan version moved on")

// ServiceInterface is what the HTTP handlers depend on.
type ServiceInterface interface {
	RecordPayment(ctx context.Context, chalanID string, input PaymentInput) (*PaymentResult, error)
	History(ctx context.Context, chalanID string) ([]models.PaymentRecord, error)
	PreviewFine(ctx context.Context, chalanID, paidDate string) (*FinePreview, error)
}

type PaymentInput struct {
	PaidAmount    float64 `json:"paidAmount" validate:"gte=0"`
	Discount      float64 `json:"discount" validate:"gte=0"`
	PaymentMethod string  `json:"paymentMethod" validate:"required,max=50"`
	ReferenceNo   string  `json:"referenceNo" validate:"max=100"`
	PaidDate      string  `json:"paidDate" validate:"required,datetime=2006-01-02"`
	Remarks       string  `json:"remarks" validate:"max=500"`
	RecordedBy    string  `json:"recordedBy"`
	// Fine is accepted for compatibility with payment dialogs and never trusted.
	Fine *float64 `json:"fine,omitempty"`
}

type PaymentResult struct {
	Chalan  models.FeeChalan     `json:"chalan"`
	Payment models.PaymentRecord `json:"payment"`
}

type FinePreview struct {
	ChalanID       string  `json:"chalanId"`
	PaidDate       string  `json:"paidDate"`
	FinePercentage float64 `json:"finePercentage"`
	Fine           float64 `json:"fine"`
	TotalWithFine  float64 `json:"totalWithFine"`
	RemainingDue   float64 `json:"remainingDue"`
}

type committedPayment struct {
	chalan models.FeeChalan
	record models.PaymentRecord
	event  models.FeePaymentEvent
}

type Service struct {
	chalanRepo  interfaces.FeeChalansRepoInterface
	eventRepo   interfaces.FeePaymentEventsRepoInterface
	schedules   interfaces.FeeScheduleSource
	tx          interfaces.TransactionRunnerInterface
	calc        *fine.Calculator
	kafka       interfaces.KafkaPublisherInterface
	notifier    interfaces.NotificationPublisherInterface
	notifyTopic string
	cfg         config.LedgerConfig
	validate    *validator.Validate
	now         func() time.Time
}

var _ ServiceInterface = (*Service)(nil)

func NewService(
	chalanRepo interfaces.FeeChalansRepoInterface,
	eventRepo interfaces.FeePaymentEventsRepoInterface,
	schedules interfaces.FeeScheduleSource,
	tx interfaces.TransactionRunnerInterface,
	kafka interfaces.KafkaPublisherInterface,
	notifier interfaces.NotificationPublisherInterface,
	notifyTopic string,
	cfg config.LedgerConfig,
) *Service {
	return &Service{
		chalanRepo:  chalanRepo,
		eventRepo:   eventRepo,
		schedules:   schedules,
		tx:          tx,
		calc:        fine.NewCalculator(cfg.Location()),
		kafka:       kafka,
		notifier:    notifier,
		notifyTopic: notifyTopic,
		cfg:         cfg,
		validate:    validator.New(),
		now:         time.Now,
	}
}

func (s *Service) RecordPayment(ctx context.Context, chalanID string, input PaymentInput) (*PaymentResult, error) {
	ctx, span := otel.GetTracer().Start(ctx, "ledger.RecordPayment",
		trace.WithAttributes(attribute.String("chalan.id", chalanID)))
	defer span.End()

	result, err := s.recordPayment(ctx, chalanID, input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, apperr.Code(err))
		return nil, err
	}
	span.SetAttributes(attribute.String("chalan.status", string(result.Chalan.Status)))
	return result, nil
}

// nolint:funlen
func (s *Service) recordPayment(ctx context.Context, chalanID string, input PaymentInput) (*PaymentResult, error) {
	// Step 1: validate input
	if err := s.validate.Struct(input); err != nil {
		return nil, apperr.FromValidator(err)
	}
	oid, err := parseID(chalanID)
	if err != nil {
		return nil, err
	}
	payment, err := s.toPayment(input)
	if err != nil {
		return nil, err
	}

	// Step 2: read-modify-write inside a transaction, retried from a fresh read on conflicts
	attempts := s.cfg.MaxWriteRetries
	if attempts <= 0 {
		attempts = 1
	}
	for attempt := 1; attempt <= attempts; attempt++ {
		var committed committedPayment
		err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
			result, err := s.applyOnce(txCtx, oid, payment, input.Fine)
			if err != nil {
				return err
			}
			committed = result
			return nil
		})
		if err == nil {
			logger.CtxInfo(ctx, log_messages.PaymentRecorded,
				slog.String("chalanId", chalanID),
				slog.Float64("paidAmount", committed.record.PaidAmount),
				slog.Float64("fine", committed.record.Fine),
				slog.String("status", string(committed.chalan.Status)),
			)

			// Step 3: post-commit publication, best effort
			s.publish(ctx, committed)
			return &PaymentResult{Chalan: committed.chalan, Payment: committed.record}, nil
		}

		if errors.Is(err, errVersionMoved) || isRetryableConflict(err) {
			logger.CtxWarn(ctx, log_messages.PaymentWriteConflict,
				slog.String("chalanId", chalanID), slog.Int("attempt", attempt))
			continue
		}
		logger.CtxError(ctx, log_messages.PaymentTransactionFailed, err, slog.String("chalanId", chalanID))
		return nil, apperr.FromMongo("record payment", err)
	}

	logger.CtxWarn(ctx, log_messages.PaymentRetriesExhausted,
		slog.String("chalanId", chalanID), slog.Int("attempts", attempts))
	return nil, &apperr.WriteConflictError{Resource: chalanResource, ID: chalanID, Attempts: attempts}
}

func (s *Service) applyOnce(ctx context.Context, id primitive.ObjectID, payment Payment,
	clientFine *float64) (committedPayment, error) {
	chalan, err := s.chalanRepo.GetByID(ctx, id)
	if err != nil {
		return committedPayment{}, err
	}
	if chalan.Status == models.ChalanStatusPaid {
		return committedPayment{}, apperr.NewValidation("chalan is already paid")
	}

	pct, err := s.finePercentage(ctx, chalan.ClassID)
	if err != nil {
		return committedPayment{}, err
	}
	fineAmount := s.calc.Calculate(*chalan, payment.PaidDate, pct)
	if clientFine != nil && money.Round2(*clientFine) != fineAmount {
		logger.CtxDebug(ctx, "Ignoring client supplied fine",
			slog.Float64("clientFine", *clientFine), slog.Float64("fine", fineAmount))
	}

	updated, record, err := ApplyPayment(*chalan, payment, fineAmount,
		s.calc.IsOnTime(*chalan, payment.PaidDate), s.now().UTC())
	if err != nil {
		return committedPayment{}, err
	}

	ok, err := s.chalanRepo.ReplaceIfVersion(ctx, &updated, chalan.Version)
	if err != nil {
		return committedPayment{}, err
	}
	if !ok {
		return committedPayment{}, errVersionMoved
	}

	event := newPaymentEvent(updated, record)
	if err := s.eventRepo.CreateEntry(ctx, &event); err != nil {
		return committedPayment{}, err
	}
	return committedPayment{chalan: updated, record: record, event: event}, nil
}

func (s *Service) finePercentage(ctx context.Context, classID string) (float64, error) {
	class, err := s.schedules.ClassSchedule(ctx, classID)
	if err != nil {
		return 0, err
	}
	standard, err := s.schedules.StandardSchedule(ctx)
	if err != nil {
		return 0, err
	}
	return fine.FinePercentage(class, standard), nil
}

func (s *Service) History(ctx context.Context, chalanID string) ([]models.PaymentRecord, error) {
	oid, err := parseID(chalanID)
	if err != nil {
		return nil, err
	}
	chalan, err := s.chalanRepo.GetByID(ctx, oid)
	if err != nil {
		return nil, apperr.FromMongo("get fee chalan", err)
	}
	if chalan.PaymentHistory == nil {
		return []models.PaymentRecord{}, nil
	}
	return chalan.PaymentHistory, nil
}

// PreviewFine computes what RecordPayment would charge as fine for a payment on paidDate.
func (s *Service) PreviewFine(ctx context.Context, chalanID, paidDate string) (*FinePreview, error) {
	oid, err := parseID(chalanID)
	if err != nil {
		return nil, err
	}
	date, err := s.parseDate(paidDate)
	if err != nil {
		return nil, err
	}
	chalan, err := s.chalanRepo.GetByID(ctx, oid)
	if err != nil {
		return nil, apperr.FromMongo("get fee chalan", err)
	}
	pct, err := s.finePercentage(ctx, chalan.ClassID)
	if err != nil {
		return nil, apperr.FromMongo("load fee schedules", err)
	}

	fineAmount := s.calc.Calculate(*chalan, date, pct)
	totalWithFine := money.D(chalan.Fees.TotalAmount).Add(money.D(fineAmount))
	remaining := money.ClampZero(totalWithFine.Sub(money.D(chalan.TotalPaidAmount)))
	return &FinePreview{
		ChalanID:       chalanID,
		PaidDate:       paidDate,
		FinePercentage: pct,
		Fine:           fineAmount,
		TotalWithFine:  money.F(totalWithFine),
		RemainingDue:   money.F(remaining),
	}, nil
}

func (s *Service) toPayment(input PaymentInput) (Payment, error) {
	paidDate, err := s.parseDate(input.PaidDate)
	if err != nil {
		return Payment{}, err
	}
	return Payment{
		PaidAmount:    input.PaidAmount,
		Discount:      input.Discount,
		PaymentMethod: input.PaymentMethod,
		ReferenceNo:   input.ReferenceNo,
		PaidDate:      paidDate,
		Remarks:       input.Remarks,
		RecordedBy:    orString(input.RecordedBy, consts.DefaultCreatedBy),
	}, nil
}

func (s *Service) parseDate(value string) (time.Time, error) {
	parsed, err := time.ParseInLocation(consts.DateLayout, value, s.cfg.Location())
	if err != nil {
		return time.Time{}, apperr.NewFieldValidation("paidDate", "must be a date in YYYY-MM-DD format")
	}
	return parsed, nil
}

// isRetryableConflict matches driver write conflicts, not our own exhausted-retry error.
func isRetryableConflict(err error) bool {
	var exhausted *apperr.WriteConflictError
	if errors.As(err, &exhausted) {
		return false
	}
	return apperr.IsWriteConflict(err)
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperr.NewFieldValidation("id", "must be a valid chalan id")
	}
	return oid, nil
}

func orString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
