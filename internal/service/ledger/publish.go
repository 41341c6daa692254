package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/consts"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/log_messages"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/logger"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/store/models"

	"github.com/dustin/go-humanize"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentNotification is the Pub/Sub message the parent notification service consumes.
type PaymentNotification struct {
	Event        string              `json:"event"`
	StudentID    string              `json:"studentId"`
	StudentName  string              `json:"studentName"`
	ClassID      string              `json:"classId"`
	ChalanNumber string              `json:"chalanNumber"`
	PaidAmount   float64             `json:"paidAmount"`
	Fine         float64             `json:"fine"`
	DueAmount    float64             `json:"dueAmount"`
	Status       models.ChalanStatus `json:"status"`
	Message      string              `json:"message"`
}

func newPaymentEvent(chalan models.FeeChalan, record models.PaymentRecord) models.FeePaymentEvent {
	return models.FeePaymentEvent{
		ID:              primitive.NewObjectID(),
		EventType:       consts.PaymentLedgerEventType,
		ChalanID:        chalan.ID,
		ChalanNumber:    chalan.ChalanNumber,
		StudentID:       chalan.StudentID,
		StudentName:     chalan.StudentName,
		ClassID:         chalan.ClassID,
		AcademicYear:    chalan.AcademicYear,
		PaidAmount:      record.PaidAmount,
		Fine:            record.Fine,
		Discount:        record.Discount,
		TotalWithFine:   record.TotalWithFine,
		TotalPaidAmount: chalan.TotalPaidAmount,
		TotalDueAmount:  chalan.TotalDueAmount,
		Status:          chalan.Status,
		PaymentMethod:   record.PaymentMethod,
		ReferenceNo:     record.ReferenceNo,
		PaidDate:        record.PaidDate,
		RecordedAt:      record.RecordedAt,
		ChalanVersion:   chalan.Version,
		CreatedAt:       record.RecordedAt,
	}
}

func (s *Service) publish(ctx context.Context, committed committedPayment) {
	s.publishEvent(ctx, committed.event)
	s.notify(ctx, committed)
}

// publishEvent leaves the outbox row unpublished on failure so the retry service picks it up.
func (s *Service) publishEvent(ctx context.Context, event models.FeePaymentEvent) {
	if s.kafka == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorMarshallingJSON, err, slog.String("eventId", event.ID.Hex()))
		return
	}
	if err := s.kafka.Publish(ctx, event.ChalanID.Hex(), payload); err != nil {
		logger.CtxError(ctx, log_messages.PaymentEventPublishFailed, err, slog.String("eventId", event.ID.Hex()))
		return
	}
	if err := s.eventRepo.MarkPublished(ctx, event.ID); err != nil {
		logger.CtxError(ctx, log_messages.PaymentEventMarkFailed, err, slog.String("eventId", event.ID.Hex()))
	}
}

func (s *Service) notify(ctx context.Context, committed committedPayment) {
	if s.notifier == nil || s.notifyTopic == "" {
		return
	}
	msg := PaymentNotification{
		Event:        consts.PaymentNotificationEvent,
		StudentID:    committed.chalan.StudentID,
		StudentName:  committed.chalan.StudentName,
		ClassID:      committed.chalan.ClassID,
		ChalanNumber: committed.chalan.ChalanNumber,
		PaidAmount:   committed.record.PaidAmount,
		Fine:         committed.record.Fine,
		DueAmount:    committed.record.DueAmount,
		Status:       committed.chalan.Status,
		Message:      NotificationText(committed.chalan, committed.record),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorMarshallingJSON, err)
		return
	}
	attributes := map[string]string{
		"event":     consts.PaymentNotificationEvent,
		"studentId": committed.chalan.StudentID,
		"trace_id":  logger.GetTraceID(ctx),
	}
	if err := s.notifier.Publish(ctx, s.notifyTopic, payload, attributes); err != nil {
		logger.CtxError(ctx, log_messages.PaymentNotificationFailed, err,
			slog.String("chalanNumber", committed.chalan.ChalanNumber))
		return
	}
	logger.CtxDebug(ctx, log_messages.PaymentNotificationSent, slog.String("chalanNumber", committed.chalan.ChalanNumber))
}

// NotificationText renders the parent-facing summary, e.g.
// "Received Rs 11,500.00 for chalan CH-1 (Ayesha). Fine Rs 575.00. Remaining Rs 575.00."
func NotificationText(chalan models.FeeChalan, record models.PaymentRecord) string {
	text := fmt.Sprintf("Received Rs %s for chalan %s (%s).",
		rupees(record.PaidAmount), chalan.ChalanNumber, chalan.StudentName)
	if record.Fine > 0 {
		text += fmt.Sprintf(" Fine Rs %s.", rupees(record.Fine))
	}
	if chalan.Status == models.ChalanStatusPaid {
		return text + " Fully paid."
	}
	return text + fmt.Sprintf(" Remaining Rs %s.", rupees(record.DueAmount))
}

func rupees(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}
