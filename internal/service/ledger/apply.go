// Package ledger records payments against fee chalans.
package ledger

import (
	"time"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/apperr"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/money"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/store/models"

	"github.com/shopspring/decimal"
)

// Payment is a validated payment with its date already parsed.
type Payment struct {
	PaidAmount    float64
	Discount      float64
	PaymentMethod string
	ReferenceNo   string
	PaidDate      time.Time
	Remarks       string
	RecordedBy    string
}

// ApplyPayment appends payment to a copy of chalan and recomputes its totals. fine must already
// be recomputed for payment.PaidDate; onTime reports whether that date is on or before the due
// date. A payment that would leave a credit is rejected.
func ApplyPayment(chalan models.FeeChalan, payment Payment, fine float64, onTime bool,
	now time.Time) (models.FeeChalan, models.PaymentRecord, error) {
	total := money.D(chalan.Fees.TotalAmount)
	fineD := money.D(fine)
	discount := money.D(payment.Discount)
	paid := money.D(payment.PaidAmount)
	alreadyPaid := money.D(chalan.TotalPaidAmount)

	if discount.GreaterThan(total.Add(fineD)) {
		return models.FeeChalan{}, models.PaymentRecord{},
			apperr.NewFieldValidation("discount", "must not exceed the chalan total plus fine")
	}

	totalWithFine := total.Add(fineD).Sub(discount)
	remaining := money.ClampZero(totalWithFine.Sub(alreadyPaid))
	if paid.GreaterThan(remaining) {
		return models.FeeChalan{}, models.PaymentRecord{},
			apperr.NewFieldValidation("paidAmount", "must not exceed the remaining balance of "+remaining.StringFixed(2))
	}

	newPaid := alreadyPaid.Add(paid)
	newDue := money.ClampZero(totalWithFine.Sub(newPaid))

	record := models.PaymentRecord{
		PaidAmount:    money.F(paid),
		DueAmount:     money.F(newDue),
		Fine:          money.F(fineD),
		Discount:      money.F(discount),
		PaymentMethod: payment.PaymentMethod,
		ReferenceNo:   payment.ReferenceNo,
		PaidDate:      payment.PaidDate,
		Remarks:       payment.Remarks,
		RecordedAt:    now,
		RecordedBy:    payment.RecordedBy,
		TotalWithFine: money.F(totalWithFine),
	}

	updated := chalan
	updated.PaymentHistory = make([]models.PaymentRecord, 0, len(chalan.PaymentHistory)+1)
	updated.PaymentHistory = append(updated.PaymentHistory, chalan.PaymentHistory...)
	updated.PaymentHistory = append(updated.PaymentHistory, record)
	updated.TotalPaidAmount = money.F(newPaid)
	updated.TotalDueAmount = money.F(newDue)
	updated.Status = statusFor(newDue, newPaid)
	updated.UpdatedAt = now
	if updated.Status == models.ChalanStatusPaid && chalan.Status != models.ChalanStatusPaid {
		paidAt := now
		updated.PaidAt = &paidAt
	}
	if onTime {
		updated.OnTimePaymentRecorded = true
	}
	updated.Version = chalan.Version + 1

	return updated, record, nil
}

func statusFor(due, paid decimal.Decimal) models.ChalanStatus {
	switch {
	case !due.IsPositive():
		return models.ChalanStatusPaid
	case paid.IsPositive():
		return models.ChalanStatusPartial
	default:
		return models.ChalanStatusPending
	}
}
