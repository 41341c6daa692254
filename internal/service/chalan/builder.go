// Package chalan assembles fee chalans from resolved schedules and persists them.
package chalan

import (
	"fmt"
	"time"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/consts"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/money"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/store/models"
)

// StudentRef identifies the student a chalan is raised for.
type StudentRef struct {
	StudentID  string `json:"studentId" validate:"required"`
	Name       string `json:"studentName" validate:"required"`
	RollNumber string `json:"rollNumber"`
	ClassID    string `json:"classId" validate:"required"`
	ClassName  string `json:"className"`
}

// GenerationParams are the per-chalan inputs after defaults have been applied.
type GenerationParams struct {
	ChalanNumber string
	AcademicYear string
	DueDate      *time.Time
	Remarks      string
	CreatedBy    string
	FeeSource    models.FeeSource
}

// Build assembles an unpaid chalan. It does not touch storage.
func Build(student StudentRef, fees models.ResolvedFeeSchedule, params GenerationParams, now time.Time) models.FeeChalan {
	total := money.Sum(
		fees.MonthlyTuition,
		fees.ExaminationFee,
		fees.LibraryFee,
		fees.SportsFee,
		fees.TransportFee,
		fees.OtherFees,
	)

	return models.FeeChalan{
		StudentID:         student.StudentID,
		StudentName:       student.Name,
		StudentRollNumber: student.RollNumber,
		ClassID:           student.ClassID,
		ClassName:         student.ClassName,
		ChalanNumber:      params.ChalanNumber,
		AcademicYear:      params.AcademicYear,
		DueDate:           params.DueDate,
		Fees: models.ChalanFees{
			ResolvedFeeSchedule: fees,
			TotalAmount:         total,
		},
		FeeSource:       params.FeeSource,
		Status:          models.ChalanStatusPending,
		TotalPaidAmount: 0,
		TotalDueAmount:  total,
		PaymentHistory:  []models.PaymentRecord{},
		Remarks:         params.Remarks,
		CreatedBy:       params.CreatedBy,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// AcademicYear names the school year containing t, e.g. "2024-2025" for any date from
// April 2024 to March 2025.
func AcademicYear(t time.Time) string {
	start := t.Year()
	if int(t.Month()) < consts.AcademicYearStartMonth {
		start--
	}
	return fmt.Sprintf("%d-%d", start, start+1)
}

// DefaultDueDate is the threshold day of the generation month, clamped to the month's last day.
// Without a threshold day the chalan is due on the generation date.
func DefaultDueDate(generatedOn time.Time, thresholdDay *int) time.Time {
	year, month, d := generatedOn.Date()
	loc := generatedOn.Location()
	if thresholdDay == nil {
		return time.Date(year, month, d, 0, 0, 0, 0, loc)
	}
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
	due := *thresholdDay
	if due > lastDay {
		due = lastDay
	}
	return time.Date(year, month, due, 0, 0, 0, 0, loc)
}
