// Package fine computes the late-payment fine for a chalan.
package fine

import (
	"time"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/money"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/store/models"
)

// Calculator compares calendar dates in Location, never instants.
type Calculator struct {
	Location *time.Location
}

func NewCalculator(loc *time.Location) *Calculator {
	if loc == nil {
		loc = time.UTC
	}
	return &Calculator{Location: loc}
}

// Calculate returns the fine owed if the chalan were paid on paidDate. Once any payment landed
// on or before the due date the fine is waived for good.
func (c *Calculator) Calculate(chalan models.FeeChalan, paidDate time.Time, finePercentage float64) float64 {
	if chalan.DueDate == nil {
		return 0
	}
	due := c.DateOnly(*chalan.DueDate)

	if c.HasOnTimePayment(chalan) {
		return 0
	}
	if !c.DateOnly(paidDate).After(due) {
		return 0
	}
	if finePercentage <= 0 {
		return 0
	}
	return money.Percent(chalan.Fees.TotalAmount, finePercentage)
}

// HasOnTimePayment reports whether the chalan already has a payment dated on or before its due
// date. The stored flag short-circuits the history scan.
func (c *Calculator) HasOnTimePayment(chalan models.FeeChalan) bool {
	if chalan.OnTimePaymentRecorded {
		return true
	}
	if chalan.DueDate == nil {
		return false
	}
	due := c.DateOnly(*chalan.DueDate)
	for _, record := range chalan.PaymentHistory {
		if !c.DateOnly(record.PaidDate).After(due) {
			return true
		}
	}
	return false
}

// IsOnTime reports whether paidDate falls on or before the chalan's due date.
func (c *Calculator) IsOnTime(chalan models.FeeChalan, paidDate time.Time) bool {
	if chalan.DueDate == nil {
		return false
	}
	return !c.DateOnly(paidDate).After(c.DateOnly(*chalan.DueDate))
}

// DateOnly truncates t to midnight of its calendar day in the school time zone.
func (c *Calculator) DateOnly(t time.Time) time.Time {
	local := t.In(c.location())
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.location())
}

func (c *Calculator) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// FinePercentage prefers a positive class percentage, then a positive standard one.
func FinePercentage(class, standard *models.FeeSchedule) float64 {
	if class != nil && class.FinePercentage != nil && *class.FinePercentage > 0 {
		return *class.FinePercentage
	}
	if standard != nil && standard.FinePercentage != nil && *standard.FinePercentage > 0 {
		return *standard.FinePercentage
	}
	return 0
}
