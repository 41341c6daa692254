// Package defaulters reports students with outstanding fees.
package defaulters

import (
	"sort"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/money"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/store/models"

	"github.com/shopspring/decimal"
)

// IsDefaulting is the inclusion predicate: an open status, an amount still due, or less paid
// than the fee total.
func IsDefaulting(c models.FeeChalan) bool {
	switch c.Status {
	case models.ChalanStatusPending, models.ChalanStatusPartial, models.ChalanStatusOverdue:
		return true
	}
	return c.TotalDueAmount > 0 || c.TotalPaidAmount < c.Fees.TotalAmount
}

type accumulator struct {
	entry       models.DefaulterEntry
	outstanding decimal.Decimal
	paid        decimal.Decimal
}

// Aggregate groups defaulting chalans by student, largest outstanding first. Ties are broken by
// student id so the order is stable.
func Aggregate(chalans []models.FeeChalan) []models.DefaulterEntry {
	byStudent := map[string]*accumulator{}
	order := []string{}

	for _, c := range chalans {
		if !IsDefaulting(c) {
			continue
		}
		acc, ok := byStudent[c.StudentID]
		if !ok {
			acc = &accumulator{entry: models.DefaulterEntry{
				StudentID:         c.StudentID,
				StudentName:       c.StudentName,
				StudentRollNumber: c.StudentRollNumber,
				ClassID:           c.ClassID,
				ClassName:         c.ClassName,
				Chalans:           []models.DefaulterChalanSummary{},
			}}
			byStudent[c.StudentID] = acc
			order = append(order, c.StudentID)
		}
		acc.outstanding = acc.outstanding.Add(money.D(c.TotalDueAmount))
		acc.paid = acc.paid.Add(money.D(c.TotalPaidAmount))
		acc.entry.ChalansCount++
		acc.entry.Chalans = append(acc.entry.Chalans, summarize(c))
	}

	entries := make([]models.DefaulterEntry, 0, len(order))
	for _, studentID := range order {
		acc := byStudent[studentID]
		acc.entry.TotalOutstanding = money.F(acc.outstanding)
		acc.entry.TotalPaid = money.F(acc.paid)
		entries = append(entries, acc.entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalOutstanding != entries[j].TotalOutstanding {
			return entries[i].TotalOutstanding > entries[j].TotalOutstanding
		}
		return entries[i].StudentID < entries[j].StudentID
	})
	return entries
}

func summarize(c models.FeeChalan) models.DefaulterChalanSummary {
	summary := models.DefaulterChalanSummary{
		ChalanID:     c.ID,
		ChalanNumber: c.ChalanNumber,
		AcademicYear: c.AcademicYear,
		DueDate:      c.DueDate,
		Status:       c.Status,
		TotalAmount:  c.Fees.TotalAmount,
		TotalPaid:    c.TotalPaidAmount,
		TotalDue:     c.TotalDueAmount,
	}
	if latest := c.LatestPayment(); latest != nil {
		summary.LatestFine = latest.Fine
		summary.LatestDiscount = latest.Discount
	}
	return summary
}
