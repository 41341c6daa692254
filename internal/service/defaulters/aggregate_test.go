package defaulters

import (
	"testing"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/money"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/store/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chalan(studentID string, status models.ChalanStatus, total, paid, due float64) models.FeeChalan {
	return models.FeeChalan{
		StudentID:       studentID,
		StudentName:     "Student " + studentID,
		ClassID:         "7A",
		Status:          status,
		Fees:            models.ChalanFees{TotalAmount: total},
		TotalPaidAmount: paid,
		TotalDueAmount:  due,
	}
}

func TestIsDefaulting(t *testing.T) {
	assert.True(t, IsDefaulting(chalan("a", models.ChalanStatusPending, 100, 0, 100)))
	assert.True(t, IsDefaulting(chalan("a", models.ChalanStatusOverdue, 100, 0, 100)))
	assert.False(t, IsDefaulting(chalan("a", models.ChalanStatusPaid, 100, 100, 0)))
	// a discounted chalan is paid but still below its fee total
	assert.True(t, IsDefaulting(chalan("a", models.ChalanStatusPaid, 100, 90, 0)))
}

func TestAggregate_Empty(t *testing.T) {
	entries := Aggregate(nil)

	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestAggregate_GroupsAndSorts(t *testing.T) {
	withFine := chalan("b", models.ChalanStatusPartial, 11500, 11500, 575)
	withFine.PaymentHistory = []models.PaymentRecord{{PaidAmount: 11500, Fine: 575, Discount: 0}}

	chalans := []models.FeeChalan{
		chalan("a", models.ChalanStatusPending, 1000, 0, 1000),
		withFine,
		chalan("a", models.ChalanStatusPartial, 1000, 400, 600),
		chalan("c", models.ChalanStatusPaid, 2000, 2000, 0),
		chalan("d", models.ChalanStatusOverdue, 575, 0, 575),
	}

	entries := Aggregate(chalans)

	require.Len(t, entries, 3)
	assert.Equal(t, "a", entries[0].StudentID)
	assert.Equal(t, 1600.0, entries[0].TotalOutstanding)
	assert.Equal(t, 400.0, entries[0].TotalPaid)
	assert.Equal(t, 2, entries[0].ChalansCount)
	assert.Len(t, entries[0].Chalans, 2)

	// b and d tie on 575; student id breaks the tie
	assert.Equal(t, "b", entries[1].StudentID)
	assert.Equal(t, 575.0, entries[1].Chalans[0].LatestFine)
	assert.Equal(t, "d", entries[2].StudentID)
}

func TestAggregate_OutstandingMatchesFilteredDue(t *testing.T) {
	chalans := []models.FeeChalan{
		chalan("a", models.ChalanStatusPending, 100.10, 0, 100.10),
		chalan("b", models.ChalanStatusPartial, 200.20, 50.05, 150.15),
		chalan("a", models.ChalanStatusOverdue, 300.30, 0, 300.30),
		chalan("c", models.ChalanStatusPaid, 10, 10, 0),
		chalan("d", models.ChalanStatusPaid, 10, 5, 0),
	}

	entries := Aggregate(chalans)

	var outstanding, due []float64
	for _, e := range entries {
		outstanding = append(outstanding, e.TotalOutstanding)
	}
	for _, c := range chalans {
		if IsDefaulting(c) {
			due = append(due, c.TotalDueAmount)
		}
	}
	assert.Equal(t, money.Sum(due...), money.Sum(outstanding...))
	assert.Equal(t, 400.4, entries[0].TotalOutstanding)
}
