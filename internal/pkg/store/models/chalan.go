package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChalanStatus string

const (
	ChalanStatusPending ChalanStatus = "pending"
	ChalanStatusPartial ChalanStatus = "partial"
	ChalanStatusPaid    ChalanStatus = "paid"
	ChalanStatusOverdue ChalanStatus = "overdue"
)

func (s ChalanStatus) Valid() bool {
	switch s {
	case ChalanStatusPending, ChalanStatusPartial, ChalanStatusPaid, ChalanStatusOverdue:
		return true
	}
	return false
}

// ChalanFees is the fee snapshot taken when the chalan was generated.
type ChalanFees struct {
	ResolvedFeeSchedule `bson:",inline"`
	TotalAmount         float64 `bson:"totalAmount" json:"totalAmount"`
}

type PaymentRecord struct {
	PaidAmount    float64   `bson:"paidAmount" json:"paidAmount"`
	DueAmount     float64   `bson:"dueAmount" json:"dueAmount"`
	Fine          float64   `bson:"fine" json:"fine"`
	Discount      float64   `bson:"discount" json:"discount"`
	PaymentMethod string    `bson:"paymentMethod" json:"paymentMethod"`
	ReferenceNo   string    `bson:"referenceNo,omitempty" json:"referenceNo,omitempty"`
	PaidDate      time.Time `bson:"paidDate" json:"paidDate"`
	Remarks       string    `bson:"remarks,omitempty" json:"remarks,omitempty"`
	RecordedAt    time.Time `bson:"recordedAt" json:"recordedAt"`
	RecordedBy    string    `bson:"recordedBy,omitempty" json:"recordedBy,omitempty"`
	TotalWithFine float64   `bson:"totalWithFine" json:"totalWithFine"`
}

type FeeChalan struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID             string             `bson:"studentId" json:"studentId"`
	StudentName           string             `bson:"studentName" json:"studentName"`
	StudentRollNumber     string             `bson:"studentRollNumber,omitempty" json:"studentRollNumber,omitempty"`
	ClassID               string             `bson:"classId" json:"classId"`
	ClassName             string             `bson:"className,omitempty" json:"className,omitempty"`
	ChalanNumber          string             `bson:"chalanNumber" json:"chalanNumber"`
	AcademicYear          string             `bson:"academicYear" json:"academicYear"`
	DueDate               *time.Time         `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	Fees                  ChalanFees         `bson:"fees" json:"fees"`
	FeeSource             FeeSource          `bson:"feeSource" json:"feeSource"`
	Status                ChalanStatus       `bson:"status" json:"status"`
	TotalPaidAmount       float64            `bson:"totalPaidAmount" json:"totalPaidAmount"`
	TotalDueAmount        float64            `bson:"totalDueAmount" json:"totalDueAmount"`
	PaymentHistory        []PaymentRecord    `bson:"paymentHistory" json:"paymentHistory"`
	OnTimePaymentRecorded bool               `bson:"onTimePaymentRecorded" json:"onTimePaymentRecorded"`
	Remarks               string             `bson:"remarks,omitempty" json:"remarks,omitempty"`
	CreatedBy             string             `bson:"createdBy" json:"createdBy"`
	Version               int64              `bson:"version" json:"version"`
	CreatedAt             time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time          `bson:"updatedAt" json:"updatedAt"`
	PaidAt                *time.Time         `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
}

// LatestPayment returns the most recent payment record, nil when nothing was paid yet.
func (c *FeeChalan) LatestPayment() *PaymentRecord {
	if len(c.PaymentHistory) == 0 {
		return nil
	}
	return &c.PaymentHistory[len(c.PaymentHistory)-1]
}

type ChalanFilter struct {
	StudentID    string
	ClassID      string
	Status       ChalanStatus
	AcademicYear string
}
