package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeePaymentEvent is the outbox row written with every recorded payment. It is published to
// Kafka after the payment commits and re-published by the retry service until acknowledged.
type FeePaymentEvent struct {
	ID               primitive.ObjectID `bson:"_id" json:"id"`
	EventType        string             `bson:"eventType" json:"eventType"`
	ChalanID         primitive.ObjectID `bson:"chalanId" json:"chalanId"`
	ChalanNumber     string             `bson:"chalanNumber" json:"chalanNumber"`
	StudentID        string             `bson:"studentId" json:"studentId"`
	StudentName      string             `bson:"studentName" json:"studentName"`
	ClassID          string             `bson:"classId" json:"classId"`
	AcademicYear     string             `bson:"academicYear" json:"academicYear"`
	PaidAmount       float64            `bson:"paidAmount" json:"paidAmount"`
	Fine             float64            `bson:"fine" json:"fine"`
	Discount         float64            `bson:"discount" json:"discount"`
	TotalWithFine    float64            `bson:"totalWithFine" json:"totalWithFine"`
	TotalPaidAmount  float64            `bson:"totalPaidAmount" json:"totalPaidAmount"`
	TotalDueAmount   float64            `bson:"totalDueAmount" json:"totalDueAmount"`
	Status           ChalanStatus       `bson:"status" json:"status"`
	PaymentMethod    string             `bson:"paymentMethod" json:"paymentMethod"`
	ReferenceNo      string             `bson:"referenceNo,omitempty" json:"referenceNo,omitempty"`
	PaidDate         time.Time          `bson:"paidDate" json:"paidDate"`
	RecordedAt       time.Time          `bson:"recordedAt" json:"recordedAt"`
	ChalanVersion    int64              `bson:"chalanVersion" json:"chalanVersion"`
	PublishedToKafka bool               `bson:"publishedToKafka" json:"-"`
	PublishedAt      *time.Time         `bson:"publishedAt,omitempty" json:"-"`
	CreatedAt        time.Time          `bson:"createdAt" json:"-"`
}
