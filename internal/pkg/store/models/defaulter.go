package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DefaulterChalanSummary struct {
	ChalanID       primitive.ObjectID `json:"chalanId"`
	ChalanNumber   string             `json:"chalanNumber"`
	AcademicYear   string             `json:"academicYear"`
	DueDate        *time.Time         `json:"dueDate,omitempty"`
	Status         ChalanStatus       `json:"status"`
	TotalAmount    float64            `json:"totalAmount"`
	TotalPaid      float64            `json:"totalPaidAmount"`
	TotalDue       float64            `json:"totalDueAmount"`
	LatestFine     float64            `json:"fine"`
	LatestDiscount float64            `json:"discount"`
}

type DefaulterEntry struct {
	StudentID         string                   `json:"studentId"`
	StudentName       string                   `json:"studentName"`
	StudentRollNumber string                   `json:"studentRollNumber,omitempty"`
	ClassID           string                   `json:"classId"`
	ClassName         string                   `json:"className,omitempty"`
	TotalOutstanding  float64                  `json:"totalOutstanding"`
	TotalPaid         float64                  `json:"totalPaid"`
	ChalansCount      int                      `json:"chalansCount"`
	Chalans           []DefaulterChalanSummary `json:"chalans"`
}

type DefaulterReport struct {
	GeneratedAt      time.Time        `json:"generatedAt"`
	ClassID          string           `json:"classId,omitempty"`
	DefaultersCount  int              `json:"defaultersCount"`
	TotalOutstanding float64          `json:"totalOutstanding"`
	TotalPaid        float64          `json:"totalPaid"`
	Defaulters       []DefaulterEntry `json:"defaulters"`
}
