package models

import (
	"time"
)

type FeeSource string

const (
	FeeSourceClass    FeeSource = "class"
	FeeSourceStandard FeeSource = "standard"
	FeeSourceDefault  FeeSource = "default"
)

// FeeSchedule is a stored fee configuration. A nil field is unset and resolves to the hard
// default; a zero field is a configured zero.
type FeeSchedule struct {
	MonthlyTuition       *float64 `bson:"monthlyTuition,omitempty" json:"monthlyTuition,omitempty" validate:"omitempty,gte=0"`
	ExaminationFee       *float64 `bson:"examinationFee,omitempty" json:"examinationFee,omitempty" validate:"omitempty,gte=0"`
	LibraryFee           *float64 `bson:"libraryFee,omitempty" json:"libraryFee,omitempty" validate:"omitempty,gte=0"`
	SportsFee            *float64 `bson:"sportsFee,omitempty" json:"sportsFee,omitempty" validate:"omitempty,gte=0"`
	TransportFee         *float64 `bson:"transportFee,omitempty" json:"transportFee,omitempty" validate:"omitempty,gte=0"`
	OtherFees            *float64 `bson:"otherFees,omitempty" json:"otherFees,omitempty" validate:"omitempty,gte=0"`
	OtherFeesDescription string   `bson:"otherFeesDescription,omitempty" json:"otherFeesDescription,omitempty" validate:"max=200"`
	FinePercentage       *float64 `bson:"finePercentage,omitempty" json:"finePercentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	FineThresholdDay     *int     `bson:"fineThresholdDay,omitempty" json:"fineThresholdDay,omitempty" validate:"omitempty,gte=1,lte=31"`
	Discount             *float64 `bson:"discount,omitempty" json:"discount,omitempty" validate:"omitempty,gte=0"`
}

// ClassFeeAmounts is the per-class schedule, keyed by class id.
type ClassFeeAmounts struct {
	ClassID     string `bson:"_id" json:"classId"`
	ClassName   string `bson:"className,omitempty" json:"className,omitempty"`
	FeeSchedule `bson:",inline"`
	Version     int64     `bson:"version" json:"version"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
	UpdatedBy   string    `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
}

// StandardFees is the school-wide singleton schedule.
type StandardFees struct {
	ID          string `bson:"_id" json:"-"`
	FeeSchedule `bson:",inline"`
	Version     int64     `bson:"version" json:"version"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
	UpdatedBy   string    `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
}

// ResolvedFeeSchedule is a schedule with every field populated.
type ResolvedFeeSchedule struct {
	MonthlyTuition       float64 `bson:"monthlyTuition" json:"monthlyTuition"`
	ExaminationFee       float64 `bson:"examinationFee" json:"examinationFee"`
	LibraryFee           float64 `bson:"libraryFee" json:"libraryFee"`
	SportsFee            float64 `bson:"sportsFee" json:"sportsFee"`
	TransportFee         float64 `bson:"transportFee" json:"transportFee"`
	OtherFees            float64 `bson:"otherFees" json:"otherFees"`
	OtherFeesDescription string  `bson:"otherFeesDescription,omitempty" json:"otherFeesDescription,omitempty"`
	FinePercentage       float64 `bson:"finePercentage" json:"finePercentage"`
	FineThresholdDay     *int    `bson:"fineThresholdDay" json:"fineThresholdDay"`
	Discount             float64 `bson:"discount" json:"discount"`
}
