package models

import "time"

// ChalanGenerationInProgress marks a student whose chalan is being generated. The student id is
// the document key, so a second concurrent insert fails with a duplicate key error.
type ChalanGenerationInProgress struct {
	StudentID string    `bson:"_id"`
	TraceID   string    `bson:"traceId,omitempty"`
	CreatedAt time.Time `bson:"createdAt"`
}
