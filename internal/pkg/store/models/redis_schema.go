package models

import (
	"fmt"
)

const (
	ClassScheduleKeyPattern = "fee_schedule:class:%s" // fee_schedule:class:<classId>
	StandardScheduleKey     = "fee_schedule:standard"
)

func ClassScheduleKeyBuilder(classID string) string {
	return fmt.Sprintf(ClassScheduleKeyPattern, classID)
}

// CachedSchedule is what the schedule cache stores. Found is false when the store had no
// document, so misses are cached too.
type CachedSchedule struct {
	Found     bool        `json:"found"`
	ClassName string      `json:"className,omitempty"`
	Schedule  FeeSchedule `json:"schedule"`
}
