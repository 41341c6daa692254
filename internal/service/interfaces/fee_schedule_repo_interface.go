package interfaces

import (
	"context"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/store/models"
)

// ClassFeeAmountsRepoInterface stores per-class schedules. Get returns nil, nil when the class
// has no schedule.
type ClassFeeAmountsRepoInterface interface {
	Get(ctx context.Context, classID string) (*models.ClassFeeAmounts, error)
	List(ctx context.Context) ([]models.ClassFeeAmounts, error)
	Upsert(ctx context.Context, entry *models.ClassFeeAmounts) error
	Delete(ctx context.Context, classID string) (bool, error)
}

// StandardFeesRepoInterface stores the singleton standard schedule.
type StandardFeesRepoInterface interface {
	Get(ctx context.Context) (*models.StandardFees, error)
	Upsert(ctx context.Context, entry *models.StandardFees) error
}

// FeeScheduleSource is the configuration source injected into resolution and fine calculation.
// A nil schedule with a nil error means nothing is configured.
type FeeScheduleSource interface {
	ClassSchedule(ctx context.Context, classID string) (*models.FeeSchedule, error)
	StandardSchedule(ctx context.Context) (*models.FeeSchedule, error)
}

// FeeScheduleCacheInterface invalidates cached schedules after an administrator edit.
type FeeScheduleCacheInterface interface {
	FeeScheduleSource
	InvalidateClass(ctx context.Context, classID string)
	InvalidateStandard(ctx context.Context)
}
