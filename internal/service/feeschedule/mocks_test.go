package feeschedule

import (
	"context"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/store/models"

	"github.com/stretchr/testify/mock"
)

type MockCache struct {
	mock.Mock
}

func (m *MockCache) ClassSchedule(ctx context.Context, classID string) (*models.FeeSchedule, error) {
	args := m.Called(ctx, classID)
	schedule, _ := args.Get(0).(*models.FeeSchedule)
	return schedule, args.Error(1)
}

func (m *MockCache) StandardSchedule(ctx context.Context) (*models.FeeSchedule, error) {
	args := m.Called(ctx)
	schedule, _ := args.Get(0).(*models.FeeSchedule)
	return schedule, args.Error(1)
}

func (m *MockCache) InvalidateClass(ctx context.Context, classID string) {
	m.Called(ctx, classID)
}

func (m *MockCache) InvalidateStandard(ctx context.Context) {
	m.Called(ctx)
}

type MockClassRepo struct {
	mock.Mock
}

func (m *MockClassRepo) Get(ctx context.Context, classID string) (*models.ClassFeeAmounts, error) {
	args := m.Called(ctx, classID)
	entry, _ := args.Get(0).(*models.ClassFeeAmounts)
	return entry, args.Error(1)
}

func (m *MockClassRepo) List(ctx context.Context) ([]models.ClassFeeAmounts, error) {
	args := m.Called(ctx)
	entries, _ := args.Get(0).([]models.ClassFeeAmounts)
	return entries, args.Error(1)
}

func (m *MockClassRepo) Upsert(ctx context.Context, entry *models.ClassFeeAmounts) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockClassRepo) Delete(ctx context.Context, classID string) (bool, error) {
	args := m.Called(ctx, classID)
	return args.Bool(0), args.Error(1)
}

type MockStandardRepo struct {
	mock.Mock
}

func (m *MockStandardRepo) Get(ctx context.Context) (*models.StandardFees, error) {
	args := m.Called(ctx)
	entry, _ := args.Get(0).(*models.StandardFees)
	return entry, args.Error(1)
}

func (m *MockStandardRepo) Upsert(ctx context.Context, entry *models.StandardFees) error {
	return m.Called(ctx, entry).Error(0)
}

func f(v float64) *float64 { return &v }

func day(v int) *int { return &v }
