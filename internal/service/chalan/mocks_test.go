package chalan

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/store/models"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockChalanRepo struct {
	mock.Mock
}

func (m *MockChalanRepo) Create(ctx context.Context, chalan *models.FeeChalan) (primitive.ObjectID, error) {
	args := m.Called(ctx, chalan)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockChalanRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.FeeChalan, error) {
	args := m.Called(ctx, id)
	if fn, ok := args.Get(0).(func(context.Context, primitive.ObjectID) *models.FeeChalan); ok {
		return fn(ctx, id), args.Error(1)
	}
	chalan, _ := args.Get(0).(*models.FeeChalan)
	return chalan, args.Error(1)
}

func (m *MockChalanRepo) ReplaceIfVersion(ctx context.Context, chalan *models.FeeChalan, expectedVersion int64) (bool, error) {
	args := m.Called(ctx, chalan, expectedVersion)
	return args.Bool(0), args.Error(1)
}

func (m *MockChalanRepo) Find(ctx context.Context, filter models.ChalanFilter) ([]models.FeeChalan, error) {
	args := m.Called(ctx, filter)
	chalans, _ := args.Get(0).([]models.FeeChalan)
	return chalans, args.Error(1)
}

func (m *MockChalanRepo) EnsureIndexes(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockMarkerRepo struct {
	mock.Mock
}

func (m *MockMarkerRepo) CreateEntry(ctx context.Context, studentID string) error {
	return m.Called(ctx, studentID).Error(0)
}

func (m *MockMarkerRepo) DeleteEntry(ctx context.Context, studentID string) error {
	return m.Called(ctx, studentID).Error(0)
}

type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, classID string) (models.ResolvedFeeSchedule, models.FeeSource, error) {
	args := m.Called(ctx, classID)
	return args.Get(0).(models.ResolvedFeeSchedule), args.Get(1).(models.FeeSource), args.Error(2)
}

func (m *MockResolver) ResolveStandard(ctx context.Context) (models.ResolvedFeeSchedule, models.FeeSource, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.ResolvedFeeSchedule), args.Get(1).(models.FeeSource), args.Error(2)
}

type sequenceNumbers struct {
	n int64
}

func (s *sequenceNumbers) Next() string {
	return fmt.Sprintf("CH-%d", atomic.AddInt64(&s.n, 1))
}
