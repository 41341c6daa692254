package handlers

import (
	"context"

	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/pkg/store/models"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/chalan"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/defaulters"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/feeschedule"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/ledger"
	"github.com/schoolmanagementsystem111/softverse-school-portal/internal/service/ledger_events"

	"github.com/stretchr/testify/mock"
)

type MockFeeScheduleService struct {
	mock.Mock
}

func (m *MockFeeScheduleService) GetClassSchedule(ctx context.Context, classID string) (*models.ClassFeeAmounts, error) {
	args := m.Called(ctx, classID)
	if args.Get(0) != nil {
		return args.Get(0).(*models.ClassFeeAmounts), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFeeScheduleService) ListClassSchedules(ctx context.Context) ([]models.ClassFeeAmounts, error) {
	args := m.Called(ctx)
	if args.Get(0) != nil {
		return args.Get(0).([]models.ClassFeeAmounts), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFeeScheduleService) UpsertClassSchedule(ctx context.Context,
	req feeschedule.UpsertClassScheduleRequest) (*models.ClassFeeAmounts, error) {
	args := m.Called(ctx, req)
	if args.Get(0) != nil {
		return args.Get(0).(*models.ClassFeeAmounts), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFeeScheduleService) DeleteClassSchedule(ctx context.Context, classID string) error {
	args := m.Called(ctx, classID)
	return args.Error(0)
}

func (m *MockFeeScheduleService) GetStandardSchedule(ctx context.Context) (*models.StandardFees, error) {
	args := m.Called(ctx)
	if args.Get(0) != nil {
		return args.Get(0).(*models.StandardFees), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFeeScheduleService) UpsertStandardSchedule(ctx context.Context,
	req feeschedule.UpsertStandardScheduleRequest) (*models.StandardFees, error) {
	args := m.Called(ctx, req)
	if args.Get(0) != nil {
		return args.Get(0).(*models.StandardFees), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFeeScheduleService) ResolveForClass(ctx context.Context, classID string) (feeschedule.ResolvedResponse, error) {
	args := m.Called(ctx, classID)
	return args.Get(0).(feeschedule.ResolvedResponse), args.Error(1)
}

type MockChalanService struct {
	mock.Mock
}

func (m *MockChalanService) Generate(ctx context.Context, req chalan.GenerateRequest) (*models.FeeChalan, error) {
	args := m.Called(ctx, req)
	if args.Get(0) != nil {
		return args.Get(0).(*models.FeeChalan), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockChalanService) GenerateBulk(ctx context.Context,
	req chalan.BulkGenerateRequest) (*chalan.BulkGenerationResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) != nil {
		return args.Get(0).(*chalan.BulkGenerationResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockChalanService) Get(ctx context.Context, id string) (*models.FeeChalan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*models.FeeChalan), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockChalanService) List(ctx context.Context, filter models.ChalanFilter) ([]models.FeeChalan, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) != nil {
		return args.Get(0).([]models.FeeChalan), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockChalanService) UpdateStatus(ctx context.Context, id string,
	req chalan.UpdateStatusRequest) (*models.FeeChalan, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) != nil {
		return args.Get(0).(*models.FeeChalan), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) RecordPayment(ctx context.Context, chalanID string,
	input ledger.PaymentInput) (*ledger.PaymentResult, error) {
	args := m.Called(ctx, chalanID, input)
	if args.Get(0) != nil {
		return args.Get(0).(*ledger.PaymentResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLedgerService) History(ctx context.Context, chalanID string) ([]models.PaymentRecord, error) {
	args := m.Called(ctx, chalanID)
	if args.Get(0) != nil {
		return args.Get(0).([]models.PaymentRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockLedgerService) PreviewFine(ctx context.Context, chalanID, paidDate string) (*ledger.FinePreview, error) {
	args := m.Called(ctx, chalanID, paidDate)
	if args.Get(0) != nil {
		return args.Get(0).(*ledger.FinePreview), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockDefaulterService struct {
	mock.Mock
}

func (m *MockDefaulterService) Report(ctx context.Context, classID string) (*models.DefaulterReport, error) {
	args := m.Called(ctx, classID)
	if args.Get(0) != nil {
		return args.Get(0).(*models.DefaulterReport), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDefaulterService) Export(ctx context.Context, classID string) (*defaulters.ExportResult, error) {
	args := m.Called(ctx, classID)
	if args.Get(0) != nil {
		return args.Get(0).(*defaulters.ExportResult), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockRetryService struct {
	mock.Mock
}

func (m *MockRetryService) Retry(ctx context.Context, since string) *ledger_events.RetryResponse {
	args := m.Called(ctx, since)
	return args.Get(0).(*ledger_events.RetryResponse)
}
