package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/glucolink/backend/internal/models"
	"github.com/pageza/glucolink/backend/internal/service"
	"github.com/pageza/glucolink/backend/internal/types"
)

// MockGlucoseService is a mock implementation of the GlucoseService interface
type MockGlucoseService struct {
	mock.Mock
}

func (m *MockGlucoseService) CreateRecord(ctx context.Context, principal types.Principal, raw service.RawReading, measuredAt *time.Time) (*models.GlucoseRecord, error) {
	args := m.Called(ctx, principal, raw, measuredAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GlucoseRecord), args.Error(1)
}

func (m *MockGlucoseService) ListRecords(ctx context.Context, principal types.Principal, targetUserID uuid.UUID, period service.Period) ([]models.GlucoseRecord, error) {
	args := m.Called(ctx, principal, targetUserID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GlucoseRecord), args.Error(1)
}

func (m *MockGlucoseService) UpdateRecord(ctx context.Context, principal types.Principal, recordID uuid.UUID, upd service.RecordUpdate) (*models.GlucoseRecord, error) {
	args := m.Called(ctx, principal, recordID, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GlucoseRecord), args.Error(1)
}

func (m *MockGlucoseService) DeleteRecord(ctx context.Context, principal types.Principal, recordID uuid.UUID) error {
	return m.Called(ctx, principal, recordID).Error(0)
}

// MockReportService is a mock implementation of the ReportService interface
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Build(ctx context.Context, principal types.Principal, targetUserID uuid.UUID, period service.Period) (*service.Report, error) {
	args := m.Called(ctx, principal, targetUserID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Report), args.Error(1)
}

func (m *MockReportService) Archive(ctx context.Context, principal types.Principal, targetUserID uuid.UUID, period service.Period) (*types.ArchiveResponse, error) {
	args := m.Called(ctx, principal, targetUserID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ArchiveResponse), args.Error(1)
}
