package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/glucolink/backend/internal/types"
)

// MockLinkService is a mock implementation of the LinkService interface
type MockLinkService struct {
	mock.Mock
}

func (m *MockLinkService) LinkByCode(ctx context.Context, principal types.Principal, code string) (*types.PatientSummary, error) {
	args := m.Called(ctx, principal, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.PatientSummary), args.Error(1)
}

func (m *MockLinkService) Unlink(ctx context.Context, principal types.Principal, counterpartID uuid.UUID) error {
	return m.Called(ctx, principal, counterpartID).Error(0)
}

func (m *MockLinkService) ListPatients(ctx context.Context, principal types.Principal) ([]types.LinkedPatient, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.LinkedPatient), args.Error(1)
}

func (m *MockLinkService) ListGuardians(ctx context.Context, principal types.Principal) ([]types.LinkedGuardian, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.LinkedGuardian), args.Error(1)
}

// MockScopeResolver is a mock implementation of the access resolver
type MockScopeResolver struct {
	mock.Mock
}

func (m *MockScopeResolver) ResolveReadableUserIDs(ctx context.Context, principal types.Principal) ([]uuid.UUID, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockScopeResolver) Authorize(ctx context.Context, principal types.Principal, targetUserID uuid.UUID) error {
	return m.Called(ctx, principal, targetUserID).Error(0)
}
