package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/glucolink/backend/internal/models"
	"github.com/pageza/glucolink/backend/internal/types"
)

// MockProfileService is a mock implementation of the ProfileService interface
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) GetProfile(ctx context.Context, principal types.Principal) (*models.Profile, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileService) UpdateFullName(ctx context.Context, principal types.Principal, fullName string) (*models.Profile, error) {
	args := m.Called(ctx, principal, fullName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockProfileService) RegenerateInvitationCode(ctx context.Context, principal types.Principal) (string, error) {
	args := m.Called(ctx, principal)
	return args.String(0), args.Error(1)
}

func (m *MockProfileService) GetProfileHistory(ctx context.Context, principal types.Principal) ([]types.ProfileHistory, error) {
	args := m.Called(ctx, principal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.ProfileHistory), args.Error(1)
}
