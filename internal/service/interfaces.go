package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/glucolink/backend/internal/models"
	"github.com/pageza/glucolink/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, *models.Profile, error)
	ValidateToken(token string) (*types.TokenClaims, error)
	GenerateToken(claims *types.TokenClaims) (string, error)
}

// IProfileService defines the interface for user profile operations
type IProfileService interface {
	GetProfile(ctx context.Context, principal types.Principal) (*models.Profile, error)
	UpdateFullName(ctx context.Context, principal types.Principal, fullName string) (*models.Profile, error)
	RegenerateInvitationCode(ctx context.Context, principal types.Principal) (string, error)
	GetProfileHistory(ctx context.Context, principal types.Principal) ([]types.ProfileHistory, error)
}

// ILinkService defines guardian–patient linking operations
type ILinkService interface {
	LinkByCode(ctx context.Context, principal types.Principal, code string) (*types.PatientSummary, error)
	Unlink(ctx context.Context, principal types.Principal, counterpartID uuid.UUID) error
	ListPatients(ctx context.Context, principal types.Principal) ([]types.LinkedPatient, error)
	ListGuardians(ctx context.Context, principal types.Principal) ([]types.LinkedGuardian, error)
}

// IScopeResolver computes readable user ids
type IScopeResolver interface {
	Authorizer
	ResolveReadableUserIDs(ctx context.Context, principal types.Principal) ([]uuid.UUID, error)
}

// IGlucoseService defines glucose record operations
type IGlucoseService interface {
	CreateRecord(ctx context.Context, principal types.Principal, raw RawReading, measuredAt *time.Time) (*models.GlucoseRecord, error)
	ListRecords(ctx context.Context, principal types.Principal, targetUserID uuid.UUID, period Period) ([]models.GlucoseRecord, error)
	UpdateRecord(ctx context.Context, principal types.Principal, recordID uuid.UUID, upd RecordUpdate) (*models.GlucoseRecord, error)
	DeleteRecord(ctx context.Context, principal types.Principal, recordID uuid.UUID) error
}

// IReportService defines report operations
type IReportService interface {
	Build(ctx context.Context, principal types.Principal, targetUserID uuid.UUID, period Period) (*Report, error)
	Archive(ctx context.Context, principal types.Principal, targetUserID uuid.UUID, period Period) (*types.ArchiveResponse, error)
}

var _ IScopeResolver = (*AccessResolver)(nil)
