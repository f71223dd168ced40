package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/glucolink/backend/internal/models"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique constraint.
	ErrDuplicate = errors.New("duplicate key")
)

// ProfileStore persists accounts and profiles.
type ProfileStore interface {
	CreateAccount(ctx context.Context, user *models.User, profile *models.Profile) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	FindProfilesByUserIDs(ctx context.Context, userIDs []uuid.UUID) ([]models.Profile, error)
	FindProfileByInvitationCode(ctx context.Context, code string, role models.Role) (*models.Profile, error)
	UpdateProfileInvitationCode(ctx context.Context, userID uuid.UUID, code string) (*models.Profile, error)
	UpdateProfileFullName(ctx context.Context, userID uuid.UUID, fullName string) (*models.Profile, error)
	RecordProfileChange(ctx context.Context, change *models.ProfileHistory) error
	ListProfileHistory(ctx context.Context, userID uuid.UUID) ([]models.ProfileHistory, error)
}

// LinkStore persists guardian–patient links. InsertLink must rely on the
// (guardian_id, patient_id) unique index and return ErrDuplicate on conflict.
type LinkStore interface {
	FindLink(ctx context.Context, guardianID, patientID uuid.UUID) (*models.GuardianPatientLink, error)
	InsertLink(ctx context.Context, guardianID, patientID uuid.UUID) (*models.GuardianPatientLink, error)
	DeleteLink(ctx context.Context, guardianID, patientID uuid.UUID) error
	ListLinksByGuardian(ctx context.Context, guardianID uuid.UUID) ([]models.GuardianPatientLink, error)
	ListLinksByPatient(ctx context.Context, patientID uuid.UUID) ([]models.GuardianPatientLink, error)
}

// GlucoseRecordUpdate lists the editable fields of a record.
type GlucoseRecordUpdate struct {
	MeasuredAt   *time.Time
	InsulinUnits *float64
	ClearInsulin bool
}

// Empty reports whether the update changes nothing.
func (u GlucoseRecordUpdate) Empty() bool {
	return u.MeasuredAt == nil && u.InsulinUnits == nil && !u.ClearInsulin
}

// GlucoseStore persists readings.
type GlucoseStore interface {
	InsertGlucoseRecord(ctx context.Context, record *models.GlucoseRecord) (*models.GlucoseRecord, error)
	// QueryGlucoseRecords returns records newest first. A nil since returns all.
	QueryGlucoseRecords(ctx context.Context, userID uuid.UUID, since *time.Time) ([]models.GlucoseRecord, error)
	FindGlucoseRecord(ctx context.Context, recordID uuid.UUID) (*models.GlucoseRecord, error)
	UpdateGlucoseRecord(ctx context.Context, recordID uuid.UUID, fields GlucoseRecordUpdate) (*models.GlucoseRecord, error)
	DeleteGlucoseRecord(ctx context.Context, recordID uuid.UUID) error
}

// Store is the full storage surface.
type Store interface {
	ProfileStore
	LinkStore
	GlucoseStore
}
