package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the account type chosen at sign-up.
type Role string

const (
	RolePatient  Role = "patient"
	RoleGuardian Role = "guardian"
)

func (r Role) Valid() bool {
	return r == RolePatient || r == RoleGuardian
}

type DiabetesType string

const (
	DiabetesType1       DiabetesType = "type1"
	DiabetesType2       DiabetesType = "type2"
	DiabetesPrediabetes DiabetesType = "prediabetes"
)

func (d DiabetesType) Valid() bool {
	switch d {
	case DiabetesType1, DiabetesType2, DiabetesPrediabetes:
		return true
	}
	return false
}

var (
	ErrGuardianDiabetesType   = errors.New("diabetes type is only allowed on patient profiles")
	ErrGuardianInvitationCode = errors.New("invitation codes are only allowed on patient profiles")
	ErrUnknownRole            = errors.New("unknown profile role")
)

// Profile is stored as a flat row. Role-specific fields are only reachable
// through Kind, and NewProfile is the only constructor used by the services.
type Profile struct {
	ID             uuid.UUID     `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID         uuid.UUID     `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	Role           Role          `gorm:"type:varchar(16);not null;index" json:"role"`
	DiabetesType   *DiabetesType `gorm:"type:varchar(16)" json:"diabetes_type,omitempty"`
	FullName       string        `gorm:"size:120;not null" json:"full_name"`
	InvitationCode *string       `gorm:"type:varchar(8);uniqueIndex" json:"invitation_code,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// ProfileKind is the role-dependent part of a profile.
type ProfileKind interface {
	Role() Role
}

// PatientKind carries the fields only patients have.
type PatientKind struct {
	DiabetesType *DiabetesType
}

func (PatientKind) Role() Role { return RolePatient }

// GuardianKind has no role-specific fields.
type GuardianKind struct{}

func (GuardianKind) Role() Role { return RoleGuardian }

// NewProfile builds a profile whose flat columns are derived from kind.
func NewProfile(userID uuid.UUID, fullName string, kind ProfileKind) *Profile {
	p := &Profile{
		UserID:   userID,
		FullName: fullName,
		Role:     kind.Role(),
	}
	if pk, ok := kind.(PatientKind); ok {
		p.DiabetesType = pk.DiabetesType
	}
	return p
}

// Kind returns the tagged view of the profile.
func (p *Profile) Kind() ProfileKind {
	if p.Role == RolePatient {
		return PatientKind{DiabetesType: p.DiabetesType}
	}
	return GuardianKind{}
}

func (p *Profile) IsPatient() bool {
	return p.Role == RolePatient
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// BeforeSave rejects rows that break the role invariants.
func (p *Profile) BeforeSave(tx *gorm.DB) error {
	switch p.Role {
	case RolePatient:
		return nil
	case RoleGuardian:
		if p.DiabetesType != nil {
			return ErrGuardianDiabetesType
		}
		if p.InvitationCode != nil {
			return ErrGuardianInvitationCode
		}
		return nil
	case "":
		// Column-only updates run hooks against an empty model.
		return nil
	default:
		return ErrUnknownRole
	}
}
