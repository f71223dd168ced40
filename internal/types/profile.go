package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/pageza/glucolink/backend/internal/models"
)

// ProfileResponse is the profile as returned to its owner.
type ProfileResponse struct {
	UserID         uuid.UUID            `json:"user_id"`
	Email          string               `json:"email,omitempty"`
	Role           models.Role          `json:"role"`
	DiabetesType   *models.DiabetesType `json:"diabetes_type,omitempty"`
	FullName       string               `json:"full_name"`
	InvitationCode *string              `json:"invitation_code,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
}

// NewProfileResponse converts a stored profile.
func NewProfileResponse(p *models.Profile) ProfileResponse {
	resp := ProfileResponse{
		UserID:         p.UserID,
		Role:           p.Role,
		FullName:       p.FullName,
		InvitationCode: p.InvitationCode,
		CreatedAt:      p.CreatedAt,
	}
	if pk, ok := p.Kind().(models.PatientKind); ok {
		resp.DiabetesType = pk.DiabetesType
	}
	return resp
}

// UpdateProfileRequest represents a request to update a user's profile
type UpdateProfileRequest struct {
	FullName string `json:"full_name" binding:"required"`
}

// ProfileHistory represents a user's profile history
type ProfileHistory struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Field     string    `json:"field"`
	OldValue  string    `json:"old_value"`
	NewValue  string    `json:"new_value"`
	ChangedAt time.Time `json:"changed_at"`
	ChangedBy uuid.UUID `json:"changed_by"`
}

// PatientSummary is returned after a successful link.
type PatientSummary struct {
	UserID   uuid.UUID `json:"user_id"`
	FullName string    `json:"full_name"`
}

// LinkedPatient is one entry in a guardian's patient list.
type LinkedPatient struct {
	UserID       uuid.UUID            `json:"user_id"`
	FullName     string               `json:"full_name"`
	DiabetesType *models.DiabetesType `json:"diabetes_type,omitempty"`
	LinkedAt     time.Time            `json:"linked_at"`
}

// LinkedGuardian is one entry in a patient's guardian list.
type LinkedGuardian struct {
	UserID   uuid.UUID `json:"user_id"`
	FullName string    `json:"full_name"`
	LinkedAt time.Time `json:"linked_at"`
}
