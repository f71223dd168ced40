package types

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RegisterRequest is the sign-up payload.
type RegisterRequest struct {
	Email        string  `json:"email" binding:"required,email"`
	Password     string  `json:"password" binding:"required,min=6"`
	FullName     string  `json:"full_name" binding:"required"`
	Role         string  `json:"role" binding:"required"`
	DiabetesType *string `json:"diabetes_type"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token   string          `json:"token"`
	Profile ProfileResponse `json:"profile"`
}

// NumericInput accepts either a JSON number or a JSON string and keeps the
// raw text, so range validation reports domain errors instead of binding errors.
type NumericInput string

func (n *NumericInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumericInput(s)
		return nil
	}
	*n = NumericInput(data)
	return nil
}

// Ptr returns nil for an absent value.
func (n *NumericInput) Ptr() *string {
	if n == nil {
		return nil
	}
	s := string(*n)
	return &s
}

// CreateGlucoseRecordRequest is the reading submission payload.
type CreateGlucoseRecordRequest struct {
	GlucoseLevel NumericInput  `json:"glucose_level"`
	InsulinUnits *NumericInput `json:"insulin_units"`
	HbA1c        *NumericInput `json:"hba1c"`
	Note         *string       `json:"note"`
	MeasuredAt   *time.Time    `json:"measured_at"`
}

// UpdateGlucoseRecordRequest edits the measurement time and insulin units.
// An explicit empty insulin value clears it.
type UpdateGlucoseRecordRequest struct {
	MeasuredAt   *time.Time    `json:"measured_at"`
	InsulinUnits *NumericInput `json:"insulin_units"`
}

// LinkRequest redeems an invitation code.
type LinkRequest struct {
	Code string `json:"code" binding:"required"`
}

// ScopeResponse lists the user ids the caller may read.
type ScopeResponse struct {
	UserIDs []uuid.UUID `json:"user_ids"`
}

// InvitationCodeResponse is returned after regeneration.
type InvitationCodeResponse struct {
	InvitationCode string `json:"invitation_code"`
}

// ArchiveResponse points at an archived report.
type ArchiveResponse struct {
	URL       string    `json:"url"`
	ObjectKey string    `json:"object_key"`
	ExpiresAt time.Time `json:"expires_at"`
}
