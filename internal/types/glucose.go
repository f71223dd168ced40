package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/pageza/glucolink/backend/internal/models"
)

// GlucoseRecordResponse is a reading with its status band.
type GlucoseRecordResponse struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	GlucoseLevel int       `json:"glucose_level"`
	Status       string    `json:"status"`
	InsulinUnits *float64  `json:"insulin_units"`
	HbA1c        *float64  `json:"hba1c"`
	Note         *string   `json:"note"`
	MeasuredAt   time.Time `json:"measured_at"`
}

// NewGlucoseRecordResponse converts a stored record; status is computed by the caller.
func NewGlucoseRecordResponse(r *models.GlucoseRecord, status string) GlucoseRecordResponse {
	return GlucoseRecordResponse{
		ID:           r.ID,
		UserID:       r.UserID,
		GlucoseLevel: r.GlucoseLevel,
		Status:       status,
		InsulinUnits: r.InsulinUnits,
		HbA1c:        r.HbA1c,
		Note:         r.Note,
		MeasuredAt:   r.CreatedAt,
	}
}
