package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxNoteLength bounds GlucoseRecord.Note in characters.
const MaxNoteLength = 200

// GlucoseRecord is one logged reading. CreatedAt is the measurement time and
// may be edited by the owning patient.
type GlucoseRecord struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID       uuid.UUID `gorm:"type:varchar(36);not null;index:idx_glucose_user_created,priority:1" json:"user_id"`
	GlucoseLevel int       `gorm:"not null" json:"glucose_level"`
	InsulinUnits *float64  `json:"insulin_units"`
	HbA1c        *float64  `gorm:"column:hba1c" json:"hba1c"`
	Note         *string   `gorm:"size:200" json:"note"`
	CreatedAt    time.Time `gorm:"not null;index:idx_glucose_user_created,priority:2" json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (r *GlucoseRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	} else {
		r.CreatedAt = r.CreatedAt.UTC()
	}
	return nil
}

// GuardianPatientLink grants a guardian read access to one patient.
type GuardianPatientLink struct {
	ID         uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	GuardianID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_guardian_patient,priority:1" json:"guardian_id"`
	PatientID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_guardian_patient,priority:2;index" json:"patient_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (l *GuardianPatientLink) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// All returns every model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Profile{},
		&ProfileHistory{},
		&GlucoseRecord{},
		&GuardianPatientLink{},
	}
}
