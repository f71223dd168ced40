package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProfileHistory represents a record of profile changes
type ProfileHistory struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey"`
	UserID    uuid.UUID `gorm:"type:varchar(36);index;not null"`
	Field     string    `gorm:"size:50;not null"` // The field that was changed
	OldValue  string    `gorm:"type:text"`
	NewValue  string    `gorm:"type:text"`
	ChangedAt time.Time `gorm:"not null;index"`
	ChangedBy uuid.UUID `gorm:"type:varchar(36);not null"` // User ID of who made the change
}

// TableName specifies the table name for ProfileHistory
func (ProfileHistory) TableName() string {
	return "profile_history"
}

func (h *ProfileHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	if h.ChangedAt.IsZero() {
		h.ChangedAt = time.Now().UTC()
	}
	return nil
}
