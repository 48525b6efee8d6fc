package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProfileHistory records one questionnaire field that changed between versions.
type ProfileHistory struct {
	gorm.Model
	UserID    uuid.UUID `gorm:"type:varchar(36);index;not null" json:"user_id"`
	Version   int       `gorm:"not null" json:"version"` // Questionnaire version that introduced the change
	Field     string    `gorm:"not null" json:"field"`
	OldValue  string    `gorm:"type:text" json:"old_value"`
	NewValue  string    `gorm:"type:text" json:"new_value"`
	ChangedAt time.Time `gorm:"not null" json:"changed_at"`
}

func (ProfileHistory) TableName() string {
	return "profile_history"
}
