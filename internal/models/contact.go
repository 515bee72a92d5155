package models

import (
	"time"
)

// Contact links a user to another user they saved. Removal only deactivates it.
type Contact struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UserID        uint      `json:"user_id" gorm:"index;not null"`
	ContactUserID uint      `json:"contact_user_id" gorm:"index;not null"`
	IsActive      bool      `json:"is_active" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	ContactUser   User      `json:"-" gorm:"foreignKey:ContactUserID"`
}
