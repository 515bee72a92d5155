package models

import (
	"time"
)

type Group struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_groups_user_name"`
	Name        string    `json:"name" gorm:"size:100;not null;uniqueIndex:idx_groups_user_name"`
	Description *string   `json:"description" gorm:"size:500"`
	SortOrder   int       `json:"sort_order" gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
