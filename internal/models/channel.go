package models

import (
	"time"
)

type ChannelType string

const (
	ChannelPhone     ChannelType = "phone"
	ChannelEmail     ChannelType = "email"
	ChannelTelegram  ChannelType = "telegram"
	ChannelWhatsApp  ChannelType = "whatsapp"
	ChannelSignal    ChannelType = "signal"
	ChannelInstagram ChannelType = "instagram"
	ChannelTwitter   ChannelType = "twitter"
	ChannelFacebook  ChannelType = "facebook"
	ChannelLinkedIn  ChannelType = "linkedin"
	ChannelWebsite   ChannelType = "website"
	ChannelGithub    ChannelType = "github"
	ChannelCustom    ChannelType = "custom"
)

var ChannelTypes = []ChannelType{
	ChannelPhone, ChannelEmail, ChannelTelegram, ChannelWhatsApp, ChannelSignal, ChannelInstagram,
	ChannelTwitter, ChannelFacebook, ChannelLinkedIn, ChannelWebsite, ChannelGithub, ChannelCustom,
}

func (t ChannelType) Valid() bool {
	for _, known := range ChannelTypes {
		if t == known {
			return true
		}
	}
	return false
}

type Channel struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	UserID    uint        `json:"user_id" gorm:"index;not null"`
	GroupID   *uint       `json:"group_id" gorm:"index"` // nil means ungrouped
	Type      ChannelType `json:"type" gorm:"size:50;not null"`
	Value     string      `json:"value" gorm:"size:255;not null"`
	Label     *string     `json:"label" gorm:"size:100"`
	IsPublic  bool        `json:"is_public" gorm:"not null"`
	IsPrimary bool        `json:"is_primary" gorm:"not null;default:false"` // display hint only
	SortOrder int         `json:"sort_order" gorm:"not null;default:0"`
	CreatedAt time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time   `json:"updated_at" gorm:"autoUpdateTime"`
}
