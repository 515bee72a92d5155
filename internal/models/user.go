package models

import (
	"time"
)

type User struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Username    string  `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email       string  `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Password    string  `json:"-" gorm:"not null;default:''"` // bcrypt hash, empty for OAuth-only accounts
	FirstName   *string `json:"first_name" gorm:"size:100"`
	LastName    *string `json:"last_name" gorm:"size:100"`
	DisplayName *string `json:"display_name" gorm:"size:120"`
	Bio         *string `json:"bio" gorm:"size:500"`
	AvatarURL   *string `json:"avatar_url" gorm:"size:500"`
	AvatarKey   string  `json:"-" gorm:"size:255"` // object storage key of the current avatar

	GoogleID  *string `json:"-" gorm:"uniqueIndex"`
	GithubID  *string `json:"-" gorm:"uniqueIndex"`
	DiscordID *string `json:"-" gorm:"uniqueIndex"`

	OTPCode           *string    `json:"-" gorm:"size:10"`
	OTPExpiresAt      *time.Time `json:"-"`
	RecoveryToken     *string    `json:"-" gorm:"size:255"`
	RecoveryExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Login methods a user can authenticate or recover with.
const (
	MethodPassword = "password"
	MethodEmail    = "email"
	MethodGoogle   = "google"
	MethodGithub   = "github"
	MethodDiscord  = "discord"
)

// AllLoginMethods is the denominator of the security score.
var AllLoginMethods = []string{MethodPassword, MethodEmail, MethodGoogle, MethodGithub, MethodDiscord}

// LoginMethods lists the methods connected to the account, in AllLoginMethods order.
func (u *User) LoginMethods() []string {
	methods := make([]string, 0, len(AllLoginMethods))
	if u.Password != "" {
		methods = append(methods, MethodPassword)
	}
	if u.Email != "" {
		methods = append(methods, MethodEmail)
	}
	if u.GoogleID != nil && *u.GoogleID != "" {
		methods = append(methods, MethodGoogle)
	}
	if u.GithubID != nil && *u.GithubID != "" {
		methods = append(methods, MethodGithub)
	}
	if u.DiscordID != nil && *u.DiscordID != "" {
		methods = append(methods, MethodDiscord)
	}
	return methods
}

// PublicUser is the user as shown on a public profile: no email, no credentials.
type PublicUser struct {
	ID          uint      `json:"id"`
	Username    string    `json:"username"`
	DisplayName *string   `json:"display_name"`
	FirstName   *string   `json:"first_name"`
	LastName    *string   `json:"last_name"`
	AvatarURL   *string   `json:"avatar_url"`
	Bio         *string   `json:"bio"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		AvatarURL:   u.AvatarURL,
		Bio:         u.Bio,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// User rebuilds a user record holding only the public fields.
func (p PublicUser) User() User {
	return User{
		ID:          p.ID,
		Username:    p.Username,
		DisplayName: p.DisplayName,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		AvatarURL:   p.AvatarURL,
		Bio:         p.Bio,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ProviderID returns the linked account id for an OAuth provider.
func (u *User) ProviderID(provider string) string {
	var p *string
	switch provider {
	case MethodGoogle:
		p = u.GoogleID
	case MethodGithub:
		p = u.GithubID
	case MethodDiscord:
		p = u.DiscordID
	}
	if p == nil {
		return ""
	}
	return *p
}

// SetProviderID links an OAuth account; unknown providers are ignored.
func (u *User) SetProviderID(provider, id string) {
	switch provider {
	case MethodGoogle:
		u.GoogleID = &id
	case MethodGithub:
		u.GithubID = &id
	case MethodDiscord:
		u.DiscordID = &id
	}
}
