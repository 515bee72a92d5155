package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rohits-web03/humandns/internal/models"
	"gorm.io/gorm"
)

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	return s.conn(ctx).Create(user).Error
}

func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByProvider finds the account linked to an OAuth provider identity.
func (s *Store) GetUserByProvider(ctx context.Context, provider, providerID string) (*models.User, error) {
	column, err := providerColumn(provider)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := s.conn(ctx).Where(column+" = ?", providerID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func providerColumn(provider string) (string, error) {
	switch provider {
	case models.MethodGoogle:
		return "google_id", nil
	case models.MethodGithub:
		return "github_id", nil
	case models.MethodDiscord:
		return "discord_id", nil
	}
	return "", fmt.Errorf("unknown provider %q", provider)
}

// UsernameTaken reports whether any account uses username.
func (s *Store) UsernameTaken(ctx context.Context, username string) (bool, error) {
	_, err := s.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return false, nil
	}
	return false, err
}

func (s *Store) SaveUser(ctx context.Context, user *models.User) error {
	return s.conn(ctx).Save(user).Error
}

// SearchUsers matches q against usernames, names and emails, case-insensitively.
func (s *Store) SearchUsers(ctx context.Context, q string, limit int) ([]models.User, error) {
	term := "%" + strings.ToLower(q) + "%"
	var users []models.User
	err := s.conn(ctx).
		Where("LOWER(username) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(display_name) LIKE ? OR LOWER(email) LIKE ?",
			term, term, term, term, term).
		Order("username").
		Limit(limit).
		Find(&users).Error
	return users, err
}

// DeleteUser removes the account with its channels, groups and contacts.
func (s *Store) DeleteUser(ctx context.Context, id uint) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Channel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Group{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? OR contact_user_id = ?", id, id).Delete(&models.Contact{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
