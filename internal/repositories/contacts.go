package repositories

import (
	"context"

	"github.com/rohits-web03/humandns/internal/models"
	"gorm.io/gorm"
)

// ActiveContact returns the active contact from userID to contactUserID.
func (s *Store) ActiveContact(ctx context.Context, userID, contactUserID uint) (*models.Contact, error) {
	var c models.Contact
	err := s.conn(ctx).
		Where("user_id = ? AND contact_user_id = ? AND is_active = ?", userID, contactUserID, true).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) CreateContact(ctx context.Context, c *models.Contact) error {
	return s.conn(ctx).Create(c).Error
}

// ListContacts returns active contacts with their users, oldest first.
func (s *Store) ListContacts(ctx context.Context, userID uint) ([]models.Contact, error) {
	var contacts []models.Contact
	err := s.conn(ctx).
		Preload("ContactUser").
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at, id").
		Find(&contacts).Error
	return contacts, err
}

// DeactivateContact soft-deletes the contact. Returns gorm.ErrRecordNotFound
// when there is no active contact.
func (s *Store) DeactivateContact(ctx context.Context, userID, contactUserID uint) error {
	res := s.conn(ctx).Model(&models.Contact{}).
		Where("user_id = ? AND contact_user_id = ? AND is_active = ?", userID, contactUserID, true).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ContactSet returns which of candidates are active contacts of userID.
func (s *Store) ContactSet(ctx context.Context, userID uint, candidates []uint) (map[uint]bool, error) {
	set := make(map[uint]bool, len(candidates))
	if len(candidates) == 0 {
		return set, nil
	}
	var ids []uint
	err := s.conn(ctx).Model(&models.Contact{}).
		Where("user_id = ? AND is_active = ? AND contact_user_id IN ?", userID, true, candidates).
		Pluck("contact_user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
