package repositories

import (
	"context"

	"github.com/rohits-web03/humandns/internal/models"
	"gorm.io/gorm"
)

func (s *Store) ListGroups(ctx context.Context, userID uint) ([]models.Group, error) {
	var groups []models.Group
	err := s.conn(ctx).
		Where("user_id = ?", userID).
		Order("sort_order, name").
		Find(&groups).Error
	return groups, err
}

// GetGroup returns the group only if userID owns it.
func (s *Store) GetGroup(ctx context.Context, userID, id uint) (*models.Group, error) {
	var g models.Group
	if err := s.conn(ctx).Where("id = ? AND user_id = ?", id, userID).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *Store) GetGroupByName(ctx context.Context, userID uint, name string) (*models.Group, error) {
	var g models.Group
	if err := s.conn(ctx).Where("user_id = ? AND name = ?", userID, name).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *Store) CreateGroup(ctx context.Context, g *models.Group) error {
	return s.conn(ctx).Create(g).Error
}

func (s *Store) SaveGroup(ctx context.Context, g *models.Group) error {
	return s.conn(ctx).Save(g).Error
}

// DeleteGroup removes the group and moves its channels to no group.
func (s *Store) DeleteGroup(ctx context.Context, g *models.Group) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Channel{}).
			Where("user_id = ? AND group_id = ?", g.UserID, g.ID).
			Update("group_id", nil).Error
		if err != nil {
			return err
		}
		return tx.Delete(g).Error
	})
}
