package repositories

import (
	"context"

	"github.com/rohits-web03/humandns/internal/models"
)

func (s *Store) ListChannels(ctx context.Context, userID uint) ([]models.Channel, error) {
	var channels []models.Channel
	err := s.conn(ctx).
		Where("user_id = ?", userID).
		Order("sort_order, id").
		Find(&channels).Error
	return channels, err
}

func (s *Store) ListPublicChannels(ctx context.Context, userID uint) ([]models.Channel, error) {
	var channels []models.Channel
	err := s.conn(ctx).
		Where("user_id = ? AND is_public = ?", userID, true).
		Order("sort_order, id").
		Find(&channels).Error
	return channels, err
}

// GetChannel returns the channel only if userID owns it.
func (s *Store) GetChannel(ctx context.Context, userID, id uint) (*models.Channel, error) {
	var ch models.Channel
	if err := s.conn(ctx).Where("id = ? AND user_id = ?", id, userID).First(&ch).Error; err != nil {
		return nil, err
	}
	return &ch, nil
}

func (s *Store) CreateChannel(ctx context.Context, ch *models.Channel) error {
	return s.conn(ctx).Create(ch).Error
}

func (s *Store) SaveChannel(ctx context.Context, ch *models.Channel) error {
	return s.conn(ctx).Save(ch).Error
}

func (s *Store) DeleteChannel(ctx context.Context, ch *models.Channel) error {
	return s.conn(ctx).Delete(ch).Error
}

// HasChannel reports whether the user already has a channel with this type and value.
func (s *Store) HasChannel(ctx context.Context, userID uint, t models.ChannelType, value string) (bool, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Channel{}).
		Where("user_id = ? AND type = ? AND value = ?", userID, t, value).
		Count(&n).Error
	return n > 0, err
}
