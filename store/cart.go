package store

import (
	"context"
	"errors"

	"github.com/junaidrashid-git/autoparts-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Store) LoadCart(ctx context.Context, key string) ([]models.LineItem, error) {
	var cart models.Cart
	err := s.db.WithContext(ctx).First(&cart, "cart_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []models.LineItem{}, nil
	}
	if err != nil {
		return nil, err
	}
	if cart.Items == nil {
		return []models.LineItem{}, nil
	}
	return cart.Items, nil
}

// SaveCart overwrites the whole cart stored under key.
func (s *Store) SaveCart(ctx context.Context, key string, items []models.LineItem) error {
	if items == nil {
		items = []models.LineItem{}
	}
	cart := models.Cart{Key: key, Items: items}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cart_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"items", "updated_at"}),
	}).Create(&cart).Error
}

func (s *Store) DeleteCart(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&models.Cart{}, "cart_key = ?", key).Error
}
