package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/junaidrashid-git/autoparts-api/models"
	"gorm.io/gorm"
)

func (s *Store) ListVehicleMakes(ctx context.Context) ([]models.VehicleMake, error) {
	var out []models.VehicleMake
	if err := s.db.WithContext(ctx).Order("make asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) AddVehicleMake(ctx context.Context, name string, vehicleModels []string) (*models.VehicleMake, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("make is required: %w", ErrInvalidInput)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.VehicleMake{}).Where("LOWER(make) = ?", strings.ToLower(name)).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("make %s: %w", name, ErrDuplicate)
	}

	v := &models.VehicleMake{Make: name, Models: dedupe(nil, vehicleModels...)}
	if err := s.db.WithContext(ctx).Create(v).Error; err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Store) AddVehicleModel(ctx context.Context, makeID, model string) (*models.VehicleMake, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, fmt.Errorf("model is required: %w", ErrInvalidInput)
	}
	return s.updateModels(ctx, makeID, func(existing []string) ([]string, error) {
		for _, m := range existing {
			if strings.EqualFold(m, model) {
				return nil, fmt.Errorf("model %s: %w", model, ErrDuplicate)
			}
		}
		return append(existing, model), nil
	})
}

func (s *Store) RemoveVehicleModel(ctx context.Context, makeID, model string) (*models.VehicleMake, error) {
	return s.updateModels(ctx, makeID, func(existing []string) ([]string, error) {
		out := make([]string, 0, len(existing))
		for _, m := range existing {
			if !strings.EqualFold(m, model) {
				out = append(out, m)
			}
		}
		if len(out) == len(existing) {
			return nil, models.ErrNotFound
		}
		return out, nil
	})
}

func (s *Store) updateModels(ctx context.Context, makeID string, fn func([]string) ([]string, error)) (*models.VehicleMake, error) {
	var v models.VehicleMake
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&v, "id = ?", makeID).Error; err != nil {
			return notFound(err)
		}
		next, err := fn(v.Models)
		if err != nil {
			return err
		}
		v.Models = next
		return tx.Save(&v).Error
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *Store) DeleteVehicleMake(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.VehicleMake{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func dedupe(dst []string, in ...string) []string {
	seen := make(map[string]bool, len(dst)+len(in))
	for _, m := range dst {
		seen[strings.ToLower(m)] = true
	}
	for _, m := range in {
		m = strings.TrimSpace(m)
		if m == "" || seen[strings.ToLower(m)] {
			continue
		}
		seen[strings.ToLower(m)] = true
		dst = append(dst, m)
	}
	if dst == nil {
		dst = []string{}
	}
	return dst
}
