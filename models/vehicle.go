package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VehicleMake struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Make      string    `gorm:"uniqueIndex;not null" json:"make"`
	Models    []string  `gorm:"serializer:json" json:"models"`
	CreatedAt time.Time `json:"created_at"`
}

func (v *VehicleMake) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
