package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseUUIDModel carries an opaque UUIDv7 id. Timestamps are owned by the
// repository clock rather than gorm's auto time tracking.
type BaseUUIDModel struct {
	ID        string         `gorm:"type:varchar(64);primaryKey"     json:"id"`
	CreatedAt time.Time      `gorm:"autoCreateTime:false;not null"   json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:false;not null"   json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index"                           json:"-"`
}

func (b *BaseUUIDModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		uuidString, err := uuid.NewV7()
		if err != nil {
			return err
		}
		b.ID = uuidString.String()
	}
	return nil
}
