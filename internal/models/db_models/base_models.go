package db_models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"time"
)

type BaseModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CreatedAt int64          `gorm:"autoCreateTime"`
	UpdatedAt int64          `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// Hooks to manage int64 timestamps
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	now := time.Now().Unix()
	b.CreatedAt = now
	b.UpdatedAt = now
	return nil
}

func (b *BaseModel) BeforeUpdate(tx *gorm.DB) error {
	b.UpdatedAt = time.Now().Unix()
	return nil
}

// ReferenceModel is the key shape of seeded reference rows, whose ids come
// from the bundled catalog rather than being generated.
type ReferenceModel struct {
	ID        string `gorm:"type:varchar(64);primaryKey"`
	CreatedAt int64  `gorm:"autoCreateTime"`
}

// All lists every persisted model, in dependency order, for migrations.
func All() []interface{} {
	return []interface{}{
		&Account{},
		&Country{},
		&City{},
		&ActivityTemplate{},
		&Trip{},
		&TripStop{},
		&TripActivity{},
		&Favorite{},
		&Comment{},
	}
}
