package db_models

import "github.com/google/uuid"

type Favorite struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_trip"`
	TripID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_trip;index"`
}

type Comment struct {
	BaseModel
	TripID     uuid.UUID  `gorm:"type:uuid;index;not null"`
	AuthorID   uuid.UUID  `gorm:"type:uuid;index;not null"`
	Author     Account    `gorm:"foreignKey:AuthorID"`
	ActivityID *uuid.UUID `gorm:"type:uuid"`
	Content    string     `gorm:"type:text;not null"`
}
