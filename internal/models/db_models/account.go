package db_models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Account struct {
	BaseModel
	DisplayName  string
	PhoneNo      string `gorm:"type:varchar(20)"`
	Email        string `gorm:"unique;not null"`
	PasswordHash string
	Role         string `gorm:"type:varchar(20);default:'user'"`
	IsVerified   bool   `gorm:"default:false"`
	Otp          string `gorm:"type:varchar(6)"`
	OtpExpiresAt *time.Time
	Bio          string
	Locale       string         `gorm:"type:varchar(16)"`
	Preferences  datatypes.JSON `gorm:"type:jsonb;default:'{}'"`

	Trips []Trip `gorm:"foreignKey:OwnerID"`
}
