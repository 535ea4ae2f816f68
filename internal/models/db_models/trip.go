package db_models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TripStatusDraft     = "DRAFT"
	TripStatusPublished = "PUBLISHED"
	TripStatusArchived  = "ARCHIVED"
	TripStatusCompleted = "COMPLETED"

	PrivacyPrivate = "private"
	PrivacyPublic  = "public"
)

// TripStatuses lists the statuses a trip may be moved to.
var TripStatuses = []string{TripStatusDraft, TripStatusPublished, TripStatusArchived, TripStatusCompleted}

type Trip struct {
	BaseModel
	OwnerID     uuid.UUID `gorm:"type:uuid;index;not null"`
	Title       string    `gorm:"type:varchar(200);not null"`
	Slug        string    `gorm:"uniqueIndex;not null"`
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Privacy     string `gorm:"type:varchar(16);default:'private'"`
	Status      string `gorm:"type:varchar(16);index;default:'DRAFT'"`

	Stops      []TripStop     `gorm:"constraint:OnDelete:CASCADE"`
	Activities []TripActivity `gorm:"constraint:OnDelete:CASCADE"`
}

type TripStop struct {
	BaseModel
	TripID    uuid.UUID `gorm:"type:uuid;index;not null"`
	CityID    string    `gorm:"type:varchar(64);index;not null"`
	City      City
	Order     int `gorm:"column:stop_order"`
	Arrival   time.Time
	Departure time.Time
	Notes     string

	Activities []TripActivity `gorm:"foreignKey:StopID"`
}

type TripActivity struct {
	BaseModel
	TripID      uuid.UUID `gorm:"type:uuid;index;not null"`
	StopID      uuid.UUID `gorm:"type:uuid;index;not null"`
	// Position orders activities within their stop.
	Position    int       `gorm:"not null;default:0"`
	TemplateID  *string   `gorm:"type:varchar(64);index"`
	Title       string
	Description string
	DurationMin *int
	Price       decimal.NullDecimal `gorm:"type:numeric(12,2)"`
	Currency    string              `gorm:"type:varchar(8);default:'USD'"`
	StartTime   *time.Time
	EndTime     *time.Time
}
