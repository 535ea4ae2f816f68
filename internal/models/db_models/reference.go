package db_models

import (
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Country struct {
	ReferenceModel
	Code     string `gorm:"type:varchar(8);uniqueIndex;not null"`
	Name     string
	Currency string `gorm:"type:varchar(8)"`
}

type City struct {
	ReferenceModel
	CountryID  string `gorm:"type:varchar(64);index;not null"`
	Country    Country
	Name       string `gorm:"not null"`
	Slug       string `gorm:"index"`
	Lat        float64
	Lng        float64
	CostIndex  float64
	Popularity int
	Meta       datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
}

type ActivityTemplate struct {
	ReferenceModel
	CityID         string `gorm:"type:varchar(64);index;not null"`
	City           City
	Title          string
	Description    string
	Type           string `gorm:"type:varchar(32)"`
	AvgDurationMin int
	Price          decimal.Decimal `gorm:"type:numeric(12,2)"`
	Tags           pq.StringArray  `gorm:"type:text[]"`
	Images         datatypes.JSON  `gorm:"type:jsonb;default:'[]'"`
	Meta           datatypes.JSON  `gorm:"type:jsonb;default:'{}'"`
}
