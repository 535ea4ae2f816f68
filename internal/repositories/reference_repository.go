package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dbm "globetrotter/internal/models/db_models"
)

// ReferenceRepository seeds the shared country/city/activity-template rows.
// Every write is an insert that does nothing on conflict, so concurrent
// callers seeding the same row are safe.
type ReferenceRepository interface {
	// EnsureCountry inserts the country unless its code exists and returns the stored id.
	EnsureCountry(ctx context.Context, country *dbm.Country) (string, error)
	EnsureCity(ctx context.Context, city *dbm.City) error
	EnsureActivityTemplates(ctx context.Context, templates []dbm.ActivityTemplate) error
}

type referenceRepository struct {
	db *gorm.DB
}

func NewReferenceRepository(db *gorm.DB) ReferenceRepository {
	return &referenceRepository{db: db}
}

func (r *referenceRepository) EnsureCountry(ctx context.Context, country *dbm.Country) (string, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "code"}}, DoNothing: true}).
		Omit(clause.Associations).
		Create(country).Error
	if err != nil {
		return "", fmt.Errorf("upsert country %s: %w", country.Code, err)
	}

	var stored dbm.Country
	if err := r.db.WithContext(ctx).Select("id").First(&stored, "code = ?", country.Code).Error; err != nil {
		return "", fmt.Errorf("load country %s: %w", country.Code, err)
	}
	return stored.ID, nil
}

func (r *referenceRepository) EnsureCity(ctx context.Context, city *dbm.City) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Omit(clause.Associations).
		Create(city).Error
	if err != nil {
		return fmt.Errorf("upsert city %s: %w", city.ID, err)
	}
	return nil
}

func (r *referenceRepository) EnsureActivityTemplates(ctx context.Context, templates []dbm.ActivityTemplate) error {
	if len(templates) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Omit(clause.Associations).
		Create(&templates).Error
	if err != nil {
		return fmt.Errorf("upsert activity templates: %w", err)
	}
	return nil
}
