package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbm "globetrotter/internal/models/db_models"
)

type DashboardRepository interface {
	CountTripsByStatus(ctx context.Context, ownerID uuid.UUID) (map[string]int64, error)
	CountFavoritesReceived(ctx context.Context, ownerID uuid.UUID) (int64, error)
	CountCommentsReceived(ctx context.Context, ownerID uuid.UUID) (int64, error)
	CountFavoritesGiven(ctx context.Context, userID uuid.UUID) (int64, error)
	CountCommentsWritten(ctx context.Context, userID uuid.UUID) (int64, error)
	RecentTrips(ctx context.Context, ownerID uuid.UUID, limit int) ([]dbm.Trip, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

type StatusCount struct {
	Status string `gorm:"column:status"`
	Count  int64  `gorm:"column:count"`
}

func (r *dashboardRepository) CountTripsByStatus(ctx context.Context, ownerID uuid.UUID) (map[string]int64, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).Model(&dbm.Trip{}).
		Select("status, COUNT(*) AS count").
		Where("owner_id = ?", ownerID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

// ownedTrips selects the ids of trips owned by ownerID, for use as a subquery.
func (r *dashboardRepository) ownedTrips(ctx context.Context, ownerID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&dbm.Trip{}).Select("id").Where("owner_id = ?", ownerID)
}

func (r *dashboardRepository) CountFavoritesReceived(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&dbm.Favorite{}).
		Where("trip_id IN (?)", r.ownedTrips(ctx, ownerID)).
		Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountCommentsReceived(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&dbm.Comment{}).
		Where("trip_id IN (?)", r.ownedTrips(ctx, ownerID)).
		Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountFavoritesGiven(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&dbm.Favorite{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountCommentsWritten(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&dbm.Comment{}).Where("author_id = ?", userID).Count(&n).Error
	return n, err
}

func (r *dashboardRepository) RecentTrips(ctx context.Context, ownerID uuid.UUID, limit int) ([]dbm.Trip, error) {
	var trips []dbm.Trip
	err := r.db.WithContext(ctx).
		Preload("Stops").
		Where("owner_id = ?", ownerID).
		Order("updated_at DESC").
		Limit(limit).
		Find(&trips).Error
	return trips, err
}
