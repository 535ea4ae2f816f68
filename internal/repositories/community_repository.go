package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dbm "globetrotter/internal/models/db_models"
)

// TripCounts holds per-trip engagement numbers.
type TripCounts struct {
	TripID uuid.UUID
	Count  int64
}

type FeedRow struct {
	Trip      dbm.Trip
	OwnerName string
}

type CommunityRepository interface {
	ListPublicFeed(ctx context.Context, page, limit int) ([]FeedRow, int64, error)
	CountFavorites(ctx context.Context, tripIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	CountComments(ctx context.Context, tripIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	// AddFavorite reports whether a new favorite row was written.
	AddFavorite(ctx context.Context, userID, tripID uuid.UUID) (bool, error)
	ActivityBelongsToTrip(ctx context.Context, activityID, tripID uuid.UUID) (bool, error)
	CreateComment(ctx context.Context, comment *dbm.Comment) error
	ListComments(ctx context.Context, tripID uuid.UUID) ([]dbm.Comment, error)
}

type communityRepository struct {
	db *gorm.DB
}

func NewCommunityRepository(db *gorm.DB) CommunityRepository {
	return &communityRepository{db: db}
}

func (r *communityRepository) publicCompleted(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&dbm.Trip{}).
		Where("privacy = ? AND status = ?", dbm.PrivacyPublic, dbm.TripStatusCompleted)
}

func (r *communityRepository) ListPublicFeed(ctx context.Context, page, limit int) ([]FeedRow, int64, error) {
	var total int64
	if err := r.publicCompleted(ctx).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var trips []dbm.Trip
	err := r.publicCompleted(ctx).
		Preload("Stops", func(db *gorm.DB) *gorm.DB { return db.Order("stop_order ASC") }).
		Preload("Stops.City").
		Order("updated_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&trips).Error
	if err != nil {
		return nil, 0, err
	}
	if len(trips) == 0 {
		return nil, total, nil
	}

	ownerIDs := make([]uuid.UUID, 0, len(trips))
	for _, t := range trips {
		ownerIDs = append(ownerIDs, t.OwnerID)
	}
	var owners []dbm.Account
	if err := r.db.WithContext(ctx).Select("id", "display_name").Where("id IN ?", ownerIDs).Find(&owners).Error; err != nil {
		return nil, 0, err
	}
	names := make(map[uuid.UUID]string, len(owners))
	for _, o := range owners {
		names[o.ID] = o.DisplayName
	}

	rows := make([]FeedRow, 0, len(trips))
	for _, t := range trips {
		rows = append(rows, FeedRow{Trip: t, OwnerName: names[t.OwnerID]})
	}
	return rows, total, nil
}

func (r *communityRepository) countBy(ctx context.Context, model interface{}, tripIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(tripIDs))
	if len(tripIDs) == 0 {
		return out, nil
	}
	var rows []TripCounts
	err := r.db.WithContext(ctx).Model(model).
		Select("trip_id, COUNT(*) AS count").
		Where("trip_id IN ?", tripIDs).
		Group("trip_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.TripID] = row.Count
	}
	return out, nil
}

func (r *communityRepository) CountFavorites(ctx context.Context, tripIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	return r.countBy(ctx, &dbm.Favorite{}, tripIDs)
}

func (r *communityRepository) CountComments(ctx context.Context, tripIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	return r.countBy(ctx, &dbm.Comment{}, tripIDs)
}

func (r *communityRepository) AddFavorite(ctx context.Context, userID, tripID uuid.UUID) (bool, error) {
	fav := dbm.Favorite{UserID: userID, TripID: tripID}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}, {Name: "trip_id"}}, DoNothing: true}).
		Create(&fav)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *communityRepository) ActivityBelongsToTrip(ctx context.Context, activityID, tripID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&dbm.TripActivity{}).
		Where("id = ? AND trip_id = ?", activityID, tripID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *communityRepository) CreateComment(ctx context.Context, comment *dbm.Comment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error
}

func (r *communityRepository) ListComments(ctx context.Context, tripID uuid.UUID) ([]dbm.Comment, error) {
	var comments []dbm.Comment
	err := r.db.WithContext(ctx).
		Preload("Author", func(db *gorm.DB) *gorm.DB { return db.Select("id", "display_name") }).
		Where("trip_id = ?", tripID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return comments, nil
}
