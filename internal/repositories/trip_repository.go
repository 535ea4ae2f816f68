package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dbm "globetrotter/internal/models/db_models"
)

// ErrSlugConflict means another trip took the slug between probing and insert.
var ErrSlugConflict = errors.New("trip slug already taken")

// StopGraph is one stop and the activities planned there.
type StopGraph struct {
	Stop       dbm.TripStop
	Activities []dbm.TripActivity
}

// TripGraph is everything written by one trip creation.
type TripGraph struct {
	Trip  dbm.Trip
	Stops []StopGraph
}

type OverviewBucket string

const (
	BucketUpcoming  OverviewBucket = "upcoming"
	BucketOngoing   OverviewBucket = "ongoing"
	BucketCompleted OverviewBucket = "completed"
	BucketArchived  OverviewBucket = "archived"
)

type TripRepository interface {
	SlugExists(ctx context.Context, slug string) (bool, error)
	// CreateTripGraph writes the trip, its stops and activities in one transaction.
	CreateTripGraph(ctx context.Context, graph *TripGraph) error
	FindByID(ctx context.Context, id uuid.UUID) (*dbm.Trip, error)
	FindDetailByID(ctx context.Context, id uuid.UUID) (*dbm.Trip, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]dbm.Trip, int64, error)
	ListOverviewBucket(ctx context.Context, ownerID uuid.UUID, bucket OverviewBucket, today time.Time, limit int) ([]dbm.Trip, error)
	// ListByOwnerStatuses returns the owner's trips in any of statuses, soonest start first.
	ListByOwnerStatuses(ctx context.Context, ownerID uuid.UUID, statuses []string) ([]dbm.Trip, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

type tripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) TripRepository {
	return &tripRepository{db: db}
}

func (r *tripRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&dbm.Trip{}).Where("slug = ?", slug).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *tripRepository) CreateTripGraph(ctx context.Context, graph *TripGraph) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&graph.Trip).Error; err != nil {
			return fmt.Errorf("insert trip: %w", err)
		}

		for i := range graph.Stops {
			sg := &graph.Stops[i]
			sg.Stop.TripID = graph.Trip.ID
			if err := tx.Omit(clause.Associations).Create(&sg.Stop).Error; err != nil {
				return fmt.Errorf("insert stop %d: %w", sg.Stop.Order, err)
			}

			if len(sg.Activities) == 0 {
				continue
			}
			for j := range sg.Activities {
				sg.Activities[j].TripID = graph.Trip.ID
				sg.Activities[j].StopID = sg.Stop.ID
			}
			if err := tx.Omit(clause.Associations).Create(&sg.Activities).Error; err != nil {
				return fmt.Errorf("insert activities of stop %d: %w", sg.Stop.Order, err)
			}
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s", ErrSlugConflict, graph.Trip.Slug)
	}
	return err
}

func (r *tripRepository) FindByID(ctx context.Context, id uuid.UUID) (*dbm.Trip, error) {
	var trip dbm.Trip
	err := r.db.WithContext(ctx).First(&trip, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) FindDetailByID(ctx context.Context, id uuid.UUID) (*dbm.Trip, error) {
	var trip dbm.Trip
	err := r.db.WithContext(ctx).
		Preload("Stops", func(db *gorm.DB) *gorm.DB { return db.Order("stop_order ASC") }).
		Preload("Stops.City.Country").
		Preload("Stops.Activities", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&trip, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &trip, nil
}

func (r *tripRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]dbm.Trip, int64, error) {
	var (
		trips []dbm.Trip
		total int64
	)
	owned := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&dbm.Trip{}).Where("owner_id = ?", ownerID)
	}
	if err := owned().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := owned().Preload("Stops").
		Order("updated_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&trips).Error
	if err != nil {
		return nil, 0, err
	}
	return trips, total, nil
}

func (r *tripRepository) ListOverviewBucket(ctx context.Context, ownerID uuid.UUID, bucket OverviewBucket, today time.Time, limit int) ([]dbm.Trip, error) {
	q := r.db.WithContext(ctx).Model(&dbm.Trip{}).Where("owner_id = ?", ownerID)

	switch bucket {
	case BucketUpcoming:
		q = q.Where("status = ? AND start_date > ?", dbm.TripStatusPublished, today).Order("start_date ASC")
	case BucketOngoing:
		q = q.Where("status = ? AND start_date <= ? AND end_date >= ?", dbm.TripStatusPublished, today, today).Order("start_date ASC")
	case BucketCompleted:
		q = q.Where("status = ?", dbm.TripStatusCompleted).Order("end_date DESC")
	case BucketArchived:
		q = q.Where("status = ?", dbm.TripStatusArchived).Order("updated_at DESC")
	default:
		return nil, fmt.Errorf("unknown overview bucket %q", bucket)
	}

	var trips []dbm.Trip
	if err := q.Preload("Stops").Limit(limit).Find(&trips).Error; err != nil {
		return nil, err
	}
	return trips, nil
}

func (r *tripRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).
		Model(&dbm.Trip{BaseModel: dbm.BaseModel{ID: id}}).
		Update("status", status).Error
}

func (r *tripRepository) ListByOwnerStatuses(ctx context.Context, ownerID uuid.UUID, statuses []string) ([]dbm.Trip, error) {
	var trips []dbm.Trip
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND status IN ?", ownerID, statuses).
		Order("start_date ASC").
		Find(&trips).Error
	if err != nil {
		return nil, err
	}
	return trips, nil
}
