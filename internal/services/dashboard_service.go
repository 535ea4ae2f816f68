package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	dbm "globetrotter/internal/models/db_models"
	resp "globetrotter/internal/models/response_models"
	"globetrotter/internal/repositories"
	"globetrotter/pkg/utils"
)

const recentTripsLimit = 5

type DashboardService interface {
	BuildDashboard(ctx context.Context, userID uuid.UUID) (*resp.DashboardReport, error)
}

type dashboardService struct {
	repo     repositories.DashboardRepository
	accounts repositories.AccountRepository
}

func NewDashboardService(repo repositories.DashboardRepository, accounts repositories.AccountRepository) DashboardService {
	return &dashboardService{repo: repo, accounts: accounts}
}

func (s *dashboardService) BuildDashboard(ctx context.Context, userID uuid.UUID) (*resp.DashboardReport, error) {
	account, err := s.accounts.FindById(ctx, userID)
	if err != nil {
		return nil, errors.Join(utils.ErrDatabaseError, err)
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}

	report := &resp.DashboardReport{Account: toAccountResponse(account)}

	var (
		byStatus map[string]int64
		recent   []dbm.Trip
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		byStatus, err = s.repo.CountTripsByStatus(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		report.FavoritesReceived, err = s.repo.CountFavoritesReceived(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		report.CommentsReceived, err = s.repo.CountCommentsReceived(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		report.FavoritesGiven, err = s.repo.CountFavoritesGiven(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		report.CommentsWritten, err = s.repo.CountCommentsWritten(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.repo.RecentTrips(gctx, userID, recentTripsLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errors.Join(utils.ErrDatabaseError, err)
	}

	report.Trips = resp.TripStatusCounts{
		Draft:     byStatus[dbm.TripStatusDraft],
		Published: byStatus[dbm.TripStatusPublished],
		Archived:  byStatus[dbm.TripStatusArchived],
		Completed: byStatus[dbm.TripStatusCompleted],
	}
	for _, n := range byStatus {
		report.Trips.Total += n
	}

	report.RecentTrips = make([]resp.TripListItem, 0, len(recent))
	for _, t := range recent {
		report.RecentTrips = append(report.RecentTrips, toTripListItem(t))
	}
	return report, nil
}
