package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	dbm "globetrotter/internal/models/db_models"
	req "globetrotter/internal/models/request_models"
	resp "globetrotter/internal/models/response_models"
	"globetrotter/internal/repositories"
	"globetrotter/pkg/logger"
	"globetrotter/pkg/utils"
)

const maxCommentLength = 2000

type CommunityService interface {
	Feed(ctx context.Context, page, limit int) (*resp.Page[resp.FeedTrip], error)
	// Favorite is idempotent per user and trip; Created reports whether a row was added.
	Favorite(ctx context.Context, userID, tripID uuid.UUID) (*resp.FavoriteResponse, error)
	Comment(ctx context.Context, userID, tripID uuid.UUID, request req.PostCommentRequest) (*resp.CommentResponse, error)
	ListComments(ctx context.Context, viewerID, tripID uuid.UUID) ([]resp.CommentResponse, error)
}

type communityService struct {
	community repositories.CommunityRepository
	trips     repositories.TripRepository
	accounts  repositories.AccountRepository
}

func NewCommunityService(community repositories.CommunityRepository, trips repositories.TripRepository, accounts repositories.AccountRepository) CommunityService {
	return &communityService{community: community, trips: trips, accounts: accounts}
}

func (s *communityService) Feed(ctx context.Context, page, limit int) (*resp.Page[resp.FeedTrip], error) {
	page, limit, err := normalizePage(page, limit, 5)
	if err != nil {
		return nil, err
	}

	rows, total, err := s.community.ListPublicFeed(ctx, page, limit)
	if err != nil {
		return nil, errors.Join(utils.ErrDatabaseError, err)
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.Trip.ID)
	}
	favorites, err := s.community.CountFavorites(ctx, ids)
	if err != nil {
		return nil, errors.Join(utils.ErrDatabaseError, err)
	}
	comments, err := s.community.CountComments(ctx, ids)
	if err != nil {
		return nil, errors.Join(utils.ErrDatabaseError, err)
	}

	items := make([]resp.FeedTrip, 0, len(rows))
	for _, r := range rows {
		cities := make([]string, 0, len(r.Trip.Stops))
		for _, st := range r.Trip.Stops {
			cities = append(cities, st.City.Name)
		}
		items = append(items, resp.FeedTrip{
			TripListItem:  toTripListItem(r.Trip),
			OwnerName:     r.OwnerName,
			Cities:        cities,
			FavoriteCount: favorites[r.Trip.ID],
			CommentCount:  comments[r.Trip.ID],
		})
	}
	return &resp.Page[resp.FeedTrip]{Items: items, Page: page, Limit: limit, Total: total}, nil
}

// visibleTrip loads a trip the viewer may see: their own or a public one.
func (s *communityService) visibleTrip(ctx context.Context, viewerID, tripID uuid.UUID) (*dbm.Trip, error) {
	trip, err := s.trips.FindByID(ctx, tripID)
	if err != nil {
		return nil, errors.Join(utils.ErrDatabaseError, err)
	}
	if trip == nil || (trip.OwnerID != viewerID && trip.Privacy != dbm.PrivacyPublic) {
		return nil, utils.ErrTripNotFound
	}
	return trip, nil
}

func (s *communityService) Favorite(ctx context.Context, userID, tripID uuid.UUID) (*resp.FavoriteResponse, error) {
	if _, err := s.visibleTrip(ctx, userID, tripID); err != nil {
		return nil, err
	}

	created, err := s.community.AddFavorite(ctx, userID, tripID)
	if err != nil {
		return nil, errors.Join(utils.ErrDatabaseError, err)
	}
	if created {
		logger.GetLogger().Infow("Trip favorited", "trip_id", tripID, "user_id", userID)
	}
	return &resp.FavoriteResponse{TripID: tripID.String(), Created: created}, nil
}

func (s *communityService) Comment(ctx context.Context, userID, tripID uuid.UUID, request req.PostCommentRequest) (*resp.CommentResponse, error) {
	content := strings.TrimSpace(request.Content)
	v := utils.NewValidationError("Validation failed")
	switch {
	case content == "":
		v.Add("content", "Content is required")
	case len(content) > maxCommentLength:
		v.Add("content", "Comment is too long")
	}

	var activityID *uuid.UUID
	if request.ActivityID != "" {
		id, err := uuid.Parse(request.ActivityID)
		if err != nil {
			v.Add("activityId", "Invalid activity id")
		} else {
			activityID = &id
		}
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	if _, err := s.visibleTrip(ctx, userID, tripID); err != nil {
		return nil, err
	}

	if activityID != nil {
		ok, err := s.community.ActivityBelongsToTrip(ctx, *activityID, tripID)
		if err != nil {
			return nil, errors.Join(utils.ErrDatabaseError, err)
		}
		if !ok {
			return nil, utils.ErrCommentNotFound
		}
	}

	author, err := s.accounts.FindById(ctx, userID)
	if err != nil {
		return nil, errors.Join(utils.ErrDatabaseError, err)
	}
	if author == nil {
		return nil, utils.ErrAccountNotFound
	}

	comment := &dbm.Comment{
		TripID:     tripID,
		AuthorID:   userID,
		ActivityID: activityID,
		Content:    content,
	}
	if err := s.community.CreateComment(ctx, comment); err != nil {
		return nil, errors.Join(utils.ErrDatabaseError, err)
	}
	comment.Author = *author

	out := toCommentResponse(*comment)
	return &out, nil
}

func (s *communityService) ListComments(ctx context.Context, viewerID, tripID uuid.UUID) ([]resp.CommentResponse, error) {
	if _, err := s.visibleTrip(ctx, viewerID, tripID); err != nil {
		return nil, err
	}

	comments, err := s.community.ListComments(ctx, tripID)
	if err != nil {
		return nil, errors.Join(utils.ErrDatabaseError, err)
	}
	out := make([]resp.CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, toCommentResponse(c))
	}
	return out, nil
}

func toCommentResponse(c dbm.Comment) resp.CommentResponse {
	out := resp.CommentResponse{
		ID:         c.ID.String(),
		TripID:     c.TripID.String(),
		AuthorID:   c.AuthorID.String(),
		AuthorName: c.Author.DisplayName,
		Content:    c.Content,
		CreatedAt:  time.Unix(c.CreatedAt, 0).UTC(),
	}
	if c.ActivityID != nil {
		id := c.ActivityID.String()
		out.ActivityID = &id
	}
	return out
}
