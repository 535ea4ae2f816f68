package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	dbm "globetrotter/internal/models/db_models"
	req "globetrotter/internal/models/request_models"
	"globetrotter/internal/repositories"
	"globetrotter/pkg/utils"
)

func newCommunityFixture() (CommunityService, *mockCommunityRepo, *fakeTripRepo, *mockAccountRepo) {
	community := new(mockCommunityRepo)
	trips := newFakeTripRepo()
	accounts := new(mockAccountRepo)
	return NewCommunityService(community, trips, accounts), community, trips, accounts
}

func TestFeed(t *testing.T) {
	svc, community, _, _ := newCommunityFixture()
	trip := dbm.Trip{Title: "Kyoto in autumn", Status: dbm.TripStatusCompleted, Privacy: dbm.PrivacyPublic,
		Stops: []dbm.TripStop{{City: dbm.City{Name: "Kyoto"}}, {City: dbm.City{Name: "Nara"}}}}
	trip.ID = uuid.New()

	community.On("ListPublicFeed", mock.Anything, 1, 5).
		Return([]repositories.FeedRow{{Trip: trip, OwnerName: "Mei"}}, int64(1), nil)
	community.On("CountFavorites", mock.Anything, []uuid.UUID{trip.ID}).Return(map[uuid.UUID]int64{trip.ID: 3}, nil)
	community.On("CountComments", mock.Anything, []uuid.UUID{trip.ID}).Return(map[uuid.UUID]int64{}, nil)

	page, err := svc.Feed(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	item := page.Items[0]
	assert.Equal(t, "Mei", item.OwnerName)
	assert.Equal(t, []string{"Kyoto", "Nara"}, item.Cities)
	assert.EqualValues(t, 3, item.FavoriteCount)
	assert.Zero(t, item.CommentCount)
	assert.Equal(t, 5, page.Limit)
}

func TestFavorite(t *testing.T) {
	svc, community, trips, _ := newCommunityFixture()
	user := uuid.New()
	public := trips.add(dbm.Trip{OwnerID: uuid.New(), Privacy: dbm.PrivacyPublic})
	private := trips.add(dbm.Trip{OwnerID: uuid.New(), Privacy: dbm.PrivacyPrivate})

	community.On("AddFavorite", mock.Anything, user, public.ID).Return(true, nil).Once()
	community.On("AddFavorite", mock.Anything, user, public.ID).Return(false, nil).Once()

	got, err := svc.Favorite(context.Background(), user, public.ID)
	require.NoError(t, err)
	assert.True(t, got.Created)

	got, err = svc.Favorite(context.Background(), user, public.ID)
	require.NoError(t, err)
	assert.False(t, got.Created, "second favorite is a no-op")

	_, err = svc.Favorite(context.Background(), user, private.ID)
	assert.ErrorIs(t, err, utils.ErrTripNotFound)
}

func TestComment(t *testing.T) {
	svc, community, trips, accounts := newCommunityFixture()
	ctx := context.Background()
	user := uuid.New()
	trip := trips.add(dbm.Trip{OwnerID: user, Privacy: dbm.PrivacyPrivate})
	author := &dbm.Account{DisplayName: "Sam"}
	author.ID = user
	accounts.On("FindById", mock.Anything, user).Return(author, nil)

	_, err := svc.Comment(ctx, user, trip.ID, req.PostCommentRequest{Content: "   "})
	var vErr *utils.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "content")

	stray := uuid.New()
	community.On("ActivityBelongsToTrip", mock.Anything, stray, trip.ID).Return(false, nil)
	_, err = svc.Comment(ctx, user, trip.ID, req.PostCommentRequest{Content: "Nice", ActivityID: stray.String()})
	assert.ErrorIs(t, err, utils.ErrCommentNotFound)

	community.On("CreateComment", mock.Anything, mock.MatchedBy(func(c *dbm.Comment) bool {
		return c.Content == "Great plan" && c.AuthorID == user && c.TripID == trip.ID
	})).Return(nil)
	got, err := svc.Comment(ctx, user, trip.ID, req.PostCommentRequest{Content: "  Great plan "})
	require.NoError(t, err)
	assert.Equal(t, "Sam", got.AuthorName)
	assert.Nil(t, got.ActivityID)
}

func TestListCommentsRequiresVisibleTrip(t *testing.T) {
	svc, community, trips, _ := newCommunityFixture()
	owner := uuid.New()
	trip := trips.add(dbm.Trip{OwnerID: owner, Privacy: dbm.PrivacyPrivate})
	community.On("ListComments", mock.Anything, trip.ID).Return([]dbm.Comment{{TripID: trip.ID, Content: "hi"}}, nil)

	got, err := svc.ListComments(context.Background(), owner, trip.ID)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = svc.ListComments(context.Background(), uuid.New(), trip.ID)
	assert.ErrorIs(t, err, utils.ErrTripNotFound)
}
