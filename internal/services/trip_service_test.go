package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"globetrotter/internal/catalog"
	dbm "globetrotter/internal/models/db_models"
	req "globetrotter/internal/models/request_models"
	"globetrotter/internal/wizard"
	"globetrotter/pkg/utils"
)

func ptr[T any](v T) *T { return &v }

func parisRequest() req.CreateTripRequest {
	return req.CreateTripRequest{
		Title:     "Paris Adventure",
		StartDate: "2025-11-01",
		EndDate:   "2025-11-10",
		Places: []req.CreateTripPlaceRequest{{
			CityID: "city-paris",
			Name:   "Paris",
			Order:  0,
			Activities: []req.CreateTripActivityRequest{
				{TemplateID: "act-louvre", Title: "Louvre", Price: ptr(22.0), DurationMin: ptr(180)},
			},
		}},
	}
}

func newTripServiceForTest(t *testing.T) (*tripService, *fakeTripRepo, *mockReferenceRepo) {
	t.Helper()
	trips := newFakeTripRepo()
	ref := permissiveReference()
	svc := NewTripService(trips, ref, testCatalog(t)).(*tripService)
	return svc, trips, ref
}

func TestBuildCreateRequest(t *testing.T) {
	cat := testCatalog(t)
	paris, _ := cat.Place("city-paris")
	nowhere, _ := cat.Place("city-nowhere")
	louvre, _ := paris.Activity("act-louvre")

	plan := wizard.TripPlan{Places: []wizard.SelectedPlace{
		{Place: paris, SelectedActivities: []catalog.Activity{louvre}},
		{Place: nowhere, SelectedActivities: []catalog.Activity{{ID: "x", Title: "Walk", AvgDurationMin: 30, Price: 0}}},
	}}
	constraints := wizard.TripConstraints{Country: "France", StartDate: "2025-11-01", EndDate: "2025-11-10", Description: "Museums"}

	got := BuildCreateRequest(plan, constraints)

	assert.Equal(t, "France Adventure", got.Title)
	assert.Equal(t, "Museums", got.Description)
	assert.Equal(t, dbm.PrivacyPrivate, got.Privacy)
	require.Len(t, got.Places, 2)

	first := got.Places[0]
	assert.Equal(t, "city-paris", first.CityID)
	assert.Equal(t, 0, first.Order)
	assert.Equal(t, "2025-11-01", first.Arrival)
	assert.Equal(t, "2025-11-10", first.Departure)
	assert.Equal(t, "Exploring Paris - City of light.", first.Notes)
	require.Len(t, first.Activities, 1)
	assert.Equal(t, "act-louvre", first.Activities[0].TemplateID)
	assert.Equal(t, 180, *first.Activities[0].DurationMin)
	assert.Equal(t, 22.0, *first.Activities[0].Price)
	assert.Equal(t, "EUR", first.Activities[0].Currency)

	assert.Equal(t, 1, got.Places[1].Order)
	assert.Equal(t, "USD", got.Places[1].Activities[0].Currency)
}

func TestCreateTripPersistsGraph(t *testing.T) {
	svc, trips, ref := newTripServiceForTest(t)
	owner := uuid.New()

	r := parisRequest()
	r.Places[0].Activities = append(r.Places[0].Activities,
		req.CreateTripActivityRequest{TemplateID: "not-a-template", Title: "Picnic"})

	summary, err := svc.CreateTrip(context.Background(), owner, r)
	require.NoError(t, err)
	assert.Equal(t, "paris-adventure", summary.Slug)
	assert.Equal(t, dbm.TripStatusDraft, summary.Status)

	tripCount, stopCount, activityCount := trips.counts()
	assert.Equal(t, 1, tripCount)
	assert.Equal(t, 1, stopCount)
	assert.Equal(t, 2, activityCount)

	id := uuid.MustParse(summary.ID)
	stored := trips.trips[id]
	assert.Equal(t, owner, stored.OwnerID)
	assert.Equal(t, dbm.PrivacyPrivate, stored.Privacy)

	stop := trips.stops[0]
	assert.Equal(t, stored.StartDate, stop.Arrival, "arrival defaults to the trip start")
	assert.Equal(t, stored.EndDate, stop.Departure)

	louvre, picnic := trips.activities[0], trips.activities[1]
	require.NotNil(t, louvre.TemplateID)
	assert.Equal(t, "act-louvre", *louvre.TemplateID)
	assert.Equal(t, "EUR", louvre.Currency)
	assert.True(t, louvre.Price.Decimal.Equal(decimal.NewFromInt(22)))
	assert.Nil(t, picnic.TemplateID, "unknown templates are stored without a link")
	assert.False(t, picnic.Price.Valid)
	assert.Equal(t, 0, louvre.Position)
	assert.Equal(t, 1, picnic.Position, "activities keep their request order")

	ref.AssertCalled(t, "EnsureCity", mock.Anything, mock.MatchedBy(func(c *dbm.City) bool {
		return c.ID == "city-paris" && c.CountryID == "country-fr"
	}))
	ref.AssertCalled(t, "EnsureActivityTemplates", mock.Anything, mock.MatchedBy(func(tpls []dbm.ActivityTemplate) bool {
		return len(tpls) == 1 && tpls[0].ID == "act-louvre" && tpls[0].CityID == "city-paris"
	}))
}

func TestCreateTripValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*req.CreateTripRequest)
		field  string
	}{
		{"missing title", func(r *req.CreateTripRequest) { r.Title = "  " }, "title"},
		{"end before start", func(r *req.CreateTripRequest) { r.EndDate = "2025-10-01" }, "endDate"},
		{"same day", func(r *req.CreateTripRequest) { r.EndDate = r.StartDate }, "endDate"},
		{"bad start", func(r *req.CreateTripRequest) { r.StartDate = "soon" }, "startDate"},
		{"bad privacy", func(r *req.CreateTripRequest) { r.Privacy = "friends" }, "privacy"},
		{"no places", func(r *req.CreateTripRequest) { r.Places = nil }, "places"},
		{"unknown city", func(r *req.CreateTripRequest) { r.Places[0].CityID = "atlantis" }, "places[0].cityId"},
		{"negative price", func(r *req.CreateTripRequest) { r.Places[0].Activities[0].Price = ptr(-1.0) }, "places[0].activities[0].price"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, trips, ref := newTripServiceForTest(t)
			r := parisRequest()
			tc.mutate(&r)

			_, err := svc.CreateTrip(context.Background(), uuid.New(), r)

			var vErr *utils.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, "Validation failed", vErr.Message)
			assert.Contains(t, vErr.Fields, tc.field)
			assert.Zero(t, trips.creates, "no persistence on invalid input")
			ref.AssertNotCalled(t, "EnsureCountry", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateTripDistinctSlugs(t *testing.T) {
	svc, _, _ := newTripServiceForTest(t)
	ctx := context.Background()

	first, err := svc.CreateTrip(ctx, uuid.New(), parisRequest())
	require.NoError(t, err)
	second, err := svc.CreateTrip(ctx, uuid.New(), parisRequest())
	require.NoError(t, err)

	assert.Equal(t, "paris-adventure", first.Slug)
	assert.Equal(t, "paris-adventure-1", second.Slug)
}

func TestCreateTripRetriesConcurrentSlugConflict(t *testing.T) {
	svc, trips, _ := newTripServiceForTest(t)
	trips.conflicts = 1

	summary, err := svc.CreateTrip(context.Background(), uuid.New(), parisRequest())
	require.NoError(t, err)
	assert.Equal(t, "paris-adventure", summary.Slug)
	assert.Equal(t, 2, trips.creates)
}

func TestCreateTripAllOrNothing(t *testing.T) {
	svc, trips, _ := newTripServiceForTest(t)
	trips.failActivities = 2

	r := parisRequest()
	r.Title = "Four stops"
	for i := 1; i < 4; i++ {
		p := r.Places[0]
		p.Order = i
		r.Places = append(r.Places, p)
	}

	_, err := svc.CreateTrip(context.Background(), uuid.New(), r)
	require.Error(t, err)
	assert.ErrorIs(t, err, utils.ErrDatabaseError)

	tripCount, stopCount, activityCount := trips.counts()
	assert.Zero(t, tripCount)
	assert.Zero(t, stopCount)
	assert.Zero(t, activityCount)
}

func TestCreateTripSeedingFailure(t *testing.T) {
	trips := newFakeTripRepo()
	ref := new(mockReferenceRepo)
	ref.On("EnsureCountry", mock.Anything, mock.Anything).Return("", errors.New("connection reset"))
	svc := NewTripService(trips, ref, testCatalog(t))

	_, err := svc.CreateTrip(context.Background(), uuid.New(), parisRequest())
	assert.ErrorIs(t, err, utils.ErrDatabaseError)
	assert.Zero(t, trips.creates)
}

func TestGetTripVisibility(t *testing.T) {
	svc, trips, _ := newTripServiceForTest(t)
	owner, stranger := uuid.New(), uuid.New()
	ctx := context.Background()

	summary, err := svc.CreateTrip(ctx, owner, parisRequest())
	require.NoError(t, err)
	id := uuid.MustParse(summary.ID)

	detail, err := svc.GetTrip(ctx, owner, id)
	require.NoError(t, err)
	require.Len(t, detail.Stops, 1)
	assert.Len(t, detail.Stops[0].Activities, 1)
	assert.True(t, detail.EstimatedCost["EUR"].Equal(decimal.NewFromInt(22)))

	_, err = svc.GetTrip(ctx, stranger, id)
	assert.ErrorIs(t, err, utils.ErrTripNotFound)

	trip := trips.trips[id]
	trip.Privacy = dbm.PrivacyPublic
	trips.trips[id] = trip
	_, err = svc.GetTrip(ctx, stranger, id)
	assert.NoError(t, err)
}

func TestUpdateStatus(t *testing.T) {
	svc, trips, _ := newTripServiceForTest(t)
	owner := uuid.New()
	trip := trips.add(dbm.Trip{OwnerID: owner, Title: "T", Slug: "t", Status: dbm.TripStatusDraft})
	ctx := context.Background()

	got, err := svc.UpdateStatus(ctx, owner, trip.ID, "published")
	require.NoError(t, err)
	assert.Equal(t, dbm.TripStatusPublished, got.Status)
	assert.Equal(t, dbm.TripStatusPublished, trips.trips[trip.ID].Status)

	_, err = svc.UpdateStatus(ctx, uuid.New(), trip.ID, "ARCHIVED")
	assert.ErrorIs(t, err, utils.ErrForbidden)

	_, err = svc.UpdateStatus(ctx, owner, trip.ID, "DELETED")
	var vErr *utils.ValidationError
	assert.ErrorAs(t, err, &vErr)

	_, err = svc.UpdateStatus(ctx, owner, uuid.New(), "ARCHIVED")
	assert.ErrorIs(t, err, utils.ErrTripNotFound)
}

func TestListTripsPagination(t *testing.T) {
	svc, trips, _ := newTripServiceForTest(t)
	owner := uuid.New()
	for i := 0; i < 3; i++ {
		trips.add(dbm.Trip{OwnerID: owner, Title: "T"})
	}
	trips.add(dbm.Trip{OwnerID: uuid.New(), Title: "someone else"})

	page, err := svc.ListTrips(context.Background(), owner, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)
	assert.EqualValues(t, 3, page.Total)
	assert.Len(t, page.Items, 3)

	_, err = svc.ListTrips(context.Background(), owner, -1, 10)
	assert.ErrorIs(t, err, utils.ErrInvalidPage)
	_, err = svc.ListTrips(context.Background(), owner, 1, 500)
	assert.ErrorIs(t, err, utils.ErrInvalidPageSize)
}

func TestOverviewBuckets(t *testing.T) {
	svc, trips, _ := newTripServiceForTest(t)
	today := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return today }
	owner := uuid.New()
	day := 24 * time.Hour
	midnight := utils.StartOfDayUTC(today)

	trips.add(dbm.Trip{OwnerID: owner, Title: "future", Status: dbm.TripStatusPublished, StartDate: midnight.Add(10 * day), EndDate: midnight.Add(12 * day)})
	trips.add(dbm.Trip{OwnerID: owner, Title: "now", Status: dbm.TripStatusPublished, StartDate: midnight.Add(-day), EndDate: midnight.Add(day)})
	trips.add(dbm.Trip{OwnerID: owner, Title: "done", Status: dbm.TripStatusCompleted})
	trips.add(dbm.Trip{OwnerID: owner, Title: "old", Status: dbm.TripStatusArchived})
	trips.add(dbm.Trip{OwnerID: owner, Title: "draft", Status: dbm.TripStatusDraft})

	got, err := svc.Overview(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, got.Upcoming, 1)
	assert.Equal(t, "future", got.Upcoming[0].Title)
	require.Len(t, got.Ongoing, 1)
	assert.Equal(t, "now", got.Ongoing[0].Title)
	assert.Len(t, got.Completed, 1)
	assert.Len(t, got.Archived, 1)
}
