//go:build integration

package repositories

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	postgresContainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"globetrotter/internal/config"
	"globetrotter/internal/infra"
	dbm "globetrotter/internal/models/db_models"
	"globetrotter/pkg/logger"
)

// setupPostgres starts a throwaway database with the application schema.
func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	logger.IsTest = true
	ctx := context.Background()

	pg, err := postgresContainer.Run(ctx,
		"postgres:16-alpine",
		postgresContainer.WithDatabase("globetrotter"),
		postgresContainer.WithUsername("test"),
		postgresContainer.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pg.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate postgres container: %v", err)
		}
	})

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := infra.InitPostgresql(config.DatabaseConfig{URL: connStr})
	require.NoError(t, err)
	t.Cleanup(func() { infra.ClosePostgresql(db) })
	require.NoError(t, infra.Migrate(db))
	return db
}

func seedParis(t *testing.T, ctx context.Context, ref ReferenceRepository) {
	t.Helper()
	countryID, err := ref.EnsureCountry(ctx, &dbm.Country{ReferenceModel: dbm.ReferenceModel{ID: "country-fr"}, Code: "FR", Name: "France", Currency: "EUR"})
	require.NoError(t, err)
	require.NoError(t, ref.EnsureCity(ctx, &dbm.City{ReferenceModel: dbm.ReferenceModel{ID: "city-paris"}, CountryID: countryID, Name: "Paris", Slug: "paris"}))
	require.NoError(t, ref.EnsureActivityTemplates(ctx, []dbm.ActivityTemplate{
		{ReferenceModel: dbm.ReferenceModel{ID: "act-louvre"}, CityID: "city-paris", Title: "Louvre", Price: decimal.NewFromInt(22)},
	}))
}

func newOwner(t *testing.T, ctx context.Context, db *gorm.DB) uuid.UUID {
	t.Helper()
	account := &dbm.Account{DisplayName: "Owner", Email: uuid.NewString() + "@gmail.com", IsVerified: true}
	require.NoError(t, NewAccountRepository(db).Insert(ctx, account))
	return account.ID
}

func graphFor(owner uuid.UUID, slug string, stops int) *TripGraph {
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	template := "act-louvre"
	g := &TripGraph{Trip: dbm.Trip{
		OwnerID: owner, Title: "Paris", Slug: slug, StartDate: start, EndDate: start.AddDate(0, 0, 3),
		Privacy: dbm.PrivacyPrivate, Status: dbm.TripStatusDraft,
	}}
	for i := 1; i <= stops; i++ {
		g.Stops = append(g.Stops, StopGraph{
			Stop: dbm.TripStop{CityID: "city-paris", Order: i, Arrival: start, Departure: start.AddDate(0, 0, 1)},
			Activities: []dbm.TripActivity{
				{Position: 0, TemplateID: &template, Title: "Louvre", Currency: "EUR"},
				{Position: 1, Title: "Walk", Currency: "EUR"},
				{Position: 2, Title: "Cafe", Currency: "EUR"},
				{Position: 3, Title: "Opera", Currency: "EUR"},
			},
		})
	}
	return g
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestRepositoriesIntegration(t *testing.T) {
	db := setupPostgres(t)
	ctx := context.Background()
	ref := NewReferenceRepository(db)
	trips := NewTripRepository(db)
	seedParis(t, ctx, ref)
	owner := newOwner(t, ctx, db)

	t.Run("reference seeding is idempotent under concurrency", func(t *testing.T) {
		var wg sync.WaitGroup
		ids := make([]string, 8)
		errs := make([]error, 8)
		for i := range ids {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				ids[i], errs[i] = ref.EnsureCountry(ctx, &dbm.Country{
					ReferenceModel: dbm.ReferenceModel{ID: "country-fr-" + uuid.NewString()[:8]},
					Code:           "FR", Name: "France",
				})
			}(i)
		}
		wg.Wait()
		for i := range ids {
			require.NoError(t, errs[i])
			assert.Equal(t, "country-fr", ids[i], "existing row wins")
		}

		seedParis(t, ctx, ref)
		assert.EqualValues(t, 1, countRows(t, db, &dbm.Country{}))
		assert.EqualValues(t, 1, countRows(t, db, &dbm.City{}))
		assert.EqualValues(t, 1, countRows(t, db, &dbm.ActivityTemplate{}))
	})

	t.Run("create and load trip graph", func(t *testing.T) {
		g := graphFor(owner, "paris-graph", 2)
		require.NoError(t, trips.CreateTripGraph(ctx, g))

		got, err := trips.FindDetailByID(ctx, g.Trip.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Len(t, got.Stops, 2)
		assert.Equal(t, 1, got.Stops[0].Order)
		assert.Equal(t, "Paris", got.Stops[0].City.Name)
		assert.Equal(t, "France", got.Stops[0].City.Country.Name)
		require.Len(t, got.Stops[1].Activities, 4)
		var titles []string
		for _, a := range got.Stops[1].Activities {
			titles = append(titles, a.Title)
		}
		assert.Equal(t, []string{"Louvre", "Walk", "Cafe", "Opera"}, titles, "activities come back in position order")

		exists, err := trips.SlugExists(ctx, "paris-graph")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("duplicate slug is a conflict", func(t *testing.T) {
		require.NoError(t, trips.CreateTripGraph(ctx, graphFor(owner, "paris-dup", 1)))
		err := trips.CreateTripGraph(ctx, graphFor(owner, "paris-dup", 1))
		assert.ErrorIs(t, err, ErrSlugConflict)
	})

	t.Run("failed activity insert leaves nothing behind", func(t *testing.T) {
		beforeTrips := countRows(t, db, &dbm.Trip{})
		beforeStops := countRows(t, db, &dbm.TripStop{})
		beforeActivities := countRows(t, db, &dbm.TripActivity{})

		g := graphFor(owner, "paris-broken", 4)
		g.Stops[2].Activities[0].Currency = strings.Repeat("X", 12)
		err := trips.CreateTripGraph(ctx, g)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrSlugConflict)

		assert.Equal(t, beforeTrips, countRows(t, db, &dbm.Trip{}))
		assert.Equal(t, beforeStops, countRows(t, db, &dbm.TripStop{}))
		assert.Equal(t, beforeActivities, countRows(t, db, &dbm.TripActivity{}))
		exists, err := trips.SlugExists(ctx, "paris-broken")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("favorite is recorded once", func(t *testing.T) {
		g := graphFor(owner, "paris-fav", 1)
		require.NoError(t, trips.CreateTripGraph(ctx, g))
		community := NewCommunityRepository(db)
		fan := newOwner(t, ctx, db)

		created, err := community.AddFavorite(ctx, fan, g.Trip.ID)
		require.NoError(t, err)
		assert.True(t, created)
		created, err = community.AddFavorite(ctx, fan, g.Trip.ID)
		require.NoError(t, err)
		assert.False(t, created)

		counts, err := community.CountFavorites(ctx, []uuid.UUID{g.Trip.ID})
		require.NoError(t, err)
		assert.EqualValues(t, 1, counts[g.Trip.ID])
	})

	t.Run("profile update and trips by status", func(t *testing.T) {
		accounts := NewAccountRepository(db)
		user := newOwner(t, ctx, db)
		require.NoError(t, accounts.UpdateProfile(ctx, user, map[string]interface{}{
			"bio": "Hills", "locale": "en-IN", "preferences": datatypes.JSON(`{"pace":"slow"}`),
		}))
		got, err := accounts.FindById(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, "Hills", got.Bio)
		assert.JSONEq(t, `{"pace":"slow"}`, string(got.Preferences))

		done := graphFor(user, "paris-done", 1)
		done.Trip.Status = dbm.TripStatusCompleted
		require.NoError(t, trips.CreateTripGraph(ctx, done))
		require.NoError(t, trips.CreateTripGraph(ctx, graphFor(user, "paris-draft", 1)))

		listed, err := trips.ListByOwnerStatuses(ctx, user, []string{dbm.TripStatusCompleted})
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, "paris-done", listed[0].Slug)
	})
}
