package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"globetrotter/internal/catalog"
	dbm "globetrotter/internal/models/db_models"
	req "globetrotter/internal/models/request_models"
	resp "globetrotter/internal/models/response_models"
	"globetrotter/internal/repositories"
	"globetrotter/internal/wizard"
	"globetrotter/pkg/logger"
	"globetrotter/pkg/metrics"
	"globetrotter/pkg/utils"
)

const (
	maxTitleLength     = 200
	defaultCurrency    = "USD"
	overviewBucketSize = 5
	slugAttempts       = 3
)

type TripService interface {
	CreateTrip(ctx context.Context, ownerID uuid.UUID, request req.CreateTripRequest) (*resp.TripSummary, error)
	ListTrips(ctx context.Context, ownerID uuid.UUID, page, limit int) (*resp.Page[resp.TripListItem], error)
	GetTrip(ctx context.Context, viewerID, tripID uuid.UUID) (*resp.TripDetail, error)
	UpdateStatus(ctx context.Context, ownerID, tripID uuid.UUID, status string) (*resp.TripSummary, error)
	Overview(ctx context.Context, ownerID uuid.UUID) (*resp.TripOverview, error)
}

type tripService struct {
	trips     repositories.TripRepository
	reference repositories.ReferenceRepository
	catalog   *catalog.Catalog
	now       func() time.Time
}

func NewTripService(trips repositories.TripRepository, reference repositories.ReferenceRepository, cat *catalog.Catalog) TripService {
	return &tripService{trips: trips, reference: reference, catalog: cat, now: time.Now}
}

// BuildCreateRequest turns a confirmed wizard plan into a trip creation request.
func BuildCreateRequest(plan wizard.TripPlan, constraints wizard.TripConstraints) req.CreateTripRequest {
	places := make([]req.CreateTripPlaceRequest, 0, len(plan.Places))
	for i, p := range plan.Places {
		currency := p.Country.Currency
		if currency == "" {
			currency = defaultCurrency
		}

		activities := make([]req.CreateTripActivityRequest, 0, len(p.SelectedActivities))
		for _, a := range p.SelectedActivities {
			duration := a.AvgDurationMin
			price := a.Price
			activities = append(activities, req.CreateTripActivityRequest{
				TemplateID:  a.ID,
				Title:       a.Title,
				Description: a.Description,
				DurationMin: &duration,
				Price:       &price,
				Currency:    currency,
			})
		}

		places = append(places, req.CreateTripPlaceRequest{
			CityID:     p.ID,
			Name:       p.Name,
			Order:      i,
			Arrival:    constraints.StartDate,
			Departure:  constraints.EndDate,
			Notes:      fmt.Sprintf("Exploring %s - %s", p.Name, p.Meta.Description),
			Activities: activities,
		})
	}

	return req.CreateTripRequest{
		Title:       fmt.Sprintf("%s Adventure", constraints.Country),
		Description: constraints.Description,
		StartDate:   constraints.StartDate,
		EndDate:     constraints.EndDate,
		Privacy:     dbm.PrivacyPrivate,
		Places:      places,
	}
}

// validatedTrip is a create request after parsing, with catalog places resolved.
type validatedTrip struct {
	request req.CreateTripRequest
	start   time.Time
	end     time.Time
	privacy string
	places  []catalog.Place
	stops   []validatedStop
}

type validatedStop struct {
	arrival    time.Time
	departure  time.Time
	activities []validatedActivity
}

type validatedActivity struct {
	start *time.Time
	end   *time.Time
}

func (s *tripService) validate(request req.CreateTripRequest) (*validatedTrip, error) {
	v := utils.NewValidationError("Validation failed")
	out := &validatedTrip{request: request, privacy: request.Privacy}

	title := strings.TrimSpace(request.Title)
	switch {
	case title == "":
		v.Add("title", "Title is required")
	case utf8.RuneCountInString(request.Title) > maxTitleLength:
		v.Add("title", "Title too long")
	}

	var startErr, endErr error
	out.start, startErr = utils.ParseDate(request.StartDate)
	if startErr != nil {
		v.Add("startDate", "Invalid start date format")
	}
	out.end, endErr = utils.ParseDate(request.EndDate)
	if endErr != nil {
		v.Add("endDate", "Invalid end date format")
	}
	if startErr == nil && endErr == nil && !out.end.After(out.start) {
		v.Add("endDate", "End date must be after start date")
	}

	if out.privacy == "" {
		out.privacy = dbm.PrivacyPrivate
	}
	if out.privacy != dbm.PrivacyPrivate && out.privacy != dbm.PrivacyPublic {
		v.Add("privacy", "Privacy must be private or public")
	}

	if len(request.Places) == 0 {
		v.Add("places", "At least one place is required")
	}

	for i, p := range request.Places {
		field := fmt.Sprintf("places[%d]", i)
		place, ok := s.catalog.Place(p.CityID)
		if !ok {
			v.Add(field+".cityId", fmt.Sprintf("City with ID %s not found", p.CityID))
		}
		out.places = append(out.places, place)

		stop := validatedStop{arrival: out.start, departure: out.end}
		if p.Arrival != "" {
			t, err := utils.ParseDate(p.Arrival)
			if err != nil {
				v.Add(field+".arrival", "Invalid arrival date format")
			}
			stop.arrival = t
		}
		if p.Departure != "" {
			t, err := utils.ParseDate(p.Departure)
			if err != nil {
				v.Add(field+".departure", "Invalid departure date format")
			}
			stop.departure = t
		}

		for j, a := range p.Activities {
			afield := fmt.Sprintf("%s.activities[%d]", field, j)
			var va validatedActivity
			if a.StartTime != "" {
				t, err := time.Parse(time.RFC3339, a.StartTime)
				if err != nil {
					v.Add(afield+".startTime", "Invalid start time format")
				}
				va.start = &t
			}
			if a.EndTime != "" {
				t, err := time.Parse(time.RFC3339, a.EndTime)
				if err != nil {
					v.Add(afield+".endTime", "Invalid end time format")
				}
				va.end = &t
			}
			if a.Price != nil && *a.Price < 0 {
				v.Add(afield+".price", "Price cannot be negative")
			}
			if a.DurationMin != nil && *a.DurationMin < 0 {
				v.Add(afield+".durationMin", "Duration cannot be negative")
			}
			stop.activities = append(stop.activities, va)
		}
		out.stops = append(out.stops, stop)
	}

	if err := v.OrNil(); err != nil {
		return nil, err
	}
	return out, nil
}

// seedReference makes sure every country, city and referenced activity template exists.
// It runs before the trip transaction; each write is idempotent.
func (s *tripService) seedReference(ctx context.Context, vt *validatedTrip) error {
	seededCities := make(map[string]bool)
	for i, place := range vt.places {
		if !seededCities[place.ID] {
			countryID, err := s.reference.EnsureCountry(ctx, &dbm.Country{
				ReferenceModel: dbm.ReferenceModel{ID: place.Country.ID},
				Code:           place.Country.Code,
				Name:           place.Country.Name,
				Currency:       place.Country.Currency,
			})
			if err != nil {
				return err
			}

			meta, err := datatypes.NewJSONType(place.Meta).MarshalJSON()
			if err != nil {
				return err
			}
			if err := s.reference.EnsureCity(ctx, &dbm.City{
				ReferenceModel: dbm.ReferenceModel{ID: place.ID},
				CountryID:      countryID,
				Name:           place.Name,
				Slug:           place.Slug,
				Lat:            place.Lat,
				Lng:            place.Lng,
				CostIndex:      place.CostIndex,
				Popularity:     place.Popularity,
				Meta:           meta,
			}); err != nil {
				return err
			}
			seededCities[place.ID] = true
		}

		var templates []dbm.ActivityTemplate
		for _, a := range vt.request.Places[i].Activities {
			activity, ok := place.Activity(a.TemplateID)
			if !ok {
				continue
			}
			tpl, err := templateRow(place.ID, activity)
			if err != nil {
				return err
			}
			templates = append(templates, tpl)
		}
		if err := s.reference.EnsureActivityTemplates(ctx, templates); err != nil {
			return err
		}
	}
	return nil
}

func templateRow(cityID string, a catalog.Activity) (dbm.ActivityTemplate, error) {
	images, err := datatypes.NewJSONType(a.Images).MarshalJSON()
	if err != nil {
		return dbm.ActivityTemplate{}, err
	}
	meta, err := datatypes.NewJSONType(a.Meta).MarshalJSON()
	if err != nil {
		return dbm.ActivityTemplate{}, err
	}
	return dbm.ActivityTemplate{
		ReferenceModel: dbm.ReferenceModel{ID: a.ID},
		CityID:         cityID,
		Title:          a.Title,
		Description:    a.Description,
		Type:           string(a.Type),
		AvgDurationMin: a.AvgDurationMin,
		Price:          decimal.NewFromFloat(a.Price),
		Tags:           pq.StringArray(a.Tags),
		Images:         images,
		Meta:           meta,
	}, nil
}

func (s *tripService) buildGraph(ownerID uuid.UUID, vt *validatedTrip) *repositories.TripGraph {
	r := vt.request
	graph := &repositories.TripGraph{
		Trip: dbm.Trip{
			OwnerID:     ownerID,
			Title:       strings.TrimSpace(r.Title),
			Description: r.Description,
			StartDate:   vt.start,
			EndDate:     vt.end,
			Privacy:     vt.privacy,
			Status:      dbm.TripStatusDraft,
		},
	}

	for i, p := range r.Places {
		place := vt.places[i]
		stop := vt.stops[i]

		sg := repositories.StopGraph{
			Stop: dbm.TripStop{
				CityID:    p.CityID,
				Order:     p.Order,
				Arrival:   stop.arrival,
				Departure: stop.departure,
				Notes:     p.Notes,
			},
		}

		for j, a := range p.Activities {
			act := dbm.TripActivity{
				Position:    j,
				Title:       a.Title,
				Description: a.Description,
				DurationMin: a.DurationMin,
				Currency:    a.Currency,
				StartTime:   stop.activities[j].start,
				EndTime:     stop.activities[j].end,
			}
			if _, ok := place.Activity(a.TemplateID); ok {
				id := a.TemplateID
				act.TemplateID = &id
			}
			if act.Currency == "" {
				act.Currency = place.Country.Currency
			}
			if act.Currency == "" {
				act.Currency = defaultCurrency
			}
			if a.Price != nil {
				act.Price = decimal.NewNullDecimal(decimal.NewFromFloat(*a.Price))
			}
			sg.Activities = append(sg.Activities, act)
		}
		graph.Stops = append(graph.Stops, sg)
	}
	return graph
}

func (s *tripService) CreateTrip(ctx context.Context, ownerID uuid.UUID, request req.CreateTripRequest) (*resp.TripSummary, error) {
	log := logger.GetLogger()

	vt, err := s.validate(request)
	if err != nil {
		metrics.TripsCreated.WithLabelValues("invalid").Inc()
		return nil, err
	}

	if err := s.seedReference(ctx, vt); err != nil {
		metrics.TripsCreated.WithLabelValues("failed").Inc()
		log.Errorw("Failed to seed reference data", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("seed reference data: %w", errors.Join(utils.ErrDatabaseError, err))
	}

	base := utils.Slugify(vt.request.Title)
	var graph *repositories.TripGraph
	for attempt := 1; ; attempt++ {
		slug, err := utils.UniqueSlug(ctx, base, s.trips.SlugExists)
		if err != nil {
			metrics.TripsCreated.WithLabelValues("failed").Inc()
			return nil, fmt.Errorf("check slug: %w", errors.Join(utils.ErrDatabaseError, err))
		}

		graph = s.buildGraph(ownerID, vt)
		graph.Trip.Slug = slug

		err = s.trips.CreateTripGraph(ctx, graph)
		if err == nil {
			break
		}
		if errors.Is(err, repositories.ErrSlugConflict) && attempt < slugAttempts {
			log.Warnw("Slug taken concurrently, retrying", "slug", slug, "attempt", attempt)
			continue
		}
		metrics.TripsCreated.WithLabelValues("failed").Inc()
		log.Errorw("Failed to create trip", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("create trip: %w", errors.Join(utils.ErrDatabaseError, err))
	}

	metrics.TripsCreated.WithLabelValues("created").Inc()
	log.Infow("Trip created", "trip_id", graph.Trip.ID, "slug", graph.Trip.Slug, "stops", len(graph.Stops))

	return &resp.TripSummary{
		ID:     graph.Trip.ID.String(),
		Title:  graph.Trip.Title,
		Slug:   graph.Trip.Slug,
		Status: graph.Trip.Status,
	}, nil
}

func (s *tripService) ListTrips(ctx context.Context, ownerID uuid.UUID, page, limit int) (*resp.Page[resp.TripListItem], error) {
	page, limit, err := normalizePage(page, limit, 10)
	if err != nil {
		return nil, err
	}

	trips, total, err := s.trips.ListByOwner(ctx, ownerID, page, limit)
	if err != nil {
		return nil, errors.Join(utils.ErrDatabaseError, err)
	}

	items := make([]resp.TripListItem, 0, len(trips))
	for _, t := range trips {
		items = append(items, toTripListItem(t))
	}
	return &resp.Page[resp.TripListItem]{Items: items, Page: page, Limit: limit, Total: total}, nil
}

func (s *tripService) GetTrip(ctx context.Context, viewerID, tripID uuid.UUID) (*resp.TripDetail, error) {
	trip, err := s.trips.FindDetailByID(ctx, tripID)
	if err != nil {
		return nil, errors.Join(utils.ErrDatabaseError, err)
	}
	if trip == nil || (trip.OwnerID != viewerID && trip.Privacy != dbm.PrivacyPublic) {
		return nil, utils.ErrTripNotFound
	}
	return toTripDetail(*trip), nil
}

func (s *tripService) UpdateStatus(ctx context.Context, ownerID, tripID uuid.UUID, status string) (*resp.TripSummary, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if !slices.Contains(dbm.TripStatuses, status) {
		return nil, utils.NewValidationError("Invalid status").
			Add("status", "Status must be one of "+strings.Join(dbm.TripStatuses, ", "))
	}

	trip, err := s.trips.FindByID(ctx, tripID)
	if err != nil {
		return nil, errors.Join(utils.ErrDatabaseError, err)
	}
	if trip == nil {
		return nil, utils.ErrTripNotFound
	}
	if trip.OwnerID != ownerID {
		return nil, utils.ErrForbidden
	}

	if err := s.trips.UpdateStatus(ctx, tripID, status); err != nil {
		return nil, errors.Join(utils.ErrDatabaseError, err)
	}
	logger.GetLogger().Infow("Trip status updated", "trip_id", tripID, "from", trip.Status, "to", status)

	return &resp.TripSummary{ID: trip.ID.String(), Title: trip.Title, Slug: trip.Slug, Status: status}, nil
}

func (s *tripService) Overview(ctx context.Context, ownerID uuid.UUID) (*resp.TripOverview, error) {
	today := utils.StartOfDayUTC(s.now())
	buckets := []repositories.OverviewBucket{
		repositories.BucketUpcoming,
		repositories.BucketOngoing,
		repositories.BucketCompleted,
		repositories.BucketArchived,
	}
	results := make([][]resp.TripListItem, len(buckets))

	g, gctx := errgroup.WithContext(ctx)
	for i, bucket := range buckets {
		g.Go(func() error {
			trips, err := s.trips.ListOverviewBucket(gctx, ownerID, bucket, today, overviewBucketSize)
			if err != nil {
				return fmt.Errorf("load %s trips: %w", bucket, err)
			}
			items := make([]resp.TripListItem, 0, len(trips))
			for _, t := range trips {
				items = append(items, toTripListItem(t))
			}
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Join(utils.ErrDatabaseError, err)
	}

	return &resp.TripOverview{
		Upcoming:  results[0],
		Ongoing:   results[1],
		Completed: results[2],
		Archived:  results[3],
	}, nil
}

func toTripListItem(t dbm.Trip) resp.TripListItem {
	return resp.TripListItem{
		ID:          t.ID.String(),
		Title:       t.Title,
		Slug:        t.Slug,
		Description: t.Description,
		Status:      t.Status,
		Privacy:     t.Privacy,
		StartDate:   t.StartDate,
		EndDate:     t.EndDate,
		StopCount:   len(t.Stops),
		UpdatedAt:   time.Unix(t.UpdatedAt, 0).UTC(),
	}
}

func toTripDetail(t dbm.Trip) *resp.TripDetail {
	detail := &resp.TripDetail{
		TripListItem:  toTripListItem(t),
		OwnerID:       t.OwnerID.String(),
		Stops:         make([]resp.TripStopResponse, 0, len(t.Stops)),
		EstimatedCost: map[string]decimal.Decimal{},
	}

	for _, st := range t.Stops {
		stop := resp.TripStopResponse{
			ID:          st.ID.String(),
			CityID:      st.CityID,
			CityName:    st.City.Name,
			CountryName: st.City.Country.Name,
			Order:       st.Order,
			Arrival:     st.Arrival,
			Departure:   st.Departure,
			Notes:       st.Notes,
			Activities:  make([]resp.TripActivityResponse, 0, len(st.Activities)),
		}
		for _, a := range st.Activities {
			item := resp.TripActivityResponse{
				ID:          a.ID.String(),
				TemplateID:  a.TemplateID,
				Position:    a.Position,
				Title:       a.Title,
				Description: a.Description,
				DurationMin: a.DurationMin,
				Currency:    a.Currency,
				StartTime:   a.StartTime,
				EndTime:     a.EndTime,
			}
			if a.Price.Valid {
				price := a.Price.Decimal
				item.Price = &price
				detail.EstimatedCost[a.Currency] = detail.EstimatedCost[a.Currency].Add(price)
			}
			stop.Activities = append(stop.Activities, item)
		}
		detail.Stops = append(detail.Stops, stop)
	}
	return detail
}
