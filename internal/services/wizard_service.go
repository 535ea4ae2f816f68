package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"globetrotter/internal/catalog"
	req "globetrotter/internal/models/request_models"
	"globetrotter/internal/wizard"
	"globetrotter/pkg/logger"
	mem "globetrotter/pkg/memcache"
	"globetrotter/pkg/metrics"
	"globetrotter/pkg/utils"
)

// WizardView is the wizard state plus the actions its step accepts.
type WizardView struct {
	wizard.State
	Actions []string `json:"actions"`
}

type WizardService interface {
	Current(ctx context.Context, userID uuid.UUID) WizardView
	Start(ctx context.Context, userID uuid.UUID) WizardView
	SubmitConstraints(ctx context.Context, userID uuid.UUID, request req.WizardConstraintsRequest) (WizardView, error)
	// Recommend runs the AI call for the stored constraints. It is also the retry action.
	Recommend(ctx context.Context, userID uuid.UUID) (WizardView, error)
	Proceed(ctx context.Context, userID uuid.UUID) (WizardView, error)
	Candidates(ctx context.Context, userID uuid.UUID) ([]catalog.Candidate, error)
	ConfirmSelection(ctx context.Context, userID uuid.UUID, request req.WizardSelectionRequest) (WizardView, error)
	// Create persists the confirmed plan. It is also the retry action.
	Create(ctx context.Context, userID uuid.UUID) (WizardView, error)
	Back(ctx context.Context, userID uuid.UUID) (WizardView, error)
}

type wizardService struct {
	sessions        mem.SessionStore[wizard.State]
	recommendations RecommendationService
	trips           TripService
	catalog         *catalog.Catalog
}

func NewWizardService(
	sessions mem.SessionStore[wizard.State],
	recommendations RecommendationService,
	trips TripService,
	cat *catalog.Catalog,
) WizardService {
	return &wizardService{
		sessions:        sessions,
		recommendations: recommendations,
		trips:           trips,
		catalog:         cat,
	}
}

func view(s wizard.State) WizardView {
	return WizardView{State: s, Actions: s.Actions()}
}

func (s *wizardService) load(userID uuid.UUID) wizard.State {
	st, ok := s.sessions.Get(userID.String())
	if !ok {
		return wizard.New()
	}
	return st
}

func (s *wizardService) save(userID uuid.UUID, st wizard.State) {
	s.sessions.Set(userID.String(), st)
}

// apply reduces one event against the stored state and saves the result.
// The caller must hold the user's lock.
func (s *wizardService) apply(userID uuid.UUID, ev wizard.Event) (wizard.State, error) {
	current := s.load(userID)
	next, err := wizard.Reduce(current, ev)
	if err != nil {
		return current, err
	}
	s.save(userID, next)
	return next, nil
}

func (s *wizardService) Current(_ context.Context, userID uuid.UUID) WizardView {
	unlock := s.sessions.Lock(userID.String())
	defer unlock()
	return view(s.load(userID))
}

func (s *wizardService) Start(_ context.Context, userID uuid.UUID) WizardView {
	unlock := s.sessions.Lock(userID.String())
	defer unlock()

	st, _ := s.apply(userID, wizard.Reset{})
	return view(st)
}

func (s *wizardService) SubmitConstraints(_ context.Context, userID uuid.UUID, request req.WizardConstraintsRequest) (WizardView, error) {
	unlock := s.sessions.Lock(userID.String())
	defer unlock()

	st, err := s.apply(userID, wizard.SubmitConstraints{Constraints: wizard.TripConstraints{
		Country:     request.Country,
		StartDate:   request.StartDate,
		EndDate:     request.EndDate,
		Description: request.Description,
	}})
	return view(st), err
}

func (s *wizardService) Recommend(ctx context.Context, userID uuid.UUID) (WizardView, error) {
	unlock := s.sessions.Lock(userID.String())
	defer unlock()

	current := s.load(userID)
	if current.Step != wizard.StepRecommending || current.Constraints == nil {
		_, err := wizard.Reduce(current, wizard.RecommendationsReceived{})
		return view(current), err
	}

	recs, err := s.recommendations.Recommend(ctx, *current.Constraints)
	if err != nil {
		st, rerr := s.apply(userID, wizard.RecommendationFailed{Err: err})
		if rerr != nil {
			return view(st), rerr
		}
		return view(st), err
	}

	st, err := s.apply(userID, wizard.RecommendationsReceived{Recommendations: recs})
	return view(st), err
}

func (s *wizardService) Proceed(_ context.Context, userID uuid.UUID) (WizardView, error) {
	unlock := s.sessions.Lock(userID.String())
	defer unlock()

	st, err := s.apply(userID, wizard.Proceed{})
	return view(st), err
}

func (s *wizardService) Candidates(_ context.Context, userID uuid.UUID) ([]catalog.Candidate, error) {
	unlock := s.sessions.Lock(userID.String())
	defer unlock()

	st := s.load(userID)
	if st.Recommendations == nil {
		return nil, fmt.Errorf("%w: no recommendations at step %s", utils.ErrInvalidTransition, st.Step)
	}

	candidates := s.catalog.MatchAll(st.Recommendations.Names())
	for _, c := range candidates {
		if !c.Matched {
			metrics.UnmatchedRecommendations.Inc()
			logger.GetLogger().Debugw("Recommendation not in catalog", "place", c.Query)
		}
	}
	return candidates, nil
}

// matchedPlaces is the set of catalog place ids the stored recommendations resolved to.
func (s *wizardService) matchedPlaces(st wizard.State) map[string]bool {
	matched := map[string]bool{}
	if st.Recommendations == nil {
		return matched
	}
	for _, c := range s.catalog.MatchAll(st.Recommendations.Names()) {
		if c.Matched {
			matched[c.Place.ID] = true
		}
	}
	return matched
}

// plan resolves catalog ids in a selection request. Places must be among the
// matched recommendations and activity ids must belong to their place.
func (s *wizardService) plan(request req.WizardSelectionRequest, matched map[string]bool) (wizard.TripPlan, error) {
	v := utils.NewValidationError("Invalid selection")
	plan := wizard.TripPlan{Places: make([]wizard.SelectedPlace, 0, len(request.Places))}
	seen := make(map[string]bool, len(request.Places))

	for i, sel := range request.Places {
		field := fmt.Sprintf("places[%d]", i)
		place, ok := s.catalog.Place(sel.PlaceID)
		if !ok {
			v.Add(field+".placeId", fmt.Sprintf("Place %s is not in the catalog", sel.PlaceID))
			continue
		}
		if !matched[place.ID] {
			v.Add(field+".placeId", fmt.Sprintf("Place %s was not recommended for this trip", place.Name))
			continue
		}
		if seen[place.ID] {
			v.Add(field+".placeId", fmt.Sprintf("Place %s selected twice", place.Name))
			continue
		}
		seen[place.ID] = true

		selected := wizard.SelectedPlace{Place: place, SelectedActivities: []catalog.Activity{}}
		for j, activityID := range sel.ActivityIDs {
			activity, ok := place.Activity(activityID)
			if !ok {
				v.Add(fmt.Sprintf("%s.activityIds[%d]", field, j),
					fmt.Sprintf("Activity %s is not offered in %s", activityID, place.Name))
				continue
			}
			selected.SelectedActivities = append(selected.SelectedActivities, activity)
		}
		plan.Places = append(plan.Places, selected)
	}

	if err := v.OrNil(); err != nil {
		return wizard.TripPlan{}, err
	}
	return plan, nil
}

func (s *wizardService) ConfirmSelection(_ context.Context, userID uuid.UUID, request req.WizardSelectionRequest) (WizardView, error) {
	unlock := s.sessions.Lock(userID.String())
	defer unlock()

	current := s.load(userID)
	if current.Step != wizard.StepSelecting {
		_, err := wizard.Reduce(current, wizard.ConfirmSelection{})
		return view(current), err
	}

	plan, err := s.plan(request, s.matchedPlaces(current))
	if err != nil {
		return view(current), err
	}

	st, err := s.apply(userID, wizard.ConfirmSelection{Plan: plan})
	return view(st), err
}

func (s *wizardService) Create(ctx context.Context, userID uuid.UUID) (WizardView, error) {
	unlock := s.sessions.Lock(userID.String())
	defer unlock()

	current := s.load(userID)
	if current.Step != wizard.StepCreating || current.Plan == nil || current.Constraints == nil {
		_, err := wizard.Reduce(current, wizard.TripCreated{})
		return view(current), err
	}

	request := BuildCreateRequest(*current.Plan, *current.Constraints)
	trip, err := s.trips.CreateTrip(ctx, userID, request)
	if err != nil {
		logger.GetLogger().Warnw("Wizard trip creation failed", "user_id", userID, "kind", wizard.ErrorKind(err), "error", err)
		st, rerr := s.apply(userID, wizard.CreationFailed{Err: err})
		if rerr != nil {
			return view(st), errors.Join(err, rerr)
		}
		return view(st), err
	}

	st, err := s.apply(userID, wizard.TripCreated{Trip: wizard.TripSummary{
		ID:     trip.ID,
		Title:  trip.Title,
		Slug:   trip.Slug,
		Status: trip.Status,
	}})
	return view(st), err
}

func (s *wizardService) Back(_ context.Context, userID uuid.UUID) (WizardView, error) {
	unlock := s.sessions.Lock(userID.String())
	defer unlock()

	st, err := s.apply(userID, wizard.Back{})
	return view(st), err
}
