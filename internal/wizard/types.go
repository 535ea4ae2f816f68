package wizard

import (
	"strings"

	"globetrotter/internal/catalog"
	"globetrotter/pkg/utils"
)

// TripConstraints is what the user asks for before any recommendation is made.
type TripConstraints struct {
	Country     string `json:"country"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

// Validate checks required fields and that the trip ends after it starts.
func (c TripConstraints) Validate() error {
	v := utils.NewValidationError("Invalid trip data")
	if strings.TrimSpace(c.Country) == "" {
		v.Add("country", "Country is required")
	}
	if strings.TrimSpace(c.Description) == "" {
		v.Add("description", "Description is required")
	}

	start, startErr := utils.ParseDate(c.StartDate)
	if startErr != nil {
		v.Add("startDate", "Invalid start date format")
	}
	end, endErr := utils.ParseDate(c.EndDate)
	if endErr != nil {
		v.Add("endDate", "Invalid end date format")
	}
	if startErr == nil && endErr == nil && !end.After(start) {
		v.Add("endDate", "End date must be after start date")
	}
	return v.OrNil()
}

type RecommendedPlace struct {
	PlaceName       string `json:"placeName"`
	Description     string `json:"description"`
	BestTimeToVisit string `json:"bestTimeToVisit"`
}

type Recommendations struct {
	Places      []RecommendedPlace `json:"recommendedPlaces"`
	Suggestions string             `json:"suggestions"`
}

// Names lists the recommended place names in order, for matching.
func (r Recommendations) Names() []string {
	names := make([]string, len(r.Places))
	for i, p := range r.Places {
		names[i] = p.PlaceName
	}
	return names
}

// SelectedPlace is a catalog place with the subset of its activities the user picked.
type SelectedPlace struct {
	catalog.Place
	SelectedActivities []catalog.Activity `json:"selectedActivities"`
}

type TripPlan struct {
	Places []SelectedPlace `json:"places"`
}

type TripSummary struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Slug   string `json:"slug"`
	Status string `json:"status"`
}

// StepError is the last failure shown on the current step.
type StepError struct {
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}
