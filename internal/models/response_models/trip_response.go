package response_models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TripSummary struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Slug   string `json:"slug"`
	Status string `json:"status"`
}

// CreateTripResponse is the success body of POST /trips.
type CreateTripResponse struct {
	Success bool        `json:"success"`
	Trip    TripSummary `json:"trip"`
}

type TripListItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	Privacy     string    `json:"privacy"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	StopCount   int       `json:"stopCount"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type TripActivityResponse struct {
	ID          string           `json:"id"`
	TemplateID  *string          `json:"templateId,omitempty"`
	Position    int              `json:"position"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	DurationMin *int             `json:"durationMin,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Currency    string           `json:"currency"`
	StartTime   *time.Time       `json:"startTime,omitempty"`
	EndTime     *time.Time       `json:"endTime,omitempty"`
}

type TripStopResponse struct {
	ID          string                 `json:"id"`
	CityID      string                 `json:"cityId"`
	CityName    string                 `json:"cityName"`
	CountryName string                 `json:"countryName,omitempty"`
	Order       int                    `json:"order"`
	Arrival     time.Time              `json:"arrival"`
	Departure   time.Time              `json:"departure"`
	Notes       string                 `json:"notes,omitempty"`
	Activities  []TripActivityResponse `json:"activities"`
}

type TripDetail struct {
	TripListItem
	OwnerID string             `json:"ownerId"`
	Stops   []TripStopResponse `json:"stops"`
	// EstimatedCost sums activity prices per currency.
	EstimatedCost map[string]decimal.Decimal `json:"estimatedCost"`
}

type TripOverview struct {
	Upcoming  []TripListItem `json:"upcoming"`
	Ongoing   []TripListItem `json:"ongoing"`
	Completed []TripListItem `json:"completed"`
	Archived  []TripListItem `json:"archived"`
}

type Page[T any] struct {
	Items []T   `json:"items"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}
