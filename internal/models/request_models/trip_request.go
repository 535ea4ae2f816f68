package request_models

type CreateTripActivityRequest struct {
	TemplateID  string   `json:"templateId"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	DurationMin *int     `json:"durationMin,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Currency    string   `json:"currency,omitempty"`
	StartTime   string   `json:"startTime,omitempty"`
	EndTime     string   `json:"endTime,omitempty"`
}

type CreateTripPlaceRequest struct {
	CityID     string                      `json:"cityId"`
	Name       string                      `json:"name"`
	Order      int                         `json:"order"`
	Arrival    string                      `json:"arrival,omitempty"`
	Departure  string                      `json:"departure,omitempty"`
	Notes      string                      `json:"notes,omitempty"`
	Activities []CreateTripActivityRequest `json:"activities"`
}

// CreateTripRequest is the body of POST /trips and what the wizard submits on create.
type CreateTripRequest struct {
	Title       string                   `json:"title"`
	Description string                   `json:"description,omitempty"`
	StartDate   string                   `json:"startDate"`
	EndDate     string                   `json:"endDate"`
	Privacy     string                   `json:"privacy,omitempty"`
	Places      []CreateTripPlaceRequest `json:"places"`
}

type UpdateTripStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type PageQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}
