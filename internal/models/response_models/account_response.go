package response_models

import (
	"encoding/json"
	"time"
)

type AccountLoginResponse struct {
	Token string          `json:"token"`
	User  AccountResponse `json:"user"`
}

type AccountResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Verified    bool   `json:"verified"`
}

type SignUpResponse struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

type ProfileTrip struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
}

// ProfileResponse is the signed-in user's profile with their trips split by status.
type ProfileResponse struct {
	AccountResponse
	PhoneNo         string          `json:"phoneNo"`
	Bio             string          `json:"bio"`
	Locale          string          `json:"locale"`
	Preferences     json.RawMessage `json:"preferences"`
	PreplannedTrips []ProfileTrip   `json:"preplannedTrips"`
	PreviousTrips   []ProfileTrip   `json:"previousTrips"`
}
