package request_models

type WizardConstraintsRequest struct {
	Country     string `json:"country"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

type WizardPlaceSelection struct {
	PlaceID     string   `json:"placeId" binding:"required"`
	ActivityIDs []string `json:"activityIds"`
}

type WizardSelectionRequest struct {
	Places []WizardPlaceSelection `json:"places"`
}
