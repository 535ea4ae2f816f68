package response_models

type TripStatusCounts struct {
	Draft     int64 `json:"draft"`
	Published int64 `json:"published"`
	Archived  int64 `json:"archived"`
	Completed int64 `json:"completed"`
	Total     int64 `json:"total"`
}

type DashboardReport struct {
	Account           AccountResponse  `json:"account"`
	Trips             TripStatusCounts `json:"trips"`
	FavoritesReceived int64            `json:"favoritesReceived"`
	CommentsReceived  int64            `json:"commentsReceived"`
	FavoritesGiven    int64            `json:"favoritesGiven"`
	CommentsWritten   int64            `json:"commentsWritten"`
	RecentTrips       []TripListItem   `json:"recentTrips"`
}
