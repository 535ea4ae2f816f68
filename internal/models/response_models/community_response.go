package response_models

import "time"

type FeedTrip struct {
	TripListItem
	OwnerName     string   `json:"ownerName"`
	Cities        []string `json:"cities"`
	FavoriteCount int64    `json:"favoriteCount"`
	CommentCount  int64    `json:"commentCount"`
}

type FavoriteResponse struct {
	TripID  string `json:"tripId"`
	Created bool   `json:"created"`
}

type CommentResponse struct {
	ID         string    `json:"id"`
	TripID     string    `json:"tripId"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"`
	ActivityID *string   `json:"activityId,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}
