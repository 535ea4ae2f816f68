package request_models

type PostCommentRequest struct {
	Content    string `json:"content"`
	ActivityID string `json:"activityId,omitempty"`
}
