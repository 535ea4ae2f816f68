package request_models

import "encoding/json"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SignUpRequest is validated field by field in the account service.
type SignUpRequest struct {
	DisplayName     string `json:"displayName"`
	PhoneNo         string `json:"phoneNo"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type VerifyOtpRequest struct {
	UserID string `json:"userId" binding:"required"`
	Otp    string `json:"otp" binding:"required"`
}

// UpdateProfileRequest changes only the fields that are present.
type UpdateProfileRequest struct {
	DisplayName *string         `json:"displayName"`
	Bio         *string         `json:"bio"`
	PhoneNo     *string         `json:"phoneNo"`
	Locale      *string         `json:"locale"`
	Preferences json.RawMessage `json:"preferences"`
}
