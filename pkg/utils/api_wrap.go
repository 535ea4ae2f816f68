package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"globetrotter/pkg/logger"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func RespondCreated(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, APIResponse{
		Status:  "success",
		Code:    http.StatusCreated,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	RespondErrorWithDetails(c, code, message, nil)
}

func RespondErrorWithDetails(c *gin.Context, code int, message string, details interface{}) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Error:   message,
		Details: details,
	})
}

// HandleServiceError converts a service error into its HTTP response.
func HandleServiceError(c *gin.Context, err error) {
	HandleServiceErrorWithData(c, err, nil)
}

// HandleServiceErrorWithData is HandleServiceError that also returns data,
// such as the state left behind by a failed step.
func HandleServiceErrorWithData(c *gin.Context, err error, data interface{}) {
	code, message, details := classify(c, err)
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
		Error:   message,
		Details: details,
	})
}

func classify(c *gin.Context, err error) (int, string, interface{}) {
	log := logger.GetLogger()
	traceID := c.GetString("trace_id")

	var validationErr *ValidationError
	var recommendationErr *RecommendationError

	switch {
	case errors.As(err, &validationErr):
		var details interface{}
		if validationErr.HasErrors() {
			details = validationErr.Fields
		}
		return http.StatusBadRequest, validationErr.Message, details
	case errors.Is(err, ErrInvalidPage):
		return http.StatusBadRequest, "Page must be greater than 0", nil
	case errors.Is(err, ErrInvalidPageSize):
		return http.StatusBadRequest, "Page size must be between 1 and 100", nil
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized", nil
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password", nil
	case errors.Is(err, ErrAccountNotVerified):
		return http.StatusForbidden, "Please verify your email before logging in", nil
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, "You are not allowed to modify this resource", nil
	case errors.Is(err, ErrAccountNotFound):
		return http.StatusNotFound, "User not found", nil
	case errors.Is(err, ErrTripNotFound):
		return http.StatusNotFound, "Trip not found", nil
	case errors.Is(err, ErrPlaceNotFound):
		return http.StatusNotFound, "Place not found", nil
	case errors.Is(err, ErrCommentNotFound):
		return http.StatusNotFound, "Activity not found for this trip", nil
	case errors.Is(err, ErrEmailAlreadyExists):
		return http.StatusConflict, "User already exists.", nil
	case errors.Is(err, ErrOtpPending):
		return http.StatusConflict, "Please verify the OTP sent to your email.", nil
	case errors.Is(err, ErrInvalidOtp):
		return http.StatusBadRequest, "Invalid OTP", nil
	case errors.Is(err, ErrOtpExpired):
		return http.StatusGone, "OTP has expired", nil
	case errors.Is(err, ErrInvalidTransition):
		return http.StatusConflict, err.Error(), nil
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, "Too many requests, please slow down", nil
	case errors.As(err, &recommendationErr):
		log.Warnw("Recommendation failed", "trace_id", traceID, "kind", recommendationErr.Kind.Error(), "error", err)
		return http.StatusBadGateway, recommendationErr.Error(), nil
	case errors.Is(err, ErrMailDelivery):
		log.Errorw("Mail delivery failed", "trace_id", traceID, "error", err)
		return http.StatusInternalServerError, "Failed to send OTP email. Please try again.", nil
	case errors.Is(err, ErrDatabaseError):
		log.Errorw("Database error", "trace_id", traceID, "error", err)
		return http.StatusInternalServerError, "Internal server error", nil
	default:
		log.Errorw("Unhandled service error", "trace_id", traceID, "error", err)
		return http.StatusInternalServerError, "Internal server error", nil
	}
}
