package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"globetrotter/internal/models/request_models"
	"globetrotter/internal/services"
	"globetrotter/pkg/utils"
)

type CommunityController struct {
	communityService services.CommunityService
}

func NewCommunityController(communityService services.CommunityService) *CommunityController {
	return &CommunityController{
		communityService: communityService,
	}
}

// Feed godoc
// @Summary Public completed trips, newest first
// @Tags Community
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size (default 5)"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /community/trips [get]
func (f *CommunityController) Feed(c *gin.Context) {
	var q request_models.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid pagination parameters")
		return
	}

	page, err := f.communityService.Feed(c.Request.Context(), q.Page, q.Limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, page, "Community trips retrieved successfully")
}

// Favorite godoc
// @Summary Add a trip to my favorites
// @Tags Community
// @Produce json
// @Param tripId path string true "Trip ID"
// @Success 200 {object} utils.APIResponse "already a favorite"
// @Success 201 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /community/trips/{tripId}/favorite [post]
func (f *CommunityController) Favorite(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "tripId")
	if !ok {
		return
	}

	res, err := f.communityService.Favorite(c.Request.Context(), userID, tripID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	if !res.Created {
		utils.RespondSuccess(c, res, "Trip already in favorites")
		return
	}
	utils.RespondCreated(c, res, "Trip added to favorites")
}

// PostComment godoc
// @Summary Comment on a trip
// @Tags Community
// @Accept json
// @Produce json
// @Param tripId path string true "Trip ID"
// @Param request body request_models.PostCommentRequest true "Comment"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /community/trips/{tripId}/comments [post]
func (f *CommunityController) PostComment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "tripId")
	if !ok {
		return
	}

	var req request_models.PostCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	comment, err := f.communityService.Comment(c.Request.Context(), userID, tripID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, comment, "Comment posted")
}

// ListComments godoc
// @Summary Comments on a trip, oldest first
// @Tags Community
// @Produce json
// @Param tripId path string true "Trip ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /community/trips/{tripId}/comments [get]
func (f *CommunityController) ListComments(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	tripID, ok := uuidParam(c, "tripId")
	if !ok {
		return
	}

	comments, err := f.communityService.ListComments(c.Request.Context(), userID, tripID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, comments, "")
}
