package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"globetrotter/internal/models/request_models"
	"globetrotter/internal/services"
	"globetrotter/pkg/utils"
)

// WizardController drives the signed-in user's trip creation flow.
// Every endpoint answers with the resulting wizard state, on failure too.
type WizardController struct {
	wizardService services.WizardService
}

func NewWizardController(wizardService services.WizardService) *WizardController {
	return &WizardController{
		wizardService: wizardService,
	}
}

func respondWizard(c *gin.Context, view services.WizardView, err error, message string) {
	if err != nil {
		utils.HandleServiceErrorWithData(c, err, view)
		return
	}
	utils.RespondSuccess(c, view, message)
}

// Current godoc
// @Summary Current wizard state
// @Tags Wizard
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /wizard [get]
func (w *WizardController) Current(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	utils.RespondSuccess(c, w.wizardService.Current(c.Request.Context(), userID), "")
}

// Start godoc
// @Summary Start a new trip wizard, discarding any in progress
// @Tags Wizard
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /wizard/start [post]
func (w *WizardController) Start(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	utils.RespondSuccess(c, w.wizardService.Start(c.Request.Context(), userID), "Wizard started")
}

// Reset godoc
// @Summary Create another trip
// @Tags Wizard
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /wizard/reset [post]
func (w *WizardController) Reset(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	utils.RespondSuccess(c, w.wizardService.Start(c.Request.Context(), userID), "Wizard reset")
}

// SubmitConstraints godoc
// @Summary Submit trip constraints
// @Tags Wizard
// @Accept json
// @Produce json
// @Param request body request_models.WizardConstraintsRequest true "Country, dates and description"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /wizard/constraints [post]
func (w *WizardController) SubmitConstraints(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req request_models.WizardConstraintsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	view, err := w.wizardService.SubmitConstraints(c.Request.Context(), userID, req)
	respondWizard(c, view, err, "Constraints accepted")
}

// Recommend godoc
// @Summary Fetch AI recommendations for the submitted constraints
// @Description Also used to retry after a failed recommendation
// @Tags Wizard
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 429 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Security BearerAuth
// @Router /wizard/recommendations [post]
func (w *WizardController) Recommend(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	view, err := w.wizardService.Recommend(c.Request.Context(), userID)
	respondWizard(c, view, err, "Recommendations ready")
}

// Proceed godoc
// @Summary Continue to selection with the stored recommendations
// @Tags Wizard
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /wizard/proceed [post]
func (w *WizardController) Proceed(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	view, err := w.wizardService.Proceed(c.Request.Context(), userID)
	respondWizard(c, view, err, "")
}

// Candidates godoc
// @Summary Recommended places matched against the catalog
// @Tags Wizard
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /wizard/candidates [get]
func (w *WizardController) Candidates(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	candidates, err := w.wizardService.Candidates(c.Request.Context(), userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, candidates, "")
}

// ConfirmSelection godoc
// @Summary Confirm selected places and activities
// @Tags Wizard
// @Accept json
// @Produce json
// @Param request body request_models.WizardSelectionRequest true "Catalog place and activity ids"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /wizard/selection [post]
func (w *WizardController) ConfirmSelection(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req request_models.WizardSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	view, err := w.wizardService.ConfirmSelection(c.Request.Context(), userID, req)
	respondWizard(c, view, err, "Selection confirmed")
}

// Create godoc
// @Summary Create the trip from the confirmed plan
// @Description Also used to retry after a failed creation
// @Tags Wizard
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Security BearerAuth
// @Router /wizard/create [post]
func (w *WizardController) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	view, err := w.wizardService.Create(c.Request.Context(), userID)
	respondWizard(c, view, err, "Trip created")
}

// Back godoc
// @Summary Go back one step
// @Tags Wizard
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /wizard/back [post]
func (w *WizardController) Back(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	view, err := w.wizardService.Back(c.Request.Context(), userID)
	respondWizard(c, view, err, "")
}
