package controllers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"globetrotter/internal/services"
	"globetrotter/internal/wizard"
	"globetrotter/pkg/utils"
)

func wizardRouter(svc *mockWizardService, user uuid.UUID) *gin.Engine {
	ctl := NewWizardController(svc)
	r := gin.New()
	g := r.Group("/wizard", asUser(user))
	g.GET("", ctl.Current)
	g.POST("/recommendations", ctl.Recommend)
	g.POST("/back", ctl.Back)
	return r
}

func TestWizardRecommendFailureReturnsState(t *testing.T) {
	user := uuid.New()
	svc := new(mockWizardService)
	failed := wizard.State{
		Step:     wizard.StepRecommending,
		StepName: wizard.StepRecommending.String(),
		LastError: &wizard.StepError{
			Kind: "remote_call", Message: "Gemini API error: deadline exceeded", Retryable: true,
		},
	}
	svc.On("Recommend", mock.Anything, user).Return(
		services.WizardView{State: failed, Actions: []string{"retry", "back"}},
		&utils.RecommendationError{Kind: utils.ErrRemoteCall, Err: errors.New("deadline exceeded")},
	)

	w, out := do(t, wizardRouter(svc, user), http.MethodPost, "/wizard/recommendations", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "Gemini API error: deadline exceeded", out["error"])

	data, ok := out["data"].(map[string]interface{})
	require.True(t, ok, "failed step still returns the wizard state")
	assert.Equal(t, "recommending", data["stepName"])
	lastErr := data["lastError"].(map[string]interface{})
	assert.Equal(t, true, lastErr["retryable"])
}

func TestWizardCurrent(t *testing.T) {
	user := uuid.New()
	svc := new(mockWizardService)
	svc.On("Current", mock.Anything, user).Return(services.WizardView{State: wizard.New(), Actions: []string{"submit"}}, nil)

	w, out := do(t, wizardRouter(svc, user), http.MethodGet, "/wizard", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := out["data"].(map[string]interface{})
	assert.Equal(t, "input", data["stepName"])
}

func TestWizardBackInvalidTransition(t *testing.T) {
	user := uuid.New()
	svc := new(mockWizardService)
	svc.On("Back", mock.Anything, user).Return(services.WizardView{State: wizard.New()}, utils.ErrInvalidTransition)

	w, _ := do(t, wizardRouter(svc, user), http.MethodPost, "/wizard/back", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}
