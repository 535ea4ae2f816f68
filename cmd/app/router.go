package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"globetrotter/internal/api/controllers"
	"globetrotter/internal/config"
	"globetrotter/pkg/middleware"
	"globetrotter/pkg/utils"
)

type Controllers struct {
	Account   *controllers.AccountController
	Trip      *controllers.TripController
	Wizard    *controllers.WizardController
	Catalog   *controllers.CatalogController
	Community *controllers.CommunityController
	Dashboard *controllers.DashboardController
	Health    *controllers.HealthController
}

func ProvideRouter(
	cfg *config.Config,
	tokens *utils.TokenManager,
	accountController *controllers.AccountController,
	tripController *controllers.TripController,
	wizardController *controllers.WizardController,
	catalogController *controllers.CatalogController,
	communityController *controllers.CommunityController,
	dashboardController *controllers.DashboardController,
	healthController *controllers.HealthController,
) http.Handler {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	RegisterRoutes(r, tokens, middleware.NewUserRateLimiter(cfg.AI.RecommendPerMinute), Controllers{
		Account:   accountController,
		Trip:      tripController,
		Wizard:    wizardController,
		Catalog:   catalogController,
		Community: communityController,
		Dashboard: dashboardController,
		Health:    healthController,
	})

	return r
}

func RegisterRoutes(r *gin.Engine, tokens *utils.TokenManager, limiter *middleware.UserRateLimiter, ctl Controllers) {
	r.GET("/healthz", ctl.Health.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	accounts := r.Group("/accounts")
	accounts.POST("/signup", ctl.Account.SignUp)
	accounts.POST("/verify-otp", ctl.Account.VerifyOtp)
	accounts.POST("/login", ctl.Account.Login)

	authed := r.Group("/")
	authed.Use(middleware.JWTAuthMiddleware(tokens))

	authed.GET("/accounts/me", ctl.Account.Me)
	authed.PATCH("/accounts/me", ctl.Account.UpdateProfile)

	catalogGroup := authed.Group("/catalog")
	catalogGroup.GET("/places", ctl.Catalog.ListPlaces)
	catalogGroup.GET("/places/:placeId", ctl.Catalog.GetPlace)

	trips := authed.Group("/trips")
	trips.POST("", ctl.Trip.CreateTrip)
	trips.GET("", ctl.Trip.ListTrips)
	trips.GET("/overview", ctl.Trip.Overview)
	trips.GET("/:tripId", ctl.Trip.GetTrip)
	trips.PATCH("/:tripId/status", ctl.Trip.UpdateStatus)

	wizardGroup := authed.Group("/wizard")
	wizardGroup.GET("", ctl.Wizard.Current)
	wizardGroup.POST("/start", ctl.Wizard.Start)
	wizardGroup.POST("/reset", ctl.Wizard.Reset)
	wizardGroup.POST("/constraints", ctl.Wizard.SubmitConstraints)
	wizardGroup.POST("/recommendations", limiter.Middleware(), ctl.Wizard.Recommend)
	wizardGroup.POST("/proceed", ctl.Wizard.Proceed)
	wizardGroup.GET("/candidates", ctl.Wizard.Candidates)
	wizardGroup.POST("/selection", ctl.Wizard.ConfirmSelection)
	wizardGroup.POST("/create", ctl.Wizard.Create)
	wizardGroup.POST("/back", ctl.Wizard.Back)

	community := authed.Group("/community/trips")
	community.GET("", ctl.Community.Feed)
	community.POST("/:tripId/favorite", ctl.Community.Favorite)
	community.POST("/:tripId/comments", ctl.Community.PostComment)
	community.GET("/:tripId/comments", ctl.Community.ListComments)

	authed.GET("/dashboard", ctl.Dashboard.GetDashboard)
}
