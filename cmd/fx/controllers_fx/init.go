package controllers_fx

import (
	"context"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"globetrotter/internal/api/controllers"
	"globetrotter/internal/infra"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAccountController),
	fx.Provide(controllers.NewTripController),
	fx.Provide(controllers.NewWizardController),
	fx.Provide(controllers.NewCatalogController),
	fx.Provide(controllers.NewCommunityController),
	fx.Provide(controllers.NewDashboardController),
	fx.Provide(provideHealthController),
)

func provideHealthController(db *gorm.DB) *controllers.HealthController {
	return controllers.NewHealthController(func(ctx context.Context) error {
		return infra.Ping(ctx, db)
	})
}
