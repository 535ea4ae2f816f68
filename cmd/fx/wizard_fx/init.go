package wizard_fx

import (
	"go.uber.org/fx"

	"globetrotter/internal/catalog"
	"globetrotter/internal/services"
	"globetrotter/internal/wizard"
	mem "globetrotter/pkg/memcache"
)

var Module = fx.Provide(provideWizardService)

func provideWizardService(
	sessions mem.SessionStore[wizard.State],
	recommendations services.RecommendationService,
	trips services.TripService,
	cat *catalog.Catalog,
) services.WizardService {
	return services.NewWizardService(sessions, recommendations, trips, cat)
}
