package trip_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"globetrotter/internal/catalog"
	"globetrotter/internal/repositories"
	"globetrotter/internal/services"
)

var Module = fx.Provide(
	provideTripRepo, provideReferenceRepo, provideTripService,
)

func provideTripRepo(db *gorm.DB) repositories.TripRepository {
	return repositories.NewTripRepository(db)
}

func provideReferenceRepo(db *gorm.DB) repositories.ReferenceRepository {
	return repositories.NewReferenceRepository(db)
}

func provideTripService(trips repositories.TripRepository, reference repositories.ReferenceRepository, cat *catalog.Catalog) services.TripService {
	return services.NewTripService(trips, reference, cat)
}
