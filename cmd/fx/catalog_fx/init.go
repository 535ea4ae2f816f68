package catalog_fx

import (
	"go.uber.org/fx"

	"globetrotter/internal/catalog"
)

var Module = fx.Provide(catalog.Load)
