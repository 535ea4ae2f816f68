package memcache_fx

import (
	"go.uber.org/fx"

	"globetrotter/internal/config"
	"globetrotter/internal/wizard"
	mem "globetrotter/pkg/memcache"
)

var Module = fx.Provide(provideWizardSessions)

func provideWizardSessions(cfg *config.Config) mem.SessionStore[wizard.State] {
	return mem.NewSessions[wizard.State](cfg.Wizard.SessionTTL)
}
