package config_fx

import (
	"go.uber.org/fx"

	"globetrotter/internal/config"
)

var Module = fx.Provide(
	config.LoadConfig,
	provideDatabaseConfig,
	provideSMTPConfig,
)

func provideDatabaseConfig(cfg *config.Config) config.DatabaseConfig {
	return cfg.Database
}

func provideSMTPConfig(cfg *config.Config) config.SMTPConfig {
	return cfg.SMTP
}
