package mail_fx

import (
	"go.uber.org/fx"

	"globetrotter/internal/config"
	"globetrotter/internal/services"
	"globetrotter/pkg/logger"
)

var Module = fx.Provide(provideMailService)

func provideMailService(cfg config.SMTPConfig) services.IMailService {
	if cfg.Username == "" || cfg.Password == "" {
		logger.GetLogger().Warnw("SMTP credentials are not set, OTP emails will fail", "host", cfg.Host)
	}
	return services.NewSMTPMailService(cfg)
}
