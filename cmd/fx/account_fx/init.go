package account_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"globetrotter/internal/config"
	"globetrotter/internal/repositories"
	"globetrotter/internal/services"
	"globetrotter/pkg/utils"
)

var Module = fx.Provide(
	provideAccountService, provideAccountRepo, provideTokenManager)

func provideAccountRepo(db *gorm.DB) repositories.AccountRepository {
	return repositories.NewAccountRepository(db)
}

func provideTokenManager(cfg *config.Config) *utils.TokenManager {
	return utils.NewTokenManager(cfg.Server.JWTSecret)
}

func provideAccountService(accountRepo repositories.AccountRepository, tripRepo repositories.TripRepository, mailService services.IMailService, tokens *utils.TokenManager) services.AccountServiceInterface {
	return services.NewAccountService(accountRepo, tripRepo, mailService, tokens)
}
