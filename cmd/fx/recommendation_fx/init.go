package recommendation_fx

import (
	"context"

	"go.uber.org/fx"

	"globetrotter/internal/catalog"
	"globetrotter/internal/config"
	"globetrotter/internal/services"
	"globetrotter/pkg/logger"
	"globetrotter/pkg/utils"
)

var Module = fx.Provide(
	ProvideGenerator,
	ProvideRecommendationService)

// ProvideGenerator creates the JSON generator for the configured provider.
func ProvideGenerator(lc fx.Lifecycle, cfg *config.Config) (utils.JSONGenerator, error) {
	apiKey, model := cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel
	if cfg.AI.Provider == "openai" {
		apiKey, model = cfg.AI.OpenAIAPIKey, cfg.AI.OpenAIModel
	}

	logger.GetLogger().Infow("Initializing recommendation generator", "provider", cfg.AI.Provider, "model", model)

	generator, err := utils.NewJSONGenerator(context.Background(), cfg.AI.Provider, apiKey, model)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return generator.Close()
		},
	})
	return generator, nil
}

func ProvideRecommendationService(generator utils.JSONGenerator, cat *catalog.Catalog) services.RecommendationService {
	return services.NewRecommendationService(generator, cat)
}
