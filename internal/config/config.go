// Package config loads application settings from the environment (and an optional .env file).
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"globetrotter/pkg/logger"
)

type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

type ServerConfig struct {
	Environment    Environment
	Port           string
	AllowedOrigins []string
	JWTSecret      string
}

type DatabaseConfig struct {
	URL string
}

// AIConfig selects the generative provider used for destination recommendations.
type AIConfig struct {
	Provider     string
	GeminiAPIKey string
	GeminiModel  string
	OpenAIAPIKey string
	OpenAIModel  string
	// RecommendPerMinute caps recommendation calls per user; 0 disables the limiter.
	RecommendPerMinute int
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

type WizardConfig struct {
	SessionTTL time.Duration
}

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	AI       AIConfig
	SMTP     SMTPConfig
	Wizard   WizardConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENVIRONMENT", string(EnvDevelopment))
	v.SetDefault("PORT", "8080")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("AI_PROVIDER", "gemini")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	v.SetDefault("RECOMMEND_RATE_PER_MINUTE", 10)
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_FROM_NAME", "GlobeTrotter")
	v.SetDefault("WIZARD_SESSION_TTL", "2h")
}

// LoadConfig reads .env when present, then the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.GetLogger().Debugw("No .env file loaded", "error", err)
	}
	return loadFrom(viper.New())
}

func loadFrom(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	ttl, err := time.ParseDuration(v.GetString("WIZARD_SESSION_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid WIZARD_SESSION_TTL: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Environment:    Environment(v.GetString("ENVIRONMENT")),
			Port:           v.GetString("PORT"),
			AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
			JWTSecret:      v.GetString("JWT_SECRET"),
		},
		Database: DatabaseConfig{
			URL: v.GetString("POSTGRES_URL"),
		},
		AI: AIConfig{
			Provider:           strings.ToLower(v.GetString("AI_PROVIDER")),
			GeminiAPIKey:       v.GetString("GEMINI_API_KEY"),
			GeminiModel:        v.GetString("GEMINI_MODEL"),
			OpenAIAPIKey:       v.GetString("OPENAI_API_KEY"),
			OpenAIModel:        v.GetString("OPENAI_MODEL"),
			RecommendPerMinute: v.GetInt("RECOMMEND_RATE_PER_MINUTE"),
		},
		SMTP: SMTPConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			Username: v.GetString("SMTP_USERNAME"),
			Password: v.GetString("SMTP_PASSWORD"),
			From:     v.GetString("SMTP_FROM"),
			FromName: v.GetString("SMTP_FROM_NAME"),
		},
		Wizard: WizardConfig{
			SessionTTL: ttl,
		},
	}
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.Username
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every missing required setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Database.URL == "" {
		errs = append(errs, errors.New("POSTGRES_URL is required"))
	}
	if c.Server.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	switch c.AI.Provider {
	case "gemini":
		if c.AI.GeminiAPIKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY is required when using Gemini provider"))
		}
	case "openai":
		if c.AI.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required when using OpenAI provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported AI_PROVIDER %q, use 'gemini' or 'openai'", c.AI.Provider))
	}
	if c.Wizard.SessionTTL <= 0 {
		errs = append(errs, errors.New("WIZARD_SESSION_TTL must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
