/*
Package configs is responsible for loading and validating the application's configuration.

Settings come from environment variables, optionally seeded from a .env file in the working
directory. They cover the running environment, listen port, websocket origin policy, static
asset directory and the sources of the profanity word list.
*/
package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// AppConfig contains all configuration parameters required for the application to run.
type AppConfig struct {
	// General Server Settings
	Environment string `env:"ENVIRONMENT" envDefault:"development" validate:"oneof=development staging production test"`
	Port        int    `env:"PORT"        envDefault:"3000"        validate:"min=1024,max=65535"`

	// Security Settings
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	// Static client assets. Empty disables file serving.
	PublicDir string `env:"PUBLIC_DIR"`

	// Profanity Filter Settings
	ProfanityWordsFile string `env:"PROFANITY_WORDS_FILE"`
	ProfanityS3Key     string `env:"PROFANITY_S3_KEY"`

	// S3 Storage Settings, required only when ProfanityS3Key is set.
	S3BucketName      string `env:"S3_BUCKET_NAME"       validate:"required_with=ProfanityS3Key"`
	S3Endpoint        string `env:"S3_ENDPOINT"          validate:"required_with=ProfanityS3Key"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"     validate:"required_with=ProfanityS3Key"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY" validate:"required_with=ProfanityS3Key"`
}

// IsDevelopment reports whether the server runs with development defaults.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// LoadConfig loads .env (if present), parses the environment and validates the result.
func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	return Parse()
}

// Parse builds an AppConfig from the current environment without touching .env.
func Parse() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	cfg.AllowedOrigins = cleanList(cfg.AllowedOrigins)

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// cleanList trims entries and drops empty ones.
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
