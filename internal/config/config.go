// Package config provides application configuration management.
// It loads configuration from environment variables with support for .env files.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Engine   EngineConfig
	Pacing   PacingConfig
	Renderer RendererConfig
	Storage  StorageConfig
	Logging  LoggingConfig
	App      AppConfig
}

// ServerConfig holds HTTP server settings. The write timeout defaults to
// zero (disabled) because a discovery run holds its connection until the
// run completes, which can take hours for a large origin list.
type ServerConfig struct {
	Port         int           `env:"SERVER_PORT" envDefault:"8080"`
	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"0"`
}

// EngineConfig holds the discovery pipeline settings.
type EngineConfig struct {
	// HarvestWorkers and ExpandWorkers size the two stage pools
	// independently; expansion tolerates less concurrency.
	HarvestWorkers int `env:"ENGINE_HARVEST_WORKERS" envDefault:"5"`
	ExpandWorkers  int `env:"ENGINE_EXPAND_WORKERS" envDefault:"8"`

	// Threshold is the similar-priced band fraction against the reference
	// price.
	Threshold float64 `env:"ENGINE_THRESHOLD" envDefault:"0.10"`

	// TopK is how many of an origin's cheapest candidates get expanded.
	TopK int `env:"ENGINE_TOP_K" envDefault:"6"`

	// FallbackMinResults is the primary-strategy yield below which the
	// rendered fallback is tried.
	FallbackMinResults int `env:"ENGINE_FALLBACK_MIN_RESULTS" envDefault:"1"`

	// FetchTimeout bounds one remote fetch.
	FetchTimeout time.Duration `env:"ENGINE_FETCH_TIMEOUT" envDefault:"30s"`
}

// PacingConfig holds the batch and retry pacing knobs. The remote throttles
// softly (empty responses, no status code), so pacing is the main defense.
type PacingConfig struct {
	MajorBatchSize  int           `env:"PACING_MAJOR_BATCH_SIZE" envDefault:"25"`
	MiniBatchSize   int           `env:"PACING_MINI_BATCH_SIZE" envDefault:"5"`
	MajorCooldown   time.Duration `env:"PACING_MAJOR_COOLDOWN" envDefault:"10m"`
	MiniPause       time.Duration `env:"PACING_MINI_PAUSE" envDefault:"30s"`
	WorkerStagger   time.Duration `env:"PACING_WORKER_STAGGER" envDefault:"2s"`
	EmptyRetryDelay time.Duration `env:"PACING_EMPTY_RETRY_DELAY" envDefault:"45s"`
	BatchDeadline   time.Duration `env:"PACING_BATCH_DEADLINE" envDefault:"20m"`
	RequestsPerSec  float64       `env:"PACING_REQUESTS_PER_SEC" envDefault:"2.0"`
}

// RendererConfig holds the rendered-fallback browser settings.
type RendererConfig struct {
	Enabled  bool          `env:"RENDERER_ENABLED" envDefault:"true"`
	Headless bool          `env:"RENDERER_HEADLESS" envDefault:"true"`
	Timeout  time.Duration `env:"RENDERER_TIMEOUT" envDefault:"45s"`
}

// StorageConfig holds the optional deal store settings. An empty DSN runs
// the engine storage-free.
type StorageConfig struct {
	PostgresDSN string `env:"STORAGE_POSTGRES_DSN" envDefault:""`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Env string `env:"APP_ENV" envDefault:"development"`

	// AirportTablePath optionally points at a JSON file of extra
	// city-name to airport-code mappings merged over the built-ins.
	AirportTablePath string `env:"APP_AIRPORT_TABLE" envDefault:""`
}

// Load reads configuration from environment variables.
// It attempts to load a .env file first (optional - won't fail if missing).
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics on error.
// Use this in main() where configuration is required to start.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// validate checks configuration values for correctness.
func validate(cfg *Config) error {
	// Validate server port
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", cfg.Server.Port)
	}

	if cfg.Server.ReadTimeout <= 0 {
		return fmt.Errorf("SERVER_READ_TIMEOUT must be positive")
	}
	if cfg.Server.WriteTimeout < 0 {
		return fmt.Errorf("SERVER_WRITE_TIMEOUT must not be negative")
	}

	if cfg.Engine.HarvestWorkers < 1 {
		return fmt.Errorf("ENGINE_HARVEST_WORKERS must be at least 1, got %d", cfg.Engine.HarvestWorkers)
	}
	if cfg.Engine.ExpandWorkers < 1 {
		return fmt.Errorf("ENGINE_EXPAND_WORKERS must be at least 1, got %d", cfg.Engine.ExpandWorkers)
	}
	if cfg.Engine.Threshold <= 0 || cfg.Engine.Threshold >= 1 {
		return fmt.Errorf("ENGINE_THRESHOLD must be between 0 and 1 exclusive, got %g", cfg.Engine.Threshold)
	}
	if cfg.Engine.TopK < 1 {
		return fmt.Errorf("ENGINE_TOP_K must be at least 1, got %d", cfg.Engine.TopK)
	}
	if cfg.Engine.FetchTimeout <= 0 {
		return fmt.Errorf("ENGINE_FETCH_TIMEOUT must be positive")
	}

	if cfg.Pacing.MajorBatchSize < 1 {
		return fmt.Errorf("PACING_MAJOR_BATCH_SIZE must be at least 1, got %d", cfg.Pacing.MajorBatchSize)
	}
	if cfg.Pacing.MiniBatchSize < 1 {
		return fmt.Errorf("PACING_MINI_BATCH_SIZE must be at least 1, got %d", cfg.Pacing.MiniBatchSize)
	}

	// A mini batch bigger than its major batch would make the inner pacing
	// level a no-op.
	if cfg.Pacing.MiniBatchSize > cfg.Pacing.MajorBatchSize {
		return fmt.Errorf("PACING_MINI_BATCH_SIZE (%d) must not exceed PACING_MAJOR_BATCH_SIZE (%d)",
			cfg.Pacing.MiniBatchSize, cfg.Pacing.MajorBatchSize)
	}
	if cfg.Pacing.EmptyRetryDelay <= 0 {
		return fmt.Errorf("PACING_EMPTY_RETRY_DELAY must be positive")
	}
	if cfg.Pacing.RequestsPerSec <= 0 {
		return fmt.Errorf("PACING_REQUESTS_PER_SEC must be positive, got %g", cfg.Pacing.RequestsPerSec)
	}

	if cfg.Renderer.Enabled && cfg.Renderer.Timeout <= 0 {
		return fmt.Errorf("RENDERER_TIMEOUT must be positive when the renderer is enabled")
	}

	// Validate log level
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", cfg.Logging.Level)
	}

	// Validate log format
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console; got %q", cfg.Logging.Format)
	}

	// Validate app environment
	validEnvs := map[string]bool{"development": true, "staging": true, "production": true}
	if !validEnvs[cfg.App.Env] {
		return fmt.Errorf("APP_ENV must be one of: development, staging, production; got %q", cfg.App.Env)
	}

	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
