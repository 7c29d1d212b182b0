package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"marketpulse/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Pipeline PipelineConfig
	Source   SourceConfig
	Refresh  RefreshConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL     string
	SSLMode string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string
	ShutdownTimeout time.Duration
}

// PipelineConfig holds analysis pipeline settings
type PipelineConfig struct {
	RegistryFile        string  // optional override for the embedded field registry
	SampleSize          int     // distinct samples kept per column profile
	TypeThreshold       float64 // parse share a type needs to win a column
	TimeSeriesThreshold float64 // non-decreasing share for time-series detection
}

// SourceConfig holds integration export file settings
type SourceConfig struct {
	DataDir string // directory of per-integration export files
}

// RefreshConfig holds scheduled re-analysis settings
type RefreshConfig struct {
	Enabled  bool
	Interval time.Duration
	Workers  int
}

// Load reads configuration from the environment (and .env when present)
// and validates it.
func Load() (*Config, error) {
	// .env is a development convenience; missing files are fine
	_ = godotenv.Load()

	config := &Config{
		Database: DatabaseConfig{
			URL:     os.Getenv("DATABASE_URL"),
			SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
		},
		Server: ServerConfig{
			Port:            getEnvOrDefault("PORT", "8080"),
			ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Pipeline: PipelineConfig{
			RegistryFile:        getEnvOrDefault("FIELD_REGISTRY_FILE", ""),
			SampleSize:          getEnvIntOrDefault("PROFILE_SAMPLE_SIZE", 5),
			TypeThreshold:       getEnvFloatOrDefault("PROFILE_TYPE_THRESHOLD", 0.9),
			TimeSeriesThreshold: getEnvFloatOrDefault("PROFILE_TIMESERIES_THRESHOLD", 0.8),
		},
		Source: SourceConfig{
			DataDir: getEnvOrDefault("EXPORT_DATA_DIR", "./data"),
		},
		Refresh: RefreshConfig{
			Enabled:  getEnvBoolOrDefault("REFRESH_ENABLED", false),
			Interval: getEnvDurationOrDefault("REFRESH_INTERVAL", 24*time.Hour),
			Workers:  getEnvIntOrDefault("REFRESH_WORKERS", 4),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Database.URL == "" {
		return errors.ConfigInvalid("DATABASE_URL is required")
	}
	if config.Pipeline.TypeThreshold <= 0 || config.Pipeline.TypeThreshold > 1 {
		return errors.ConfigInvalid("PROFILE_TYPE_THRESHOLD must be in (0,1]")
	}
	if config.Pipeline.TimeSeriesThreshold <= 0 || config.Pipeline.TimeSeriesThreshold > 1 {
		return errors.ConfigInvalid("PROFILE_TIMESERIES_THRESHOLD must be in (0,1]")
	}
	if config.Refresh.Workers < 1 {
		return errors.ConfigInvalid("REFRESH_WORKERS must be at least 1")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
