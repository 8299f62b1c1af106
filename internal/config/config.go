package config

import (
	"os"
	"strconv"

	"autolyze/internal/cluster"
	"autolyze/internal/errors"
)

// Config represents the complete application configuration. Credentials are
// explicit fields handed to adapters at construction, never read as ambient
// process state inside them.
type Config struct {
	AI       AIConfig
	Database DatabaseConfig
	Server   ServerConfig
	Output   OutputConfig
	Engine   EngineConfig
}

// AIConfig holds narrative-generation settings
type AIConfig struct {
	Token       string
	Model       string
	BaseURL     string
	MaxTokens   int
	Temperature float64
}

// DatabaseConfig holds run-store connection settings. Optional: with no URL
// the repository is disabled and runs are not persisted.
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string
}

// OutputConfig holds report output settings
type OutputConfig struct {
	Dir string
}

// EngineConfig holds analysis engine parameters
type EngineConfig struct {
	Epsilon   float64
	MinPoints int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		AI: AIConfig{
			Token:       firstEnv("AIPROXY_TOKEN", "OPENAI_API_KEY"),
			Model:       getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
			BaseURL:     getEnvOrDefault("OPENAI_BASE_URL", ""),
			MaxTokens:   getEnvIntOrDefault("OPENAI_MAX_TOKENS", 1500),
			Temperature: getEnvFloatOrDefault("OPENAI_TEMPERATURE", 0.7),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Output: OutputConfig{
			Dir: getEnvOrDefault("OUTPUT_DIR", "."),
		},
		Engine: EngineConfig{
			Epsilon:   getEnvFloatOrDefault("DBSCAN_EPSILON", cluster.DefaultEpsilon),
			MinPoints: getEnvIntOrDefault("DBSCAN_MIN_POINTS", cluster.DefaultMinPoints),
		},
	}

	if err := validate(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

// DensityConfig converts the engine settings into clustering parameters
func (c *Config) DensityConfig() cluster.DensityConfig {
	return cluster.DensityConfig{Epsilon: c.Engine.Epsilon, MinPoints: c.Engine.MinPoints}
}

func validate(c *Config) error {
	if c.Engine.Epsilon <= 0 {
		return errors.ConfigInvalid("DBSCAN_EPSILON must be > 0")
	}
	if c.Engine.MinPoints < 1 {
		return errors.ConfigInvalid("DBSCAN_MIN_POINTS must be >= 1")
	}
	if c.Server.Port == "" {
		return errors.ConfigInvalid("PORT must not be empty")
	}
	return nil
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloatOrDefault(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}
