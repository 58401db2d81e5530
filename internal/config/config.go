package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration values for the bot
type Config struct {
	// Discord
	DiscordToken     string `env:"DISCORD_BOT_TOKEN"`
	DiscordChannelID string `env:"DISCORD_CHANNEL_ID"`

	// Game
	MaxSlots int `env:"MAX_SLOTS" envDefault:"999"`

	// Storage
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"file"`
	DataFile       string `env:"DATA_FILE"       envDefault:"./data/game_data.json"`
	StateFile      string `env:"STATE_FILE"      envDefault:"./data/bot_state.json"`
	DatabasePath   string `env:"DATABASE_PATH"   envDefault:"./data/bot.db"`

	// Administration
	AdminUserID string `env:"ADMIN_USER_ID"`
	Environment string `env:"APP_ENV" envDefault:"production"`

	// Metrics
	MetricsAddr string `env:"METRICS_ADDR"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads configuration from environment variables and requires a
// transport token
func Load() (*Config, error) {
	cfg, err := LoadStorage()
	if err != nil {
		return nil, err
	}

	if cfg.DiscordToken == "" {
		return nil, fmt.Errorf("DISCORD_BOT_TOKEN is required")
	}

	return cfg, nil
}

// LoadStorage reads configuration without requiring transport credentials,
// for offline tools
func LoadStorage() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.MaxSlots < 1 || c.MaxSlots > 999 {
		return fmt.Errorf("invalid MAX_SLOTS: %d (must be 1..999)", c.MaxSlots)
	}
	switch c.StorageBackend {
	case "file", "sqlite":
	default:
		return fmt.Errorf("invalid STORAGE_BACKEND: %q", c.StorageBackend)
	}
	return nil
}

// IsAdmin reports whether userID may run privileged commands
func (c *Config) IsAdmin(userID string) bool {
	if c.Environment == "development" {
		return true
	}
	return c.AdminUserID != "" && userID == c.AdminUserID
}
