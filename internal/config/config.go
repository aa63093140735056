package config

import (
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage backends accepted in CHECKIN_STORAGE
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// Config holds the application configuration
type Config struct {
	HotelName string `env:"HOTEL_NAME" envDefault:"Hotel"`

	DataDir    string `env:"CHECKIN_DATA_DIR" envDefault:"data"`
	Storage    string `env:"CHECKIN_STORAGE" envDefault:"file"`
	SQLitePath string `env:"CHECKIN_SQLITE_PATH"`

	Redis RedisConfig

	HTTPAddr string `env:"CHECKIN_HTTP_ADDR"`
	GinMode  string `env:"GIN_MODE" envDefault:"release"`

	WhatsAppEnabled bool   `env:"WHATSAPP_ENABLED" envDefault:"false"`
	WhatsAppDataDir string `env:"WHATSAPP_DATA_DIR" envDefault:"data"`
	DeskPhone       string `env:"DESK_PHONE"`
	CountryCode     string `env:"WHATSAPP_COUNTRY_CODE"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// RedisConfig holds the Redis connection settings
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Username string `env:"REDIS_USER"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// LoadConfig loads configuration from environment variables, reading a .env
// file first when one is present
func LoadConfig() (*Config, error) {
	// A missing .env is fine; the process environment is used as is
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

// Validate checks settings that cannot be expressed as defaults
func (c *Config) Validate() error {
	switch c.Storage {
	case StorageFile, StorageSQLite, StorageRedis, StorageMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage)
	}
	if c.WhatsAppEnabled && c.DeskPhone == "" {
		return fmt.Errorf("DESK_PHONE is required when WhatsApp is enabled")
	}
	return nil
}

// SQLiteFile returns the SQLite database path, defaulting into DataDir
func (c *Config) SQLiteFile() string {
	if c.SQLitePath != "" {
		return c.SQLitePath
	}
	return filepath.Join(c.DataDir, "checkins.db")
}
