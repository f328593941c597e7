package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DataSource  string
	AdminAddr   string
	APIAddr     string
	SessionDir  string
	Title       string
	LoadTimeout time.Duration
}

// Load reads configuration from the environment. Values in a local .env file
// are used for keys the environment doesn't set.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	loadTimeout, err := time.ParseDuration(getEnv("LOAD_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("LOAD_TIMEOUT: %w", err)
	}

	cfg := &Config{
		DataSource:  getEnv("DATA_SOURCE", "conversations.json"),
		AdminAddr:   getEnv("ADMIN_ADDR", "localhost:8081"),
		APIAddr:     getEnv("API_ADDR", ":8080"),
		SessionDir:  getEnv("SESSION_DIR", ""),
		Title:       getEnv("APP_TITLE", "Chats"),
		LoadTimeout: loadTimeout,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DataSource == "" {
		return fmt.Errorf("DATA_SOURCE must not be empty")
	}

	if c.LoadTimeout <= 0 {
		return fmt.Errorf("LOAD_TIMEOUT must be greater than 0")
	}

	if c.APIAddr == "" {
		return fmt.Errorf("API_ADDR must not be empty")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
