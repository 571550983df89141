package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port            string
	SupabaseURL     string
	SupabaseAnonKey string
	MongoDBURI      string
	MongoDBPassword string
	Environment     string
	LogLevel        string

	// Outbound fetch behavior for the event pipeline. These are the only
	// tunables that affect core logic.
	ExtractTimeout   time.Duration
	LinkCheckTimeout time.Duration
	MaxRedirectHops  int
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:             getEnvWithDefault("PORT", "8080"),
		SupabaseURL:      os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey:  os.Getenv("SUPABASE_URL_ANON_KEY"),
		MongoDBURI:       os.Getenv("MONGODB_URI"),
		MongoDBPassword:  os.Getenv("MONGODB_PASSWORD"),
		Environment:      getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:         getEnvWithDefault("LOG_LEVEL", "info"),
		ExtractTimeout:   getDurationWithDefault("EXTRACT_TIMEOUT", 15*time.Second),
		LinkCheckTimeout: getDurationWithDefault("LINK_CHECK_TIMEOUT", 10*time.Second),
		MaxRedirectHops:  getIntWithDefault("LINK_CHECK_MAX_HOPS", 5),
	}

	if cfg.SupabaseURL == "" {
		return nil, fmt.Errorf("SUPABASE_URL is required")
	}
	if cfg.SupabaseAnonKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL_ANON_KEY is required")
	}
	if cfg.MongoDBURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
