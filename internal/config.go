package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string
	Port     uint16
	MongoURI string
	Database string
	BaseURL  string
	Admin    AdminConfig
}

// AdminConfig contains initial admin user configuration.
// These values are only used on first startup to create the admin user.
type AdminConfig struct {
	Email    string
	Password string
	Username string
}

func NewConfig() (*Config, error) {
	// Try to load .env from current directory, then walk up to find it (max 2 levels)
	err := godotenv.Load()
	if err != nil {
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Warn("Warning: .env file not found, using environment variables and defaults")
		}
	}

	cfg := &Config{
		Env:      getEnv("ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Port:     getEnvInt("PORT", 3000),
		MongoURI: getEnv("MONGO_URI", "mongodb://localhost:27017"),
		Database: getEnv("MONGO_DATABASE", "bazaar"),
		BaseURL:  getEnv("BASE_URL", "http://localhost:3000"),
		Admin: AdminConfig{
			Email:    getEnv("BAZAAR_ADMIN_EMAIL", ""),
			Password: getEnv("BAZAAR_ADMIN_PASSWORD", ""),
			Username: getEnv("BAZAAR_ADMIN_USERNAME", "admin"),
		},
	}

	// Validate env
	validEnv := cfg.Env == "dev" || cfg.Env == "prod"
	if !validEnv {
		slog.Default().Warn("Invalid environment. Using default: prod", slog.String("env", cfg.Env))
		cfg.Env = "prod"
	}

	// Validate log level
	validLevel := cfg.LogLevel == "info" || cfg.LogLevel == "debug" || cfg.LogLevel == "warn" || cfg.LogLevel == "error"
	if !validLevel {
		slog.Default().Warn("Invalid log level. Using default: info", slog.String("value", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	// The admin account is created through the normal hashed-credential path,
	// so a production deployment must provide real credentials up front.
	if cfg.Env == "prod" && (cfg.Admin.Email == "" || cfg.Admin.Password == "") {
		return nil, fmt.Errorf("BAZAAR_ADMIN_EMAIL and BAZAAR_ADMIN_PASSWORD must be set in production")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue uint16) uint16 {
	if value := os.Getenv(key); value != "" {
		var intValue uint16
		if _, err := fmt.Sscanf(value, "%d", &intValue); err == nil {
			return intValue
		}
	}
	return defaultValue
}
