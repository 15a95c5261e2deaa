package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          int
	DatabaseURL   string
	JWTSecret     string
	AdminEmail    string
	AdminPassword string
}

// Load reads configuration from the environment, with a .env file in the
// working directory as fallback for local development.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{Port: 8080}
	if portRaw := strings.TrimSpace(os.Getenv("PORT")); portRaw != "" {
		port, err := strconv.Atoi(portRaw)
		if err != nil || port <= 0 {
			return Config{}, fmt.Errorf("invalid PORT: %q", portRaw)
		}
		cfg.Port = port
	}

	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required (environment variable or .env)")
	}

	cfg.JWTSecret = strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required (environment variable or .env)")
	}

	// Bootstrap credentials for the seeded admin account.
	cfg.AdminEmail = strings.TrimSpace(os.Getenv("DEFAULT_ADMIN_EMAIL"))
	if cfg.AdminEmail == "" {
		cfg.AdminEmail = "admin@pos.local"
	}
	cfg.AdminPassword = os.Getenv("DEFAULT_ADMIN_PASSWORD")
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = "admin123"
	}

	return cfg, nil
}
