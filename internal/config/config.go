package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const minSecretLength = 32

var (
	ErrSecretMissing  = errors.New("SECRET_KEY is required")
	ErrSecretInsecure = errors.New("SECRET_KEY must be at least 32 characters and not a placeholder")
)

type Config struct {
	Port      string
	DBPath    string
	SecretKey string
	UploadDir string
	Timezone  string
	LogLevel  string
	LogPath   string
}

// Load reads an optional .env file, then the environment. It fails when the
// session secret is missing or obviously insecure.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		DBPath:    getEnv("DB_PATH", filepath.Join("data", "graft.db")),
		SecretKey: os.Getenv("SECRET_KEY"),
		UploadDir: getEnv("UPLOAD_DIR", filepath.Join("data", "uploads")),
		Timezone:  getEnv("TZ", "UTC"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPath:   os.Getenv("LOG_PATH"),
	}

	if err := validateSecret(cfg.SecretKey); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateSecret(secret string) error {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return ErrSecretMissing
	}
	if len(trimmed) < minSecretLength || trimmed == "change_me_in_production" {
		return ErrSecretInsecure
	}
	return nil
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
