package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every process-wide setting. It is loaded once in main and
// passed down into handlers; nothing mutates it after Load returns.
type Config struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	ServiceAccount  string        `env:"GOOGLE_APPLICATION_CREDENTIALS"`
	DatabaseURL     string        `env:"FIREBASE_DATABASE_URL"`
	StorageBucket   string        `env:"FIREBASE_STORAGE_BUCKET"`
	AdminUID        string        `env:"ADMIN_UID"`
	AllowSignUp     bool          `env:"ALLOW_SIGNUP" envDefault:"true"`
	SignedURLExpiry time.Duration `env:"SIGNED_URL_EXPIRY" envDefault:"87600h"`
}

func Load() (*Config, error) {
	// .env is optional outside local development
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.ServiceAccount == "" {
		return nil, errors.New("GOOGLE_APPLICATION_CREDENTIALS is not set")
	}
	if cfg.AdminUID == "" {
		return nil, errors.New("ADMIN_UID must be configured with the admin's UID")
	}

	return cfg, nil
}
