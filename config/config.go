package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting the server needs. It is loaded once in
// main and handed to the components that need it, so nothing deeper down
// reads the environment on its own.
type Config struct {
	Port   string
	DBURL  string
	DBName string

	// JWTSecret signs session tokens; fixed for the process lifetime.
	JWTSecret string
	// TokenTTL is the lifetime of an issued session token.
	TokenTTL time.Duration

	GCSBucket          string
	GCSCredentialsFile string

	AdminAccount  string
	AdminEmail    string
	AdminPassword string
}

// Load reads .env (if present) and assembles the config. It fails on
// settings the server cannot run without.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{
		Port:               os.Getenv("PORT"),
		DBURL:              os.Getenv("DB_URL"),
		DBName:             os.Getenv("DB_NAME"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		TokenTTL:           tokenTTL(),
		GCSBucket:          os.Getenv("GCS_BUCKET"),
		GCSCredentialsFile: os.Getenv("CREDENTIALS_FILE_LOCATION"),
		AdminAccount:       os.Getenv("ADMIN_ACCOUNT"),
		AdminEmail:         os.Getenv("ADMIN_EMAIL"),
		AdminPassword:      os.Getenv("ADMIN_PASSWORD"),
	}

	if cfg.Port == "" {
		cfg.Port = "4000"
	}
	if cfg.DBName == "" {
		cfg.DBName = "shop"
	}
	if cfg.DBURL == "" {
		return nil, fmt.Errorf("missing DB_URL env var")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing JWT_SECRET env var")
	}

	return cfg, nil
}

func tokenTTL() time.Duration {
	days, _ := strconv.Atoi(os.Getenv("TOKEN_TTL_DAYS"))
	if days <= 0 {
		days = 7
	}
	return time.Duration(days) * 24 * time.Hour
}
