package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config contains runtime configuration values.
type Config struct {
	Environment        string
	HTTPPort           string
	DatabaseURL        string
	MongoURI           string
	MongoDatabase      string
	TokenSecret        string
	TokenTTL           time.Duration
	SessionWindow      time.Duration
	BcryptCost         int
	UploadDir          string
	UploadMaxBytes     int64
	ServiceName        string
	CORSAllowedOrigins []string
}

// Load reads configuration from the environment with sane defaults. A local
// .env file is honored when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Environment:        getEnv("APP_ENV", "development"),
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		MongoURI:           getEnv("MONGO_URI", "mongodb://127.0.0.1:27017"),
		MongoDatabase:      getEnv("MONGO_DATABASE", "udyog_retailersDB"),
		TokenSecret:        os.Getenv("TOKEN_SECRET"),
		TokenTTL:           getDuration("TOKEN_TTL", 30*24*time.Hour),
		SessionWindow:      getDuration("SESSION_WINDOW", 2*time.Hour),
		BcryptCost:         getInt("BCRYPT_COST", bcrypt.DefaultCost),
		UploadDir:          getEnv("UPLOAD_DIR", "uploads"),
		UploadMaxBytes:     int64(getInt("UPLOAD_MAX_BYTES", 10<<20)),
		ServiceName:        getEnv("SERVICE_NAME", "siksha-sanchalanam-backend"),
		CORSAllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.TokenSecret == "" {
		return Config{}, fmt.Errorf("TOKEN_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getList(key string, def []string) []string {
	if v, ok := os.LookupEnv(key); ok {
		parts := strings.Split(v, ",")
		var cleaned []string
		for _, p := range parts {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				cleaned = append(cleaned, trimmed)
			}
		}
		if len(cleaned) > 0 {
			return cleaned
		}
	}
	return def
}
