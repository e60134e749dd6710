package config

import (
	"os"

	"github.com/iAmmar7/api-audit-rail/internal/constants"
	"github.com/iAmmar7/api-audit-rail/internal/utils"
)

type Config struct {
	AppName string
	AppPort string
	AppUrl  string

	// Database
	DBUrl string

	// Auth
	JWTSecret string

	// Escalation
	EscalationSchedule string

	// Evidence blob storage. Driver is "disk" or "s3".
	BlobDriver     string
	BlobRoot       string
	BlobPublicBase string
	S3Bucket       string
	S3Prefix       string

	SeedTestData bool
}

// LoadConfig reads everything from the environment. Missing required
// values are fatal; the process has nothing useful to do without them.
func LoadConfig() *Config {
	cfg := &Config{
		AppName:            getEnv("APP_NAME", "audit-rail"),
		AppPort:            getEnv("APP_PORT", "8080"),
		AppUrl:             getEnv("APP_URL", "http://localhost:8080"),
		DBUrl:              os.Getenv("DATABASE_URL"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		EscalationSchedule: getEnv("ESCALATION_SCHEDULE", constants.DefaultEscalationSchedule),
		BlobDriver:         getEnv("BLOB_DRIVER", "disk"),
		BlobRoot:           getEnv("BLOB_ROOT", "./uploads"),
		BlobPublicBase:     getEnv("BLOB_PUBLIC_BASE", "/uploads"),
		S3Bucket:           os.Getenv("S3_BUCKET"),
		S3Prefix:           os.Getenv("S3_PREFIX"),
		SeedTestData:       os.Getenv("SEED_TEST_DATA") == "true",
	}

	if cfg.DBUrl == "" {
		utils.Logger.Fatal("DATABASE_URL env var missing")
	}
	if cfg.JWTSecret == "" {
		utils.Logger.Fatal("JWT_SECRET env var missing")
	}
	if cfg.BlobDriver == "s3" && cfg.S3Bucket == "" {
		utils.Logger.Fatal("S3_BUCKET env var missing for s3 blob driver")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
