// Package config loads runtime settings from the environment and an optional
// .env file in the working directory.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	SurveyorAPIBaseURL string
	SurveyorTimeoutMs  int
	SurveyorRateRPS    int
	SurveyorMaxRetries int

	// LaborRate is the $/hour applied to install hours in equipment totals.
	LaborRate float64

	CategoryRulesFile string
	MaxUploadBytes    int64
	PersistImports    bool
	SitesConcurrency  int

	// SeedDemo inserts a sample import on first start.
	SeedDemo bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		SurveyorAPIBaseURL: getEnv("SURVEYOR_API_BASE_URL", "https://openapi.systemsurveyor.com/v3"),
		SurveyorTimeoutMs:  getEnvInt("SURVEYOR_TIMEOUT_MS", 30000),
		SurveyorRateRPS:    getEnvInt("SURVEYOR_RATE_LIMIT_RPS", 5),
		SurveyorMaxRetries: getEnvInt("SURVEYOR_MAX_RETRIES", 5),

		LaborRate: getEnvFloat("LABOR_RATE_PER_HOUR", 85),

		CategoryRulesFile: getEnv("CATEGORY_RULES_FILE", ""),
		MaxUploadBytes:    int64(getEnvInt("MAX_UPLOAD_MB", 10)) << 20,
		PersistImports:    getEnvBool("PERSIST_IMPORTS", true),
		SitesConcurrency:  getEnvInt("SITES_CONCURRENCY", 4),
		SeedDemo:          getEnvBool("SEED_DEMO_DATA", false),
	}

	if cfg.LaborRate < 0 {
		return Config{}, fmt.Errorf("LABOR_RATE_PER_HOUR must not be negative, got %v", cfg.LaborRate)
	}
	if cfg.SurveyorMaxRetries < 1 {
		cfg.SurveyorMaxRetries = 1
	}

	return cfg, nil
}

// Default returns the configuration with every fallback applied, ignoring the
// environment.
func Default() Config {
	return Config{
		SurveyorAPIBaseURL: "https://openapi.systemsurveyor.com/v3",
		SurveyorTimeoutMs:  30000,
		SurveyorRateRPS:    5,
		SurveyorMaxRetries: 5,
		LaborRate:          85,
		MaxUploadBytes:     10 << 20,
		PersistImports:     true,
		SitesConcurrency:   4,
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	switch value {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}
