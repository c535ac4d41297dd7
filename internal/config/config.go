package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DatabasePath      string
	FMPBaseURL        string
	FMPAPIKey         string
	CTGovBaseURL      string
	ChEMBLBaseURL     string
	RankingServiceURL string
	LogLevel          string
	Port              int
	DevMode           bool
	MockProviders     bool
	ProfileSyncCron   string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnvAsInt("PORT", 8080),
		DevMode:           getEnvAsBool("DEV_MODE", false),
		DatabasePath:      getEnv("DATABASE_PATH", "./data/atlas.db"),
		FMPBaseURL:        getEnv("FMP_BASE_URL", "https://financialmodelingprep.com/stable"),
		FMPAPIKey:         getEnv("FMP_API_KEY", ""),
		CTGovBaseURL:      getEnv("CTGOV_BASE_URL", "https://clinicaltrials.gov/api/v2"),
		ChEMBLBaseURL:     getEnv("CHEMBL_BASE_URL", "https://www.ebi.ac.uk/chembl/api/data"),
		RankingServiceURL: getEnv("RANKING_SERVICE_URL", "http://localhost:8000"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		MockProviders:     getEnvAsBool("MOCK_PROVIDERS", false),
		// Nightly refresh of stored financial snapshots (cron with seconds field)
		ProfileSyncCron: getEnv("PROFILE_SYNC_CRON", "0 0 3 * * *"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}

	// Note: FMP credentials optional — providers fall back to deterministic
	// placeholder data when unavailable.

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
