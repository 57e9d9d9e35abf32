package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// FX domain
	FxCanonicalBase    string
	FxRateProvider     string
	FxFallbackProvider string

	// Provider HTTP policy
	RequestTimeout        time.Duration
	RatesAPIBaseURL       string
	RatesAPIMaxRetries    int
	RatesAPIBackoff       time.Duration
	FrankfurterBaseURL    string
	FrankfurterRetries    int
	FrankfurterBackoff    time.Duration
	ProviderBackoffJitter time.Duration

	// Refresh and scheduling
	RefreshThrottle  time.Duration
	SchedulerEnabled bool
	RatesRefreshCron string

	// CORS
	CORSAllowedOrigins []string

	// Development helpers
	SeedDemoData bool
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)

	viper.SetDefault("FX_CANONICAL_BASE", "USD")
	viper.SetDefault("FX_RATE_PROVIDER", "exchange")
	viper.SetDefault("FX_FALLBACK_PROVIDER", "ecb")

	viper.SetDefault("REQUEST_TIMEOUT_SECONDS", 5)
	viper.SetDefault("RATES_API_BASE_URL", "https://api.exchangerate.host")
	viper.SetDefault("RATES_API_MAX_RETRIES", 3)
	viper.SetDefault("RATES_API_BACKOFF_SECONDS", 0.5)
	viper.SetDefault("FRANKFURTER_API_BASE_URL", "https://api.frankfurter.app")
	viper.SetDefault("FRANKFURTER_API_MAX_RETRIES", 3)
	viper.SetDefault("FRANKFURTER_API_BACKOFF_SECONDS", 0.5)
	viper.SetDefault("PROVIDER_BACKOFF_JITTER_SECONDS", 0.2)

	viper.SetDefault("REFRESH_THROTTLE_SECONDS", 60)
	viper.SetDefault("SCHEDULER_ENABLED", true)
	viper.SetDefault("RATES_REFRESH_CRON", "0 * * * *")

	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.SetDefault("SEED_DEMO_DATA", false)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.FxCanonicalBase = strings.ToUpper(strings.TrimSpace(viper.GetString("FX_CANONICAL_BASE")))
	if cfg.FxCanonicalBase == "" {
		cfg.FxCanonicalBase = "USD"
		log.Printf("Warning: FX_CANONICAL_BASE not set. Defaulting to %s.\n", cfg.FxCanonicalBase)
	}
	cfg.FxRateProvider = strings.ToLower(strings.TrimSpace(viper.GetString("FX_RATE_PROVIDER")))
	cfg.FxFallbackProvider = strings.ToLower(strings.TrimSpace(viper.GetString("FX_FALLBACK_PROVIDER")))

	cfg.RequestTimeout = secondsDuration("REQUEST_TIMEOUT_SECONDS", 5*time.Second)
	cfg.RatesAPIBaseURL = viper.GetString("RATES_API_BASE_URL")
	cfg.RatesAPIMaxRetries = viper.GetInt("RATES_API_MAX_RETRIES")
	cfg.RatesAPIBackoff = secondsDuration("RATES_API_BACKOFF_SECONDS", 500*time.Millisecond)
	cfg.FrankfurterBaseURL = viper.GetString("FRANKFURTER_API_BASE_URL")
	cfg.FrankfurterRetries = viper.GetInt("FRANKFURTER_API_MAX_RETRIES")
	cfg.FrankfurterBackoff = secondsDuration("FRANKFURTER_API_BACKOFF_SECONDS", 500*time.Millisecond)
	cfg.ProviderBackoffJitter = secondsDuration("PROVIDER_BACKOFF_JITTER_SECONDS", 200*time.Millisecond)

	cfg.RefreshThrottle = secondsDuration("REFRESH_THROTTLE_SECONDS", time.Minute)
	cfg.SchedulerEnabled = viper.GetBool("SCHEDULER_ENABLED")
	cfg.RatesRefreshCron = viper.GetString("RATES_REFRESH_CRON")

	cfg.CORSAllowedOrigins = splitAndTrim(viper.GetString("CORS_ALLOWED_ORIGINS"))

	cfg.SeedDemoData = viper.GetBool("SEED_DEMO_DATA")

	return cfg, nil
}

// secondsDuration reads a float seconds value, falling back when unset or
// non-positive.
func secondsDuration(key string, fallback time.Duration) time.Duration {
	seconds := viper.GetFloat64(key)
	if seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds * float64(time.Second))
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
