package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Storage drivers. The memory driver copies its whole state on every write
// and keeps nothing across restarts; it is refused in production.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL     string
	ReadDatabaseURL string // optional replica for balance and summary reads
	StorageDriver   string
	MigrationsPath  string
	Port            string
	IsProduction    bool
	LogLevel        string

	JWTSecret string
	JWTIssuer string

	DefaultCreditLimit    decimal.Decimal
	DefaultCurrency       string
	MaxPostingAttempts    int
	PostingRetryBaseDelay time.Duration

	RedisURL        string
	BalanceCacheTTL time.Duration

	RateLimit          string
	CORSAllowedOrigins []string
	MetricsEnabled     bool
}

func setDefaults() {
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PGSQL_READ_URL", "")
	viper.SetDefault("STORAGE_DRIVER", StoragePostgres)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "travel-ledger")
	viper.SetDefault("DEFAULT_CREDIT_LIMIT", "0")
	viper.SetDefault("DEFAULT_CURRENCY", "USD")
	viper.SetDefault("MAX_POSTING_ATTEMPTS", 3)
	viper.SetDefault("POSTING_RETRY_BASE_DELAY", "10ms")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("BALANCE_CACHE_TTL", "5s")
	viper.SetDefault("RATE_LIMIT", "200-S")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "")
	viper.SetDefault("METRICS_ENABLED", true)
}

// LoadConfig loads configuration from environment variables and .env file if present.
// Values bound to viper by the caller, such as command line flags, take precedence.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	setDefaults()
	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:     viper.GetString("PGSQL_URL"),
		ReadDatabaseURL: viper.GetString("PGSQL_READ_URL"),
		StorageDriver:   strings.ToLower(viper.GetString("STORAGE_DRIVER")),
		MigrationsPath:  viper.GetString("MIGRATIONS_PATH"),
		Port:            viper.GetString("PORT"),
		IsProduction:    viper.GetBool("IS_PRODUCTION"),
		LogLevel:        strings.ToLower(viper.GetString("LOG_LEVEL")),
		JWTSecret:       viper.GetString("JWT_SECRET"),
		JWTIssuer:       viper.GetString("JWT_ISSUER"),
		DefaultCurrency: strings.ToUpper(viper.GetString("DEFAULT_CURRENCY")),
		RedisURL:        viper.GetString("REDIS_URL"),
		RateLimit:       viper.GetString("RATE_LIMIT"),
		MetricsEnabled:  viper.GetBool("METRICS_ENABLED"),
	}

	if cfg.StorageDriver != StorageMemory && cfg.StorageDriver != StoragePostgres {
		log.Printf("Warning: Unknown STORAGE_DRIVER ('%s'). Defaulting to %s.\n", cfg.StorageDriver, StoragePostgres)
		cfg.StorageDriver = StoragePostgres
	}
	if cfg.StorageDriver == StorageMemory && cfg.IsProduction {
		return nil, fmt.Errorf("STORAGE_DRIVER=%s is not allowed when IS_PRODUCTION is set", StorageMemory)
	}
	if cfg.StorageDriver == StoragePostgres && cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	limitStr := viper.GetString("DEFAULT_CREDIT_LIMIT")
	limit, err := decimal.NewFromString(limitStr)
	if err != nil || limit.IsNegative() {
		limit = decimal.Zero
		log.Printf("Warning: Invalid value for DEFAULT_CREDIT_LIMIT ('%s'). Defaulting to 0.\n", limitStr)
	}
	cfg.DefaultCreditLimit = limit

	cfg.MaxPostingAttempts = viper.GetInt("MAX_POSTING_ATTEMPTS")
	if cfg.MaxPostingAttempts < 1 {
		log.Printf("Warning: Invalid value for MAX_POSTING_ATTEMPTS (%d). Defaulting to 3.\n", cfg.MaxPostingAttempts)
		cfg.MaxPostingAttempts = 3
	}

	cfg.PostingRetryBaseDelay = durationOr("POSTING_RETRY_BASE_DELAY", 10*time.Millisecond)
	cfg.BalanceCacheTTL = durationOr("BALANCE_CACHE_TTL", 5*time.Second)

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg, nil
}

func durationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}
