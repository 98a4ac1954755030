package config

import (
	"fmt"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StoragePostgres = "postgres"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool
	LogLevel     slog.Level

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	StorageDriver  string
	SnapshotDir    string
	DatabaseURL    string
	EnableDBCheck  bool
	MigrationsPath string
	RedisURL       string

	OTPTTL                time.Duration
	LoginRateLimit        string
	SeedEmployees         bool
	SeedPassword          string
	CustomerPasswordCheck bool
	CORSAllowedOrigins    []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "vaultix-backend")
	viper.SetDefault("STORAGE_DRIVER", StorageMemory)
	viper.SetDefault("SNAPSHOT_DIR", "./data")
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("OTP_TTL", "5m")
	viper.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	viper.SetDefault("SEED_EMPLOYEES", true)
	viper.SetDefault("SEED_PASSWORD", "demo123")
	viper.SetDefault("CUSTOMER_PASSWORD_CHECK", false)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{
		Port:                  viper.GetString("PORT"),
		IsProduction:          viper.GetBool("IS_PRODUCTION"),
		JWTSecret:             viper.GetString("JWT_SECRET"),
		JWTIssuer:             viper.GetString("JWT_ISSUER"),
		StorageDriver:         strings.ToLower(viper.GetString("STORAGE_DRIVER")),
		SnapshotDir:           viper.GetString("SNAPSHOT_DIR"),
		DatabaseURL:           viper.GetString("PGSQL_URL"),
		EnableDBCheck:         viper.GetBool("ENABLE_DB_CHECK"),
		MigrationsPath:        viper.GetString("MIGRATIONS_PATH"),
		RedisURL:              viper.GetString("REDIS_URL"),
		LoginRateLimit:        viper.GetString("LOGIN_RATE_LIMIT"),
		SeedEmployees:         viper.GetBool("SEED_EMPLOYEES"),
		SeedPassword:          viper.GetString("SEED_PASSWORD"),
		CustomerPasswordCheck: viper.GetBool("CUSTOMER_PASSWORD_CHECK"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(viper.GetString("LOG_LEVEL"))); err != nil {
		log.Printf("Warning: Invalid LOG_LEVEL ('%s'). Defaulting to info.\n", viper.GetString("LOG_LEVEL"))
		cfg.LogLevel = slog.LevelInfo
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTExpiryDuration = parseDuration("JWT_EXPIRY_DURATION", time.Hour)
	cfg.OTPTTL = parseDuration("OTP_TTL", 5*time.Minute)

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if o := strings.TrimSpace(origin); o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	switch cfg.StorageDriver {
	case StorageMemory, StorageFile:
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("STORAGE_DRIVER=postgres requires PGSQL_URL")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.IsProduction && cfg.SeedEmployees {
		log.Println("Warning: SEED_EMPLOYEES is enabled in production.")
	}

	return cfg, nil
}

func parseDuration(key string, fallback time.Duration) time.Duration {
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
