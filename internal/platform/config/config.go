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
	Port         string
	IsProduction bool
	LogLevel     string
	BankName     string

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// AdminAPIKey guards the administrator routes. Empty disables them.
	AdminAPIKey string

	// LockTimeout bounds how long an operation waits for an account lock.
	LockTimeout time.Duration

	// LoginRateLimit is a ulule/limiter formatted rate, e.g. "5-M".
	LoginRateLimit string

	CORSAllowedOrigins []string
	SeedSampleData     bool
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("BANK_NAME", "Global Trust Bank")
	v.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	v.SetDefault("JWT_EXPIRY_DURATION", "15m")
	v.SetDefault("JWT_ISSUER", "bank-ledger")
	v.SetDefault("ADMIN_API_KEY", "")
	v.SetDefault("LOCK_TIMEOUT", "2s")
	v.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("SEED_SAMPLE_DATA", false)

	// Environment variables override both the defaults and the .env file.
	v.AutomaticEnv()

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Port:           v.GetString("PORT"),
		IsProduction:   v.GetBool("IS_PRODUCTION"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		BankName:       v.GetString("BANK_NAME"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		JWTIssuer:      v.GetString("JWT_ISSUER"),
		AdminAPIKey:    v.GetString("ADMIN_API_KEY"),
		LoginRateLimit: v.GetString("LOGIN_RATE_LIMIT"),
		SeedSampleData: v.GetBool("SEED_SAMPLE_DATA"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "bank-ledger"
	}

	if cfg.AdminAPIKey == "" {
		log.Println("Warning: ADMIN_API_KEY not set. Admin API will reject all requests.")
	}

	cfg.JWTExpiryDuration = parseDuration(v.GetString("JWT_EXPIRY_DURATION"), "JWT_EXPIRY_DURATION", 15*time.Minute)
	cfg.LockTimeout = parseDuration(v.GetString("LOCK_TIMEOUT"), "LOCK_TIMEOUT", 2*time.Second)

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg
}

func parseDuration(raw, key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}
