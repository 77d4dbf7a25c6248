package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration
type Config struct {
	DatabaseURL string
	Port        string
	JWTSecret   string
	DevMode     bool
	LogLevel    string

	AllowedOrigins []string
	// TrustProxy takes the client address from X-Forwarded-For / X-Real-Ip.
	// Only enable behind a proxy that overwrites those headers.
	TrustProxy bool

	// OTP store: Redis when RedisAddr is set, process memory otherwise
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	OTPSweepInterval time.Duration
	OTPRetention     time.Duration

	// Dispatch channels; an empty host/region leaves the channel unconfigured
	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string
	SNSRegion    string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:     "8080", // default port
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	cfg.DatabaseURL = databaseURL

	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	cfg.JWTSecret = jwtSecret

	cfg.DevMode = os.Getenv("DEV_MODE") == "true"
	cfg.AllowedOrigins = strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ",")
	cfg.TrustProxy = os.Getenv("TRUST_PROXY") == "true"

	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	cfg.RedisDB = redisDB

	if cfg.OTPSweepInterval, err = getEnvDuration("OTP_SWEEP_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.OTPRetention, err = getEnvDuration("OTP_RETENTION", 10*time.Minute); err != nil {
		return nil, err
	}

	cfg.SMTPHost = os.Getenv("SMTP_HOST")
	cfg.SMTPPort = getEnv("SMTP_PORT", "587")
	cfg.SMTPFrom = getEnv("SMTP_FROM", "noreply@propertybazaar.in")
	cfg.SMTPUsername = os.Getenv("SMTP_USERNAME")
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.SNSRegion = os.Getenv("SNS_REGION")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}
