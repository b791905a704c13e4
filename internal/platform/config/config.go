package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Notification providers understood by NOTIFY_PROVIDER.
const (
	NotifyProviderLog      = "log"
	NotifyProviderWhatsApp = "whatsapp"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	LogLevel      string

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	CORSAllowedOrigins []string
	// RateLimit uses the ulule/limiter formatted rate, e.g. "100-M".
	RateLimit string

	MetricsEnabled bool

	// Notification gateway
	NotifyProvider        string
	NotifyDispatchTimeout time.Duration
	WhatsAppAPIURL        string
	WhatsAppTokenURL      string
	WhatsAppClientID      string
	WhatsAppClientSecret  string

	// LifecycleMaxRetries bounds how often a vehicle write is retried after a version conflict.
	LifecycleMaxRetries int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_EXPIRY_DURATION", "12h")
	v.SetDefault("JWT_ISSUER", "fitment-console")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("NOTIFY_PROVIDER", NotifyProviderLog)
	v.SetDefault("NOTIFY_DISPATCH_TIMEOUT", "15s")
	v.SetDefault("WHATSAPP_API_URL", "")
	v.SetDefault("WHATSAPP_TOKEN_URL", "")
	v.SetDefault("WHATSAPP_CLIENT_ID", "")
	v.SetDefault("WHATSAPP_CLIENT_SECRET", "")
	v.SetDefault("LIFECYCLE_MAX_RETRIES", 3)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabaseURL:          v.GetString("PGSQL_URL"),
		Port:                 v.GetString("PORT"),
		IsProduction:         v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:        v.GetBool("ENABLE_DB_CHECK"),
		LogLevel:             strings.ToLower(v.GetString("LOG_LEVEL")),
		JWTSecret:            v.GetString("JWT_SECRET"),
		JWTIssuer:            v.GetString("JWT_ISSUER"),
		RateLimit:            v.GetString("RATE_LIMIT"),
		MetricsEnabled:       v.GetBool("METRICS_ENABLED"),
		NotifyProvider:       strings.ToLower(v.GetString("NOTIFY_PROVIDER")),
		WhatsAppAPIURL:       v.GetString("WHATSAPP_API_URL"),
		WhatsAppTokenURL:     v.GetString("WHATSAPP_TOKEN_URL"),
		WhatsAppClientID:     v.GetString("WHATSAPP_CLIENT_ID"),
		WhatsAppClientSecret: v.GetString("WHATSAPP_CLIENT_SECRET"),
		LifecycleMaxRetries:  v.GetInt("LIFECYCLE_MAX_RETRIES"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	cfg.JWTExpiryDuration = parseDuration(v, "JWT_EXPIRY_DURATION", 12*time.Hour)
	cfg.NotifyDispatchTimeout = parseDuration(v, "NOTIFY_DISPATCH_TIMEOUT", 15*time.Second)

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	if cfg.LifecycleMaxRetries < 1 {
		log.Printf("Warning: LIFECYCLE_MAX_RETRIES must be at least 1, got %d. Defaulting to 3.\n", cfg.LifecycleMaxRetries)
		cfg.LifecycleMaxRetries = 3
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects combinations that cannot work at runtime.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.JWTSecret == defaultJWTSecret {
		if c.IsProduction {
			return errors.New("JWT_SECRET must be set in production")
		}
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	switch c.NotifyProvider {
	case NotifyProviderLog:
	case NotifyProviderWhatsApp:
		if c.WhatsAppAPIURL == "" || c.WhatsAppTokenURL == "" || c.WhatsAppClientID == "" || c.WhatsAppClientSecret == "" {
			return errors.New("NOTIFY_PROVIDER=whatsapp requires WHATSAPP_API_URL, WHATSAPP_TOKEN_URL, WHATSAPP_CLIENT_ID and WHATSAPP_CLIENT_SECRET")
		}
	default:
		return fmt.Errorf("unknown NOTIFY_PROVIDER %q", c.NotifyProvider)
	}
	return nil
}

func parseDuration(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}
