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

const insecureDefaultSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	MigrationsPath string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool

	// Tokens are issued by the identity service; this service only verifies them.
	JWTSecret string
	JWTIssuer string

	// Pricing and cart
	SettlementCurrency string
	ServiceFeePercent  decimal.Decimal
	RateStaleAfter     time.Duration
	CartExpiry         time.Duration
	LiveRateCurrencies []string
	LiveRateCacheTTL   time.Duration

	// Paystack
	PaystackBaseURL     string
	PaystackSecretKey   string
	PaystackCallbackURL string
	PaystackTimeout     time.Duration

	CredentialEncryptionKey string

	// Infrastructure
	RedisURL           string
	RateLimit          string
	CORSAllowedOrigins []string
	WebhookWorkers     int
	WebhookQueueSize   int
	WebhookMaxAttempts int

	// Observability
	PosthogAPIKey   string
	PosthogEndpoint string
	OTelEnabled     bool
	OTelEndpoint    string
	ServiceName     string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", insecureDefaultSecret)
	viper.SetDefault("JWT_ISSUER", "kudi-identity")
	viper.SetDefault("SETTLEMENT_CURRENCY", "NGN")
	viper.SetDefault("SERVICE_FEE_PERCENT", "2")
	viper.SetDefault("RATE_STALE_AFTER", "24h")
	viper.SetDefault("CART_EXPIRY", "168h")
	viper.SetDefault("LIVE_RATE_CURRENCIES", "USD,EUR,GBP")
	viper.SetDefault("LIVE_RATE_CACHE_TTL", "5m")
	viper.SetDefault("PAYSTACK_BASE_URL", "https://api.paystack.co")
	viper.SetDefault("PAYSTACK_SECRET_KEY", "")
	viper.SetDefault("PAYSTACK_CALLBACK_URL", "")
	viper.SetDefault("PAYSTACK_TIMEOUT", "30s")
	viper.SetDefault("CREDENTIAL_ENCRYPTION_KEY", "")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("WEBHOOK_WORKERS", 4)
	viper.SetDefault("WEBHOOK_QUEUE_SIZE", 256)
	viper.SetDefault("WEBHOOK_MAX_ATTEMPTS", 5)
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")
	viper.SetDefault("OTEL_ENABLED", false)
	viper.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	viper.SetDefault("OTEL_SERVICE_NAME", "kudi-commerce")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:             viper.GetString("PGSQL_URL"),
		MigrationsPath:          viper.GetString("MIGRATIONS_PATH"),
		Port:                    viper.GetString("PORT"),
		IsProduction:            viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:           viper.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:               viper.GetString("JWT_SECRET"),
		JWTIssuer:               viper.GetString("JWT_ISSUER"),
		SettlementCurrency:      strings.ToUpper(strings.TrimSpace(viper.GetString("SETTLEMENT_CURRENCY"))),
		RateStaleAfter:          durationOrDefault("RATE_STALE_AFTER", 24*time.Hour),
		CartExpiry:              durationOrDefault("CART_EXPIRY", 7*24*time.Hour),
		LiveRateCurrencies:      splitList(viper.GetString("LIVE_RATE_CURRENCIES"), true),
		LiveRateCacheTTL:        durationOrDefault("LIVE_RATE_CACHE_TTL", 5*time.Minute),
		PaystackBaseURL:         strings.TrimRight(viper.GetString("PAYSTACK_BASE_URL"), "/"),
		PaystackSecretKey:       viper.GetString("PAYSTACK_SECRET_KEY"),
		PaystackCallbackURL:     viper.GetString("PAYSTACK_CALLBACK_URL"),
		PaystackTimeout:         durationOrDefault("PAYSTACK_TIMEOUT", 30*time.Second),
		CredentialEncryptionKey: viper.GetString("CREDENTIAL_ENCRYPTION_KEY"),
		RedisURL:                viper.GetString("REDIS_URL"),
		RateLimit:               viper.GetString("RATE_LIMIT"),
		CORSAllowedOrigins:      splitList(viper.GetString("CORS_ALLOWED_ORIGINS"), false),
		WebhookWorkers:          viper.GetInt("WEBHOOK_WORKERS"),
		WebhookQueueSize:        viper.GetInt("WEBHOOK_QUEUE_SIZE"),
		WebhookMaxAttempts:      viper.GetInt("WEBHOOK_MAX_ATTEMPTS"),
		PosthogAPIKey:           viper.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint:         viper.GetString("POSTHOG_ENDPOINT"),
		OTelEnabled:             viper.GetBool("OTEL_ENABLED"),
		OTelEndpoint:            viper.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceName:             viper.GetString("OTEL_SERVICE_NAME"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	fee, err := decimal.NewFromString(viper.GetString("SERVICE_FEE_PERCENT"))
	if err != nil || !fee.IsPositive() {
		return nil, fmt.Errorf("invalid SERVICE_FEE_PERCENT %q", viper.GetString("SERVICE_FEE_PERCENT"))
	}
	cfg.ServiceFeePercent = fee

	if cfg.JWTSecret == "" || cfg.JWTSecret == insecureDefaultSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = insecureDefaultSecret
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.CredentialEncryptionKey == "" {
		if cfg.IsProduction {
			return nil, fmt.Errorf("CREDENTIAL_ENCRYPTION_KEY must be set in production")
		}
		cfg.CredentialEncryptionKey = cfg.JWTSecret + ":credentials"
		log.Println("Warning: CREDENTIAL_ENCRYPTION_KEY not set. Deriving a development key from JWT_SECRET.")
	}
	if cfg.PaystackSecretKey == "" {
		log.Println("Warning: PAYSTACK_SECRET_KEY not set. Payment initialization and webhook verification will fail.")
	}
	if cfg.WebhookWorkers <= 0 {
		cfg.WebhookWorkers = 1
	}
	if cfg.WebhookQueueSize <= 0 {
		cfg.WebhookQueueSize = 1
	}
	if cfg.WebhookMaxAttempts <= 0 {
		cfg.WebhookMaxAttempts = 1
	}

	return cfg, nil
}

func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def)
		}
		return def
	}
	return d
}

func splitList(raw string, upper bool) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if upper {
			part = strings.ToUpper(part)
		}
		out = append(out, part)
	}
	return out
}
