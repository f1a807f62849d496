package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	JWTSecret         string
	JWTExpiryDuration time.Duration

	// GST rate applied when deriving tax-exclusive line prices.
	GSTRate decimal.Decimal

	// Notification delivery. When SMTPHost is empty the application falls
	// back to a log-only notifier.
	SMTPHost          string
	SMTPPort          string
	SMTPUser          string
	SMTPPassword      string
	NotificationFrom  string
	NotificationEmail string

	// Requests per minute allowed per client IP on the admin API.
	RateLimitPerMinute int64
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("LEDGER_GST", "10")
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", "25")
	viper.SetDefault("SMTP_USER", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("NOTIFICATION_FROM", "no-reply@localhost")
	viper.SetDefault("NOTIFICATION_EMAIL", "")
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 60)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	gstStr := viper.GetString("LEDGER_GST")
	gst, err := decimal.NewFromString(gstStr)
	if err != nil {
		gst = decimal.NewFromInt(10)
		log.Printf("Warning: Invalid value for LEDGER_GST ('%s'). Defaulting to %s.\n", gstStr, gst.String())
	}
	cfg.GSTRate = gst

	cfg.SMTPHost = viper.GetString("SMTP_HOST")
	cfg.SMTPPort = viper.GetString("SMTP_PORT")
	cfg.SMTPUser = viper.GetString("SMTP_USER")
	cfg.SMTPPassword = viper.GetString("SMTP_PASSWORD")
	cfg.NotificationFrom = viper.GetString("NOTIFICATION_FROM")
	cfg.NotificationEmail = viper.GetString("NOTIFICATION_EMAIL")

	cfg.RateLimitPerMinute = viper.GetInt64("RATE_LIMIT_PER_MINUTE")
	if cfg.RateLimitPerMinute <= 0 {
		cfg.RateLimitPerMinute = 60
	}

	return cfg, nil
}
