package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// Schedule feed (TheSportsDB)
	FeedAPIKey   string        `envconfig:"FEED_API_KEY" default:"123"`
	FeedBaseURL  string        `envconfig:"FEED_BASE_URL" default:"https://www.thesportsdb.com/api/v1/json"`
	FeedLeagueID string        `envconfig:"FEED_LEAGUE_ID" default:"4391"`
	FeedTimeout  time.Duration `envconfig:"FEED_TIMEOUT" default:"30s"`

	// Identity provider (Google Identity Toolkit)
	IdentityAPIKey  string        `envconfig:"IDENTITY_API_KEY" required:"true"`
	IdentityBaseURL string        `envconfig:"IDENTITY_BASE_URL" default:"https://identitytoolkit.googleapis.com/v1"`
	IdentityTimeout time.Duration `envconfig:"IDENTITY_TIMEOUT" default:"15s"`

	// Database
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName     string `envconfig:"DATABASE_NAME" default:"pickem"`
	DatabaseUser     string `envconfig:"DATABASE_USER" default:"pickem_user"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD" required:"true"`
	DatabaseSSLMode  string `envconfig:"DATABASE_SSL_MODE" default:"disable"`

	// Redis
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Season
	SeasonYear   string `envconfig:"SEASON_YEAR" default:"2025"`
	SeasonAnchor string `envconfig:"SEASON_ANCHOR" default:"2025-09-03"` // week-1 Wednesday

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Caching TTL
	FeedCacheTTL time.Duration `envconfig:"FEED_CACHE_TTL" default:"1h"`

	// Scheduler
	EnableScheduler    bool   `envconfig:"ENABLE_SCHEDULER" default:"true"`
	PickReminderCron   string `envconfig:"PICK_REMINDER_CRON" default:"0 16 * * 4"`  // Thursday 16:00
	ResultsSummaryCron string `envconfig:"RESULTS_SUMMARY_CRON" default:"0 9 * * 2"` // Tuesday 09:00

	// SMS (Twilio)
	SMSEnabled    bool          `envconfig:"SMS_ENABLED" default:"true"`
	SMSBaseURL    string        `envconfig:"SMS_BASE_URL" default:"https://api.twilio.com"`
	SMSAccountSID string        `envconfig:"SMS_ACCOUNT_SID" default:""`
	SMSAuthToken  string        `envconfig:"SMS_AUTH_TOKEN" default:""`
	SMSFromNumber string        `envconfig:"SMS_FROM_NUMBER" default:""`
	SMSTimeout    time.Duration `envconfig:"SMS_TIMEOUT" default:"15s"`

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if in development mode
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.IdentityAPIKey == "" {
		return fmt.Errorf("IDENTITY_API_KEY is required")
	}

	if c.DatabasePassword == "" {
		return fmt.Errorf("DATABASE_PASSWORD is required")
	}

	if _, err := c.AnchorDate(); err != nil {
		return fmt.Errorf("SEASON_ANCHOR must be YYYY-MM-DD: %w", err)
	}

	if _, err := c.Season(); err != nil {
		return fmt.Errorf("SEASON_YEAR must be a year: %w", err)
	}

	if c.SMSEnabled && c.SMSAccountSID != "" && c.SMSAuthToken == "" {
		return fmt.Errorf("SMS_AUTH_TOKEN is required when an SMS account is configured")
	}

	return nil
}

// AnchorDate returns the parsed week-1 Wednesday.
func (c *Config) AnchorDate() (time.Time, error) {
	return time.Parse("2006-01-02", c.SeasonAnchor)
}

// Season returns the season year as an integer.
func (c *Config) Season() (int, error) {
	var year int
	if _, err := fmt.Sscanf(c.SeasonYear, "%d", &year); err != nil {
		return 0, err
	}
	return year, nil
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// SMSConfigured reports whether outbound SMS can actually be sent.
func (c *Config) SMSConfigured() bool {
	return c.SMSEnabled && c.SMSAccountSID != "" && c.SMSFromNumber != ""
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MustLoad loads configuration or panics on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
