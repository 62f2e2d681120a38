package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DefaultPushURL is the Expo push gateway the mobile app registers its tokens with
const DefaultPushURL = "https://exp.host/--/api/v2/push/send"

// Config holds all application configuration
type Config struct {
	DatabaseURL      string
	DatabaseDriver   string
	Port             string
	GoEnv            string
	LogLevel         string
	PushURL          string
	PushTimeout      time.Duration
	PushConcurrency  int
	CORSAllowOrigins []string
}

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Try to load environment-specific file first
	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		if err := godotenv.Load(); err != nil {
			// In production variables are set directly, so missing files are fine
			log.Debug("No .env file found, using system environment variables")
		}
	} else {
		log.Debugf("Loaded configuration from %s", envFile)
	}

	pushTimeout, err := time.ParseDuration(getEnv("PUSH_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("PUSH_TIMEOUT is not a valid duration: %w", err)
	}

	pushConcurrency, err := strconv.Atoi(getEnv("PUSH_CONCURRENCY", "4"))
	if err != nil {
		return nil, fmt.Errorf("PUSH_CONCURRENCY is not a number: %w", err)
	}

	config := &Config{
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		DatabaseDriver:   strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		Port:             getEnv("PORT", "8080"),
		GoEnv:            getEnv("GO_ENV", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		PushURL:          getEnv("PUSH_URL", DefaultPushURL),
		PushTimeout:      pushTimeout,
		PushConcurrency:  pushConcurrency,
		CORSAllowOrigins: splitList(getEnv("CORS_ALLOW_ORIGINS", "*")),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.DatabaseDriver != DriverPostgres && c.DatabaseDriver != DriverSQLite {
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.DatabaseDriver)
	}
	if c.PushConcurrency < 1 {
		return fmt.Errorf("PUSH_CONCURRENCY must be at least 1")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + c.Port
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
