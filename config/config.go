package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"raspadinha/database"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// HTTP server
	Port string

	// Admin API token for withdrawal transitions and referral management
	AdminToken string

	// Payment provider (PIX)
	PaymentBaseURL string
	PaymentAPIKey  string

	// Deposit poller
	DepositPollInterval time.Duration

	// Environment: "development" or "production"
	Environment string
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// SetTestConfig replaces the global configuration for tests
func SetTestConfig(cfg *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = cfg
}

// ResetConfig clears the global configuration so the next Get reloads it
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig returns a configuration suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Port:                "8080",
		AdminToken:          "test-admin-token",
		DepositPollInterval: time.Minute,
		Environment:         "test",
	}
}

// GetDatabaseURL constructs the full database URL from base URL and name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// load loads configuration from the environment, reading .env first if present
func load() (*Config, error) {
	// Missing .env is fine; real deployments set variables directly
	_ = godotenv.Load()

	config := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		Port:       getEnvWithDefault("PORT", "8080"),
		AdminToken: os.Getenv("ADMIN_TOKEN"),

		PaymentBaseURL: os.Getenv("PAYMENT_BASE_URL"),
		PaymentAPIKey:  os.Getenv("PAYMENT_API_KEY"),

		DepositPollInterval: time.Minute,

		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
	}

	if interval := os.Getenv("DEPOSIT_POLL_INTERVAL"); interval != "" {
		if seconds, err := strconv.Atoi(interval); err == nil && seconds > 0 {
			config.DepositPollInterval = time.Duration(seconds) * time.Second
		}
	}

	if config.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if config.AdminToken == "" {
		return nil, fmt.Errorf("ADMIN_TOKEN is required")
	}

	return config, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
