package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Database drivers supported by DB_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds application configuration
type Config struct {
	// Server
	Port       string
	Env        string
	CORSOrigin string

	// Database
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Pipeline
	PipelineAPIKey string

	// Recurring expense scheduler
	RecurringSchedule         string
	RecurringSchedulerEnabled bool

	// Events
	AMQPURL      string
	AMQPExchange string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port:       getEnv("PORT", "8080"),
		Env:        getEnv("ENV", "development"),
		CORSOrigin: getEnv("CORS_ORIGIN", "*"),

		// Database
		DBDriver:   getEnv("DB_DRIVER", DriverPostgres),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "budgettracker"),
		DBPassword: getEnv("DB_PASSWORD", "budgettracker"),
		DBName:     getEnv("DB_NAME", "budgettracker"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "budgettracker.db"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),

		PipelineAPIKey: os.Getenv("PIPELINE_API_KEY"),

		RecurringSchedule:         getEnv("RECURRING_SCHEDULE", "@every 1h"),
		RecurringSchedulerEnabled: getBool("RECURRING_SCHEDULER_ENABLED", true),

		AMQPURL:      os.Getenv("AMQP_URL"),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "budgettracker.events"),
	}

	// Parse JWT expiration duration
	config.JWTExpirationDur = getDuration("JWT_EXPIRES_IN", 24*time.Hour)

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %t\n", key, raw, defaultValue)
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}
