package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Budget periods close at end-of-day in this timezone.
	Timezone *time.Location

	// Recurring execution
	RecurringMaxOverdueDays int
	SchedulerInterval       time.Duration
	SchedulerDryRun         bool
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
		Port: getEnv("PORT", "8080"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "fiskal"),
		DBPassword: getEnv("DB_PASSWORD", "fiskal"),
		DBName:     getEnv("DB_NAME", "fiskal"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Timezone for end-of-day normalization
	tzName := getEnv("TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		log.Printf("Warning: invalid TIMEZONE value '%s', falling back to UTC\n", tzName)
		loc = time.UTC
	}
	config.Timezone = loc

	// Overdue window for recurring execution
	overdueStr := getEnv("RECURRING_MAX_OVERDUE_DAYS", "7")
	overdue, err := strconv.Atoi(overdueStr)
	if err != nil || overdue < 0 {
		log.Printf("Warning: invalid RECURRING_MAX_OVERDUE_DAYS value '%s', falling back to 7\n", overdueStr)
		overdue = 7
	}
	config.RecurringMaxOverdueDays = overdue

	// Scheduler tick interval
	intervalStr := getEnv("SCHEDULER_INTERVAL", "1h")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		log.Printf("Warning: invalid SCHEDULER_INTERVAL value '%s', falling back to 1h\n", intervalStr)
		interval = time.Hour
	}
	config.SchedulerInterval = interval

	config.SchedulerDryRun = getEnv("SCHEDULER_DRY_RUN", "false") == "true"

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

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
