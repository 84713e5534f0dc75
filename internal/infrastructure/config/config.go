// internal/infrastructure/config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Local reporting database (PostgreSQL)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// HIS source database (MySQL)
	HISHost     string
	HISPort     string
	HISUser     string
	HISPassword string
	HISName     string

	// NHSO eligibility API
	NHSOAPIURL   string
	NHSOAPIToken string
	NHSODelay    time.Duration
	NHSOTimeout  time.Duration

	// MongoDB run log
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	// Set defaults and override with env vars
	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		Port:         getEnv("PORT", "8000"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 120)) * time.Second,

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "visit_report"),

		HISHost:     getEnv("HIS_HOST", "localhost"),
		HISPort:     getEnv("HIS_PORT", "3306"),
		HISUser:     getEnv("HIS_USER", "sa"),
		HISPassword: getEnv("HIS_PASSWORD", ""),
		HISName:     getEnv("HIS_NAME", "hos"),

		NHSOAPIURL:   getEnv("NHSO_API_URL", ""),
		NHSOAPIToken: getEnv("NHSO_API_TOKEN", ""),
		NHSODelay:    time.Duration(getEnvAsInt("NHSO_DELAY_MS", 300)) * time.Millisecond,
		NHSOTimeout:  time.Duration(getEnvAsInt("NHSO_TIMEOUT", 10)) * time.Second,

		MongoURI:      getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "visitsync"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),
	}

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
