package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort       string
	AppMode       string
	DBHost        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBPort        string
	JWTSecret     string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	SentryDSN     string

	OutboxBatchSize  int
	OutboxInterval   time.Duration
	OutboxMaxRetries int

	ReportLimitPerHour   int
	AdminActionLimit     int
	MessageLimitPerMin   int
	DuplicateReportHours int
}

func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		AppPort:       getEnv("APP_PORT", "8080"),
		AppMode:       getEnv("APP_MODE", "debug"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", "postgres"),
		DBName:        getEnv("DB_NAME", "classifieds"),
		DBPort:        getEnv("DB_PORT", "5432"),
		JWTSecret:     getEnv("JWT_SECRET", "change-me"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		SentryDSN:     getEnv("SENTRY_DSN", ""),

		OutboxBatchSize:  getEnvAsInt("OUTBOX_BATCH_SIZE", 100),
		OutboxInterval:   time.Duration(getEnvAsInt("OUTBOX_INTERVAL_MS", 2000)) * time.Millisecond,
		OutboxMaxRetries: getEnvAsInt("OUTBOX_MAX_RETRIES", 5),

		ReportLimitPerHour:   getEnvAsInt("RATE_LIMIT_REPORTS_PER_HOUR", 5),
		AdminActionLimit:     getEnvAsInt("RATE_LIMIT_ADMIN_ACTIONS", 100),
		MessageLimitPerMin:   getEnvAsInt("RATE_LIMIT_MESSAGES_PER_MIN", 60),
		DuplicateReportHours: getEnvAsInt("DUPLICATE_REPORT_WINDOW_HOURS", 24),
	}
}

// DSN builds the postgres connection string for gorm.
func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=disable TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
