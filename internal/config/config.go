// Package config loads runtime settings from the environment and holds the
// moderation constants shared by the services.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultJWTSecret is only acceptable outside production.
const DefaultJWTSecret = "dev-secret-change-me"

// Config holds all runtime configuration values. Every field maps to one
// environment variable; unset variables fall back to development defaults.
type Config struct {
	Env  string // "development" or "production"
	Port string

	DBDriver   string // "postgres" or "sqlite"
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret       string
	JWTTTL          time.Duration
	ProfileCacheTTL time.Duration

	ContactQueueOrder string

	LogLevel string

	TelegramBotToken      string
	TelegramModeratorChat int64

	LocalesDir  string // empty: use the embedded translations
	DefaultLang string
}

// Load reads the configuration from environment variables.
func Load() Config {
	return Config{
		Env:  strings.ToLower(envStr("APP_ENV", "development")),
		Port: envStr("APP_PORT", "8080"),

		DBDriver:   strings.ToLower(envStr("DB_DRIVER", "postgres")),
		DBHost:     envStr("DB_HOST", "localhost"),
		DBPort:     envStr("DB_PORT", "5432"),
		DBUser:     envStr("DB_USER", "user"),
		DBPassword: envStr("DB_PASSWORD", "password"),
		DBName:     envStr("DB_NAME", "whodidit"),
		DBSSLMode:  envStr("DB_SSLMODE", "disable"),
		SQLitePath: envStr("SQLITE_PATH", "./data/whodidit.db"),

		RedisAddr:     envStr("REDIS_ADDR", ""),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envInt("REDIS_DB", 0),

		JWTSecret:       envStr("JWT_SECRET", DefaultJWTSecret),
		JWTTTL:          envDur("JWT_TTL", 72*time.Hour),
		ProfileCacheTTL: envDur("PROFILE_CACHE_TTL", 30*time.Second),

		ContactQueueOrder: queueOrder(envStr("CONTACT_QUEUE_ORDER", QueueOldestFirst)),

		LogLevel: envStr("LOG_LEVEL", "info"),

		TelegramBotToken:      os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramModeratorChat: envInt64("TELEGRAM_MODERATOR_CHAT_ID", 0),

		LocalesDir:  os.Getenv("LOCALES_DIR"),
		DefaultLang: envStr("DEFAULT_LANG", "en"),
	}
}

// IsProduction reports whether APP_ENV is production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate rejects settings that must never reach production.
func (c Config) Validate() error {
	if c.IsProduction() && (c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret) {
		return errors.New("JWT_SECRET must be set to a non-default value in production")
	}
	return nil
}

// PostgresDSN builds the connection string for the postgres driver.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

func queueOrder(v string) string {
	if strings.EqualFold(v, QueueNewestFirst) {
		return QueueNewestFirst
	}
	return QueueOldestFirst
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envInt64(k string, d int64) int64 {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
