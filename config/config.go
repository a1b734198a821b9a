// Package config loads httpcron's runtime configuration from an optional
// TOML file layered under environment variables, following the env-first
// loading style the scheduler it was grown from uses.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Scheduler SchedulerConfig
}

type ServerConfig struct {
	Port            int
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type PostgresConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	DBName             string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	MaxLifetimeMinutes int
	LogLevel           string
	// SQLiteFile is used when Host is empty; it is the spec's
	// database_url default ("a SQLite file").
	SQLiteFile string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	// Enabled toggles the optional distributed ScheduleLocker. The
	// Active-Execution Registry works without Redis; this is strictly an
	// opportunistic secondary guard (spec section 5, "documented
	// extension point").
	Enabled bool
}

type SchedulerConfig struct {
	PollIntervalSeconds   int
	ShutdownGraceSeconds  int
	MaxResponseBytes      int64
	DefaultMaxRetries     int
	DefaultTimeoutSeconds int
}

// fileConfig mirrors Config for optional TOML-file loading (BurntSushi/toml),
// layered underneath environment variables which always win.
type fileConfig struct {
	Server    map[string]any `toml:"server"`
	Postgres  map[string]any `toml:"postgres"`
	Redis     map[string]any `toml:"redis"`
	Scheduler map[string]any `toml:"scheduler"`
}

// LoadConfig loads configuration, panicking on unrecoverable errors - kept
// as a convenience wrapper the way the teacher's cmd/main.go expects a
// fatal-if-invalid single call.
func LoadConfig() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

// Load reads an optional config.toml (path from HTTPCRON_CONFIG_FILE) for
// defaults, then overlays environment variables, matching the teacher's
// getEnv/getEnvInt helper style.
func Load() (*Config, error) {
	_ = godotenv.Load()

	if path := os.Getenv("HTTPCRON_CONFIG_FILE"); path != "" {
		var fc fileConfig
		if _, err := toml.DecodeFile(path, &fc); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		applyFileDefaults(fc)
	}

	return &Config{
		Server: ServerConfig{
			Port:            getEnvInt("SERVER_PORT", 8080),
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:     getDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Postgres: PostgresConfig{
			Host:               getEnv("POSTGRES_HOST", ""),
			Port:               getEnv("POSTGRES_PORT", "5432"),
			User:               getEnv("POSTGRES_USER", "httpcron"),
			Password:           getEnv("POSTGRES_PASSWORD", "httpcron"),
			DBName:             getEnv("POSTGRES_DB", "httpcron"),
			SSLMode:            getEnv("POSTGRES_SSL_MODE", "disable"),
			MaxOpenConns:       getEnvInt("POSTGRES_MAX_OPEN_CONNS", 25),
			MaxIdleConns:       getEnvInt("POSTGRES_MAX_IDLE_CONNS", 10),
			MaxLifetimeMinutes: getEnvInt("POSTGRES_MAX_LIFETIME_MINS", 30),
			LogLevel:           getEnv("POSTGRES_LOG_LEVEL", "warn"),
			SQLiteFile:         getEnv("DATABASE_URL", "httpcron.db"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 3),
			Enabled:  getEnvBool("REDIS_LOCKER_ENABLED", false),
		},
		Scheduler: SchedulerConfig{
			PollIntervalSeconds:   getEnvInt("POLL_INTERVAL_SECONDS", 1),
			ShutdownGraceSeconds:  getEnvInt("SHUTDOWN_GRACE_SECONDS", 5),
			MaxResponseBytes:      int64(getEnvInt("MAX_RESPONSE_BYTES", 10*1024*1024)),
			DefaultMaxRetries:     getEnvInt("DEFAULT_MAX_RETRIES", 0),
			DefaultTimeoutSeconds: getEnvInt("DEFAULT_TIMEOUT_SECONDS", 30),
		},
	}, nil
}

// DatabaseURL returns the Postgres DSN when a host is configured, or the
// SQLite file path otherwise.
func (c *Config) DatabaseURL() string {
	if c.Postgres.Host == "" {
		return c.Postgres.SQLiteFile
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.Postgres.Host, c.Postgres.Port, c.Postgres.User, c.Postgres.Password,
		c.Postgres.DBName, c.Postgres.SSLMode,
	)
}

// applyFileDefaults seeds the process environment from a decoded TOML
// section, without overwriting any variable already set - environment
// variables always win over the file, per this package's doc comment.
func applyFileDefaults(fc fileConfig) {
	for _, section := range []map[string]any{fc.Server, fc.Postgres, fc.Redis, fc.Scheduler} {
		for key, value := range section {
			envKey := strings.ToUpper(key)
			if _, set := os.LookupEnv(envKey); set {
				continue
			}
			os.Setenv(envKey, fmt.Sprintf("%v", value))
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
