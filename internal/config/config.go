package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig    `json:"server" toml:"server"`
	Database  DatabaseConfig  `json:"database" toml:"database"`
	Redis     RedisConfig     `json:"redis" toml:"redis"`
	RateLimit RateLimitConfig `json:"rate_limit" toml:"rate_limit"`
	Log       LogConfig       `json:"log" toml:"log"`
	CORS      CORSConfig      `json:"cors" toml:"cors"`
}

type ServerConfig struct {
	Host            string        `json:"host" toml:"host"`
	Port            string        `json:"port" toml:"port"`
	ReadTimeout     time.Duration `json:"read_timeout" toml:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout" toml:"write_timeout"`
	IdleTimeout     time.Duration `json:"idle_timeout" toml:"idle_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" toml:"shutdown_timeout"`
	Environment     string        `json:"environment" toml:"environment"`
	MaxBodyBytes    int           `json:"max_body_bytes" toml:"max_body_bytes"`
}

type DatabaseConfig struct {
	Driver          string        `json:"driver" toml:"driver"`
	SQLitePath      string        `json:"sqlite_path" toml:"sqlite_path"`
	Host            string        `json:"host" toml:"host"`
	Port            string        `json:"port" toml:"port"`
	User            string        `json:"user" toml:"user"`
	Password        string        `json:"password" toml:"password"`
	Name            string        `json:"name" toml:"name"`
	SSLMode         string        `json:"ssl_mode" toml:"ssl_mode"`
	MaxOpenConns    int           `json:"max_open_conns" toml:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns" toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime" toml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `json:"conn_max_idle_time" toml:"conn_max_idle_time"`
	RunMigrations   bool          `json:"run_migrations" toml:"run_migrations"`
}

type RedisConfig struct {
	Host     string `json:"host" toml:"host"`
	Port     string `json:"port" toml:"port"`
	Password string `json:"password" toml:"password"`
	DB       int    `json:"db" toml:"db"`
}

type RateLimitConfig struct {
	Enabled         bool          `json:"enabled" toml:"enabled"`
	Backend         string        `json:"backend" toml:"backend"`
	RequestsPerMin  int           `json:"requests_per_minute" toml:"requests_per_minute"`
	BurstSize       int           `json:"burst_size" toml:"burst_size"`
	Window          time.Duration `json:"window" toml:"window"`
	CleanupInterval time.Duration `json:"cleanup_interval" toml:"cleanup_interval"`
}

type LogConfig struct {
	Level      string `json:"level" toml:"level"`
	File       string `json:"file" toml:"file"`
	MaxSizeMB  int    `json:"max_size_mb" toml:"max_size_mb"`
	MaxBackups int    `json:"max_backups" toml:"max_backups"`
	MaxAgeDays int    `json:"max_age_days" toml:"max_age_days"`
}

type CORSConfig struct {
	AllowedOrigins []string `json:"allowed_origins" toml:"allowed_origins"`
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "localhost",
			Port:            "8080",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			Environment:     "development",
			MaxBodyBytes:    1 << 20,
		},
		Database: DatabaseConfig{
			Driver:          "sqlite",
			SQLitePath:      "tasks.db",
			Host:            "localhost",
			Port:            "5432",
			User:            "postgres",
			Name:            "task_assignment",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    10,
			ConnMaxLifetime: time.Hour,
			ConnMaxIdleTime: 30 * time.Minute,
			RunMigrations:   true,
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: "6379",
		},
		RateLimit: RateLimitConfig{
			Enabled:         false,
			Backend:         "memory",
			RequestsPerMin:  100,
			BurstSize:       10,
			Window:          time.Minute,
			CleanupInterval: 10 * time.Minute,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
	}
}

// LoadConfig layers hard defaults, the TOML file named by CONFIG_FILE, a .env
// file and finally the process environment.
func LoadConfig() (*Config, error) {
	config := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, config); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if err := godotenv.Load(getEnv("ENV_FILE", ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	config.applyEnv()

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() {
	c.Server.Host = getEnv("HOST", c.Server.Host)
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.ReadTimeout = getEnvAsDuration("READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getEnvAsDuration("WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.IdleTimeout = getEnvAsDuration("IDLE_TIMEOUT", c.Server.IdleTimeout)
	c.Server.ShutdownTimeout = getEnvAsDuration("SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)
	c.Server.Environment = getEnv("ENVIRONMENT", c.Server.Environment)
	c.Server.MaxBodyBytes = getEnvAsInt("MAX_BODY_BYTES", c.Server.MaxBodyBytes)

	c.Database.Driver = getEnv("DB_DRIVER", c.Database.Driver)
	c.Database.SQLitePath = getEnv("DB_SQLITE_PATH", c.Database.SQLitePath)
	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnv("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.Name = getEnv("DB_NAME", c.Database.Name)
	c.Database.SSLMode = getEnv("DB_SSL_MODE", c.Database.SSLMode)
	c.Database.MaxOpenConns = getEnvAsInt("DB_MAX_OPEN_CONNS", c.Database.MaxOpenConns)
	c.Database.MaxIdleConns = getEnvAsInt("DB_MAX_IDLE_CONNS", c.Database.MaxIdleConns)
	c.Database.ConnMaxLifetime = getEnvAsDuration("DB_CONN_MAX_LIFETIME", c.Database.ConnMaxLifetime)
	c.Database.ConnMaxIdleTime = getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", c.Database.ConnMaxIdleTime)
	c.Database.RunMigrations = getEnvAsBool("DB_RUN_MIGRATIONS", c.Database.RunMigrations)

	c.Redis.Host = getEnv("REDIS_HOST", c.Redis.Host)
	c.Redis.Port = getEnv("REDIS_PORT", c.Redis.Port)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvAsInt("REDIS_DB", c.Redis.DB)

	c.RateLimit.Enabled = getEnvAsBool("RATE_LIMIT_ENABLED", c.RateLimit.Enabled)
	c.RateLimit.Backend = getEnv("RATE_LIMIT_BACKEND", c.RateLimit.Backend)
	c.RateLimit.RequestsPerMin = getEnvAsInt("RATE_LIMIT_RPM", c.RateLimit.RequestsPerMin)
	c.RateLimit.BurstSize = getEnvAsInt("RATE_LIMIT_BURST", c.RateLimit.BurstSize)
	c.RateLimit.Window = getEnvAsDuration("RATE_LIMIT_WINDOW", c.RateLimit.Window)
	c.RateLimit.CleanupInterval = getEnvAsDuration("RATE_LIMIT_CLEANUP", c.RateLimit.CleanupInterval)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.File = getEnv("LOG_FILE", c.Log.File)
	c.Log.MaxSizeMB = getEnvAsInt("LOG_MAX_SIZE_MB", c.Log.MaxSizeMB)
	c.Log.MaxBackups = getEnvAsInt("LOG_MAX_BACKUPS", c.Log.MaxBackups)
	c.Log.MaxAgeDays = getEnvAsInt("LOG_MAX_AGE_DAYS", c.Log.MaxAgeDays)

	c.CORS.AllowedOrigins = getEnvAsList("CORS_ALLOWED_ORIGINS", c.CORS.AllowedOrigins)
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	switch c.RateLimit.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported rate limit backend %q", c.RateLimit.Backend)
	}

	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("max body bytes must be positive, got %d", c.Server.MaxBodyBytes)
	}

	if len(c.CORS.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one CORS origin is required")
	}

	if c.Database.Driver == "postgres" && c.Database.Password == "" && c.IsProduction() {
		return fmt.Errorf("database password is required in production")
	}
	return nil
}

func (c *Config) GetDatabaseDSN() string {
	if c.Database.Driver == "sqlite" {
		return c.Database.SQLitePath
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
