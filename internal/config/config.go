// Package config provides application configuration.
//
// Values are layered: built-in defaults, then an optional YAML file,
// then environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverNATS     = "nats"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Store    StoreConfig    `yaml:"store"`
	Database DatabaseConfig `yaml:"database"`
	App      AppConfig      `yaml:"app"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"read_timeout"`  // seconds
	WriteTimeout int    `yaml:"write_timeout"` // seconds
	IdleTimeout  int    `yaml:"idle_timeout"`  // seconds
}

// StoreConfig selects and configures the document store backend.
type StoreConfig struct {
	Driver        string `yaml:"driver"`
	Path          string `yaml:"path"` // directory for file, database file for sqlite
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	RedisPrefix   string `yaml:"redis_prefix"`
	NATSURL       string `yaml:"nats_url"`
	NATSBucket    string `yaml:"nats_bucket"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev           bool   `yaml:"dev"`
	Migrations    bool   `yaml:"migrations"`
	SeedOnEmpty   bool   `yaml:"seed_on_empty"`
	LogLevel      string `yaml:"log_level"`
	LogFormat     string `yaml:"log_format"`
	SessionSecret string `yaml:"session_secret"`
	PhoneRegion   string `yaml:"phone_region"`
}

// DSN returns the PostgreSQL connection string in key=value format.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// URL returns the PostgreSQL connection string in URL format.
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// devSessionSecret signs sessions when dev mode runs without SESSION_SECRET.
const devSessionSecret = "devsessionsecret"

// Secret returns the session signing secret, falling back to a fixed
// value in dev mode. Validate rejects an empty secret outside dev.
func (a AppConfig) Secret() string {
	if a.SessionSecret == "" && a.Dev {
		return devSessionSecret
	}
	return a.SessionSecret
}

// Default returns the configuration used for local development.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "8080",
			ReadTimeout:  15,
			WriteTimeout: 15,
			IdleTimeout:  60,
		},
		Store: StoreConfig{
			Driver:      DriverFile,
			Path:        "data",
			RedisAddr:   "localhost:6379",
			RedisPrefix: "orderdesk:",
			NATSURL:     "nats://localhost:4222",
			NATSBucket:  "orderdesk",
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "orderdesk",
			Password: "orderdesk",
			DBName:   "orderdesk",
			SSLMode:  "disable",
		},
		App: AppConfig{
			Dev:         true,
			Migrations:  true,
			SeedOnEmpty: true,
			LogLevel:    "info",
			LogFormat:   "text",
			PhoneRegion: "IN",
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path
// (skipped when path is empty) and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFile overlays the YAML document at path. Keys absent from the
// file keep their current value.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.ReadTimeout = getEnvInt("SERVER_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getEnvInt("SERVER_WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.IdleTimeout = getEnvInt("SERVER_IDLE_TIMEOUT", c.Server.IdleTimeout)

	c.Store.Driver = strings.ToLower(getEnv("STORE_DRIVER", c.Store.Driver))
	c.Store.Path = getEnv("STORE_PATH", c.Store.Path)
	c.Store.RedisAddr = getEnv("REDIS_ADDRESS", c.Store.RedisAddr)
	c.Store.RedisPassword = getEnv("REDIS_PASSWORD", c.Store.RedisPassword)
	c.Store.RedisDB = getEnvInt("REDIS_DB", c.Store.RedisDB)
	c.Store.RedisPrefix = getEnv("REDIS_PREFIX", c.Store.RedisPrefix)
	c.Store.NATSURL = getEnv("NATS_URL", c.Store.NATSURL)
	c.Store.NATSBucket = getEnv("NATS_BUCKET", c.Store.NATSBucket)

	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnvInt("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.DBName = getEnv("DB_NAME", c.Database.DBName)
	c.Database.SSLMode = getEnv("DB_SSLMODE", c.Database.SSLMode)

	c.App.Dev = getEnvBool("DEV", c.App.Dev)
	c.App.Migrations = getEnvBool("MIGRATIONS", c.App.Migrations)
	c.App.SeedOnEmpty = getEnvBool("SEED_ON_EMPTY", c.App.SeedOnEmpty)
	c.App.LogLevel = getEnv("LOG_LEVEL", c.App.LogLevel)
	c.App.LogFormat = getEnv("LOG_FORMAT", c.App.LogFormat)
	c.App.SessionSecret = getEnv("SESSION_SECRET", c.App.SessionSecret)
	c.App.PhoneRegion = strings.ToUpper(getEnv("PHONE_REGION", c.App.PhoneRegion))
}

// Validate checks that the selected store driver is known and that
// production runs carry a session secret.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverFile, DriverSQLite, DriverPostgres, DriverRedis, DriverNATS:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if (c.Store.Driver == DriverFile || c.Store.Driver == DriverSQLite) && c.Store.Path == "" {
		return fmt.Errorf("store driver %s requires a path", c.Store.Driver)
	}
	if !c.App.Dev && c.App.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required when DEV is off")
	}
	return nil
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}
