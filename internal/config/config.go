package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port            string `yaml:"port" env:"SERVER_PORT"`
		Mode            string `yaml:"mode" env:"SERVER_MODE"`
		ReadTimeout     string `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout    string `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
		IdleTimeout     string `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT"`
		ShutdownTimeout string `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
	} `yaml:"server"`

	Database struct {
		Driver          string `yaml:"driver" env:"DB_DRIVER"`
		URL             string `yaml:"url" env:"DATABASE_URL"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		SeedOnStart     bool   `yaml:"seed_on_start" env:"DB_SEED_ON_START"`
	} `yaml:"database"`

	Storage struct {
		// PublicDir is served as static content (images, stylesheets)
		PublicDir string `yaml:"public_dir" env:"STORAGE_PUBLIC_DIR"`
		// ProfileImagePath is relative to PublicDir and doubles as the URL prefix
		ProfileImagePath string `yaml:"profile_image_path" env:"STORAGE_PROFILE_IMAGE_PATH"`
		MaxUploadBytes   int64  `yaml:"max_upload_bytes" env:"STORAGE_MAX_UPLOAD_BYTES"`
	} `yaml:"storage"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables.
// A missing file is not an error; defaults and environment still apply.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func setDefaults(config *Config) {
	config.Server.Port = "3000"
	config.Server.Mode = "development"
	config.Server.ReadTimeout = "10s"
	config.Server.WriteTimeout = "10s"
	config.Server.IdleTimeout = "120s"
	config.Server.ShutdownTimeout = "10s"

	config.Database.Driver = DriverPostgres
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "course_catalog"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"

	config.Storage.PublicDir = "public"
	config.Storage.ProfileImagePath = "images/profile_images"
	config.Storage.MaxUploadBytes = 5 << 20

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case DriverPostgres:
		if config.Database.URL == "" && config.Database.Host == "" {
			return fmt.Errorf("database host or url is required for the postgres driver")
		}
		if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
			return fmt.Errorf("invalid database connection lifetime: %w", err)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	durations := map[string]string{
		"server read timeout":     config.Server.ReadTimeout,
		"server write timeout":    config.Server.WriteTimeout,
		"server idle timeout":     config.Server.IdleTimeout,
		"server shutdown timeout": config.Server.ShutdownTimeout,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}

	if config.Storage.PublicDir == "" {
		return fmt.Errorf("storage public dir is required")
	}
	if config.Storage.MaxUploadBytes <= 0 {
		return fmt.Errorf("storage max upload bytes must be positive")
	}

	switch strings.ToLower(config.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("unsupported log format %q", config.Logging.Format)
	}

	return nil
}

// GetPostgresConnectionString returns the postgres connection string, preferring an
// explicit database url.
func (c *Config) GetPostgresConnectionString() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}

	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production")
}
