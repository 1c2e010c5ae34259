// Package config loads application configuration from a YAML file with
// environment-variable overrides (prefix COMPANYD).
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Event bus backends.
const (
	BackendMemory = "memory"
	BackendKafka  = "kafka"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Events   EventsConfig   `yaml:"events"`
	Auth     AuthConfig     `yaml:"auth"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"HTTP_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"HTTP_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"HTTP_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"HTTP_SHUTDOWN_TIMEOUT"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `yaml:"host" envconfig:"DB_HOST"`
	Port            int           `yaml:"port" envconfig:"DB_PORT"`
	User            string        `yaml:"user" envconfig:"DB_USER"`
	Password        string        `yaml:"password" envconfig:"DB_PASSWORD"`
	DBName          string        `yaml:"name" envconfig:"DB_NAME"`
	SSLMode         string        `yaml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxOpenConns    int           `yaml:"max_open_conns" envconfig:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `yaml:"max_idle_conns" envconfig:"DB_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" envconfig:"DB_CONN_MAX_LIFETIME"`
}

// EventsConfig holds event bus settings.
type EventsConfig struct {
	Enabled       bool     `yaml:"enabled" envconfig:"EVENT_BUS_ENABLED"`
	Backend       string   `yaml:"backend" envconfig:"EVENT_BUS_BACKEND"`
	Brokers       []string `yaml:"brokers" envconfig:"KAFKA_BROKERS"`
	Topic         string   `yaml:"topic" envconfig:"KAFKA_TOPIC"`
	GroupID       string   `yaml:"group_id" envconfig:"KAFKA_GROUP_ID"`
	QueueSize     int      `yaml:"queue_size" envconfig:"EVENT_QUEUE_SIZE"`
	FallbackLimit int      `yaml:"fallback_limit" envconfig:"EVENT_FALLBACK_LIMIT"`
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" envconfig:"JWT_SECRET"`
}

// Default returns the configuration used when the file and the environment
// are silent.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			Password:        "postgres",
			DBName:          "companyd",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Events: EventsConfig{
			Enabled:       true,
			Backend:       BackendMemory,
			Brokers:       []string{"localhost:9092"},
			Topic:         "company.events",
			QueueSize:     1000,
			FallbackLimit: 100,
		},
	}
}

// Load reads the YAML file at path (skipped when path is empty or missing)
// and then applies environment overrides. Fields without an env var keep
// their file or default value.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	for _, section := range []interface{}{&cfg.Server, &cfg.Database, &cfg.Events, &cfg.Auth} {
		if err := envconfig.Process("COMPANYD", section); err != nil {
			return nil, fmt.Errorf("failed to apply env overrides: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.Events.Backend {
	case BackendMemory, BackendKafka:
	default:
		return fmt.Errorf("unknown events backend %q", c.Events.Backend)
	}
	if c.Events.Backend == BackendKafka && len(c.Events.Brokers) == 0 {
		return fmt.Errorf("kafka backend requires at least one broker")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server port must be positive")
	}
	return nil
}
