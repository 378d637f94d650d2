// Package config provides configuration management for the application.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrMissingCredential is returned when a required external credential is
// absent. It is reported once at startup, before any network call is made.
var ErrMissingCredential = errors.New("missing required credential")

// Config holds all configuration for the application.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Config struct {
	YouTube  YouTubeConfig
	Refiner  RefinerConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	Logging  LoggingConfig
	Database DatabaseConfig
	Server   ServerConfig
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
	AdminAPIKeys    []string
}

// YouTubeConfig contains video platform API configuration.
type YouTubeConfig struct {
	APIKey  string
	Timeout time.Duration
}

// RefinerConfig contains the relevance judgment model configuration.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type RefinerConfig struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
}

// RedisConfig contains the category cache store configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// DatabaseConfig contains database connection configuration.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type DatabaseConfig struct {
	Host           string
	Name           string
	User           string
	Password       string
	Port           int
	MaxConnections int
	MinConnections int
	MaxIdleTime    time.Duration
	MaxLifetime    time.Duration
}

// RabbitMQConfig contains RabbitMQ connection and queue configuration.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type RabbitMQConfig struct {
	Host       string
	User       string
	Password   string
	Exchange   string
	Queue      string
	RoutingKey string
	Port       int
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level string
	File  string
}

// DSN returns the Postgres connection string for the configured database.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// URL returns the AMQP connection string for the configured broker.
func (r RabbitMQConfig) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/", r.User, r.Password, r.Host, r.Port)
}

// Load loads configuration from file and environment variables.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Set defaults
	setDefaults()

	// Read environment variables. The replacer maps nested keys to env names,
	// e.g. youtube.apikey -> APP_YOUTUBE_APIKEY; without it AutomaticEnv
	// cannot resolve nested keys during Unmarshal.
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Try to read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the credentials the pipeline depends on are present.
// A missing credential is a configuration failure, not a per-request error.
func (c *Config) Validate() error {
	if c.YouTube.APIKey == "" {
		return fmt.Errorf("%w: youtube.apikey (APP_YOUTUBE_APIKEY)", ErrMissingCredential)
	}
	if c.Refiner.BaseURL == "" {
		return fmt.Errorf("%w: refiner.baseurl (APP_REFINER_BASEURL)", ErrMissingCredential)
	}
	if c.Refiner.Model == "" {
		return fmt.Errorf("%w: refiner.model (APP_REFINER_MODEL)", ErrMissingCredential)
	}
	return nil
}

func setDefaults() {
	// Server
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.shutdowntimeout", 30*time.Second)
	viper.SetDefault("server.adminapikeys", []string{})

	// YouTube
	viper.SetDefault("youtube.apikey", "")
	viper.SetDefault("youtube.timeout", 15*time.Second)

	// Refiner
	viper.SetDefault("refiner.baseurl", "")
	viper.SetDefault("refiner.model", "llama3:8b")
	viper.SetDefault("refiner.apikey", "")
	viper.SetDefault("refiner.timeout", 60*time.Second)

	// Redis
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Database
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "tubeseek")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.maxconnections", 10)
	viper.SetDefault("database.minconnections", 5)
	viper.SetDefault("database.maxidletime", 10*time.Minute)
	viper.SetDefault("database.maxlifetime", 1*time.Hour)

	// RabbitMQ
	viper.SetDefault("rabbitmq.host", "localhost")
	viper.SetDefault("rabbitmq.port", 5672)
	viper.SetDefault("rabbitmq.user", "guest")
	viper.SetDefault("rabbitmq.password", "guest")
	viper.SetDefault("rabbitmq.exchange", "tubeseek.search")
	viper.SetDefault("rabbitmq.queue", "tubeseek.search.history")
	viper.SetDefault("rabbitmq.routingkey", "search.performed")

	// Logging
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.file", "")
}
