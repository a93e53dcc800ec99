// Package config provides configuration management for the publication
// metadata service.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Cache backend names.
const (
	// CacheBackendMemory keeps cached enrichment payloads in process memory.
	CacheBackendMemory = "memory"
	// CacheBackendSQLite persists cached enrichment payloads on disk.
	CacheBackendSQLite = "sqlite"
)

// Config holds all configuration for the publication metadata service.
type Config struct {
	// Server contains HTTP server settings.
	Server ServerConfig `mapstructure:"server"`
	// Logging contains structured logging settings.
	Logging LoggingConfig `mapstructure:"logging"`
	// Metrics contains Prometheus metrics exposure settings.
	Metrics MetricsConfig `mapstructure:"metrics"`
	// Cache contains enrichment cache settings.
	Cache CacheConfig `mapstructure:"cache"`
	// Pipeline contains aggregation pipeline settings.
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	// Providers contains external metadata provider settings.
	Providers ProvidersConfig `mapstructure:"providers"`
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	// Host is the address to bind the server to (default: 0.0.0.0).
	Host string `mapstructure:"host"`
	// HTTPPort is the HTTP server port (default: 8080).
	HTTPPort int `mapstructure:"http_port"`
	// ReadTimeout is the maximum duration for reading request body.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the maximum duration for writing response.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the log level (trace, debug, info, warn, error, fatal, panic).
	Level string `mapstructure:"level"`
	// Format is the log format (json, console).
	Format string `mapstructure:"format"`
	// Output is the log output destination (stdout, stderr).
	Output string `mapstructure:"output"`
	// AddSource adds source file and line to log output.
	AddSource bool `mapstructure:"add_source"`
	// TimeFormat is the timestamp format.
	TimeFormat string `mapstructure:"time_format"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	// Enabled enables metrics collection and exposure.
	Enabled bool `mapstructure:"enabled"`
	// Path is the HTTP path for metrics endpoint.
	Path string `mapstructure:"path"`
	// Namespace is the Prometheus metric namespace.
	Namespace string `mapstructure:"namespace"`
}

// CacheConfig holds enrichment cache settings.
type CacheConfig struct {
	// Backend selects the cache store (memory, sqlite).
	Backend string `mapstructure:"backend"`
	// Path is the SQLite database file path (sqlite backend only).
	Path string `mapstructure:"path"`
	// TTL is how long cached enrichment payloads stay valid.
	TTL time.Duration `mapstructure:"ttl"`
	// MaxEntries bounds the in-memory store (memory backend only).
	MaxEntries int `mapstructure:"max_entries"`
}

// PipelineConfig holds aggregation pipeline settings.
type PipelineConfig struct {
	// MaxResults is the default cap on works fetched per request.
	MaxResults int `mapstructure:"max_results"`
	// Concurrency bounds concurrent enrichment lookups.
	Concurrency int `mapstructure:"concurrency"`
	// RequestTimeout is the end-to-end deadline for one aggregation run.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// ProvidersConfig holds configuration for all external metadata providers.
type ProvidersConfig struct {
	// OpenAlex contains OpenAlex API settings.
	OpenAlex ProviderConfig `mapstructure:"openalex"`
	// Crossref contains Crossref API settings.
	Crossref ProviderConfig `mapstructure:"crossref"`
	// Altmetric contains Altmetric API settings.
	Altmetric ProviderConfig `mapstructure:"altmetric"`
}

// ProviderConfig holds configuration for a single external provider API.
type ProviderConfig struct {
	// BaseURL is the API base URL.
	BaseURL string `mapstructure:"base_url"`
	// Email is the contact address sent in polite-pool requests.
	Email string `mapstructure:"email"`
	// Timeout is the timeout for API calls.
	Timeout time.Duration `mapstructure:"timeout"`
	// RateLimit is the maximum requests per second.
	RateLimit float64 `mapstructure:"rate_limit"`
	// PageSize is the page size for paginated endpoints.
	PageSize int `mapstructure:"page_size"`
}

// HTTPAddress returns the HTTP server address.
func (c *ServerConfig) HTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.HTTPPort)
}

// Load loads configuration from environment variables and config files.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("PUBMETA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/publication-metadata-service")

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK, we'll use env vars and defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "30s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.add_source", false)
	v.SetDefault("logging.time_format", time.RFC3339)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.namespace", "pubmeta")

	// Cache defaults
	v.SetDefault("cache.backend", CacheBackendMemory)
	v.SetDefault("cache.path", "pubmeta-cache.db")
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.max_entries", 4096)

	// Pipeline defaults
	v.SetDefault("pipeline.max_results", 200)
	v.SetDefault("pipeline.concurrency", 8)
	v.SetDefault("pipeline.request_timeout", "5m")

	// Provider defaults - OpenAlex
	v.SetDefault("providers.openalex.base_url", "https://api.openalex.org")
	v.SetDefault("providers.openalex.email", "")
	v.SetDefault("providers.openalex.timeout", "30s")
	v.SetDefault("providers.openalex.rate_limit", 10.0)
	v.SetDefault("providers.openalex.page_size", 200)

	// Provider defaults - Crossref
	v.SetDefault("providers.crossref.base_url", "https://api.crossref.org")
	v.SetDefault("providers.crossref.email", "")
	v.SetDefault("providers.crossref.timeout", "30s")
	v.SetDefault("providers.crossref.rate_limit", 10.0)

	// Provider defaults - Altmetric
	v.SetDefault("providers.altmetric.base_url", "https://api.altmetric.com")
	v.SetDefault("providers.altmetric.timeout", "30s")
	v.SetDefault("providers.altmetric.rate_limit", 5.0)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.Server.HTTPPort)
	}

	validLogLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	switch strings.ToLower(c.Cache.Backend) {
	case CacheBackendMemory:
		if c.Cache.MaxEntries <= 0 {
			return fmt.Errorf("cache max_entries must be positive")
		}
	case CacheBackendSQLite:
		if c.Cache.Path == "" {
			return fmt.Errorf("cache path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("invalid cache backend: %s", c.Cache.Backend)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache ttl must be positive")
	}

	if c.Pipeline.MaxResults <= 0 {
		return fmt.Errorf("pipeline max_results must be positive")
	}
	if c.Pipeline.Concurrency <= 0 {
		return fmt.Errorf("pipeline concurrency must be positive")
	}

	for name, p := range map[string]ProviderConfig{
		"openalex":  c.Providers.OpenAlex,
		"crossref":  c.Providers.Crossref,
		"altmetric": c.Providers.Altmetric,
	} {
		if p.BaseURL == "" {
			return fmt.Errorf("provider %s base_url is required", name)
		}
		if p.RateLimit <= 0 {
			return fmt.Errorf("provider %s rate_limit must be positive", name)
		}
	}

	return nil
}
