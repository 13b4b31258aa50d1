package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Netflix/go-env"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Host is the interface the HTTP server binds to (empty means all interfaces)
	Host string `json:"host,omitempty" env:"TZBRIDGE_SERVER_HOST,default="`

	// Port is the TCP port the HTTP server listens on
	Port int `json:"port,omitempty" env:"TZBRIDGE_SERVER_PORT,default=8080"`

	// CORSOrigins is the list of origins allowed to call the HTTP API
	// Environment variable: TZBRIDGE_SERVER_CORS_ORIGINS (comma-separated, e.g., "https://a.example,https://b.example")
	CORSOrigins []string `json:"cors_origins,omitempty" env:"TZBRIDGE_SERVER_CORS_ORIGINS"`

	// ReadTimeoutSec is the timeout in seconds for reading a request
	ReadTimeoutSec int `json:"read_timeout_seconds,omitempty" env:"TZBRIDGE_SERVER_READ_TIMEOUT_SECONDS,default=10"`

	// WriteTimeoutSec is the timeout in seconds for writing a response
	WriteTimeoutSec int `json:"write_timeout_seconds,omitempty" env:"TZBRIDGE_SERVER_WRITE_TIMEOUT_SECONDS,default=10"`

	// ShutdownTimeoutSec is the grace period in seconds for draining requests on shutdown
	ShutdownTimeoutSec int `json:"shutdown_timeout_seconds,omitempty" env:"TZBRIDGE_SERVER_SHUTDOWN_TIMEOUT_SECONDS,default=5"`
}

// ConverterConfig holds timezone conversion configuration
type ConverterConfig struct {
	// DefaultTimezone overrides system timezone detection with a fixed
	// IANA zone name (empty means detect from the environment)
	DefaultTimezone string `json:"default_timezone,omitempty" env:"TZBRIDGE_DEFAULT_TIMEZONE,default="`
}

// PrometheusConfig holds Prometheus integration configuration
type PrometheusConfig struct {
	// RemoteWriteURL is the Prometheus Remote Write endpoint URL
	RemoteWriteURL string `json:"remote_write_url" env:"TZBRIDGE_PROMETHEUS_REMOTE_WRITE_URL"`

	// RemoteWriteUsername is the username for Remote Write authentication
	RemoteWriteUsername string `json:"remote_write_username" env:"TZBRIDGE_PROMETHEUS_REMOTE_WRITE_USERNAME"`

	// RemoteWritePassword is the password for Remote Write authentication
	RemoteWritePassword string `json:"remote_write_password" env:"TZBRIDGE_PROMETHEUS_REMOTE_WRITE_PASSWORD"`

	// HostLabel is the host label value for metrics
	HostLabel string `json:"host_label,omitempty" env:"TZBRIDGE_PROMETHEUS_HOST_LABEL"`

	// IntervalSec is the interval in seconds between metric pushes
	IntervalSec int `json:"interval_seconds,omitempty" env:"TZBRIDGE_PROMETHEUS_INTERVAL_SECONDS,default=600"`

	// TimeoutSec is the timeout in seconds for metric pushes
	TimeoutSec int `json:"timeout_seconds,omitempty" env:"TZBRIDGE_PROMETHEUS_TIMEOUT_SECONDS,default=30"`
}

// PromtailConfig holds Promtail logging configuration
type PromtailConfig struct {
	// URL is the Promtail push endpoint URL (empty keeps logging local)
	URL string `json:"url" env:"TZBRIDGE_LOKI_URL"`

	// Username is the username for basic authentication
	Username string `json:"username" env:"TZBRIDGE_LOKI_USERNAME"`

	// Password is the password for basic authentication
	Password string `json:"password" env:"TZBRIDGE_LOKI_PASSWORD"`

	// BatchWaitSeconds is the time to wait before sending a batch
	BatchWaitSeconds int `json:"batch_wait_seconds,omitempty" env:"TZBRIDGE_LOKI_BATCH_WAIT_SECONDS,default=1"`

	// BatchCapacity is the maximum number of log entries in a batch
	BatchCapacity int `json:"batch_capacity,omitempty" env:"TZBRIDGE_LOKI_BATCH_CAPACITY,default=100"`

	// TimeoutSeconds is the timeout for sending logs
	TimeoutSeconds int `json:"timeout_seconds,omitempty" env:"TZBRIDGE_LOKI_TIMEOUT_SECONDS,default=5"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string `json:"level,omitempty" env:"TZBRIDGE_LOG_LEVEL,default=info"`

	// Debug enables debug mode with stdout logging
	Debug bool `json:"debug,omitempty" env:"TZBRIDGE_LOG_DEBUG,default=false"`

	// Promtail holds Promtail configuration
	Promtail *PromtailConfig `json:"promtail,omitempty"`
}

// ConfigSource represents the source of a configuration value
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceJSONFile    ConfigSource = "json"
	SourceEnvironment ConfigSource = "env"
)

// ConfigSourceMap tracks the source of each configuration field
type ConfigSourceMap map[string]ConfigSource

// AppConfig holds application configuration
type AppConfig struct {
	// Version is the configuration schema version
	Version int `json:"version,omitempty"`

	// Server holds HTTP server configuration
	Server *ServerConfig `json:"server,omitempty"`

	// Converter holds timezone conversion configuration
	Converter *ConverterConfig `json:"converter,omitempty"`

	// Prometheus holds Prometheus integration configuration
	Prometheus *PrometheusConfig `json:"prometheus,omitempty"`

	// Logging holds logging configuration
	Logging *LoggingConfig `json:"logging,omitempty"`

	// ConfigSources tracks the source of each configuration field
	ConfigSources ConfigSourceMap `json:"-"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Version: 1, // Current configuration version
		Server: &ServerConfig{
			Host:               "",
			Port:               8080,
			CORSOrigins:        []string{"*"},
			ReadTimeoutSec:     10,
			WriteTimeoutSec:    10,
			ShutdownTimeoutSec: 5,
		},
		Converter: &ConverterConfig{
			DefaultTimezone: "", // Empty by default, system timezone is detected
		},
		Prometheus: &PrometheusConfig{
			RemoteWriteURL:      "", // Empty by default, must be set via environment variable or config.json
			RemoteWriteUsername: "",
			RemoteWritePassword: "",
			HostLabel:           "",
			IntervalSec:         600, // 10 minutes
			TimeoutSec:          30,
		},
		Logging: &LoggingConfig{
			Level: "info",
			Debug: false,
			Promtail: &PromtailConfig{
				URL:              "", // Empty by default, logging stays on stderr
				Username:         "",
				Password:         "",
				BatchWaitSeconds: 1,
				BatchCapacity:    100,
				TimeoutSeconds:   5,
			},
		},
		ConfigSources: make(ConfigSourceMap),
	}
}

// MinimalDefaultConfig returns the minimal configuration template for initial setup
func MinimalDefaultConfig() *AppConfig {
	return &AppConfig{
		Version: 1, // Current configuration version
		Server: &ServerConfig{
			Port:               8080,
			CORSOrigins:        []string{"*"},
			ReadTimeoutSec:     10,
			WriteTimeoutSec:    10,
			ShutdownTimeoutSec: 5,
		},
		Converter: &ConverterConfig{
			DefaultTimezone: "",
		},
		Prometheus: &PrometheusConfig{
			RemoteWriteURL:      "",
			RemoteWriteUsername: "",
			RemoteWritePassword: "",
			HostLabel:           "",
			IntervalSec:         600, // 10 minutes
			TimeoutSec:          30,
		},
		Logging: &LoggingConfig{
			Level: "info",
			Debug: false,
			Promtail: &PromtailConfig{
				URL:              "",
				Username:         "",
				Password:         "",
				BatchWaitSeconds: 1,
				BatchCapacity:    100,
				TimeoutSeconds:   5,
			},
		},
		ConfigSources: make(ConfigSourceMap),
	}
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*AppConfig, error) {
	config := DefaultConfig()

	// Load environment variables using Netflix/go-env
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadFromEnv loads configuration from environment variables using Netflix/go-env
func (c *AppConfig) LoadFromEnv() error {
	// Store original values. UnmarshalFromEnviron writes tag defaults over
	// fields whose variable is unset, so the snapshot is used both to detect
	// overrides and to restore merged values afterwards.
	original := &AppConfig{}
	if c.Server != nil {
		original.Server = &ServerConfig{
			Host:               c.Server.Host,
			Port:               c.Server.Port,
			CORSOrigins:        c.Server.CORSOrigins,
			ReadTimeoutSec:     c.Server.ReadTimeoutSec,
			WriteTimeoutSec:    c.Server.WriteTimeoutSec,
			ShutdownTimeoutSec: c.Server.ShutdownTimeoutSec,
		}
	}
	if c.Converter != nil {
		original.Converter = &ConverterConfig{
			DefaultTimezone: c.Converter.DefaultTimezone,
		}
	}
	if c.Prometheus != nil {
		original.Prometheus = &PrometheusConfig{
			RemoteWriteURL:      c.Prometheus.RemoteWriteURL,
			RemoteWriteUsername: c.Prometheus.RemoteWriteUsername,
			RemoteWritePassword: c.Prometheus.RemoteWritePassword,
			HostLabel:           c.Prometheus.HostLabel,
			IntervalSec:         c.Prometheus.IntervalSec,
			TimeoutSec:          c.Prometheus.TimeoutSec,
		}
	}
	if c.Logging != nil {
		original.Logging = &LoggingConfig{
			Level: c.Logging.Level,
			Debug: c.Logging.Debug,
		}
		if c.Logging.Promtail != nil {
			original.Logging.Promtail = &PromtailConfig{
				URL:              c.Logging.Promtail.URL,
				Username:         c.Logging.Promtail.Username,
				Password:         c.Logging.Promtail.Password,
				BatchWaitSeconds: c.Logging.Promtail.BatchWaitSeconds,
				BatchCapacity:    c.Logging.Promtail.BatchCapacity,
				TimeoutSeconds:   c.Logging.Promtail.TimeoutSeconds,
			}
		}
	}

	// Use Netflix/go-env to unmarshal environment variables into the config struct
	_, err := env.UnmarshalFromEnviron(c)
	if err != nil {
		return fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	// Special handling for Server nested struct
	if c.Server != nil {
		_, err = env.UnmarshalFromEnviron(c.Server)
		if err != nil {
			return fmt.Errorf("failed to unmarshal Server environment variables: %w", err)
		}
		// Custom handling for CORSOrigins slice
		if originsEnv := os.Getenv("TZBRIDGE_SERVER_CORS_ORIGINS"); originsEnv != "" {
			c.Server.CORSOrigins = splitCommaSeparated(originsEnv)
		}
		c.applyServerEnvOverrides(original.Server)
	}

	// Special handling for Converter nested struct
	if c.Converter != nil {
		_, err = env.UnmarshalFromEnviron(c.Converter)
		if err != nil {
			return fmt.Errorf("failed to unmarshal Converter environment variables: %w", err)
		}
		c.applyConverterEnvOverrides(original.Converter)
	}

	// Special handling for Prometheus nested struct
	if c.Prometheus != nil {
		_, err = env.UnmarshalFromEnviron(c.Prometheus)
		if err != nil {
			return fmt.Errorf("failed to unmarshal Prometheus environment variables: %w", err)
		}
		c.applyPrometheusEnvOverrides(original.Prometheus)
	}

	// Special handling for Logging nested struct
	if c.Logging != nil {
		_, err = env.UnmarshalFromEnviron(c.Logging)
		if err != nil {
			return fmt.Errorf("failed to unmarshal Logging environment variables: %w", err)
		}
		c.applyLoggingEnvOverrides(original.Logging)

		// Handle Promtail nested struct
		if c.Logging.Promtail != nil {
			_, err = env.UnmarshalFromEnviron(c.Logging.Promtail)
			if err != nil {
				return fmt.Errorf("failed to unmarshal Promtail environment variables: %w", err)
			}
			if original.Logging != nil && original.Logging.Promtail != nil {
				c.applyPromtailEnvOverrides(original.Logging.Promtail)
			}
		}
	}

	return nil
}

// applyServerEnvOverrides records environment variable overrides for Server config
// and restores fields whose variable is unset
func (c *AppConfig) applyServerEnvOverrides(original *ServerConfig) {
	if original == nil {
		return
	}
	if os.Getenv("TZBRIDGE_SERVER_HOST") != "" {
		if c.Server.Host != original.Host {
			c.ConfigSources["Server.Host"] = SourceEnvironment
		}
	} else {
		c.Server.Host = original.Host
	}
	if os.Getenv("TZBRIDGE_SERVER_PORT") != "" {
		if c.Server.Port != original.Port {
			c.ConfigSources["Server.Port"] = SourceEnvironment
		}
	} else {
		c.Server.Port = original.Port
	}
	if os.Getenv("TZBRIDGE_SERVER_CORS_ORIGINS") != "" {
		if !slicesEqual(c.Server.CORSOrigins, original.CORSOrigins) {
			c.ConfigSources["Server.CORSOrigins"] = SourceEnvironment
		}
	} else {
		c.Server.CORSOrigins = original.CORSOrigins
	}
	if os.Getenv("TZBRIDGE_SERVER_READ_TIMEOUT_SECONDS") != "" {
		if c.Server.ReadTimeoutSec != original.ReadTimeoutSec {
			c.ConfigSources["Server.ReadTimeoutSec"] = SourceEnvironment
		}
	} else {
		c.Server.ReadTimeoutSec = original.ReadTimeoutSec
	}
	if os.Getenv("TZBRIDGE_SERVER_WRITE_TIMEOUT_SECONDS") != "" {
		if c.Server.WriteTimeoutSec != original.WriteTimeoutSec {
			c.ConfigSources["Server.WriteTimeoutSec"] = SourceEnvironment
		}
	} else {
		c.Server.WriteTimeoutSec = original.WriteTimeoutSec
	}
	if os.Getenv("TZBRIDGE_SERVER_SHUTDOWN_TIMEOUT_SECONDS") != "" {
		if c.Server.ShutdownTimeoutSec != original.ShutdownTimeoutSec {
			c.ConfigSources["Server.ShutdownTimeoutSec"] = SourceEnvironment
		}
	} else {
		c.Server.ShutdownTimeoutSec = original.ShutdownTimeoutSec
	}
}

// applyConverterEnvOverrides records environment variable overrides for Converter config
// and restores fields whose variable is unset
func (c *AppConfig) applyConverterEnvOverrides(original *ConverterConfig) {
	if original == nil {
		return
	}
	if os.Getenv("TZBRIDGE_DEFAULT_TIMEZONE") != "" {
		if c.Converter.DefaultTimezone != original.DefaultTimezone {
			c.ConfigSources["Converter.DefaultTimezone"] = SourceEnvironment
		}
	} else {
		c.Converter.DefaultTimezone = original.DefaultTimezone
	}
}

// applyPrometheusEnvOverrides records environment variable overrides for Prometheus config
// and restores fields whose variable is unset
func (c *AppConfig) applyPrometheusEnvOverrides(original *PrometheusConfig) {
	if original == nil {
		return
	}
	if os.Getenv("TZBRIDGE_PROMETHEUS_REMOTE_WRITE_URL") != "" {
		if c.Prometheus.RemoteWriteURL != original.RemoteWriteURL {
			c.ConfigSources["Prometheus.RemoteWriteURL"] = SourceEnvironment
		}
	} else {
		c.Prometheus.RemoteWriteURL = original.RemoteWriteURL
	}
	if os.Getenv("TZBRIDGE_PROMETHEUS_REMOTE_WRITE_USERNAME") != "" {
		if c.Prometheus.RemoteWriteUsername != original.RemoteWriteUsername {
			c.ConfigSources["Prometheus.RemoteWriteUsername"] = SourceEnvironment
		}
	} else {
		c.Prometheus.RemoteWriteUsername = original.RemoteWriteUsername
	}
	if os.Getenv("TZBRIDGE_PROMETHEUS_REMOTE_WRITE_PASSWORD") != "" {
		if c.Prometheus.RemoteWritePassword != original.RemoteWritePassword {
			c.ConfigSources["Prometheus.RemoteWritePassword"] = SourceEnvironment
		}
	} else {
		c.Prometheus.RemoteWritePassword = original.RemoteWritePassword
	}
	if os.Getenv("TZBRIDGE_PROMETHEUS_HOST_LABEL") != "" {
		if c.Prometheus.HostLabel != original.HostLabel {
			c.ConfigSources["Prometheus.HostLabel"] = SourceEnvironment
		}
	} else {
		c.Prometheus.HostLabel = original.HostLabel
	}
	if os.Getenv("TZBRIDGE_PROMETHEUS_INTERVAL_SECONDS") != "" {
		if c.Prometheus.IntervalSec != original.IntervalSec {
			c.ConfigSources["Prometheus.IntervalSec"] = SourceEnvironment
		}
	} else {
		c.Prometheus.IntervalSec = original.IntervalSec
	}
	if os.Getenv("TZBRIDGE_PROMETHEUS_TIMEOUT_SECONDS") != "" {
		if c.Prometheus.TimeoutSec != original.TimeoutSec {
			c.ConfigSources["Prometheus.TimeoutSec"] = SourceEnvironment
		}
	} else {
		c.Prometheus.TimeoutSec = original.TimeoutSec
	}
}

// applyLoggingEnvOverrides records environment variable overrides for Logging config
// and restores fields whose variable is unset
func (c *AppConfig) applyLoggingEnvOverrides(original *LoggingConfig) {
	if original == nil {
		return
	}
	if os.Getenv("TZBRIDGE_LOG_LEVEL") != "" {
		if c.Logging.Level != original.Level {
			c.ConfigSources["Logging.Level"] = SourceEnvironment
		}
	} else {
		c.Logging.Level = original.Level
	}
	if os.Getenv("TZBRIDGE_LOG_DEBUG") != "" {
		if c.Logging.Debug != original.Debug {
			c.ConfigSources["Logging.Debug"] = SourceEnvironment
		}
	} else {
		c.Logging.Debug = original.Debug
	}
}

// applyPromtailEnvOverrides records environment variable overrides for Promtail config
// and restores fields whose variable is unset
func (c *AppConfig) applyPromtailEnvOverrides(original *PromtailConfig) {
	if original == nil {
		return
	}
	if os.Getenv("TZBRIDGE_LOKI_URL") != "" {
		if c.Logging.Promtail.URL != original.URL {
			c.ConfigSources["Promtail.URL"] = SourceEnvironment
		}
	} else {
		c.Logging.Promtail.URL = original.URL
	}
	if os.Getenv("TZBRIDGE_LOKI_USERNAME") != "" {
		if c.Logging.Promtail.Username != original.Username {
			c.ConfigSources["Promtail.Username"] = SourceEnvironment
		}
	} else {
		c.Logging.Promtail.Username = original.Username
	}
	if os.Getenv("TZBRIDGE_LOKI_PASSWORD") != "" {
		if c.Logging.Promtail.Password != original.Password {
			c.ConfigSources["Promtail.Password"] = SourceEnvironment
		}
	} else {
		c.Logging.Promtail.Password = original.Password
	}
	if os.Getenv("TZBRIDGE_LOKI_BATCH_WAIT_SECONDS") != "" {
		if c.Logging.Promtail.BatchWaitSeconds != original.BatchWaitSeconds {
			c.ConfigSources["Promtail.BatchWaitSeconds"] = SourceEnvironment
		}
	} else {
		c.Logging.Promtail.BatchWaitSeconds = original.BatchWaitSeconds
	}
	if os.Getenv("TZBRIDGE_LOKI_BATCH_CAPACITY") != "" {
		if c.Logging.Promtail.BatchCapacity != original.BatchCapacity {
			c.ConfigSources["Promtail.BatchCapacity"] = SourceEnvironment
		}
	} else {
		c.Logging.Promtail.BatchCapacity = original.BatchCapacity
	}
	if os.Getenv("TZBRIDGE_LOKI_TIMEOUT_SECONDS") != "" {
		if c.Logging.Promtail.TimeoutSeconds != original.TimeoutSeconds {
			c.ConfigSources["Promtail.TimeoutSeconds"] = SourceEnvironment
		}
	} else {
		c.Logging.Promtail.TimeoutSeconds = original.TimeoutSeconds
	}
}

// Validate validates the configuration
func (c *AppConfig) Validate() error {
	// Validate Server configuration
	if c.Server != nil {
		if err := c.validateServer(); err != nil {
			return err
		}
	}

	// Validate Converter configuration
	if c.Converter != nil {
		if err := c.validateConverter(); err != nil {
			return err
		}
	}

	// Validate Prometheus configuration
	if c.Prometheus != nil {
		if err := c.validatePrometheus(); err != nil {
			return err
		}
	}

	// Validate Logging configuration
	if c.Logging != nil {
		if err := c.validateLogging(); err != nil {
			return err
		}
	}

	return nil
}

// validateServer validates Server configuration
func (c *AppConfig) validateServer() error {
	if c.Server == nil {
		return nil
	}

	// Validate port is in the valid TCP range
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535")
	}

	// Validate timeouts are reasonable
	if c.Server.ReadTimeoutSec < 1 {
		return fmt.Errorf("server read timeout must be at least 1 second")
	}

	if c.Server.WriteTimeoutSec < 1 {
		return fmt.Errorf("server write timeout must be at least 1 second")
	}

	if c.Server.ShutdownTimeoutSec < 1 {
		return fmt.Errorf("server shutdown timeout must be at least 1 second")
	}

	return nil
}

// validateConverter validates Converter configuration
func (c *AppConfig) validateConverter() error {
	if c.Converter == nil {
		return nil
	}

	// Validate timezone override resolves against the zone database
	if c.Converter.DefaultTimezone != "" {
		if _, err := time.LoadLocation(c.Converter.DefaultTimezone); err != nil {
			return fmt.Errorf("converter default timezone is invalid: %w", err)
		}
	}

	return nil
}

// validatePrometheus validates Prometheus configuration
func (c *AppConfig) validatePrometheus() error {
	if c.Prometheus == nil {
		return nil
	}

	// Skip validation if RemoteWriteURL is empty (initial configuration)
	if c.Prometheus.RemoteWriteURL == "" {
		return nil
	}

	// Validate interval is reasonable
	if c.Prometheus.IntervalSec < 60 {
		return fmt.Errorf("prometheus interval must be at least 60 seconds")
	}

	// Validate timeout is reasonable
	if c.Prometheus.TimeoutSec < 1 {
		return fmt.Errorf("prometheus timeout must be at least 1 second")
	}

	if c.Prometheus.TimeoutSec >= c.Prometheus.IntervalSec {
		return fmt.Errorf("prometheus timeout must be less than interval")
	}

	// Validate basic authentication is provided for remote write
	if c.Prometheus.RemoteWriteUsername == "" || c.Prometheus.RemoteWritePassword == "" {
		return fmt.Errorf("remote write username and password are required when remote write URL is set")
	}

	return nil
}

// validateLogging validates Logging configuration
func (c *AppConfig) validateLogging() error {
	if c.Logging == nil {
		return nil
	}

	// Validate log level only if specified
	if c.Logging.Level != "" {
		validLevels := map[string]bool{
			"debug": true,
			"info":  true,
			"warn":  true,
			"error": true,
		}
		if !validLevels[c.Logging.Level] {
			return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
		}
	}

	// Validate Promtail configuration
	if c.Logging.Promtail != nil {
		// Skip validation if Promtail URL is empty (initial configuration)
		if c.Logging.Promtail.URL == "" {
			return nil
		}

		if c.Logging.Promtail.BatchWaitSeconds < 1 {
			return fmt.Errorf("promtail batch wait must be at least 1 second")
		}

		if c.Logging.Promtail.BatchCapacity < 1 {
			return fmt.Errorf("promtail batch capacity must be at least 1")
		}

		if c.Logging.Promtail.TimeoutSeconds < 1 {
			return fmt.Errorf("promtail timeout must be at least 1 second")
		}
	}

	return nil
}

// MarkDefaults marks all configuration fields as coming from defaults
func (c *AppConfig) MarkDefaults() {
	c.ConfigSources["Version"] = SourceDefault
	c.ConfigSources["Server.Host"] = SourceDefault
	c.ConfigSources["Server.Port"] = SourceDefault
	c.ConfigSources["Server.CORSOrigins"] = SourceDefault
	c.ConfigSources["Server.ReadTimeoutSec"] = SourceDefault
	c.ConfigSources["Server.WriteTimeoutSec"] = SourceDefault
	c.ConfigSources["Server.ShutdownTimeoutSec"] = SourceDefault
	c.ConfigSources["Converter.DefaultTimezone"] = SourceDefault
	c.ConfigSources["Prometheus.RemoteWriteURL"] = SourceDefault
	c.ConfigSources["Prometheus.RemoteWriteUsername"] = SourceDefault
	c.ConfigSources["Prometheus.RemoteWritePassword"] = SourceDefault
	c.ConfigSources["Prometheus.HostLabel"] = SourceDefault
	c.ConfigSources["Prometheus.IntervalSec"] = SourceDefault
	c.ConfigSources["Prometheus.TimeoutSec"] = SourceDefault
	c.ConfigSources["Logging.Level"] = SourceDefault
	c.ConfigSources["Logging.Debug"] = SourceDefault
	c.ConfigSources["Promtail.URL"] = SourceDefault
	c.ConfigSources["Promtail.Username"] = SourceDefault
	c.ConfigSources["Promtail.Password"] = SourceDefault
	c.ConfigSources["Promtail.BatchWaitSeconds"] = SourceDefault
	c.ConfigSources["Promtail.BatchCapacity"] = SourceDefault
	c.ConfigSources["Promtail.TimeoutSeconds"] = SourceDefault
}

// MergeJSONConfig merges JSON configuration into the current configuration
func (c *AppConfig) MergeJSONConfig(jsonConfig *AppConfig) {
	// Always merge version from JSON, even if it's 0 (legacy config)
	c.Version = jsonConfig.Version
	c.ConfigSources["Version"] = SourceJSONFile

	// Merge Server configuration
	if jsonConfig.Server != nil {
		if c.Server == nil {
			c.Server = &ServerConfig{}
		}
		c.mergeServerConfig(jsonConfig.Server)
	}

	// Merge Converter configuration
	if jsonConfig.Converter != nil {
		if c.Converter == nil {
			c.Converter = &ConverterConfig{}
		}
		c.mergeConverterConfig(jsonConfig.Converter)
	}

	// Merge Prometheus configuration
	if jsonConfig.Prometheus != nil {
		if c.Prometheus == nil {
			c.Prometheus = &PrometheusConfig{}
		}
		c.mergePrometheusConfig(jsonConfig.Prometheus)
	}

	// Merge Logging configuration
	if jsonConfig.Logging != nil {
		if c.Logging == nil {
			c.Logging = &LoggingConfig{}
		}
		c.mergeLoggingConfig(jsonConfig.Logging)
	}
}

// mergeServerConfig merges Server configuration from JSON
func (c *AppConfig) mergeServerConfig(jsonConfig *ServerConfig) {
	if jsonConfig.Host != "" {
		c.Server.Host = jsonConfig.Host
		c.ConfigSources["Server.Host"] = SourceJSONFile
	}
	if jsonConfig.Port != 0 {
		c.Server.Port = jsonConfig.Port
		c.ConfigSources["Server.Port"] = SourceJSONFile
	}
	if len(jsonConfig.CORSOrigins) > 0 {
		c.Server.CORSOrigins = jsonConfig.CORSOrigins
		c.ConfigSources["Server.CORSOrigins"] = SourceJSONFile
	}
	if jsonConfig.ReadTimeoutSec != 0 {
		c.Server.ReadTimeoutSec = jsonConfig.ReadTimeoutSec
		c.ConfigSources["Server.ReadTimeoutSec"] = SourceJSONFile
	}
	if jsonConfig.WriteTimeoutSec != 0 {
		c.Server.WriteTimeoutSec = jsonConfig.WriteTimeoutSec
		c.ConfigSources["Server.WriteTimeoutSec"] = SourceJSONFile
	}
	if jsonConfig.ShutdownTimeoutSec != 0 {
		c.Server.ShutdownTimeoutSec = jsonConfig.ShutdownTimeoutSec
		c.ConfigSources["Server.ShutdownTimeoutSec"] = SourceJSONFile
	}
}

// mergeConverterConfig merges Converter configuration from JSON
func (c *AppConfig) mergeConverterConfig(jsonConfig *ConverterConfig) {
	if jsonConfig.DefaultTimezone != "" {
		c.Converter.DefaultTimezone = jsonConfig.DefaultTimezone
		c.ConfigSources["Converter.DefaultTimezone"] = SourceJSONFile
	}
}

// mergePrometheusConfig merges Prometheus configuration from JSON
func (c *AppConfig) mergePrometheusConfig(jsonConfig *PrometheusConfig) {
	if jsonConfig.RemoteWriteURL != "" {
		c.Prometheus.RemoteWriteURL = jsonConfig.RemoteWriteURL
		c.ConfigSources["Prometheus.RemoteWriteURL"] = SourceJSONFile
	}
	if jsonConfig.RemoteWriteUsername != "" {
		c.Prometheus.RemoteWriteUsername = jsonConfig.RemoteWriteUsername
		c.ConfigSources["Prometheus.RemoteWriteUsername"] = SourceJSONFile
	}
	if jsonConfig.RemoteWritePassword != "" {
		c.Prometheus.RemoteWritePassword = jsonConfig.RemoteWritePassword
		c.ConfigSources["Prometheus.RemoteWritePassword"] = SourceJSONFile
	}
	if jsonConfig.HostLabel != "" {
		c.Prometheus.HostLabel = jsonConfig.HostLabel
		c.ConfigSources["Prometheus.HostLabel"] = SourceJSONFile
	}
	if jsonConfig.IntervalSec != 0 {
		c.Prometheus.IntervalSec = jsonConfig.IntervalSec
		c.ConfigSources["Prometheus.IntervalSec"] = SourceJSONFile
	}
	if jsonConfig.TimeoutSec != 0 {
		c.Prometheus.TimeoutSec = jsonConfig.TimeoutSec
		c.ConfigSources["Prometheus.TimeoutSec"] = SourceJSONFile
	}
}

// mergeLoggingConfig merges Logging configuration from JSON
func (c *AppConfig) mergeLoggingConfig(jsonConfig *LoggingConfig) {
	if jsonConfig.Level != "" {
		c.Logging.Level = jsonConfig.Level
		c.ConfigSources["Logging.Level"] = SourceJSONFile
	}

	// Note: bool field
	c.Logging.Debug = jsonConfig.Debug
	c.ConfigSources["Logging.Debug"] = SourceJSONFile

	// Merge Promtail configuration
	if jsonConfig.Promtail != nil {
		if c.Logging.Promtail == nil {
			c.Logging.Promtail = &PromtailConfig{}
		}
		c.mergePromtailConfig(jsonConfig.Promtail)
	}
}

// mergePromtailConfig merges Promtail configuration from JSON
func (c *AppConfig) mergePromtailConfig(jsonConfig *PromtailConfig) {
	if jsonConfig.URL != "" {
		c.Logging.Promtail.URL = jsonConfig.URL
		c.ConfigSources["Promtail.URL"] = SourceJSONFile
	}
	if jsonConfig.Username != "" {
		c.Logging.Promtail.Username = jsonConfig.Username
		c.ConfigSources["Promtail.Username"] = SourceJSONFile
	}
	if jsonConfig.Password != "" {
		c.Logging.Promtail.Password = jsonConfig.Password
		c.ConfigSources["Promtail.Password"] = SourceJSONFile
	}
	if jsonConfig.BatchWaitSeconds != 0 {
		c.Logging.Promtail.BatchWaitSeconds = jsonConfig.BatchWaitSeconds
		c.ConfigSources["Promtail.BatchWaitSeconds"] = SourceJSONFile
	}
	if jsonConfig.BatchCapacity != 0 {
		c.Logging.Promtail.BatchCapacity = jsonConfig.BatchCapacity
		c.ConfigSources["Promtail.BatchCapacity"] = SourceJSONFile
	}
	if jsonConfig.TimeoutSeconds != 0 {
		c.Logging.Promtail.TimeoutSeconds = jsonConfig.TimeoutSeconds
		c.ConfigSources["Promtail.TimeoutSeconds"] = SourceJSONFile
	}
}

// splitCommaSeparated splits a comma-separated string into a slice of strings
// It also trims whitespace from each element
func splitCommaSeparated(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// slicesEqual compares two string slices for equality
func slicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i, v := range a {
		if v != b[i] {
			return false
		}
	}
	return true
}
