package config

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	require.NotNil(t, config.Server)
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, []string{"*"}, config.Server.CORSOrigins)
	assert.Equal(t, 10, config.Server.ReadTimeoutSec)
	assert.Equal(t, 10, config.Server.WriteTimeoutSec)
	assert.Equal(t, 5, config.Server.ShutdownTimeoutSec)

	require.NotNil(t, config.Converter)
	assert.Equal(t, "", config.Converter.DefaultTimezone)

	require.NotNil(t, config.Prometheus)
	assert.Equal(t, "", config.Prometheus.RemoteWriteURL)
	assert.Equal(t, 600, config.Prometheus.IntervalSec)
	assert.Equal(t, 30, config.Prometheus.TimeoutSec)

	require.NotNil(t, config.Logging)
	assert.Equal(t, "info", config.Logging.Level)
	assert.False(t, config.Logging.Debug)
	require.NotNil(t, config.Logging.Promtail)
	assert.Equal(t, "", config.Logging.Promtail.URL)
}

func TestConverterConfig_EnvironmentVariable(t *testing.T) {
	t.Setenv("TZBRIDGE_DEFAULT_TIMEZONE", "Asia/Tokyo")

	config := DefaultConfig()
	err := config.LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "Asia/Tokyo", config.Converter.DefaultTimezone)
	assert.Equal(t, SourceEnvironment, config.ConfigSources["Converter.DefaultTimezone"])
}

func TestServerConfig_EnvironmentTracking(t *testing.T) {
	t.Setenv("TZBRIDGE_SERVER_HOST", "127.0.0.1")
	t.Setenv("TZBRIDGE_SERVER_PORT", "9090")
	t.Setenv("TZBRIDGE_SERVER_CORS_ORIGINS", "https://a.example, https://b.example")

	config := DefaultConfig()
	err := config.LoadFromEnv()
	require.NoError(t, err)

	// Check that all fields were loaded from environment
	assert.Equal(t, "127.0.0.1", config.Server.Host)
	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, config.Server.CORSOrigins)

	// Check that sources were tracked correctly
	assert.Equal(t, SourceEnvironment, config.ConfigSources["Server.Host"])
	assert.Equal(t, SourceEnvironment, config.ConfigSources["Server.Port"])
	assert.Equal(t, SourceEnvironment, config.ConfigSources["Server.CORSOrigins"])
}

func TestPrometheusConfig_EnvironmentTracking(t *testing.T) {
	t.Setenv("TZBRIDGE_PROMETHEUS_REMOTE_WRITE_URL", "https://prometheus.example.com/write")
	t.Setenv("TZBRIDGE_PROMETHEUS_REMOTE_WRITE_USERNAME", "metrics-user")
	t.Setenv("TZBRIDGE_PROMETHEUS_REMOTE_WRITE_PASSWORD", "metrics-pass")
	t.Setenv("TZBRIDGE_PROMETHEUS_HOST_LABEL", "bridge-01")
	t.Setenv("TZBRIDGE_PROMETHEUS_INTERVAL_SECONDS", "120")

	config := DefaultConfig()
	err := config.LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "https://prometheus.example.com/write", config.Prometheus.RemoteWriteURL)
	assert.Equal(t, "metrics-user", config.Prometheus.RemoteWriteUsername)
	assert.Equal(t, "metrics-pass", config.Prometheus.RemoteWritePassword)
	assert.Equal(t, "bridge-01", config.Prometheus.HostLabel)
	assert.Equal(t, 120, config.Prometheus.IntervalSec)

	assert.Equal(t, SourceEnvironment, config.ConfigSources["Prometheus.RemoteWriteURL"])
	assert.Equal(t, SourceEnvironment, config.ConfigSources["Prometheus.HostLabel"])
	assert.Equal(t, SourceEnvironment, config.ConfigSources["Prometheus.IntervalSec"])
}

func TestServerConfig_Validation(t *testing.T) {
	tests := []struct {
		name    string
		server  *ServerConfig
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid configuration",
			server: &ServerConfig{
				Port:               8080,
				ReadTimeoutSec:     10,
				WriteTimeoutSec:    10,
				ShutdownTimeoutSec: 5,
			},
			wantErr: false,
		},
		{
			name: "port zero",
			server: &ServerConfig{
				Port:               0,
				ReadTimeoutSec:     10,
				WriteTimeoutSec:    10,
				ShutdownTimeoutSec: 5,
			},
			wantErr: true,
			errMsg:  "server port must be between 1 and 65535",
		},
		{
			name: "port out of range",
			server: &ServerConfig{
				Port:               70000,
				ReadTimeoutSec:     10,
				WriteTimeoutSec:    10,
				ShutdownTimeoutSec: 5,
			},
			wantErr: true,
			errMsg:  "server port must be between 1 and 65535",
		},
		{
			name: "read timeout too small",
			server: &ServerConfig{
				Port:               8080,
				ReadTimeoutSec:     0,
				WriteTimeoutSec:    10,
				ShutdownTimeoutSec: 5,
			},
			wantErr: true,
			errMsg:  "server read timeout must be at least 1 second",
		},
		{
			name: "shutdown timeout too small",
			server: &ServerConfig{
				Port:               8080,
				ReadTimeoutSec:     10,
				WriteTimeoutSec:    10,
				ShutdownTimeoutSec: 0,
			},
			wantErr: true,
			errMsg:  "server shutdown timeout must be at least 1 second",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &AppConfig{Server: tt.server}

			err := config.validateServer()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConverterConfig_Validation(t *testing.T) {
	tests := []struct {
		name            string
		defaultTimezone string
		wantErr         bool
	}{
		{
			name:            "empty timezone",
			defaultTimezone: "",
			wantErr:         false,
		},
		{
			name:            "valid timezone",
			defaultTimezone: "America/New_York",
			wantErr:         false,
		},
		{
			name:            "unknown timezone",
			defaultTimezone: "Mars/Olympus_Mons",
			wantErr:         true,
		},
		{
			name:            "lowercase timezone",
			defaultTimezone: "america/new_york",
			wantErr:         true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &AppConfig{
				Converter: &ConverterConfig{DefaultTimezone: tt.defaultTimezone},
			}

			err := config.validateConverter()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "converter default timezone is invalid")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPrometheusConfig_Validation(t *testing.T) {
	tests := []struct {
		name       string
		prometheus *PrometheusConfig
		wantErr    bool
		errMsg     string
	}{
		{
			name: "empty remote write URL skips validation",
			prometheus: &PrometheusConfig{
				RemoteWriteURL: "",
				IntervalSec:    0,
				TimeoutSec:     0,
			},
			wantErr: false,
		},
		{
			name: "valid configuration",
			prometheus: &PrometheusConfig{
				RemoteWriteURL:      "https://prometheus.example.com/write",
				RemoteWriteUsername: "user",
				RemoteWritePassword: "pass",
				IntervalSec:         600,
				TimeoutSec:          30,
			},
			wantErr: false,
		},
		{
			name: "interval too small",
			prometheus: &PrometheusConfig{
				RemoteWriteURL:      "https://prometheus.example.com/write",
				RemoteWriteUsername: "user",
				RemoteWritePassword: "pass",
				IntervalSec:         30,
				TimeoutSec:          10,
			},
			wantErr: true,
			errMsg:  "prometheus interval must be at least 60 seconds",
		},
		{
			name: "timeout not less than interval",
			prometheus: &PrometheusConfig{
				RemoteWriteURL:      "https://prometheus.example.com/write",
				RemoteWriteUsername: "user",
				RemoteWritePassword: "pass",
				IntervalSec:         60,
				TimeoutSec:          60,
			},
			wantErr: true,
			errMsg:  "prometheus timeout must be less than interval",
		},
		{
			name: "missing credentials",
			prometheus: &PrometheusConfig{
				RemoteWriteURL: "https://prometheus.example.com/write",
				IntervalSec:    600,
				TimeoutSec:     30,
			},
			wantErr: true,
			errMsg:  "remote write username and password are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &AppConfig{Prometheus: tt.prometheus}

			err := config.validatePrometheus()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoggingConfig_Validation(t *testing.T) {
	tests := []struct {
		name    string
		logging *LoggingConfig
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid level",
			logging: &LoggingConfig{Level: "debug"},
			wantErr: false,
		},
		{
			name:    "invalid level",
			logging: &LoggingConfig{Level: "verbose"},
			wantErr: true,
			errMsg:  "invalid log level",
		},
		{
			name: "promtail without URL skips validation",
			logging: &LoggingConfig{
				Level:    "info",
				Promtail: &PromtailConfig{URL: "", BatchWaitSeconds: 0},
			},
			wantErr: false,
		},
		{
			name: "promtail batch wait too small",
			logging: &LoggingConfig{
				Level: "info",
				Promtail: &PromtailConfig{
					URL:              "http://localhost:3100/loki/api/v1/push",
					BatchWaitSeconds: 0,
					BatchCapacity:    100,
					TimeoutSeconds:   5,
				},
			},
			wantErr: true,
			errMsg:  "promtail batch wait must be at least 1 second",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &AppConfig{Logging: tt.logging}

			err := config.validateLogging()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMergeJSONConfig(t *testing.T) {
	baseConfig := DefaultConfig()
	baseConfig.MarkDefaults()

	jsonConfig := &AppConfig{
		Version: 1,
		Server: &ServerConfig{
			Port:        9000,
			CORSOrigins: []string{"https://app.example"},
		},
		Converter: &ConverterConfig{
			DefaultTimezone: "Europe/Berlin",
		},
		Prometheus: &PrometheusConfig{
			RemoteWriteURL: "https://prometheus.example.com/write",
			HostLabel:      "bridge-02",
		},
	}

	baseConfig.MergeJSONConfig(jsonConfig)

	// Check that values were merged
	assert.Equal(t, 9000, baseConfig.Server.Port)
	assert.Equal(t, []string{"https://app.example"}, baseConfig.Server.CORSOrigins)
	assert.Equal(t, "Europe/Berlin", baseConfig.Converter.DefaultTimezone)
	assert.Equal(t, "https://prometheus.example.com/write", baseConfig.Prometheus.RemoteWriteURL)
	assert.Equal(t, "bridge-02", baseConfig.Prometheus.HostLabel)

	// Zero values in JSON must not clobber defaults
	assert.Equal(t, 10, baseConfig.Server.ReadTimeoutSec)
	assert.Equal(t, 600, baseConfig.Prometheus.IntervalSec)

	// Check that sources were updated
	assert.Equal(t, SourceJSONFile, baseConfig.ConfigSources["Server.Port"])
	assert.Equal(t, SourceJSONFile, baseConfig.ConfigSources["Server.CORSOrigins"])
	assert.Equal(t, SourceJSONFile, baseConfig.ConfigSources["Converter.DefaultTimezone"])
	assert.Equal(t, SourceJSONFile, baseConfig.ConfigSources["Prometheus.RemoteWriteURL"])
	assert.Equal(t, SourceDefault, baseConfig.ConfigSources["Server.ReadTimeoutSec"])
}

func TestLoadFromEnv_PreservesMergedValues(t *testing.T) {
	// Unset the variables this test depends on; t.Setenv registers the
	// restore before os.Unsetenv removes them for the test body.
	for _, key := range []string{"TZBRIDGE_SERVER_PORT", "TZBRIDGE_SERVER_READ_TIMEOUT_SECONDS", "TZBRIDGE_DEFAULT_TIMEZONE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("TZBRIDGE_SERVER_HOST", "10.0.0.5")

	config := DefaultConfig()
	config.MarkDefaults()
	config.MergeJSONConfig(&AppConfig{
		Server:    &ServerConfig{Port: 9000},
		Converter: &ConverterConfig{DefaultTimezone: "Europe/Berlin"},
	})

	err := config.LoadFromEnv()
	require.NoError(t, err)

	// File values survive the environment pass when their variable is unset
	assert.Equal(t, 9000, config.Server.Port)
	assert.Equal(t, "Europe/Berlin", config.Converter.DefaultTimezone)
	assert.Equal(t, SourceJSONFile, config.ConfigSources["Server.Port"])
	assert.Equal(t, SourceJSONFile, config.ConfigSources["Converter.DefaultTimezone"])

	// Defaults survive as well
	assert.Equal(t, 10, config.Server.ReadTimeoutSec)
	assert.Equal(t, SourceDefault, config.ConfigSources["Server.ReadTimeoutSec"])

	// Variables that are set still take precedence
	assert.Equal(t, "10.0.0.5", config.Server.Host)
	assert.Equal(t, SourceEnvironment, config.ConfigSources["Server.Host"])
}

func TestAppConfig_BackwardCompatibility(t *testing.T) {
	// Test that configs without the converter section still parse
	oldConfigJSON := `{
		"version": 1,
		"server": {
			"port": 8081,
			"cors_origins": ["*"]
		},
		"prometheus": {
			"remote_write_url": "https://prometheus.example.com/write",
			"interval_seconds": 300
		}
	}`

	var config AppConfig
	err := json.Unmarshal([]byte(oldConfigJSON), &config)
	require.NoError(t, err)

	assert.Equal(t, 8081, config.Server.Port)
	assert.Equal(t, 300, config.Prometheus.IntervalSec)
	assert.Nil(t, config.Converter) // Should be absent for old configs
}

func TestAppConfig_CompleteValidation(t *testing.T) {
	// Test complete validation flow
	config := &AppConfig{
		Server: &ServerConfig{
			Port:               8080,
			CORSOrigins:        []string{"*"},
			ReadTimeoutSec:     10,
			WriteTimeoutSec:    10,
			ShutdownTimeoutSec: 5,
		},
		Converter: &ConverterConfig{
			DefaultTimezone: "Asia/Tokyo",
		},
		Prometheus: &PrometheusConfig{
			RemoteWriteURL:      "https://prometheus.example.com/write",
			RemoteWriteUsername: "user",
			RemoteWritePassword: "pass",
			IntervalSec:         600,
			TimeoutSec:          30,
		},
		Logging: &LoggingConfig{
			Level: "info",
		},
	}

	err := config.Validate()
	assert.NoError(t, err)
}
