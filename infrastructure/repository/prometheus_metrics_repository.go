package repository

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ca-srg/tzbridge/domain/repository"
	"github.com/ca-srg/tzbridge/domain/valueobject"
	"github.com/ca-srg/tzbridge/infrastructure/config"
)

// Metric names pushed via Remote Write
const (
	metricConversionsTotal        = "tzbridge_conversions_total"
	metricConversionFailuresTotal = "tzbridge_conversion_failures_total"
	metricUptimeSeconds           = "tzbridge_uptime_seconds"
)

// PrometheusMetricsRepository implements MetricsRepository using Prometheus Remote Write
type PrometheusMetricsRepository struct {
	config    *config.PrometheusConfig
	rwClient  *RemoteWriteClient
	hostLabel string
}

// NewPrometheusMetricsRepository creates a new Prometheus metrics repository
func NewPrometheusMetricsRepository(cfg *config.PrometheusConfig) (repository.MetricsRepository, error) {
	if cfg == nil {
		return nil, repository.NewMetricsRepositoryError("initialize", fmt.Errorf("prometheus config is nil"))
	}

	// Use hostname if HostLabel is not specified
	hostLabel := cfg.HostLabel
	if hostLabel == "" {
		hostname, err := os.Hostname()
		if err != nil {
			// Fall back to "unknown" if hostname cannot be determined
			hostLabel = "unknown"
		} else {
			hostLabel = hostname
		}
	}

	// Create authentication config (basic auth when credentials are provided)
	var authConfig *AuthConfig
	if cfg.RemoteWriteUsername != "" && cfg.RemoteWritePassword != "" {
		authConfig = &AuthConfig{
			Username: cfg.RemoteWriteUsername,
			Password: cfg.RemoteWritePassword,
		}
	}

	url := cfg.RemoteWriteURL
	if url == "" {
		return nil, repository.NewMetricsRepositoryError("initialize", fmt.Errorf("remote write url is empty"))
	}

	// Create Remote Write client
	rwClient, err := NewRemoteWriteClient(
		url,
		time.Duration(cfg.TimeoutSec)*time.Second,
		authConfig,
	)
	if err != nil {
		return nil, repository.NewMetricsRepositoryError("initialize", err)
	}

	return &PrometheusMetricsRepository{
		config:    cfg,
		rwClient:  rwClient,
		hostLabel: hostLabel,
	}, nil
}

// SendConversionMetrics pushes the cumulative conversion counters. The success
// counter and one failure counter per failure code go out in a single write
// request.
func (r *PrometheusMetricsRepository) SendConversionMetrics(counts valueobject.ConversionCounts, hostLabel string) error {
	// Use provided hostLabel or fall back to configured one
	if hostLabel == "" {
		hostLabel = r.hostLabel
	}

	samples := []metricSample{
		{
			Name:   metricConversionsTotal,
			Value:  float64(counts.Succeeded()),
			Labels: map[string]string{"host": hostLabel},
		},
	}
	for code, count := range counts.Failures() {
		samples = append(samples, metricSample{
			Name:   metricConversionFailuresTotal,
			Value:  float64(count),
			Labels: map[string]string{"host": hostLabel, "code": code},
		})
	}

	return r.push(samples)
}

// SendUptimeMetric pushes the process uptime in seconds
func (r *PrometheusMetricsRepository) SendUptimeMetric(uptimeSeconds float64, hostLabel string) error {
	if hostLabel == "" {
		hostLabel = r.hostLabel
	}

	samples := []metricSample{
		{
			Name:   metricUptimeSeconds,
			Value:  uptimeSeconds,
			Labels: map[string]string{"host": hostLabel},
		},
	}

	return r.push(samples)
}

func (r *PrometheusMetricsRepository) push(samples []metricSample) error {
	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.config.TimeoutSec)*time.Second)
	defer cancel()

	err := r.rwClient.Push(ctx, samples)
	if err != nil {
		if ctx.Err() != nil {
			return repository.NewMetricsRepositoryError("send", fmt.Errorf("timeout: %w", err))
		}
		return repository.NewMetricsRepositoryError("send", err)
	}

	return nil
}

// Close cleans up resources
func (r *PrometheusMetricsRepository) Close() error {
	// Remote Write client doesn't require explicit cleanup
	return nil
}
