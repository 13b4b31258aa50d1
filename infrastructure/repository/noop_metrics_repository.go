package repository

import (
	"github.com/ca-srg/tzbridge/domain/repository"
	"github.com/ca-srg/tzbridge/domain/valueobject"
)

// NoOpMetricsRepository is a no-op implementation of MetricsRepository
// Used when Prometheus is not configured
type NoOpMetricsRepository struct{}

// NewNoOpMetricsRepository creates a new no-op metrics repository
func NewNoOpMetricsRepository() repository.MetricsRepository {
	return &NoOpMetricsRepository{}
}

// SendConversionMetrics does nothing
func (r *NoOpMetricsRepository) SendConversionMetrics(counts valueobject.ConversionCounts, hostLabel string) error {
	// No-op: do nothing
	return nil
}

// SendUptimeMetric does nothing
func (r *NoOpMetricsRepository) SendUptimeMetric(uptimeSeconds float64, hostLabel string) error {
	// No-op: do nothing
	return nil
}

// Close does nothing
func (r *NoOpMetricsRepository) Close() error {
	// No-op: do nothing
	return nil
}
