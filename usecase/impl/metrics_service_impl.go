package impl

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ca-srg/tzbridge/domain"
	"github.com/ca-srg/tzbridge/domain/repository"
	"github.com/ca-srg/tzbridge/domain/valueobject"
	"github.com/ca-srg/tzbridge/infrastructure/config"
	usecase "github.com/ca-srg/tzbridge/usecase/interface"
)

// MetricsServiceImpl implements the MetricsService interface. It keeps
// in-memory conversion counters and pushes them on a fixed interval.
type MetricsServiceImpl struct {
	metricsRepo   repository.MetricsRepository
	statusService usecase.StatusService
	config        *config.PrometheusConfig
	logger        domain.Logger

	counterMu   sync.Mutex
	conversions int64
	failures    map[string]int64

	startedAt time.Time
	ticker    *time.Ticker
	stopChan  chan struct{}
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewMetricsServiceImpl creates a new metrics service implementation
func NewMetricsServiceImpl(
	metricsRepo repository.MetricsRepository,
	statusService usecase.StatusService,
	config *config.PrometheusConfig,
	logger domain.Logger,
) usecase.MetricsService {
	return &MetricsServiceImpl{
		metricsRepo:   metricsRepo,
		statusService: statusService,
		config:        config,
		logger:        logger,
		failures:      make(map[string]int64),
		startedAt:     time.Now(),
		stopChan:      make(chan struct{}),
		isRunning:     false,
	}
}

// RecordConversion increments the successful conversion counter
func (s *MetricsServiceImpl) RecordConversion() {
	s.counterMu.Lock()
	s.conversions++
	s.counterMu.Unlock()
}

// RecordFailure increments the failure counter for a DomainError code
func (s *MetricsServiceImpl) RecordFailure(code string) {
	if code == "" {
		code = string(domain.ErrCodeSystemError)
	}

	s.counterMu.Lock()
	s.failures[code]++
	s.counterMu.Unlock()
}

// Snapshot returns the counters accumulated so far
func (s *MetricsServiceImpl) Snapshot() valueobject.ConversionCounts {
	s.counterMu.Lock()
	defer s.counterMu.Unlock()
	return valueobject.NewConversionCounts(s.conversions, s.failures)
}

// StartPeriodicMetrics starts the periodic metrics push
func (s *MetricsServiceImpl) StartPeriodicMetrics() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return usecase.NewMetricsServiceError("already_running", "metrics service is already running")
	}

	if s.config == nil {
		return usecase.NewMetricsServiceError("invalid_config", "prometheus config is nil")
	}

	// Send initial metrics
	if err := s.sendMetrics(); err != nil {
		ctx := context.Background()
		s.logger.Warn(ctx, "Failed to send initial metrics", domain.NewField("error", err.Error()))
		// Don't fail startup due to metrics error
	}

	interval := time.Duration(s.config.IntervalSec) * time.Second
	s.ticker = time.NewTicker(interval)
	s.isRunning = true
	s.updateNextSend(interval)

	s.wg.Add(1)
	go s.runPeriodicMetrics(interval)

	return nil
}

// StopPeriodicMetrics stops the periodic metrics push
func (s *MetricsServiceImpl) StopPeriodicMetrics() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	if s.ticker != nil {
		s.ticker.Stop()
	}

	// Signal goroutine to stop
	close(s.stopChan)
	s.wg.Wait()

	// Send final metrics before stopping
	if err := s.sendMetrics(); err != nil {
		ctx := context.Background()
		s.logger.Warn(ctx, "Failed to send final metrics", domain.NewField("error", err.Error()))
		// Don't fail shutdown due to metrics error
	}

	s.isRunning = false
	s.stopChan = make(chan struct{}) // Reset for potential restart

	return nil
}

// SendCurrentMetrics sends the current metrics immediately
func (s *MetricsServiceImpl) SendCurrentMetrics() error {
	if s.config == nil {
		return usecase.NewMetricsServiceError("invalid_config", "prometheus config is nil")
	}
	return s.sendMetrics()
}

// runPeriodicMetrics runs the periodic metrics push loop
func (s *MetricsServiceImpl) runPeriodicMetrics(interval time.Duration) {
	defer s.wg.Done()

	for {
		select {
		case <-s.ticker.C:
			if err := s.sendMetrics(); err != nil {
				ctx := context.Background()
				s.logger.Warn(ctx, "Failed to send periodic metrics", domain.NewField("error", err.Error()))
				// Continue running even if metrics fail
			}
			s.updateNextSend(interval)
		case <-s.stopChan:
			return
		}
	}
}

// sendMetrics pushes the counter snapshot and process uptime
func (s *MetricsServiceImpl) sendMetrics() error {
	ctx := context.Background()
	counts := s.Snapshot()

	if err := s.metricsRepo.SendConversionMetrics(counts, s.config.HostLabel); err != nil {
		if s.statusService != nil {
			_ = s.statusService.RecordError(err)
		}
		return fmt.Errorf("failed to send conversion metrics: %w", err)
	}

	uptime := time.Since(s.startedAt).Seconds()
	if err := s.metricsRepo.SendUptimeMetric(uptime, s.config.HostLabel); err != nil {
		if s.statusService != nil {
			_ = s.statusService.RecordError(err)
		}
		return fmt.Errorf("failed to send uptime metric: %w", err)
	}

	if s.statusService != nil {
		_ = s.statusService.UpdateLastMetricsSent(time.Now())
		_ = s.statusService.UpdateConversionCounts(counts.Succeeded(), counts.TotalFailures())
		_ = s.statusService.ClearError()
	}

	s.logger.Info(ctx, "Successfully sent conversion metrics",
		domain.NewField("conversions", counts.Succeeded()),
		domain.NewField("failures", counts.TotalFailures()))

	return nil
}

// updateNextSend records when the next push is due
func (s *MetricsServiceImpl) updateNextSend(interval time.Duration) {
	if s.statusService == nil {
		return
	}
	_ = s.statusService.UpdateNextMetricsSend(time.Now().Add(interval))
}
