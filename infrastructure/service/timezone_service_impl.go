package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ca-srg/tzbridge/domain"
	"github.com/ca-srg/tzbridge/domain/repository"
	"github.com/ca-srg/tzbridge/domain/valueobject"
	"github.com/ca-srg/tzbridge/infrastructure/config"
)

// TimezoneServiceImpl implements the TimezoneService interface
type TimezoneServiceImpl struct {
	config          *config.AppConfig
	logger          domain.Logger
	cacheMu         sync.RWMutex
	locations       map[string]*time.Location
	systemMu        sync.RWMutex
	systemLocation  *time.Location
	detectionMethod string
	detectionMu     sync.Mutex
}

// NewTimezoneServiceImpl creates a new instance of TimezoneServiceImpl
func NewTimezoneServiceImpl(config *config.AppConfig, logger domain.Logger) *TimezoneServiceImpl {
	return &TimezoneServiceImpl{
		config:    config,
		logger:    logger,
		locations: make(map[string]*time.Location),
	}
}

// LoadLocation resolves an IANA timezone identifier to a Location.
// Resolved locations are cached; the zone database is only consulted once
// per distinct identifier.
func (s *TimezoneServiceImpl) LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return nil, fmt.Errorf("timezone name is empty")
	}

	s.cacheMu.RLock()
	if loc, ok := s.locations[name]; ok {
		s.cacheMu.RUnlock()
		return loc, nil
	}
	s.cacheMu.RUnlock()

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, err
	}

	s.cacheMu.Lock()
	s.locations[name] = loc
	s.cacheMu.Unlock()

	return loc, nil
}

// IsValidTimezone reports whether name resolves against the zone database
func (s *TimezoneServiceImpl) IsValidTimezone(name string) bool {
	_, err := s.LoadLocation(name)
	return err == nil
}

// SystemTimezone returns the timezone the host process runs in
func (s *TimezoneServiceImpl) SystemTimezone() (*time.Location, error) {
	s.systemMu.RLock()
	if s.systemLocation != nil {
		loc := s.systemLocation
		s.systemMu.RUnlock()
		return loc, nil
	}
	s.systemMu.RUnlock()

	return s.detectSystemTimezone()
}

// GetTimezoneInfo returns timezone information for a location at a given instant
func (s *TimezoneServiceImpl) GetTimezoneInfo(loc *time.Location, at time.Time) repository.TimezoneInfo {
	local := at.In(loc)
	_, offset := local.Zone()

	return repository.TimezoneInfo{
		Name:            loc.String(),
		Offset:          valueobject.FormatOffset(offset),
		OffsetSeconds:   offset,
		IsDST:           local.IsDST(),
		DetectionMethod: "request",
	}
}

// GetSystemTimezoneInfo returns timezone information for the host timezone
func (s *TimezoneServiceImpl) GetSystemTimezoneInfo() repository.TimezoneInfo {
	loc, err := s.SystemTimezone()
	if err != nil || loc == nil {
		return repository.TimezoneInfo{
			Name:            "UTC",
			Offset:          "+00:00",
			OffsetSeconds:   0,
			IsDST:           false,
			DetectionMethod: "fallback",
		}
	}

	info := s.GetTimezoneInfo(loc, time.Now())
	s.systemMu.RLock()
	info.DetectionMethod = s.detectionMethod
	s.systemMu.RUnlock()

	return info
}

// detectSystemTimezone detects the system timezone
func (s *TimezoneServiceImpl) detectSystemTimezone() (*time.Location, error) {
	s.detectionMu.Lock()
	defer s.detectionMu.Unlock()

	// Another caller may have finished detection while we waited
	s.systemMu.RLock()
	if s.systemLocation != nil {
		loc := s.systemLocation
		s.systemMu.RUnlock()
		return loc, nil
	}
	s.systemMu.RUnlock()

	// Configured override wins over detection
	if tz := s.configuredTimezone(); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err == nil {
			s.logger.Debug(context.Background(), "Using configured timezone",
				domain.NewField("timezone", loc.String()))
			s.setSystemLocation(loc, "config")
			return loc, nil
		}
		s.logger.Warn(context.Background(), "Failed to load configured timezone, falling back to detection",
			domain.NewField("timezone", tz),
			domain.NewField("error", err.Error()))
	}

	// Method 1: Use time.Local (most reliable)
	loc := time.Local
	if loc != nil && loc.String() != "Local" {
		s.logger.Debug(context.Background(), "Detected timezone using time.Local",
			domain.NewField("timezone", loc.String()))
		s.setSystemLocation(loc, "system")
		return loc, nil
	}

	// Method 2: Check TZ environment variable
	if tzEnv := os.Getenv("TZ"); tzEnv != "" {
		loc, err := time.LoadLocation(tzEnv)
		if err == nil {
			s.logger.Debug(context.Background(), "Detected timezone from TZ environment variable",
				domain.NewField("timezone", loc.String()))
			s.setSystemLocation(loc, "env")
			return loc, nil
		}
		s.logger.Warn(context.Background(), "Failed to load timezone from TZ environment variable",
			domain.NewField("TZ", tzEnv),
			domain.NewField("error", err.Error()))
	}

	// Method 3: Read /etc/localtime symlink (Unix/Linux)
	if linkPath, err := os.Readlink("/etc/localtime"); err == nil {
		// Extract timezone name from path (e.g., /usr/share/zoneinfo/America/New_York)
		parts := strings.Split(linkPath, "/zoneinfo/")
		if len(parts) > 1 {
			loc, err := time.LoadLocation(parts[1])
			if err == nil {
				s.logger.Debug(context.Background(), "Detected timezone from /etc/localtime",
					domain.NewField("timezone", loc.String()))
				s.setSystemLocation(loc, "system")
				return loc, nil
			}
		}
	}

	// Fallback to UTC
	s.logger.Warn(context.Background(), "Failed to detect system timezone, using UTC as fallback")
	s.setSystemLocation(time.UTC, "fallback")
	return time.UTC, nil
}

// configuredTimezone returns the configured timezone override, if any
func (s *TimezoneServiceImpl) configuredTimezone() string {
	if s.config == nil || s.config.Converter == nil {
		return ""
	}
	return s.config.Converter.DefaultTimezone
}

// setSystemLocation records the detected location with proper locking
func (s *TimezoneServiceImpl) setSystemLocation(loc *time.Location, method string) {
	s.systemMu.Lock()
	defer s.systemMu.Unlock()
	s.systemLocation = loc
	s.detectionMethod = method
}
