package repository

import (
	"time"
)

// TimezoneService defines the interface for timezone resolution and inspection
type TimezoneService interface {
	// LoadLocation resolves an IANA timezone identifier to a Location.
	// Identifiers are matched exactly as the zone database spells them;
	// there is no case folding or abbreviation support.
	LoadLocation(name string) (*time.Location, error)

	// IsValidTimezone reports whether name resolves against the zone database
	IsValidTimezone(name string) bool

	// SystemTimezone returns the timezone the host process runs in
	SystemTimezone() (*time.Location, error)

	// GetTimezoneInfo returns timezone information for a location at a given instant
	GetTimezoneInfo(loc *time.Location, at time.Time) TimezoneInfo

	// GetSystemTimezoneInfo returns timezone information for the host timezone
	GetSystemTimezoneInfo() TimezoneInfo
}

// TimezoneInfo contains timezone information for responses, logging and metrics
type TimezoneInfo struct {
	// Name is the timezone name (e.g., "America/New_York", "Asia/Tokyo")
	Name string

	// Offset is the UTC offset in the format "+09:00" or "-05:00"
	Offset string

	// OffsetSeconds is the offset from UTC in seconds
	OffsetSeconds int

	// IsDST indicates whether daylight saving time is active at the observed instant
	IsDST bool

	// DetectionMethod indicates how the timezone was determined
	// Values: "request", "config", "system", "env", "fallback"
	DetectionMethod string
}
