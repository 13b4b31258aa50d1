package usecase

import (
	"github.com/ca-srg/tzbridge/domain/entity"
)

// ConverterService defines the interface for civil time conversion use cases
type ConverterService interface {
	// Convert projects the request's civil time from the source timezone
	// into the target timezone, preserving the absolute instant
	Convert(request *entity.ConversionRequest) (*ConvertResult, error)

	// CurrentTime reports the current civil time in the given timezone.
	// An empty timezone falls back to the system timezone.
	CurrentTime(timezone string) (*CurrentTimeResult, error)
}

// ZoneView describes one side of a conversion
type ZoneView struct {
	// Time is the civil time in HH:MM 24-hour notation
	Time string

	// Timezone is the IANA timezone identifier
	Timezone string

	// Offset is the UTC offset in the format "+09:00" or "-05:00"
	Offset string

	// IsDST indicates whether daylight saving time is active
	IsDST bool
}

// ConvertResult contains the outcome of a successful conversion
type ConvertResult struct {
	// ConvertedTime is the civil time in the target timezone, HH:MM
	ConvertedTime string

	// Source describes the request's civil time as resolved in the source timezone
	Source ZoneView

	// Target describes the same instant as observed in the target timezone
	Target ZoneView
}

// CurrentTimeResult reports the current civil time in a timezone
type CurrentTimeResult struct {
	// Timezone is the IANA timezone identifier the time is reported in
	Timezone string

	// DateTime is the full instant in RFC 3339 format
	DateTime string

	// Time is the civil time in HH:MM 24-hour notation
	Time string

	// Date is the civil date in YYYY-MM-DD format
	Date string

	// Offset is the UTC offset in the format "+09:00" or "-05:00"
	Offset string

	// IsDST indicates whether daylight saving time is active
	IsDST bool

	// DetectionMethod indicates how the timezone was determined
	// Values: "request", "config", "system", "env", "fallback"
	DetectionMethod string
}

// UseCaseError represents an error from use case operations
type UseCaseError struct {
	Code    string
	Message string
	Details map[string]interface{}
}

func (e *UseCaseError) Error() string {
	return e.Message
}

// NewUseCaseError creates a new use case error
func NewUseCaseError(code, message string) *UseCaseError {
	return &UseCaseError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// WithDetail adds a detail to the error
func (e *UseCaseError) WithDetail(key string, value interface{}) *UseCaseError {
	e.Details[key] = value
	return e
}
