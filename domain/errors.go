package domain

import (
	"fmt"
)

// ErrorCode represents the type of domain error
type ErrorCode string

const (
	// ErrCodeInvalidTimezone indicates that a timezone identifier is not known
	// to the zoneinfo database
	ErrCodeInvalidTimezone ErrorCode = "INVALID_TIMEZONE"

	// ErrCodeInvalidTimeFormat indicates that a time string does not match the
	// 24-hour HH:MM format
	ErrCodeInvalidTimeFormat ErrorCode = "INVALID_TIME_FORMAT"

	// ErrCodeSkippedTime indicates a civil time that never occurred because
	// clocks jumped forward over it
	ErrCodeSkippedTime ErrorCode = "SKIPPED_TIME"

	// ErrCodeAmbiguousTime indicates a civil time that occurred twice because
	// clocks fell back over it
	ErrCodeAmbiguousTime ErrorCode = "AMBIGUOUS_TIME"

	// ErrCodeConversionFailed indicates that target-zone projection produced no
	// valid instant
	ErrCodeConversionFailed ErrorCode = "CONVERSION_FAILED"

	// ErrCodeSystemError indicates an unanticipated failure in the underlying
	// date/time computation
	ErrCodeSystemError ErrorCode = "SYSTEM_ERROR"

	// ErrCodeConfig indicates a configuration loading or validation error
	ErrCodeConfig ErrorCode = "CONFIG_ERROR"

	// ErrCodeMetrics indicates a metrics collection or push error
	ErrCodeMetrics ErrorCode = "METRICS_ERROR"

	// ErrCodeNetwork indicates a network communication error
	ErrCodeNetwork ErrorCode = "NETWORK_ERROR"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// WithDetails adds details to the error
func (e *DomainError) WithDetails(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(code ErrorCode, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// NewDomainErrorWithCause creates a new domain error with an underlying cause
func NewDomainErrorWithCause(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Err:     err,
	}
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) ErrorCode {
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr.Code
	}
	return ""
}

// Conversion errors

// ErrInvalidTimezone creates an invalid timezone error. The role identifies
// which side of the conversion carried the bad identifier ("source" or "target").
func ErrInvalidTimezone(zone string, role string) *DomainError {
	return NewDomainError(ErrCodeInvalidTimezone, fmt.Sprintf("unknown timezone: %s", zone)).
		WithDetails("zone", zone).
		WithDetails("role", role)
}

// ErrInvalidTimezoneWithCause creates an invalid timezone error with cause
func ErrInvalidTimezoneWithCause(zone string, role string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeInvalidTimezone, fmt.Sprintf("unknown timezone: %s", zone), err).
		WithDetails("zone", zone).
		WithDetails("role", role)
}

// ErrInvalidTimeFormat creates an invalid time format error
func ErrInvalidTimeFormat(timeStr string) *DomainError {
	return NewDomainError(ErrCodeInvalidTimeFormat, fmt.Sprintf("invalid time format: %s, expected HH:MM in 24-hour notation", timeStr)).
		WithDetails("time", timeStr)
}

// ErrInvalidTimeFormatWithCause creates an invalid time format error with cause
func ErrInvalidTimeFormatWithCause(timeStr string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeInvalidTimeFormat, fmt.Sprintf("invalid time format: %s, expected HH:MM in 24-hour notation", timeStr), err).
		WithDetails("time", timeStr)
}

// ErrSkippedTime creates a skipped time error for a civil time that falls in a
// spring-forward gap. before and after are the RFC 3339 instants bracketing the gap.
func ErrSkippedTime(timeStr string, zone string, before string, after string) *DomainError {
	return NewDomainError(ErrCodeSkippedTime, fmt.Sprintf("time %s was skipped in %s by a daylight saving transition", timeStr, zone)).
		WithDetails("time", timeStr).
		WithDetails("timezone", zone).
		WithDetails("before", before).
		WithDetails("after", after)
}

// ErrAmbiguousTime creates an ambiguous time error for a civil time that occurs
// twice during a fall-back transition. first and second are the RFC 3339
// candidate instants in chronological order.
func ErrAmbiguousTime(timeStr string, zone string, first string, second string) *DomainError {
	return NewDomainError(ErrCodeAmbiguousTime, fmt.Sprintf("time %s occurs twice in %s during a daylight saving transition", timeStr, zone)).
		WithDetails("time", timeStr).
		WithDetails("timezone", zone).
		WithDetails("first", first).
		WithDetails("second", second)
}

// ErrConversionFailed creates a conversion failure error
func ErrConversionFailed(zone string, reason string) *DomainError {
	return NewDomainError(ErrCodeConversionFailed, fmt.Sprintf("conversion to %s failed: %s", zone, reason)).
		WithDetails("zone", zone).
		WithDetails("reason", reason)
}

// ErrConversionFailedWithCause creates a conversion failure error with cause
func ErrConversionFailedWithCause(zone string, reason string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeConversionFailed, fmt.Sprintf("conversion to %s failed: %s", zone, reason), err).
		WithDetails("zone", zone).
		WithDetails("reason", reason)
}

// ErrSystemError creates a system error for unanticipated failures
func ErrSystemError(operation string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeSystemError, fmt.Sprintf("unexpected failure in %s", operation), err).
		WithDetails("operation", operation)
}

// Infrastructure errors

// ErrConfig creates a configuration error
func ErrConfig(operation string, reason string) *DomainError {
	return NewDomainError(ErrCodeConfig, fmt.Sprintf("config error in %s: %s", operation, reason)).
		WithDetails("operation", operation).
		WithDetails("reason", reason)
}

// ErrConfigWithCause creates a configuration error with cause
func ErrConfigWithCause(operation string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeConfig, fmt.Sprintf("config error in %s", operation), err).
		WithDetails("operation", operation)
}

// ErrMetrics creates a metrics error
func ErrMetrics(operation string, reason string) *DomainError {
	return NewDomainError(ErrCodeMetrics, fmt.Sprintf("metrics error in %s: %s", operation, reason)).
		WithDetails("operation", operation).
		WithDetails("reason", reason)
}

// ErrMetricsWithCause creates a metrics error with cause
func ErrMetricsWithCause(operation string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeMetrics, fmt.Sprintf("metrics error in %s", operation), err).
		WithDetails("operation", operation)
}

// ErrNetwork creates a network error
func ErrNetwork(operation string, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeNetwork, fmt.Sprintf("network error in %s", operation), err).
		WithDetails("operation", operation)
}
