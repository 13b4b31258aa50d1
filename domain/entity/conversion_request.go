package entity

import (
	"fmt"
)

// ConversionRequest represents a request to convert a wall-clock time from one
// named timezone to another. Construction validates presence only; format and
// zone validation belong to the conversion pipeline.
type ConversionRequest struct {
	civilTime  string
	sourceZone string
	targetZone string
}

// NewConversionRequest creates a new ConversionRequest with validation
func NewConversionRequest(civilTime string, sourceZone string, targetZone string) (*ConversionRequest, error) {
	// Validate required fields
	if civilTime == "" {
		return nil, fmt.Errorf("time cannot be empty")
	}
	if sourceZone == "" {
		return nil, fmt.Errorf("source timezone cannot be empty")
	}
	if targetZone == "" {
		return nil, fmt.Errorf("target timezone cannot be empty")
	}

	return &ConversionRequest{
		civilTime:  civilTime,
		sourceZone: sourceZone,
		targetZone: targetZone,
	}, nil
}

// Time returns the civil time string to convert
func (r *ConversionRequest) Time() string {
	return r.civilTime
}

// SourceZone returns the source timezone identifier
func (r *ConversionRequest) SourceZone() string {
	return r.sourceZone
}

// TargetZone returns the target timezone identifier
func (r *ConversionRequest) TargetZone() string {
	return r.targetZone
}
