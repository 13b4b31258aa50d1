package valueobject

// ConversionCounts represents cumulative conversion counters since process
// start, snapshotted for a metrics push
type ConversionCounts struct {
	succeeded int64
	failures  map[string]int64
}

// NewConversionCounts creates a ConversionCounts snapshot. The failures map is
// keyed by failure code and is copied defensively.
func NewConversionCounts(succeeded int64, failures map[string]int64) ConversionCounts {
	copied := make(map[string]int64, len(failures))
	for code, count := range failures {
		copied[code] = count
	}
	return ConversionCounts{
		succeeded: succeeded,
		failures:  copied,
	}
}

// NewEmptyConversionCounts creates an empty ConversionCounts
func NewEmptyConversionCounts() ConversionCounts {
	return ConversionCounts{failures: map[string]int64{}}
}

// Succeeded returns the number of successful conversions
func (c ConversionCounts) Succeeded() int64 {
	return c.succeeded
}

// Failures returns a copy of the per-code failure counts
func (c ConversionCounts) Failures() map[string]int64 {
	copied := make(map[string]int64, len(c.failures))
	for code, count := range c.failures {
		copied[code] = count
	}
	return copied
}

// TotalFailures returns the number of failed conversions across all codes
func (c ConversionCounts) TotalFailures() int64 {
	var total int64
	for _, count := range c.failures {
		total += count
	}
	return total
}

// Total returns the number of conversion attempts
func (c ConversionCounts) Total() int64 {
	return c.succeeded + c.TotalFailures()
}

// IsEmpty checks if no conversions have been recorded
func (c ConversionCounts) IsEmpty() bool {
	return c.Total() == 0
}
