package valueobject

import (
	"fmt"
	"time"
)

// ZonedInstant represents a resolved point in time anchored to a named
// timezone. It lives only for the duration of one conversion.
type ZonedInstant struct {
	t    time.Time
	zone string
}

// NewZonedInstant creates a ZonedInstant from an already-anchored time value
func NewZonedInstant(t time.Time, zone string) ZonedInstant {
	return ZonedInstant{t: t, zone: zone}
}

// Time returns the underlying time value
func (z ZonedInstant) Time() time.Time {
	return z.t
}

// Zone returns the timezone identifier the instant is anchored to
func (z ZonedInstant) Zone() string {
	return z.zone
}

// CivilTime returns the wall-clock time as zero-padded HH:MM
func (z ZonedInstant) CivilTime() string {
	return z.t.Format("15:04")
}

// OffsetSeconds returns the UTC offset in seconds at this instant
func (z ZonedInstant) OffsetSeconds() int {
	_, offset := z.t.Zone()
	return offset
}

// Offset returns the UTC offset formatted as signed ±HH:MM
func (z ZonedInstant) Offset() string {
	return FormatOffset(z.OffsetSeconds())
}

// IsDST reports whether daylight saving time is in effect at this instant
func (z ZonedInstant) IsDST() bool {
	return z.t.IsDST()
}

// RFC3339 returns the instant formatted as an RFC 3339 timestamp
func (z ZonedInstant) RFC3339() string {
	return z.t.Format(time.RFC3339)
}

// FormatOffset formats a UTC offset in seconds as signed ±HH:MM
func FormatOffset(offsetSeconds int) string {
	sign := "+"
	if offsetSeconds < 0 {
		sign = "-"
		offsetSeconds = -offsetSeconds
	}
	hours := offsetSeconds / 3600
	minutes := (offsetSeconds % 3600) / 60
	return fmt.Sprintf("%s%02d:%02d", sign, hours, minutes)
}
